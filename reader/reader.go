// Package reader implements the bookmarking line reader: it drives a byte
// source through a text encoding, feeds a position tracker on every
// refill, scans for line terminators, and emits one DetailedLine at a
// time. Every line carries enough metadata that a fresh reader, seeded
// with a bookmark taken from it, resumes byte-identically.
package reader

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/treetopinnovationab/BookmarkingStreamReader/bookmark"
	"github.com/treetopinnovationab/BookmarkingStreamReader/bytesource"
	"github.com/treetopinnovationab/BookmarkingStreamReader/internal/postrack"
	"github.com/treetopinnovationab/BookmarkingStreamReader/textenc"
)

// Reader reads lines from a byte source one at a time, tracking byte and
// character position precisely enough to support resume-from-bookmark.
//
// A Reader is single-threaded cooperative: it performs blocking reads
// against the byte source and never yields internally. Two concurrent
// calls to ReadDetailedLine on one Reader are undefined behavior.
//
// Deliberately absent: raw character read, single-character peek, and
// read-to-end. Offering them would let a caller consume characters
// without the tracker's metadata being updated, desynchronizing every
// bookmark issued afterward. There is no method for them; that is the
// point.
type Reader struct {
	id      uuid.UUID
	src     bytesource.Source
	enc     textenc.Encoding
	decoder textenc.Decoder
	tracker *postrack.Tracker

	detectPreamble bool

	rawBuf          []byte
	rawLen          int
	sourceEOF       bool
	preambleChecked bool

	charBuf    []uint16
	charCount  int
	charCursor int

	pendingStartSentinel bool
	debugHook            func(string)
	closed               bool
}

// New constructs a Reader over src, decoding bytes with enc. enc must be
// accepted by the supported-encoding gate: single-byte, UTF-8, or
// UTF-16(LE/BE); otherwise New returns ErrUnsupportedEncoding.
func New(src bytesource.Source, enc textenc.Encoding, opts ...Option) (*Reader, error) {
	if !isSupportedEncoding(enc) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, enc.Name())
	}

	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.bufferSize < minimumBufferSize {
		cfg.bufferSize = minimumBufferSize
	}

	r := &Reader{
		id:                   uuid.New(),
		src:                  src,
		enc:                  enc,
		decoder:              enc.NewDecoder(),
		tracker:              postrack.New(),
		detectPreamble:       cfg.detectPreamble,
		rawBuf:               make([]byte, cfg.bufferSize),
		charBuf:              make([]uint16, enc.MaxCharCount(cfg.bufferSize)),
		pendingStartSentinel: true,
	}
	return r, nil
}

func isSupportedEncoding(enc textenc.Encoding) bool {
	if enc.IsSingleByte() {
		return true
	}
	name := enc.Name()
	return name == "utf-8" || strings.HasPrefix(name, "utf-16")
}

// ID returns this Reader's identity, stable for its lifetime. It has no
// bearing on stream contents; it exists so a caller juggling several
// concurrent Readers (e.g. over different files) can tell them apart in
// logs without threading its own label through.
func (r *Reader) ID() uuid.UUID {
	return r.id
}

// SetDebugHook installs fn as a diagnostic sink. fn receives free-form
// progress messages; pass nil to disable. Zero-cost when nil.
func (r *Reader) SetDebugHook(fn func(string)) {
	r.debugHook = fn
}

func (r *Reader) debugf(format string, args ...interface{}) {
	if r.debugHook == nil {
		return
	}
	r.debugHook(fmt.Sprintf("[%s] %s", r.id, fmt.Sprintf(format, args...)))
}

// Close releases the underlying byte source.
func (r *Reader) Close() error {
	r.closed = true
	return r.src.Close()
}

// ResumeFromBeginning seeks back to the very start of the stream and
// re-detects the preamble on the next refill, exactly like a freshly
// constructed Reader.
func (r *Reader) ResumeFromBeginning() error {
	if err := r.src.Seek(0); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	r.tracker.ForgetState()
	r.resetBuffers()
	r.preambleChecked = false
	r.pendingStartSentinel = true
	r.debugf("reader: resumed from beginning")
	return nil
}

// ResumeFromBookmark seeks the byte source to bm.Position and reseeds the
// position tracker at (bm.Position, bm.CharIndex), so the next
// ReadDetailedLine call continues exactly from that point. bm ==
// bookmark.Start is equivalent to ResumeFromBeginning.
func (r *Reader) ResumeFromBookmark(bm bookmark.LineBookmark) error {
	if bm.IsStart() {
		return r.ResumeFromBeginning()
	}
	if !bm.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidBookmark, bm.String())
	}
	if length, err := r.src.Length(); err == nil && bm.Position > length {
		return fmt.Errorf("%w: position %d past end of stream (length %d)", ErrInvalidBookmark, bm.Position, length)
	}
	if pre := r.enc.Preamble(); r.detectPreamble && len(pre) > 0 && bm.Position > 0 && bm.Position < int64(len(pre)) {
		if err := r.src.Seek(0); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		head := make([]byte, len(pre))
		if n, _ := io.ReadFull(r.src, head); n == len(pre) && bytes.Equal(head, pre) {
			return fmt.Errorf("%w: position %d falls inside the encoding preamble", ErrInvalidBookmark, bm.Position)
		}
	}

	if err := r.src.Seek(bm.Position); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	r.tracker.MovedToPosition(bm.Position, bm.CharIndex)
	r.resetBuffers()
	r.preambleChecked = true
	r.pendingStartSentinel = false
	r.debugf("reader: resumed from bookmark %s", bm.String())
	return nil
}

func (r *Reader) resetBuffers() {
	r.rawLen = 0
	r.sourceEOF = false
	r.charCount = 0
	r.charCursor = 0
	r.decoder.Reset()
}

// ReadDetailedLine returns the next line and true, or an empty DetailedLine
// and false once the stream is exhausted with no pending text remaining.
func (r *Reader) ReadDetailedLine() (DetailedLine, bool, error) {
	if r.closed {
		return DetailedLine{}, false, fmt.Errorf("%w: reader is closed", ErrIO)
	}

	before := r.currentBookmark()

	if r.charCursor >= r.charCount {
		more, err := r.fillBuffer()
		if err != nil {
			return DetailedLine{}, false, err
		}
		if !more {
			return DetailedLine{}, false, nil
		}
	}

	startBytePos := r.tracker.AbsoluteBytePositionOfCharIndex(r.charCursor)

	var text []uint16
	ending := None

scan:
	for {
		if r.charCursor >= r.charCount {
			more, err := r.fillBuffer()
			if err != nil {
				return DetailedLine{}, false, err
			}
			if !more {
				break scan
			}
			continue
		}

		unit := r.charBuf[r.charCursor]
		switch unit {
		case '\r':
			r.charCursor++
			if r.charCursor >= r.charCount {
				if _, err := r.fillBuffer(); err != nil {
					return DetailedLine{}, false, err
				}
			}
			if r.charCursor < r.charCount && r.charBuf[r.charCursor] == '\n' {
				r.charCursor++
				ending = CRLF
			} else {
				ending = CR
			}
			break scan
		case '\n':
			r.charCursor++
			ending = LF
			break scan
		default:
			text = append(text, unit)
			r.charCursor++
		}
	}

	afterBytePos := r.tracker.AbsoluteBytePositionOfCharIndex(r.charCursor)
	afterCharPos := r.tracker.AbsoluteCharPositionOfCharIndex(r.charCursor)

	line := DetailedLine{
		TextWithoutLineEnding:  string(utf16.Decode(text)),
		LineEnding:             ending,
		StartPosition:          startBytePos,
		LastLineEndingPosition: afterBytePos - 1,
		LastSeenCharIndex:      afterCharPos - 1,
		BeforeReadingBookmark:  before,
	}
	return line, true, nil
}

// currentBookmark reports the bookmark for the position the reader is
// sitting at right now, before any refill this call might trigger.
func (r *Reader) currentBookmark() bookmark.LineBookmark {
	bytePos := r.tracker.AbsoluteBytePositionOfCharIndex(r.charCursor)
	charPos := r.tracker.AbsoluteCharPositionOfCharIndex(r.charCursor)
	if r.pendingStartSentinel && bytePos == 0 && charPos == 0 {
		return bookmark.Start
	}
	return bookmark.New(bytePos, charPos)
}

// fillBuffer reads and decodes the next chunk of the source into the
// character buffer, handing the result to the tracker. It returns false
// once the source is exhausted and no more characters can be produced.
func (r *Reader) fillBuffer() (bool, error) {
	for {
		if !r.sourceEOF && r.rawLen < len(r.rawBuf) {
			n, err := r.src.Read(r.rawBuf[r.rawLen:])
			r.rawLen += n
			if err != nil && err != io.EOF {
				return false, fmt.Errorf("%w: %v", ErrIO, err)
			}
			if err == io.EOF || n == 0 {
				r.sourceEOF = true
			}
		}

		if !r.preambleChecked {
			r.preambleChecked = true
			r.pendingStartSentinel = false
			if r.detectPreamble {
				if pre := r.enc.Preamble(); len(pre) > 0 && r.rawLen >= len(pre) && bytes.Equal(r.rawBuf[:len(pre)], pre) {
					copy(r.rawBuf, r.rawBuf[len(pre):r.rawLen])
					r.rawLen -= len(pre)
					r.tracker.MovedPastPreamble(int64(len(pre)))
					r.debugf("reader: skipped %d-byte preamble", len(pre))
				}
			}
		}

		bytesUsed, charsProduced, err := r.decoder.Decode(r.rawBuf[:r.rawLen], r.charBuf)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrIO, err)
		}

		if charsProduced > 0 || r.sourceEOF {
			r.tracker.ReadBytesAndChars(bytesUsed, charsProduced, r.rawBuf[:bytesUsed], r.enc)
			copy(r.rawBuf, r.rawBuf[bytesUsed:r.rawLen])
			r.rawLen -= bytesUsed
			r.charCount = charsProduced
			r.charCursor = 0
			r.debugf("reader: refilled %d bytes -> %d code units", bytesUsed, charsProduced)
			if charsProduced == 0 {
				return false, nil
			}
			return true, nil
		}

		if r.rawLen == len(r.rawBuf) {
			return false, fmt.Errorf("%w: no character fits in a %d-byte buffer", ErrIO, len(r.rawBuf))
		}
		// Buffer not yet full and no characters decoded: a scalar straddles
		// what's been read so far. Read more before decoding again.
	}
}
