// Package postrack is the position tracker: the single authority on
// byte-to-character correspondence for the buffer a BookmarkingLineReader
// currently holds. It knows nothing about lines; it only answers "where,
// absolutely, does character index k of the current buffer live".
package postrack

import (
	"github.com/treetopinnovationab/BookmarkingStreamReader/internal/advance"
	"github.com/treetopinnovationab/BookmarkingStreamReader/textenc"
)

// Tracker holds the absolute byte offset and absolute character index of
// the start of the current decode buffer, plus the advancer needed to
// resolve positions inside it for multi-byte encodings.
type Tracker struct {
	bufferByteAnchor int64
	bufferCharAnchor int64
	bufferByteLen    int
	bufferCharLen    int

	singleByte bool
	advancer   *advance.Advancer
	info       advance.ByteAdvancementInfo
}

// New returns a tracker anchored at the very start of a stream.
func New() *Tracker {
	return &Tracker{}
}

// MovedToPosition forgets all buffer state and anchors the tracker at
// (bytePos, charIndex). Called on open, on resume, and whenever the reader
// deliberately discards its buffer.
func (t *Tracker) MovedToPosition(bytePos, charIndex int64) {
	t.bufferByteAnchor = bytePos
	t.bufferCharAnchor = charIndex
	t.bufferByteLen = 0
	t.bufferCharLen = 0
	t.singleByte = false
	t.advancer = nil
	t.info = advance.ByteAdvancementInfo{}
}

// MovedPastPreamble advances the byte anchor by n bytes without touching
// the char anchor. Applied exactly once, when the encoding's preamble is
// detected and skipped at the head of the stream.
func (t *Tracker) MovedPastPreamble(n int64) {
	t.bufferByteAnchor += n
}

// ForgetState performs a full reset: anchor to zero, all flags cleared,
// advancer dropped.
func (t *Tracker) ForgetState() {
	t.MovedToPosition(0, 0)
}

// ReadBytesAndChars is called on every refill, after bytes have been
// decoded to characters. It folds the previous buffer's lengths into the
// anchor, records the new buffer's lengths, and (for multi-byte encodings)
// asks the appropriate advancer to build a fresh ByteAdvancementInfo.
func (t *Tracker) ReadBytesAndChars(byteCount, charCount int, bytes []byte, enc textenc.Encoding) {
	t.bufferByteAnchor += int64(t.bufferByteLen)
	t.bufferCharAnchor += int64(t.bufferCharLen)
	t.bufferByteLen = byteCount
	t.bufferCharLen = charCount

	if enc.IsSingleByte() {
		t.singleByte = true
		t.advancer = nil
		t.info = advance.ByteAdvancementInfo{}
		return
	}

	t.singleByte = false
	if t.advancer == nil || t.advancer.Encoding() != enc.Name() {
		t.advancer = newAdvancerFor(enc)
	}
	t.info = t.advancer.Build(bytes[:byteCount])
}

func newAdvancerFor(enc textenc.Encoding) *advance.Advancer {
	switch enc.Name() {
	case "utf-16le":
		return advance.NewUTF16(advance.LittleEndian, enc.Name())
	case "utf-16be":
		return advance.NewUTF16(advance.BigEndian, enc.Name())
	default:
		return advance.NewUTF8()
	}
}

// AbsoluteBytePositionOfCharIndex returns the absolute byte offset at which
// character index k (relative to the buffer's char-start) begins, or -1 if
// k has no mapping in the current buffer.
func (t *Tracker) AbsoluteBytePositionOfCharIndex(k int) int64 {
	if t.singleByte {
		return t.bufferByteAnchor + int64(k)
	}
	for i, ci := range t.info.CharIndexesAtByteIndex {
		if ci >= k {
			if i == 0 && ci == k {
				return t.bufferByteAnchor - int64(t.info.FirstCharExtendsBackByteCount)
			}
			return t.bufferByteAnchor + int64(i)
		}
	}
	if t.info.ExtraIncompleteCharWithByteCount == 0 && k == t.bufferCharLen {
		return t.bufferByteAnchor + int64(t.bufferByteLen)
	}
	return -1
}

// AbsoluteCharPositionOfCharIndex returns the absolute character index for
// buffer-relative character index k, or -1 if k has no mapping in the
// current buffer.
func (t *Tracker) AbsoluteCharPositionOfCharIndex(k int) int64 {
	if t.singleByte {
		return t.bufferCharAnchor + int64(k)
	}
	for _, ci := range t.info.CharIndexesAtByteIndex {
		if ci >= k {
			return t.bufferCharAnchor + int64(ci)
		}
	}
	if t.info.ExtraIncompleteCharWithByteCount == 0 && k == t.bufferCharLen {
		return t.bufferCharAnchor + int64(k)
	}
	return -1
}

// BufferByteAnchor returns the absolute byte offset of the start of the
// current buffer.
func (t *Tracker) BufferByteAnchor() int64 {
	return t.bufferByteAnchor
}

// BufferCharAnchor returns the absolute character index of the start of the
// current buffer.
func (t *Tracker) BufferCharAnchor() int64 {
	return t.bufferCharAnchor
}

// BufferCharLen returns the number of code units decoded into the current
// buffer.
func (t *Tracker) BufferCharLen() int {
	return t.bufferCharLen
}
