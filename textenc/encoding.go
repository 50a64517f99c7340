// Package textenc is the concrete "Encoding" collaborator the reader
// package depends on: a name, a single-byte flag, an optional preamble, a
// max-char-count estimator, and an incremental decoder that turns source
// bytes into fixed-width-16 code units. It is built entirely on
// golang.org/x/text; the only standard-library text pieces are
// unicode/utf16 and unicode/utf8, because no package in the example corpus models text in terms of
// 16-bit code units the way this system is specified.
package textenc

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	xtext "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder incrementally converts source bytes into 16-bit code units.
// A single call may consume fewer bytes than len(src) when the tail of src
// holds an incomplete multi-byte scalar; those bytes must be represented
// again, prefixed to the next call's src, once more data is available.
type Decoder interface {
	Decode(src []byte, dst []uint16) (bytesUsed, charsProduced int, err error)
	Reset()
}

// Encoding describes a text encoding this reader can decode.
type Encoding interface {
	// Name is the canonical, lowercase encoding identity, e.g. "utf-8",
	// "utf-16le", "windows-1252".
	Name() string
	// IsSingleByte reports whether every byte value maps to exactly one
	// code unit, enabling the tracker's byte-offset-equals-char-index
	// fast path.
	IsSingleByte() bool
	// Preamble returns the byte-order-mark-style preamble this encoding
	// is detected by, or nil if it has none.
	Preamble() []byte
	// MaxCharCount returns an upper bound on the number of code units a
	// buffer of byteCount bytes can decode to.
	MaxCharCount(byteCount int) int
	// NewDecoder returns a fresh incremental decoder for this encoding.
	NewDecoder() Decoder
}

type xtextEncoding struct {
	enc        xtext.Encoding
	name       string
	singleByte bool
	preamble   []byte
}

func (e *xtextEncoding) Name() string          { return e.name }
func (e *xtextEncoding) IsSingleByte() bool     { return e.singleByte }
func (e *xtextEncoding) Preamble() []byte       { return e.preamble }
func (e *xtextEncoding) MaxCharCount(n int) int { return n }

func (e *xtextEncoding) NewDecoder() Decoder {
	return &transformDecoder{transformer: e.enc.NewDecoder()}
}

// UTF8 returns the UTF-8 encoding, identified by the 3-byte preamble
// EF BB BF. The underlying x/text transformer is configured to ignore any
// BOM it sees, because preamble detection and removal is the reader's
// responsibility (it must be excluded from the character accounting, not
// silently swallowed by the decoder).
func UTF8() Encoding {
	return &xtextEncoding{
		enc:        unicode.UTF8,
		name:       "utf-8",
		singleByte: false,
		preamble:   []byte{0xEF, 0xBB, 0xBF},
	}
}

// UTF16LE returns little-endian UTF-16, preamble FF FE.
func UTF16LE() Encoding {
	return &xtextEncoding{
		enc:        unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
		name:       "utf-16le",
		singleByte: false,
		preamble:   []byte{0xFF, 0xFE},
	}
}

// UTF16BE returns big-endian UTF-16, preamble FE FF.
func UTF16BE() Encoding {
	return &xtextEncoding{
		enc:        unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
		name:       "utf-16be",
		singleByte: false,
		preamble:   []byte{0xFE, 0xFF},
	}
}

// SingleByte resolves name (e.g. "windows-1252", "iso-8859-1") to a
// single-byte code page via golang.org/x/text/encoding/htmlindex. It
// returns an error if name does not resolve to a single-byte encoding.
func SingleByte(name string) (Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("textenc: unknown encoding %q: %w", name, err)
	}
	if _, ok := enc.(*charmap.Charmap); !ok {
		return nil, fmt.Errorf("textenc: %q is not a single-byte encoding", name)
	}
	canonical, _ := htmlindex.Name(enc)
	return &xtextEncoding{
		enc:        enc,
		name:       strings.ToLower(canonical),
		singleByte: true,
		preamble:   nil,
	}, nil
}

// Lookup resolves a canonical encoding name to an Encoding, enforcing the
// supported-encoding gate: accepted iff the encoding is single-byte, or its
// canonical name is "utf-8", or its canonical name starts with "utf-16".
func Lookup(name string) (Encoding, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch {
	case lower == "utf-8" || lower == "utf8":
		return UTF8(), nil
	case lower == "utf-16le":
		return UTF16LE(), nil
	case lower == "utf-16be":
		return UTF16BE(), nil
	case strings.HasPrefix(lower, "utf-16"):
		// Bare "utf-16" with no declared endianness defaults to little
		// endian, matching the platform-native convention most callers
		// expect when they don't state one.
		return UTF16LE(), nil
	}
	return SingleByte(lower)
}

// transformDecoder adapts an x/text encoding.Decoder (a transform.Transformer
// that emits UTF-8) into the Decoder contract of 16-bit code units.
type transformDecoder struct {
	transformer *xtext.Decoder
	scratch     []byte
}

func (d *transformDecoder) Reset() {
	d.transformer.Reset()
}

func (d *transformDecoder) Decode(src []byte, dst []uint16) (int, int, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}
	// A single source byte can expand to as many as utf8.UTFMax UTF-8
	// bytes (e.g. a single-byte code page mapping one byte to a BMP
	// character outside ASCII), so the intermediate buffer must be sized
	// for worst-case expansion, not a 1:1 copy.
	need := len(src) * utf8.UTFMax
	if cap(d.scratch) < need {
		d.scratch = make([]byte, need)
	}
	buf := d.scratch[:need]

	nDst, nSrc, terr := d.transformer.Transform(buf, src, false)
	if terr != nil && terr != transform.ErrShortSrc && terr != transform.ErrShortDst {
		return nSrc, 0, fmt.Errorf("textenc: decode failed: %w", terr)
	}

	decoded := buf[:nDst]
	produced := 0
	for i := 0; i < len(decoded); {
		r, size := utf8.DecodeRune(decoded[i:])
		if r == utf8.RuneError && size <= 1 {
			return nSrc, produced, fmt.Errorf("textenc: malformed byte sequence in decoded output")
		}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			dst[produced] = uint16(hi)
			dst[produced+1] = uint16(lo)
			produced += 2
		} else {
			dst[produced] = uint16(r)
			produced++
		}
		i += size
	}
	return nSrc, produced, nil
}
