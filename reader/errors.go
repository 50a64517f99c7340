package reader

import "errors"

// Sentinel errors, for errors.Is comparisons. Every return site wraps them
// with %w for call-site context, matching the plain-stdlib error style used
// throughout this module.
var (
	// ErrUnsupportedEncoding is returned at construction time when the
	// supplied encoding is neither single-byte, UTF-8, nor UTF-16.
	ErrUnsupportedEncoding = errors.New("reader: unsupported encoding")

	// ErrUnsupportedOperation is returned by a caller-facing seam that
	// dynamically dispatches to a read primitive this reader does not
	// offer, such as cmd/bookline's config- or flag-driven -op dispatch
	// table routing to "char", "peek", or "readall".
	ErrUnsupportedOperation = errors.New("reader: unsupported operation")

	// ErrIO wraps any error surfaced by the underlying byte source or the
	// text decoder.
	ErrIO = errors.New("reader: I/O error")

	// ErrInvalidBookmark is returned by ResumeFromBookmark when the target
	// position lies past the end of the stream, or inside a known
	// preamble without being bookmark.Start.
	ErrInvalidBookmark = errors.New("reader: invalid bookmark")
)
