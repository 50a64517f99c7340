package reader

import "github.com/treetopinnovationab/BookmarkingStreamReader/bookmark"

// LineEnding identifies how a line was terminated.
type LineEnding int

const (
	// None means end-of-stream was reached without a terminator.
	None LineEnding = iota
	CR
	LF
	CRLF
)

func (le LineEnding) String() string {
	switch le {
	case CR:
		return "CR"
	case LF:
		return "LF"
	case CRLF:
		return "CRLF"
	default:
		return "None"
	}
}

// text is the literal terminator characters, empty for None.
func (le LineEnding) text() string {
	switch le {
	case CR:
		return "\r"
	case LF:
		return "\n"
	case CRLF:
		return "\r\n"
	default:
		return ""
	}
}

// byteLen is how many of LastLineEndingPosition's trailing bytes belong to
// the terminator itself (0 for None, 1 for CR/LF, 2 for CRLF).
func (le LineEnding) byteLen() int64 {
	switch le {
	case CR, LF:
		return 1
	case CRLF:
		return 2
	default:
		return 0
	}
}

// DetailedLine is one line read from a BookmarkingLineReader, along with
// enough metadata to resume reading exactly where it left off.
type DetailedLine struct {
	// TextWithoutLineEnding is the decoded line content, excluding any
	// terminator, as a Go string.
	TextWithoutLineEnding string

	// LineEnding is how the line ended.
	LineEnding LineEnding

	// StartPosition is the absolute byte offset of the line's first byte.
	StartPosition int64

	// LastLineEndingPosition is the absolute byte offset of the line's
	// last byte, including its terminator, or of the last text byte when
	// LineEnding is None.
	LastLineEndingPosition int64

	// LastSeenCharIndex is the absolute character index of the final code
	// unit emitted for this line, including any terminator.
	LastSeenCharIndex int64

	// BeforeReadingBookmark was captured immediately before this line was
	// read.
	BeforeReadingBookmark bookmark.LineBookmark
}

// PositionAfterLineEnding is the absolute byte offset of the first byte of
// whatever follows this line.
func (dl DetailedLine) PositionAfterLineEnding() int64 {
	return dl.LastLineEndingPosition + 1
}

// LastTextPosition is the absolute byte offset of the last byte of the
// line's text, excluding the terminator.
func (dl DetailedLine) LastTextPosition() int64 {
	return dl.LastLineEndingPosition - dl.LineEnding.byteLen()
}

// TextWithLineEnding is TextWithoutLineEnding with its terminator appended.
func (dl DetailedLine) TextWithLineEnding() string {
	return dl.TextWithoutLineEnding + dl.LineEnding.text()
}

// RereadBookmark returns the bookmark captured before this line was read;
// resuming from it reproduces this exact line.
func (dl DetailedLine) RereadBookmark() bookmark.LineBookmark {
	return dl.BeforeReadingBookmark
}

// ReadNextBookmark returns the bookmark for whatever follows this line;
// resuming from it reproduces the next line onward.
func (dl DetailedLine) ReadNextBookmark() bookmark.LineBookmark {
	return bookmark.New(dl.PositionAfterLineEnding(), dl.LastSeenCharIndex+1)
}
