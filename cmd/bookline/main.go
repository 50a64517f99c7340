// Command bookline reads a file line by line through a
// BookmarkingLineReader, printing each line with its resume bookmark, and
// can resume a prior run from a previously printed bookmark pair.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/treetopinnovationab/BookmarkingStreamReader/bookmark"
	"github.com/treetopinnovationab/BookmarkingStreamReader/bytesource"
	"github.com/treetopinnovationab/BookmarkingStreamReader/config"
	"github.com/treetopinnovationab/BookmarkingStreamReader/reader"
	"github.com/treetopinnovationab/BookmarkingStreamReader/textenc"
)

var (
	encodingFlag       = flag.String("encoding", "", "Encoding name (utf-8, utf-16le, utf-16be, windows-1252, ...); default from config")
	detectPreambleFlag = flag.Bool("detect-preamble", false, "Detect and exclude a leading byte-order mark")
	bufferSizeFlag     = flag.Int("buffer-size", 0, "Byte buffer size; default from config")
	configFlag         = flag.String("config", "", "Path to a YAML defaults file")
	resumePosFlag      = flag.Int64("resume-pos", -1, "Resume: absolute byte offset of a previously printed bookmark")
	resumeCharFlag     = flag.Int64("resume-char", -1, "Resume: absolute character index of a previously printed bookmark")
	debugFlag          = flag.Bool("debug", false, "Print reader diagnostics (preamble detection, refills) to stderr")
	opFlag             = flag.String("op", "", "Read operation to dispatch; only \"line\" is implemented, default from config")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one input file required")
		flag.Usage()
		os.Exit(3)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(filename string) error {
	defaults := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		defaults = loaded
	}

	opName := defaults.Operation
	if *opFlag != "" {
		opName = *opFlag
	}
	if err := resolveOperation(opName); err != nil {
		return fmt.Errorf("dispatching operation %q: %w", opName, err)
	}

	encodingName := defaults.Encoding
	if *encodingFlag != "" {
		encodingName = *encodingFlag
	}
	enc, err := textenc.Lookup(encodingName)
	if err != nil {
		return fmt.Errorf("resolving encoding %q: %w", encodingName, err)
	}

	bufferSize := defaults.BufferSize
	if *bufferSizeFlag > 0 {
		bufferSize = *bufferSizeFlag
	}
	detectPreamble := defaults.DetectPreamble || *detectPreambleFlag

	src, err := bytesource.OpenFile(filename)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filename, err)
	}
	defer src.Close()

	r, err := reader.New(src, enc,
		reader.WithBufferSize(bufferSize),
		reader.WithDetectPreamble(detectPreamble),
	)
	if err != nil {
		return fmt.Errorf("constructing reader: %w", err)
	}
	defer r.Close()

	if *debugFlag {
		r.SetDebugHook(func(msg string) { fmt.Fprintln(os.Stderr, msg) })
		fmt.Fprintf(os.Stderr, "reader %s opened %s\n", r.ID(), filename)
	}

	if *resumePosFlag >= 0 && *resumeCharFlag >= 0 {
		bm := bookmark.New(*resumePosFlag, *resumeCharFlag)
		if err := r.ResumeFromBookmark(bm); err != nil {
			return fmt.Errorf("resuming from %s: %w", bm.String(), err)
		}
	}

	for {
		line, ok, err := r.ReadDetailedLine()
		if err != nil {
			return fmt.Errorf("reading line: %w", err)
		}
		if !ok {
			break
		}
		fmt.Printf("%s\t[%s]\t%s\n", line.ReadNextBookmark().String(), line.LineEnding, line.TextWithoutLineEnding)
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: bookline [flags] <file>

Read a file line by line, printing each line's resume bookmark.

Flags:
  -encoding string        Encoding name (default from config, else utf-8)
  -detect-preamble        Detect and exclude a leading byte-order mark
  -buffer-size int        Byte buffer size (default from config, else 4096)
  -config string          Path to a YAML defaults file
  -resume-pos int         Resume: byte offset of a previous bookmark
  -resume-char int        Resume: character index of a previous bookmark
  -debug                  Print reader diagnostics to stderr
  -op string              Read operation to dispatch (default from config, else "line")

Examples:
  bookline notes.txt
  bookline -detect-preamble notes.txt
  bookline -resume-pos 142 -resume-char 140 notes.txt
  bookline -op peek notes.txt    # rejected: peek is not implemented
`)
}
