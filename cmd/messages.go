package cmd

import (
	"fmt"
	"io"

	"github.com/JSH-Team/unpack/internal/unpacker"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
	cyan  = color.New(color.FgCyan)
	blue  = color.New(color.FgBlue)
	white = color.New(color.FgWhite)
)

func printUsage(out io.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, white.Sprint("Usage: unpack"), green.Sprint("<project-directory> <path-to-map-file>"))
	fmt.Fprintln(out)
	blue.Fprintln(out, "*Note:   Minified file should be placed under path specified in .map file.")
	fmt.Fprintln(out)
}

func printStart(out io.Writer, workers int) {
	green.Fprintln(out, "Unpacking your source maps")
	cyan.Fprintf(out, "Processing with %d workers\n", workers)
}

func printFailure(out io.Writer, message string) {
	fmt.Fprintln(out)
	red.Fprintln(out, message)
	fmt.Fprintln(out)
}

func printMapError(out io.Writer, err error) {
	red.Fprintln(out, "Oops! Something is wrong with the source map")
	red.Fprintln(out, "Make sure .min.js is correctly placed under the path specified in .map file")
	fmt.Fprintln(out, "STDERR: ")
	fmt.Fprintln(out, err)
}

func printSummary(out io.Writer, run *unpacker.Run) {
	s := run.Summary
	fmt.Fprintf(out, "Extracted %d of %d files (%s) into %s in %s\n",
		s.Succeeded, run.Sources, humanize.Bytes(uint64(s.Bytes)), run.ProjectDir, run.Duration().Round(1e6))
	if s.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %d files without inlined content\n", s.Skipped)
	}
	if s.Failed > 0 {
		red.Fprintf(out, "%d files could not be written:\n", s.Failed)
		for _, f := range s.Failures {
			fmt.Fprintf(out, "  %s: %v\n", f.Unit.Source, f.Err)
		}
	}
}

func printDone(out io.Writer, run *unpacker.Run) {
	printSummary(out, run)
	green.Fprintln(out, "All done! Enjoy exploring your code")
}
