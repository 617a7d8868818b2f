// Package diagnostic holds the Diagnostic record produced by the compiler
// package and the renderer that turns a batch of them into file:line:col
// text. Keeping this separate from the parser keeps the parser's output
// coordinate system (raw byte offsets) independent of how it's eventually
// displayed.
package diagnostic

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

// Diagnostic describes one parse problem as a half-open byte range
// [Start, End) into the original source, plus a short, lowercase message.
// Start == End denotes a point diagnostic.
type Diagnostic struct {
	Start   int
	End     int
	Message string
}

var errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()

// Render writes one "filename:line:col: error: message" line per
// diagnostic in diags to out, in order, and reports whether anything was
// written. line and column are 1-based; column is measured in bytes from
// the start of the line. The "error:" label is colorized unless
// color.NoColor is set; fatih/color sets that from its own terminal
// detection, not from out.
func Render(out io.Writer, diags []Diagnostic, filename string, source string) bool {
	if len(diags) == 0 {
		return false
	}

	lineStarts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}

	for _, d := range diags {
		// largest line start <= d.Start
		idx := sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > d.Start }) - 1
		if idx < 0 {
			idx = 0
		}
		line := idx + 1
		column := d.Start - lineStarts[idx] + 1
		fmt.Fprintf(out, "%s:%d:%d: %s %s\n", filename, line, column, errorLabel("error:"), d.Message)
	}
	return true
}
