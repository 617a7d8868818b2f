package compiler

import (
	"fmt"
	"io"
	"strings"

	"github.com/ud2/stackc/instructions"
)

// Format renders prog in its canonical textual form: the header line
// "N init\n" (1-based init), followed by each state's EmitSource in order.
// This is the formatter side of the round-trip law: for any source that
// compiles with zero diagnostics, Compile(Format(prog)).Program equals prog.
func Format(prog instructions.Program) string {
	var b strings.Builder
	if err := FormatTo(&b, prog); err != nil {
		// strings.Builder never fails to write.
		panic(err)
	}
	return b.String()
}

// FormatTo writes prog's canonical textual form to w.
func FormatTo(w io.Writer, prog instructions.Program) error {
	if _, err := fmt.Fprintf(w, "%d %d\n", len(prog.States), prog.Init+1); err != nil {
		return err
	}
	for _, inst := range prog.States {
		if err := inst.EmitSource(w); err != nil {
			return err
		}
	}
	return nil
}
