// generator.go lowers a complete instructions.Program to a self-contained
// C translation unit: a prologue that reads stdin onto stack A, one labeled
// block per state (delegating to instructions.Instruction.EmitC for the
// per-kind body), and an epilogue that drains stack A to stdout.
package compiler

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ud2/stackc/instructions"
)

// errTooManyStacks guards the assumption that the stack-index space fits in
// the computed frame width without wraparound. It is unreachable from any
// program produced by Compile, since Stack only ever holds 0..2, but EmitC
// still guards it explicitly rather than assuming the caller only ever
// passes validated programs.
var errTooManyStacks = fmt.Errorf("compiler: too many stacks")

// EmitC lowers prog to a C99/C++11-compatible translation unit and returns
// it as a string.
func EmitC(prog instructions.Program) (string, error) {
	var b bytes.Buffer
	if err := EmitCTo(&b, prog); err != nil {
		return "", err
	}
	return b.String(), nil
}

// EmitCTo writes prog's generated C program to w.
func EmitCTo(w io.Writer, prog instructions.Program) error {
	maxStack := 0
	for _, inst := range prog.States {
		if m := inst.MaxStack(); m > maxStack {
			maxStack = m
		}
	}
	if maxStack >= 1<<30 {
		return errTooManyStacks
	}
	k := maxStack + 1

	if _, err := fmt.Fprintf(w,
		"#include <inttypes.h>\n"+
			"#include <stdio.h>\n"+
			"#include <stdlib.h>\n"+
			"\n"+
			"int main(void) {\n"+
			"  static uint_least32_t stack[%d][%d];\n"+
			"  uint_least32_t* top[] = {\n", k, instructions.StackCapacity); err != nil {
		return err
	}
	for i := 0; i < k; i++ {
		if _, err := fmt.Fprintf(w, "    stack[%d],\n", i); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w,
		"  };\n"+
			"  for (uint_least32_t* ptr = *stack + %d; ;) {\n"+
			"    uint_least32_t val;\n"+
			"    switch (scanf(\"%%\" SCNuLEAST32, &val)) {\n"+
			"      case 1:\n"+
			"        if (ptr == *stack)\n"+
			"          return 1;\n"+
			"        *--ptr = val %% UINT32_C(%d);\n"+
			"        break;\n"+
			"      case 0:\n"+
			"        return 4;\n"+
			"      case EOF:\n"+
			"        while (ptr != *stack + %d)\n"+
			"          *(*top)++ = *ptr++;\n"+
			"        goto state_%d;\n"+
			"    }\n"+
			"  }\n",
		instructions.StackCapacity, instructions.Modulus, instructions.StackCapacity, prog.Init); err != nil {
		return err
	}

	for i, inst := range prog.States {
		if _, err := fmt.Fprintf(w, "state_%d:\n", i); err != nil {
			return err
		}
		if err := inst.EmitC(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w,
		"end:\n"+
			"  while (*top != *stack)\n"+
			"    printf(\"%%\" PRIuLEAST32 \"\\n\", *--*top);\n"+
			"  return 0;\n"+
			"}\n")
	return err
}
