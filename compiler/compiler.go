// Package compiler contains the core of our compiler.
//
// In brief we go through a single-pass process:
//
//  1. Parse the header line (state count, initial state).
//  2. Parse each of the N instruction lines in turn, recovering from any
//     malformed line by skipping to the next newline and continuing.
//  3. Hand the resulting instructions.Program to either the canonical
//     source formatter (Format, in format.go) or the C emitter
//     (EmitC, in generator.go).
//
// Diagnostics are never Go errors: a Result always carries a (possibly
// partial) Program plus a (possibly empty) diagnostic list. The Compile
// function itself cannot fail.
package compiler

import (
	"github.com/ud2/stackc/diagnostic"
	"github.com/ud2/stackc/instructions"
	"github.com/ud2/stackc/lexer"
)

// Result is the outcome of compiling a source string: a program (complete
// if Diagnostics is empty, otherwise best-effort) plus the diagnostics
// produced along the way.
type Result struct {
	Program     instructions.Program
	Diagnostics []diagnostic.Diagnostic
}

// Compile parses source into a Result. On success Diagnostics is empty and
// Program is a fully valid program; on failure Program is a best-effort
// partial result (malformed lines default to Terminate) and Diagnostics is
// non-empty.
func Compile(source string) Result {
	p := &parser{lex: lexer.New(source), src: source}
	return p.run()
}

// parser holds the mutable state threaded through a single compile pass.
type parser struct {
	lex *lexer.Lexer
	src string

	diags []diagnostic.Diagnostic
}

func (p *parser) errorAt(start, end int, message string) {
	p.diags = append(p.diags, diagnostic.Diagnostic{Start: start, End: end, Message: message})
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func (p *parser) run() Result {
	p.lex.SkipSpace()

	n, ok := p.parseStateCount()
	if !ok {
		return Result{Diagnostics: p.diags}
	}

	prog := instructions.Program{States: make([]instructions.Instruction, n)}

	if !p.expectSpace() {
		return Result{Program: prog, Diagnostics: p.diags}
	}
	init, ok := p.expectState(n)
	if !ok {
		return Result{Program: prog, Diagnostics: p.diags}
	}
	prog.Init = init
	if !p.expectNewline() {
		return Result{Program: prog, Diagnostics: p.diags}
	}

	for i := 0; i < n; i++ {
		p.lex.SkipSeparators()
		inst, ok := p.parseLine(n)
		if ok {
			prog.States[i] = inst
		} else {
			p.lex.SkipLine()
		}
	}

	p.expectEOF()

	return Result{Program: prog, Diagnostics: p.diags}
}

// parseStateCount parses the leading unsigned integer N, the number of
// states in the program.
func (p *parser) parseStateCount() (int, bool) {
	start := p.lex.Pos()
	digits := p.lex.ScanWhile(isDigit).Literal
	if digits == "" {
		p.errorAt(start, start, "invalid integer")
		return 0, false
	}
	n, overflowed := parseUint(digits)
	end := p.lex.Pos()
	if overflowed || n > instructions.MaxStates {
		p.errorAt(start, end, "too many states")
		return 0, false
	}
	if n == 0 {
		p.errorAt(start, end, "too few states")
		return 0, false
	}
	return n, true
}

// parseUint parses s (known to be all-digit, non-empty) as a base-10
// unsigned integer. Anything that would not fit comfortably in an int is
// reported as an overflow rather than silently wrapping.
func parseUint(s string) (n int, overflow bool) {
	const limit = 1 << 61
	for i := 0; i < len(s); i++ {
		d := int(s[i] - '0')
		if n > (limit-d)/10 {
			return 0, true
		}
		n = n*10 + d
	}
	return n, false
}

// expectSpace requires that the cursor is at a separator or end of source,
// then consumes any following space characters (not newlines).
func (p *parser) expectSpace() bool {
	if !p.lex.AtEOF() && !lexer.IsSeparator(p.lex.Peek()) {
		pos := p.lex.Pos()
		p.errorAt(pos, pos, "expected whitespace")
		return false
	}
	p.lex.SkipSpace()
	return true
}

// expectNewline consumes any spaces, then consumes exactly one '\n' if
// present. Reaching EOF instead of a newline is accepted (the final line of
// a source file need not end in '\n').
func (p *parser) expectNewline() bool {
	p.lex.SkipSpace()
	if p.lex.AtEOF() {
		return true
	}
	if p.lex.Peek() != '\n' {
		pos := p.lex.Pos()
		p.errorAt(pos, pos, "expected newline")
		return false
	}
	p.lex.ConsumeNewline()
	return true
}

// expectEOF consumes trailing separators and, if any non-separator bytes
// remain, reports exactly one "expected end of file" diagnostic.
func (p *parser) expectEOF() {
	p.lex.SkipSeparators()
	if !p.lex.AtEOF() {
		pos := p.lex.Pos()
		p.errorAt(pos, pos, "expected end of file")
	}
}

// expectStack reads the next token and requires it to be exactly "A", "B",
// or "C".
func (p *parser) expectStack() (instructions.Stack, bool) {
	tok := p.lex.NextWord()
	if tok.Literal == "" {
		pos := p.lex.Pos()
		p.errorAt(pos, pos, "expected stack name")
		return 0, false
	}
	s, ok := instructions.ParseStack(tok.Literal)
	if !ok {
		p.errorAt(tok.Start, tok.End, "unknown stack name")
		return 0, false
	}
	return s, true
}

// expectState parses a base-10 unsigned integer naming a 1-based state
// reference and validates it lies within [1, n], returning it 0-based.
func (p *parser) expectState(n int) (int, bool) {
	start := p.lex.Pos()
	digits := p.lex.ScanWhile(isDigit).Literal
	if digits == "" {
		p.errorAt(start, start, "invalid integer")
		return 0, false
	}
	state, overflowed := parseUint(digits)
	end := p.lex.Pos()
	if overflowed {
		p.errorAt(start, end, "invalid state")
		return 0, false
	}
	if state > n {
		p.errorAt(start, end, "state out of bounds")
		return 0, false
	}
	if state == 0 {
		p.errorAt(start, end, "invalid state; did you mean state 1?")
		return 0, false
	}
	return state - 1, true
}

// expectValue parses a base-10 unsigned integer naming a Push literal,
// validating it lies within [0, instructions.Modulus).
func (p *parser) expectValue() (uint32, bool) {
	start := p.lex.Pos()
	digits := p.lex.ScanWhile(isDigit).Literal
	if digits == "" {
		p.errorAt(start, start, "invalid integer")
		return 0, false
	}
	val, overflowed := parseUint(digits)
	end := p.lex.Pos()
	if overflowed || val >= instructions.Modulus {
		p.errorAt(start, end, "value out of bounds")
		return 0, false
	}
	return uint32(val), true
}
