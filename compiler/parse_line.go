package compiler

import "github.com/ud2/stackc/instructions"

// lineHandler parses the operands of one instruction line, having already
// consumed the mnemonic. n is the program's state count, used to validate
// state references.
type lineHandler func(p *parser, n int) (instructions.Instruction, bool)

// mnemonics maps each recognised mnemonic to the handler for its operand
// list. This is the direct analogue of the per-mnemonic dispatch table in
// the grammar (§4.2): one small function per instruction kind, keyed by its
// three-letter spelling.
var mnemonics = map[string]lineHandler{
	"TER": parseTerminate,
	"PUS": parsePush,
	"POP": parsePop,
	"MOV": parseMove,
	"CPY": parseCopy,
	"ADD": parseBinary(instructions.Add),
	"SUB": parseBinary(instructions.Subtract),
	"MUL": parseBinary(instructions.Multiply),
	"DIV": parseBinary(instructions.Divide),
	"MOD": parseBinary(instructions.Modulo),
	"EMP": parseEmptyTest,
	"CMP": parseLessThan,
	"T00": parsePrefixOrSuffix(instructions.PrefixSum),
	"T01": parsePrefixOrSuffix(instructions.SuffixSum),
	"T02": parsePrefixOrSuffix(instructions.FiniteDifference),
}

// parseLine reads the mnemonic token, looks it up, and dispatches to its
// handler. An unrecognised mnemonic produces one diagnostic spanning the
// mnemonic's own token range.
func (p *parser) parseLine(n int) (instructions.Instruction, bool) {
	tok := p.lex.NextWord()
	if tok.Literal == "" {
		pos := p.lex.Pos()
		p.errorAt(pos, pos, "expected state type")
		return instructions.Instruction{}, false
	}
	handler, ok := mnemonics[tok.Literal]
	if !ok {
		p.errorAt(tok.Start, tok.End, "unknown state type")
		return instructions.Instruction{}, false
	}
	return handler(p, n)
}

func parseTerminate(p *parser, n int) (instructions.Instruction, bool) {
	if !p.expectNewline() {
		return instructions.Instruction{}, false
	}
	return instructions.Instruction{Kind: instructions.Terminate}, true
}

func parsePush(p *parser, n int) (instructions.Instruction, bool) {
	if !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	target, ok := p.expectStack()
	if !ok || !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	val, ok := p.expectValue()
	if !ok || !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	next, ok := p.expectState(n)
	if !ok || !p.expectNewline() {
		return instructions.Instruction{}, false
	}
	return instructions.Instruction{Kind: instructions.Push, Target: target, Val: val, Next: next}, true
}

func parsePop(p *parser, n int) (instructions.Instruction, bool) {
	if !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	target, ok := p.expectStack()
	if !ok || !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	next, ok := p.expectState(n)
	if !ok || !p.expectNewline() {
		return instructions.Instruction{}, false
	}
	return instructions.Instruction{Kind: instructions.Pop, Target: target, Next: next}, true
}

func parseMove(p *parser, n int) (instructions.Instruction, bool) {
	if !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	target, ok := p.expectStack()
	if !ok || !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	from, ok := p.expectStack()
	if !ok || !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	next, ok := p.expectState(n)
	if !ok || !p.expectNewline() {
		return instructions.Instruction{}, false
	}
	return instructions.Instruction{Kind: instructions.Move, Target: target, From: from, Next: next}, true
}

func parseCopy(p *parser, n int) (instructions.Instruction, bool) {
	if !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	target, ok := p.expectStack()
	if !ok || !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	from, ok := p.expectStack()
	if !ok || !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	next, ok := p.expectState(n)
	if !ok || !p.expectNewline() {
		return instructions.Instruction{}, false
	}
	return instructions.Instruction{Kind: instructions.Copy, Target: target, From: from, Next: next}, true
}

// parseBinary builds the shared handler for ADD/SUB/MUL/DIV/MOD, which all
// share the "target left right next" operand shape.
func parseBinary(kind instructions.Kind) lineHandler {
	return func(p *parser, n int) (instructions.Instruction, bool) {
		if !p.expectSpace() {
			return instructions.Instruction{}, false
		}
		target, ok := p.expectStack()
		if !ok || !p.expectSpace() {
			return instructions.Instruction{}, false
		}
		left, ok := p.expectStack()
		if !ok || !p.expectSpace() {
			return instructions.Instruction{}, false
		}
		right, ok := p.expectStack()
		if !ok || !p.expectSpace() {
			return instructions.Instruction{}, false
		}
		next, ok := p.expectState(n)
		if !ok || !p.expectNewline() {
			return instructions.Instruction{}, false
		}
		return instructions.Instruction{Kind: kind, Target: target, Left: left, Right: right, Next: next}, true
	}
}

func parseEmptyTest(p *parser, n int) (instructions.Instruction, bool) {
	if !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	target, ok := p.expectStack()
	if !ok || !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	consequent, ok := p.expectState(n)
	if !ok || !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	alternative, ok := p.expectState(n)
	if !ok || !p.expectNewline() {
		return instructions.Instruction{}, false
	}
	return instructions.Instruction{Kind: instructions.EmptyTest, Target: target, Consequent: consequent, Alternative: alternative}, true
}

// parseLessThan implements CMP's inverted surface order: the source reads
// "right left alternative consequent" but the instruction's semantic
// condition is "left < right ⇒ consequent else alternative".
func parseLessThan(p *parser, n int) (instructions.Instruction, bool) {
	if !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	right, ok := p.expectStack()
	if !ok || !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	left, ok := p.expectStack()
	if !ok || !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	alternative, ok := p.expectState(n)
	if !ok || !p.expectSpace() {
		return instructions.Instruction{}, false
	}
	consequent, ok := p.expectState(n)
	if !ok || !p.expectNewline() {
		return instructions.Instruction{}, false
	}
	return instructions.Instruction{Kind: instructions.LessThan, Left: left, Right: right, Consequent: consequent, Alternative: alternative}, true
}

// parsePrefixOrSuffix builds the shared handler for T00/T01/T02, which all
// share the "target next" operand shape.
func parsePrefixOrSuffix(kind instructions.Kind) lineHandler {
	return func(p *parser, n int) (instructions.Instruction, bool) {
		if !p.expectSpace() {
			return instructions.Instruction{}, false
		}
		target, ok := p.expectStack()
		if !ok || !p.expectSpace() {
			return instructions.Instruction{}, false
		}
		next, ok := p.expectState(n)
		if !ok || !p.expectNewline() {
			return instructions.Instruction{}, false
		}
		return instructions.Instruction{Kind: kind, Target: target, Next: next}, true
	}
}
