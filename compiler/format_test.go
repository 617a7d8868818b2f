package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ud2/stackc/compiler"
	"github.com/ud2/stackc/instructions"
)

func TestFormatWritesOneBasedHeaderAndSuccessors(t *testing.T) {
	prog := instructions.Program{
		States: []instructions.Instruction{
			{Kind: instructions.Push, Target: instructions.A, Val: 9, Next: 1},
			{Kind: instructions.Terminate},
		},
		Init: 0,
	}
	assert.Equal(t, "2 1\nPUS A 9 2\nTER\n", compiler.Format(prog))
}

func TestFormatEmptyProgramIsJustHeader(t *testing.T) {
	prog := instructions.Program{States: nil, Init: 0}
	assert.Equal(t, "0 1\n", compiler.Format(prog))
}
