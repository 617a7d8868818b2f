package compiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ud2/stackc/compiler"
	"github.com/ud2/stackc/instructions"
)

func TestEmitCProducesCompilableShape(t *testing.T) {
	res := compiler.Compile("2 1\nPUS A 5 2\nTER\n")
	require.Empty(t, res.Diagnostics)

	out, err := compiler.EmitC(res.Program)
	require.NoError(t, err)

	assert.Contains(t, out, "int main(void)")
	assert.Contains(t, out, "static uint_least32_t stack[1][1000000];")
	assert.Contains(t, out, "state_0:")
	assert.Contains(t, out, "state_1:")
	assert.Contains(t, out, "goto state_0;")
	assert.True(t, strings.Contains(out, "UINT32_C(5)"))
	assert.Contains(t, out, "end:")
}

func TestEmitCFrameWidthTracksHighestStackUsed(t *testing.T) {
	prog := instructions.Program{
		States: []instructions.Instruction{
			{Kind: instructions.Push, Target: instructions.C, Val: 1, Next: 0},
		},
	}
	out, err := compiler.EmitC(prog)
	require.NoError(t, err)
	assert.Contains(t, out, "stack[3][1000000]")
}

func TestEmitCZeroStateProgramStillHasPrologueAndEpilogue(t *testing.T) {
	prog := instructions.Program{}
	out, err := compiler.EmitC(prog)
	require.NoError(t, err)
	assert.Contains(t, out, "goto state_0;")
	assert.Contains(t, out, "int main(void)")
}
