package instructions_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ud2/stackc/instructions"
)

func TestStackStringAndParseRoundTrip(t *testing.T) {
	for _, s := range []instructions.Stack{instructions.A, instructions.B, instructions.C} {
		parsed, ok := instructions.ParseStack(s.String())
		require.True(t, ok)
		assert.Equal(t, s, parsed)
	}
}

func TestParseStackRejectsUnknown(t *testing.T) {
	_, ok := instructions.ParseStack("D")
	assert.False(t, ok)
	_, ok = instructions.ParseStack("a")
	assert.False(t, ok)
}

func TestMnemonicCoversEveryKind(t *testing.T) {
	kinds := []instructions.Kind{
		instructions.Terminate, instructions.Push, instructions.Pop,
		instructions.Move, instructions.Copy, instructions.Add,
		instructions.Subtract, instructions.Multiply, instructions.Divide,
		instructions.Modulo, instructions.EmptyTest, instructions.LessThan,
		instructions.PrefixSum, instructions.SuffixSum, instructions.FiniteDifference,
	}
	seen := map[string]bool{}
	for _, k := range kinds {
		m := k.Mnemonic()
		assert.NotEqual(t, "???", m)
		assert.False(t, seen[m], "duplicate mnemonic %s", m)
		seen[m] = true
	}
}

func TestMaxStack(t *testing.T) {
	cases := []struct {
		name string
		inst instructions.Instruction
		want int
	}{
		{"terminate", instructions.Instruction{Kind: instructions.Terminate}, 0},
		{"push C", instructions.Instruction{Kind: instructions.Push, Target: instructions.C}, 2},
		{"move A from B", instructions.Instruction{Kind: instructions.Move, Target: instructions.A, From: instructions.B}, 1},
		{"add uses max of three", instructions.Instruction{Kind: instructions.Add, Target: instructions.A, Left: instructions.B, Right: instructions.C}, 2},
		{"cmp ignores target", instructions.Instruction{Kind: instructions.LessThan, Left: instructions.A, Right: instructions.B}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.inst.MaxStack())
		})
	}
}

func TestEmitSourceRoundTripsThroughMnemonicShape(t *testing.T) {
	cases := []struct {
		inst instructions.Instruction
		want string
	}{
		{instructions.Instruction{Kind: instructions.Terminate}, "TER\n"},
		{instructions.Instruction{Kind: instructions.Push, Target: instructions.B, Val: 41, Next: 2}, "PUS B 41 3\n"},
		{instructions.Instruction{Kind: instructions.Pop, Target: instructions.A, Next: 0}, "POP A 1\n"},
		{instructions.Instruction{Kind: instructions.Move, Target: instructions.A, From: instructions.C, Next: 1}, "MOV A C 2\n"},
		{instructions.Instruction{Kind: instructions.Copy, Target: instructions.C, From: instructions.A, Next: 1}, "CPY C A 2\n"},
		{instructions.Instruction{Kind: instructions.Add, Target: instructions.A, Left: instructions.B, Right: instructions.C, Next: 0}, "ADD A B C 1\n"},
		{instructions.Instruction{Kind: instructions.EmptyTest, Target: instructions.A, Consequent: 0, Alternative: 1}, "EMP A 1 2\n"},
		{instructions.Instruction{Kind: instructions.PrefixSum, Target: instructions.A, Next: 0}, "T00 A 1\n"},
		{instructions.Instruction{Kind: instructions.SuffixSum, Target: instructions.A, Next: 0}, "T01 A 1\n"},
		{instructions.Instruction{Kind: instructions.FiniteDifference, Target: instructions.A, Next: 0}, "T02 A 1\n"},
	}
	for _, tc := range cases {
		var b strings.Builder
		require.NoError(t, tc.inst.EmitSource(&b))
		assert.Equal(t, tc.want, b.String())
	}
}

// CMP's surface order is "right left alternative consequent" even though
// the semantic condition is "left < right ⇒ consequent else alternative".
func TestEmitSourceLessThanInvertedOrder(t *testing.T) {
	inst := instructions.Instruction{
		Kind: instructions.LessThan,
		Left: instructions.A, Right: instructions.B,
		Consequent: 2, Alternative: 4,
	}
	var b strings.Builder
	require.NoError(t, inst.EmitSource(&b))
	assert.Equal(t, "CMP B A 5 3\n", b.String())
}

func TestEmitCPushGuardsOverflow(t *testing.T) {
	inst := instructions.Instruction{Kind: instructions.Push, Target: instructions.A, Val: 7, Next: 3}
	var b strings.Builder
	require.NoError(t, inst.EmitC(&b))
	out := b.String()
	assert.Contains(t, out, "return 1;")
	assert.Contains(t, out, "goto state_3;")
	assert.Contains(t, out, "UINT32_C(7)")
}

func TestEmitCSubtractUsesModulusOffset(t *testing.T) {
	inst := instructions.Instruction{Kind: instructions.Subtract, Target: instructions.A, Left: instructions.B, Right: instructions.C, Next: 0}
	var b strings.Builder
	require.NoError(t, inst.EmitC(&b))
	assert.Contains(t, b.String(), "UINT64_C(998244353)")
}

func TestEmitCDivideGuardsZero(t *testing.T) {
	inst := instructions.Instruction{Kind: instructions.Divide, Target: instructions.A, Left: instructions.A, Right: instructions.B, Next: 0}
	var b strings.Builder
	require.NoError(t, inst.EmitC(&b))
	assert.Contains(t, b.String(), "return 4;")
}

// T00/T01/T02 consume the length cell k: it must not be pushed back, so the
// emitted fragment decrements top[target] once after the in-place
// transform.
func TestEmitCPrefixSumConsumesLengthCell(t *testing.T) {
	inst := instructions.Instruction{Kind: instructions.PrefixSum, Target: instructions.B, Next: 5}
	var b strings.Builder
	require.NoError(t, inst.EmitC(&b))
	out := b.String()
	assert.Contains(t, out, "--top[1];")
	assert.Contains(t, out, "goto state_5;")
}

func TestEmitCSuffixSumConsumesLengthCell(t *testing.T) {
	inst := instructions.Instruction{Kind: instructions.SuffixSum, Target: instructions.C, Next: 2}
	var b strings.Builder
	require.NoError(t, inst.EmitC(&b))
	out := b.String()
	assert.Contains(t, out, "--top[2];")
	assert.Contains(t, out, "goto state_2;")
}

func TestEmitCFiniteDifferenceConsumesLengthCellAndSubtracts(t *testing.T) {
	inst := instructions.Instruction{Kind: instructions.FiniteDifference, Target: instructions.A, Next: 3}
	var b strings.Builder
	require.NoError(t, inst.EmitC(&b))
	out := b.String()
	assert.Contains(t, out, "ptr[i - 1] -= ptr[i];")
	assert.Contains(t, out, "--top[0];")
	assert.Contains(t, out, "goto state_3;")
}
