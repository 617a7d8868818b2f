package stack

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/ud2/stackc/instructions"
)

// DefaultStepLimit bounds how many state transitions Run will execute before
// giving up, so a buggy or adversarial program driven through the reference
// interpreter can't spin the test suite forever. It has no counterpart in
// the generated C program, which simply runs until the OS kills it.
const DefaultStepLimit = 10_000_000

// Machine is a reference interpreter for instructions.Program: it executes a
// program directly against three bounded Cells stacks instead of lowering it
// to C and invoking a compiler. Its exit codes match instructions.Instruction.EmitC
// exactly (1 overflow, 2 destructive pop of an empty stack, 3 non-destructive
// read of an empty stack, 4 division or modulo by zero), so the same test
// fixtures can assert on either code path.
type Machine struct {
	cells [instructions.NumStacks]*Cells
}

// NewMachine returns a Machine with all three stacks empty.
func NewMachine() *Machine {
	return &Machine{cells: three()}
}

// Stack returns the Cells backing store for s, for tests that want to seed
// or inspect a stack directly rather than going through stdin.
func (m *Machine) Stack(s instructions.Stack) *Cells {
	return m.cells[s]
}

// Run executes prog starting at prog.Init. It first drains stdin exactly as
// the generated C program's prologue does - reading whitespace-separated
// unsigned decimal integers, reduced modulo instructions.Modulus, onto a
// scratch run and then installing them on stack A in reverse so the first
// value read ends up on top - then walks states until a Terminate, at which
// point it drains stack A to stdout and returns exit code 0. It returns a
// nonzero code matching the corresponding EmitC failure without draining
// output, exactly as the generated program would exit before reaching its
// epilogue.
func (m *Machine) Run(stdin io.Reader, stdout io.Writer, prog instructions.Program) (int, error) {
	read, code, err := readCells(stdin)
	if err != nil {
		return 0, err
	}
	if code != 0 {
		return code, nil
	}
	for i := len(read) - 1; i >= 0; i-- {
		if !m.cells[instructions.A].Push(read[i]) {
			return 1, nil
		}
	}

	state := prog.Init
	for steps := 0; steps < DefaultStepLimit; steps++ {
		inst := prog.States[state]
		next, code, err := m.step(inst)
		if err != nil {
			return 0, err
		}
		if code != 0 {
			return code, nil
		}
		if inst.Kind == instructions.Terminate {
			return 0, m.drain(stdout)
		}
		state = next
	}
	return 0, errStepLimit
}

var errStepLimit = errors.New("stack: exceeded step limit without reaching Terminate")

// step executes one instruction and returns the next state to run, a
// nonzero exit code if the instruction faulted, or an error if the
// instruction's kind is not one it handles.
func (m *Machine) step(inst instructions.Instruction) (next int, code int, err error) {
	switch inst.Kind {
	case instructions.Terminate:
		return 0, 0, nil

	case instructions.Push:
		if !m.cells[inst.Target].Push(inst.Val) {
			return 0, 1, nil
		}
		return inst.Next, 0, nil

	case instructions.Pop:
		if _, ok := m.cells[inst.Target].Pop(); !ok {
			return 0, 2, nil
		}
		return inst.Next, 0, nil

	case instructions.Move:
		if c := m.cells[inst.Target]; c.Len() >= c.capacity {
			return 0, 1, nil
		}
		v, ok := m.cells[inst.From].Pop()
		if !ok {
			return 0, 2, nil
		}
		if !m.cells[inst.Target].Push(v) {
			return 0, 1, nil
		}
		return inst.Next, 0, nil

	case instructions.Copy:
		if c := m.cells[inst.Target]; c.Len() >= c.capacity {
			return 0, 1, nil
		}
		v, ok := m.cells[inst.From].Top()
		if !ok {
			return 0, 3, nil
		}
		if !m.cells[inst.Target].Push(v) {
			return 0, 1, nil
		}
		return inst.Next, 0, nil

	case instructions.Add, instructions.Subtract, instructions.Multiply:
		if c := m.cells[inst.Target]; c.Len() >= c.capacity {
			return 0, 1, nil
		}
		l, ok := m.cells[inst.Left].Top()
		if !ok {
			return 0, 3, nil
		}
		r, ok := m.cells[inst.Right].Top()
		if !ok {
			return 0, 3, nil
		}
		var v uint32
		switch inst.Kind {
		case instructions.Add:
			v = uint32((uint64(l) + uint64(r)) % instructions.Modulus)
		case instructions.Subtract:
			v = uint32((uint64(instructions.Modulus) + uint64(l) - uint64(r)) % instructions.Modulus)
		case instructions.Multiply:
			v = uint32((uint64(l) * uint64(r)) % instructions.Modulus)
		}
		if !m.cells[inst.Target].Push(v) {
			return 0, 1, nil
		}
		return inst.Next, 0, nil

	case instructions.Divide, instructions.Modulo:
		if c := m.cells[inst.Target]; c.Len() >= c.capacity {
			return 0, 1, nil
		}
		l, ok := m.cells[inst.Left].Top()
		if !ok {
			return 0, 3, nil
		}
		r, ok := m.cells[inst.Right].Top()
		if !ok {
			return 0, 3, nil
		}
		if r == 0 {
			return 0, 4, nil
		}
		var v uint32
		if inst.Kind == instructions.Divide {
			v = l / r
		} else {
			v = l % r
		}
		if !m.cells[inst.Target].Push(v) {
			return 0, 1, nil
		}
		return inst.Next, 0, nil

	case instructions.EmptyTest:
		if m.cells[inst.Target].Len() == 0 {
			return inst.Consequent, 0, nil
		}
		return inst.Alternative, 0, nil

	case instructions.LessThan:
		l, ok := m.cells[inst.Left].Top()
		if !ok {
			return 0, 3, nil
		}
		r, ok := m.cells[inst.Right].Top()
		if !ok {
			return 0, 3, nil
		}
		if l < r {
			return inst.Consequent, 0, nil
		}
		return inst.Alternative, 0, nil

	case instructions.PrefixSum:
		return m.runWindowTransform(inst, windowPrefixSum)

	case instructions.SuffixSum:
		return m.runWindowTransform(inst, windowSuffixSum)

	case instructions.FiniteDifference:
		return m.runWindowTransform(inst, windowFiniteDifference)

	default:
		return 0, 0, errors.Errorf("stack: unhandled instruction kind %d", inst.Kind)
	}
}

// windowTransform selects which in-place transform runWindowTransform
// applies to the cells beneath a consumed length cell.
type windowTransform int

const (
	windowPrefixSum windowTransform = iota
	windowSuffixSum
	windowFiniteDifference
)

// runWindowTransform implements T00/T01/T02: the top cell names a count k,
// which is consumed (removed from the stack, not pushed back), and the k
// cells beneath it are replaced in place by their running prefix sum,
// suffix sum, or finite difference, computed with raw 32-bit wraparound
// rather than the modular reduction every arithmetic instruction otherwise
// uses.
func (m *Machine) runWindowTransform(inst instructions.Instruction, kind windowTransform) (next int, code int, err error) {
	cells := m.cells[inst.Target]
	k, ok := cells.Top()
	if !ok {
		return 0, 3, nil
	}
	below := int(k)
	if below > cells.Len()-1 {
		return 0, 3, nil
	}
	cells.Pop()

	switch kind {
	case windowPrefixSum:
		// Below(0) is the shallowest cell in the window (closest to where
		// k used to be), Below(below-1) the deepest. Accumulate from
		// shallow to deep.
		for m := 1; m <= below-1; m++ {
			prev, _ := cells.Below(m - 1)
			cur, _ := cells.Below(m)
			cells.SetBelow(m, cur+prev)
		}

	case windowSuffixSum:
		// Accumulate from deep to shallow.
		for m := below - 2; m >= 0; m-- {
			next, _ := cells.Below(m + 1)
			cur, _ := cells.Below(m)
			cells.SetBelow(m, cur+next)
		}

	case windowFiniteDifference:
		// Each cell except the shallowest (from deep to shallow) has the
		// next-shallower cell subtracted from it, reading that shallower
		// cell before the following iteration overwrites it.
		for m := below - 1; m >= 1; m-- {
			cur, _ := cells.Below(m)
			prev, _ := cells.Below(m - 1)
			cells.SetBelow(m, cur-prev)
		}
	}
	return inst.Next, 0, nil
}

// drain pops stack A from top to bottom, writing one decimal value per line,
// mirroring the generated program's epilogue.
func (m *Machine) drain(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for {
		v, ok := m.cells[instructions.A].Pop()
		if !ok {
			break
		}
		if _, err := bw.WriteString(formatUint32(v)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
