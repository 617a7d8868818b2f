// Package stack holds the bounded LIFO cell storage for the three named
// stacks, and a reference interpreter (Machine) that executes a program
// directly rather than compiling it to C.
//
// Cells started life as a guarded stack of strings nothing else in this
// codebase ever called, back when the code generator pushed and popped via
// raw assembly instructions instead. It's repurposed here into the real
// run-time storage the target machine needs: bounded uint32 cells whose
// Push/Pop/Top report overflow or emptiness, which Machine maps onto the
// exit codes the C emitter itself reports. Cells stores values as given and
// does no modular reduction. Machine wires three of these together and
// lets the test suite check instruction semantics end to end without
// invoking a C compiler.
package stack

import (
	"sync"

	"github.com/ud2/stackc/instructions"
)

// Cells is a bounded LIFO of uint32 values, guarded by a mutex so a Machine
// built from three of them is safe to drive from concurrent test helpers.
type Cells struct {
	mu       sync.Mutex
	capacity int
	vals     []uint32
}

// NewCells returns an empty Cells with the given capacity.
func NewCells(capacity int) *Cells {
	return &Cells{capacity: capacity}
}

// Push appends v to the top of the stack. It reports false, leaving the
// stack unchanged, if the stack is already at capacity.
func (c *Cells) Push(v uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.vals) >= c.capacity {
		return false
	}
	c.vals = append(c.vals, v)
	return true
}

// Pop removes and returns the top value. It reports false, leaving the
// stack unchanged, if the stack is empty.
func (c *Cells) Pop() (uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.vals)
	if n == 0 {
		return 0, false
	}
	v := c.vals[n-1]
	c.vals = c.vals[:n-1]
	return v, true
}

// Top returns the top value without removing it. It reports false if the
// stack is empty.
func (c *Cells) Top() (uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.vals)
	if n == 0 {
		return 0, false
	}
	return c.vals[n-1], true
}

// Len reports the number of cells currently stored.
func (c *Cells) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.vals)
}

// Below returns the value k cells below the top (0 is the top itself),
// and whether that many cells exist. Used by PrefixSum/SuffixSum, which
// need to address a whole run of cells below a consumed length marker.
func (c *Cells) Below(k int) (uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := len(c.vals) - 1 - k
	if idx < 0 {
		return 0, false
	}
	return c.vals[idx], true
}

// SetBelow overwrites the value k cells below the top.
func (c *Cells) SetBelow(k int, v uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.vals[len(c.vals)-1-k] = v
}

// three is a small helper spelling out the indices of a [3]*Cells array so
// callers don't sprinkle magic 0/1/2 throughout Machine.
func three() [instructions.NumStacks]*Cells {
	var cs [instructions.NumStacks]*Cells
	for i := range cs {
		cs[i] = NewCells(instructions.StackCapacity)
	}
	return cs
}
