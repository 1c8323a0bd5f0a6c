package energy

// Arena is a pool allocator for weight cells of a single concrete kind.
// Released cells go onto a free stack and are handed out again by later
// allocations, so a solve run does almost no steady-state allocation.
//
// The arena is an explicit value threaded through the game and solver; there
// is no process-global pool. Live must drop back to zero once a game and its
// derived state are closed — tests assert this.
type Arena struct {
	construct func() Value
	free      []Value
	live      int
}

// NewArena creates an arena producing cells via the given constructor.
func NewArena(construct func() Value) *Arena {
	return &Arena{construct: construct}
}

// NewInt64Arena creates an arena of native 64-bit weights.
func NewInt64Arena() *Arena {
	return NewArena(func() Value { return &int64Value{} })
}

// NewBigArena creates an arena of arbitrary-precision weights.
func NewBigArena() *Arena {
	return NewArena(func() Value { return &bigValue{} })
}

// NewVecArena creates an arena of dense priority vectors of the given
// length. Every cell of the arena shares that length.
func NewVecArena(length int) *Arena {
	return NewArena(func() Value { return &vecValue{v: make([]int64, length)} })
}

// NewMapArena creates an arena of sparse priority maps.
func NewMapArena() *Arena {
	return NewArena(func() Value { return &mapValue{} })
}

// alloc hands out a zeroed cell, recycling a freed one when available.
func (a *Arena) alloc() Value {
	a.live++
	if n := len(a.free); n > 0 {
		c := a.free[n-1]
		a.free = a.free[:n-1]
		c.SetInt64(0)
		return c
	}
	return a.construct()
}

// release returns a cell to the free stack.
func (a *Arena) release(c Value) {
	debugAssert(a.live > 0, "arena release without matching alloc")
	a.live--
	a.free = append(a.free, c)
}

// Live returns the number of cells currently allocated.
func (a *Arena) Live() int { return a.live }

// Empty reports whether no cell is currently allocated.
func (a *Arena) Empty() bool { return a.live == 0 }
