package energy

// Handle is a reference to a weight cell carrying an ownership bit. A
// logical weight lives in exactly one cell; at most one live handle owns it.
// Owning handles return their cell to the arena on Release; non-owning
// proxies release to nothing.
//
// The transfer constructors mirror the four modes of the algorithm: deep
// Copy, aliasing Proxy, ownership-transferring Steal, and StealOrCopy which
// always yields an owner.
type Handle struct {
	cell Value
	owns bool
}

// Zero allocates an owning handle holding zero.
func (a *Arena) Zero() Handle {
	return Handle{cell: a.alloc(), owns: true}
}

// FromInt64 allocates an owning handle holding the given integer.
func (a *Arena) FromInt64(v int64) Handle {
	h := a.Zero()
	h.cell.SetInt64(v)
	return h
}

// Copy deep-duplicates other into a fresh owning handle.
func (a *Arena) Copy(other Handle) Handle {
	h := Handle{cell: a.alloc(), owns: true}
	h.cell.Set(other.cell)
	return h
}

// Proxy aliases other's cell without taking ownership.
func Proxy(other *Handle) Handle {
	return Handle{cell: other.cell, owns: false}
}

// Steal transfers ownership from other, which must own its cell; other is
// demoted to a proxy.
func Steal(other *Handle) Handle {
	debugAssert(other.owns, "steal from non-owning handle")
	other.owns = false
	return Handle{cell: other.cell, owns: true}
}

// StealOrProxy inherits other's ownership bit; other no longer owns.
func StealOrProxy(other *Handle) Handle {
	owned := other.owns
	other.owns = false
	return Handle{cell: other.cell, owns: owned}
}

// StealOrCopy transfers ownership when other owned, and deep-copies
// otherwise. The result always owns.
func (a *Arena) StealOrCopy(other *Handle) Handle {
	if other.owns {
		return Steal(other)
	}
	return a.Copy(*other)
}

// Release returns the cell to the arena when owning; proxies are a no-op.
// The handle must not be dereferenced afterwards.
func (h *Handle) Release(a *Arena) {
	if h.owns {
		a.release(h.cell)
		h.owns = false
	}
	h.cell = nil
}

// Owns reports whether the handle owns its cell.
func (h Handle) Owns() bool { return h.owns }

// IsNil reports whether the handle references no cell.
func (h Handle) IsNil() bool { return h.cell == nil }

// Set overwrites the referenced cell with a copy of other's value.
func (h *Handle) Set(other Handle) { h.cell.Set(other.cell) }

// SetInt64 overwrites the referenced cell with an integer literal.
func (h *Handle) SetInt64(v int64) { h.cell.SetInt64(v) }

// Add adds other's value into the referenced cell.
func (h *Handle) Add(other Handle) { h.cell.Add(other.cell) }

// Sub subtracts other's value from the referenced cell.
func (h *Handle) Sub(other Handle) { h.cell.Sub(other.cell) }

// Neg negates the referenced cell.
func (h *Handle) Neg() { h.cell.Neg() }

// Cmp compares the referenced values.
func (h Handle) Cmp(other Handle) int { return h.cell.Cmp(other.cell) }

// Sign compares the referenced value with zero.
func (h Handle) Sign() int { return h.cell.Sign() }

// Eq reports value equality.
func (h Handle) Eq(other Handle) bool { return h.Cmp(other) == 0 }

// String renders the referenced value.
func (h Handle) String() string {
	if h.cell == nil {
		return "<nil>"
	}
	return h.cell.String()
}
