// Package energy implements the energy-game data structures: the exact
// weight algebra with its owned/proxy handles and arena, and the game graph
// with mirrored adjacency lists.
package energy

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Value is the capability interface of a weight cell: a member of an exact
// linearly-ordered abelian group. All mutating operations work in place;
// Cmp must be a total order and Sign must agree with Cmp against zero.
type Value interface {
	// Set overwrites the cell with a copy of other's value.
	Set(other Value)
	// SetInt64 overwrites the cell with an integer literal.
	SetInt64(v int64)
	// Add adds other into the cell.
	Add(other Value)
	// Sub subtracts other from the cell.
	Sub(other Value)
	// Neg negates the cell.
	Neg()
	// Cmp compares the cell with other: -1, 0 or +1.
	Cmp(other Value) int
	// Sign compares the cell with zero: -1, 0 or +1.
	Sign() int
	// String renders the value for traces and dot output.
	String() string
}

// int64Value is the native fixed-width weight.
type int64Value struct {
	v int64
}

func (x *int64Value) Set(other Value)   { x.v = other.(*int64Value).v }
func (x *int64Value) SetInt64(v int64)  { x.v = v }
func (x *int64Value) Add(other Value)   { x.v += other.(*int64Value).v }
func (x *int64Value) Sub(other Value)   { x.v -= other.(*int64Value).v }
func (x *int64Value) Neg()              { x.v = -x.v }
func (x *int64Value) String() string    { return fmt.Sprintf("%d", x.v) }

func (x *int64Value) Cmp(other Value) int {
	o := other.(*int64Value).v
	switch {
	case x.v < o:
		return -1
	case x.v > o:
		return 1
	default:
		return 0
	}
}

func (x *int64Value) Sign() int {
	switch {
	case x.v < 0:
		return -1
	case x.v > 0:
		return 1
	default:
		return 0
	}
}

// bigValue is the arbitrary-precision weight.
type bigValue struct {
	v big.Int
}

func (x *bigValue) Set(other Value)  { x.v.Set(&other.(*bigValue).v) }
func (x *bigValue) SetInt64(v int64) { x.v.SetInt64(v) }
func (x *bigValue) Add(other Value)  { x.v.Add(&x.v, &other.(*bigValue).v) }
func (x *bigValue) Sub(other Value)  { x.v.Sub(&x.v, &other.(*bigValue).v) }
func (x *bigValue) Neg()             { x.v.Neg(&x.v) }
func (x *bigValue) Cmp(other Value) int {
	return x.v.Cmp(&other.(*bigValue).v)
}
func (x *bigValue) Sign() int      { return x.v.Sign() }
func (x *bigValue) String() string { return x.v.String() }

// setBig overwrites the cell from a big.Int (used by the game builders).
func (x *bigValue) setBig(v *big.Int) { x.v.Set(v) }

// vecValue is a dense vector indexed by parity-game priority, compared
// lexicographically from the highest priority down. The topmost slot is
// reserved for the infinity bound, which therefore dominates every finite
// combination of lower slots.
type vecValue struct {
	v []int64
}

func (x *vecValue) Set(other Value)  { copy(x.v, other.(*vecValue).v) }
func (x *vecValue) SetInt64(v int64) {
	for i := range x.v {
		x.v[i] = 0
	}
	x.v[0] = v
}

func (x *vecValue) Add(other Value) {
	o := other.(*vecValue)
	for i := range x.v {
		x.v[i] += o.v[i]
	}
}

func (x *vecValue) Sub(other Value) {
	o := other.(*vecValue)
	for i := range x.v {
		x.v[i] -= o.v[i]
	}
}

func (x *vecValue) Neg() {
	for i := range x.v {
		x.v[i] = -x.v[i]
	}
}

func (x *vecValue) Cmp(other Value) int {
	o := other.(*vecValue)
	for i := len(x.v) - 1; i >= 0; i-- {
		switch {
		case x.v[i] < o.v[i]:
			return -1
		case x.v[i] > o.v[i]:
			return 1
		}
	}
	return 0
}

func (x *vecValue) Sign() int {
	for i := len(x.v) - 1; i >= 0; i-- {
		switch {
		case x.v[i] < 0:
			return -1
		case x.v[i] > 0:
			return 1
		}
	}
	return 0
}

func (x *vecValue) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := len(x.v) - 1; i >= 0; i-- {
		if x.v[i] == 0 {
			continue
		}
		if sb.Len() > 1 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d:%d", i, x.v[i])
	}
	sb.WriteByte(']')
	return sb.String()
}

// mapEntry is one (priority, multiplicity) pair of a sparse weight.
type mapEntry struct {
	prio  int32
	count int64
}

// mapValue is a sparse ordered map from priority to signed multiplicity,
// kept sorted by descending priority with zero entries pruned. Comparison
// is lexicographic on the highest differing priority.
type mapValue struct {
	entries []mapEntry
}

func (x *mapValue) Set(other Value) {
	o := other.(*mapValue)
	x.entries = append(x.entries[:0], o.entries...)
}

func (x *mapValue) SetInt64(v int64) {
	x.entries = x.entries[:0]
	if v != 0 {
		x.entries = append(x.entries, mapEntry{prio: 0, count: v})
	}
}

func (x *mapValue) addEntry(prio int32, count int64) {
	if count == 0 {
		return
	}
	at := sort.Search(len(x.entries), func(i int) bool { return x.entries[i].prio <= prio })
	if at < len(x.entries) && x.entries[at].prio == prio {
		x.entries[at].count += count
		if x.entries[at].count == 0 {
			x.entries = append(x.entries[:at], x.entries[at+1:]...)
		}
		return
	}
	x.entries = append(x.entries, mapEntry{})
	copy(x.entries[at+1:], x.entries[at:])
	x.entries[at] = mapEntry{prio: prio, count: count}
}

func (x *mapValue) Add(other Value) {
	for _, e := range other.(*mapValue).entries {
		x.addEntry(e.prio, e.count)
	}
}

func (x *mapValue) Sub(other Value) {
	for _, e := range other.(*mapValue).entries {
		x.addEntry(e.prio, -e.count)
	}
}

func (x *mapValue) Neg() {
	for i := range x.entries {
		x.entries[i].count = -x.entries[i].count
	}
}

func (x *mapValue) Cmp(other Value) int {
	o := other.(*mapValue)
	i, j := 0, 0
	for i < len(x.entries) || j < len(o.entries) {
		switch {
		case j >= len(o.entries) || (i < len(x.entries) && x.entries[i].prio > o.entries[j].prio):
			if x.entries[i].count > 0 {
				return 1
			}
			return -1
		case i >= len(x.entries) || o.entries[j].prio > x.entries[i].prio:
			if o.entries[j].count > 0 {
				return -1
			}
			return 1
		default: // same priority
			switch {
			case x.entries[i].count > o.entries[j].count:
				return 1
			case x.entries[i].count < o.entries[j].count:
				return -1
			}
			i++
			j++
		}
	}
	return 0
}

func (x *mapValue) Sign() int {
	if len(x.entries) == 0 {
		return 0
	}
	if x.entries[0].count > 0 {
		return 1
	}
	return -1
}

func (x *mapValue) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range x.entries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d:%d", e.prio, e.count)
	}
	sb.WriteByte('}')
	return sb.String()
}
