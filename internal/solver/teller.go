// Package solver implements the FVI fixed-point value-iteration engine:
// the potential teller that accumulates the running potential and reduces
// the game, the two-phase FVI potential computer with its role-swapped
// dual, and the alternating driver.
package solver

import (
	"math"

	"github.com/michaelcadilhac/oink/internal/energy"
	"github.com/michaelcadilhac/oink/pkg/collections"
)

// stampForever marks cache slots of edges touching decided vertices; decided
// potentials never change again, so the slot stays valid for good.
const stampForever = math.MaxUint64

// Teller maintains the running potential of a driver run. It folds the
// per-round update vectors into the potential, tracks which vertices are
// decided (potential at ±∞) and isolates them, and serves lazily
// re-normalised edge weights through per-edge cache slots.
type Teller struct {
	g     *energy.Game
	arena *energy.Arena

	potential []energy.Handle
	decided   *collections.Bitset
	undecided []energy.Vertex // sorted ascending

	// Monotone clock driving the adjusted-weight caches. One tick per
	// potential change; slots stamped above both endpoints are fresh.
	time    uint64
	lastMod []uint64
	lastInc []uint64
	lastDec []uint64

	newlyDecided []energy.Vertex

	// Counters folded into the driver's stats.
	reduces    uint64
	potUpdates uint64
}

// NewTeller creates a teller with zero potential and every vertex undecided.
func NewTeller(g *energy.Game) *Teller {
	n := g.NumVertices()
	t := &Teller{
		g:         g,
		arena:     g.Arena(),
		potential: make([]energy.Handle, n),
		decided:   collections.NewBitset(int(n)),
		undecided: make([]energy.Vertex, 0, n),
		lastMod:   make([]uint64, n),
		lastInc:   make([]uint64, n),
		lastDec:   make([]uint64, n),
	}
	for v := int32(0); v < n; v++ {
		t.potential[v] = t.arena.Zero()
		t.undecided = append(t.undecided, v)
	}
	return t
}

// UndecidedVertices returns the undecided vertices in ascending order.
// The slice is owned by the teller and must not be mutated.
func (t *Teller) UndecidedVertices() []energy.Vertex { return t.undecided }

// IsDecided reports whether v's winner is known.
func (t *Teller) IsDecided(v energy.Vertex) bool { return t.decided.Test(int(v)) }

// Potential returns the running potential vector.
func (t *Teller) Potential() []energy.Handle { return t.potential }

// NewlyDecided returns the vertices decided by the last Reduce.
func (t *Teller) NewlyDecided() []energy.Vertex { return t.newlyDecided }

// Reduce folds the per-vertex delta into the running potential, clamping at
// the energy bounds. Vertices reaching ±∞ are marked decided and isolated.
// It returns true iff any potential changed and at least one vertex is still
// undecided afterwards; false ends the driver loop.
func (t *Teller) Reduce(delta []energy.Handle) bool {
	t.reduces++
	changed := false
	t.newlyDecided = t.newlyDecided[:0]

	top, bottom := t.g.Top(), t.g.Bottom()
	for _, v := range t.undecided {
		if delta[v].Sign() == 0 {
			continue
		}
		t.potUpdates++
		changed = true
		t.time++
		t.lastMod[v] = t.time
		switch {
		case delta[v].Cmp(top) >= 0:
			t.lastInc[v] = t.time
			t.potential[v].Set(top)
		case delta[v].Cmp(bottom) <= 0:
			t.lastDec[v] = t.time
			t.potential[v].Set(bottom)
		default:
			if delta[v].Sign() > 0 {
				t.lastInc[v] = t.time
			} else {
				t.lastDec[v] = t.time
			}
			t.potential[v].Add(delta[v])
		}
		if t.potential[v].Cmp(top) >= 0 || t.potential[v].Cmp(bottom) <= 0 {
			t.newlyDecided = append(t.newlyDecided, v)
			t.decided.Set(int(v))
		}
	}
	if !changed {
		return false
	}

	for _, v := range t.newlyDecided {
		t.g.IsolateVertex(v)
	}

	if len(t.newlyDecided) > 0 {
		kept := t.undecided[:0]
		for _, v := range t.undecided {
			if !t.decided.Test(int(v)) {
				kept = append(kept, v)
			}
		}
		t.undecided = kept
	}

	if len(t.undecided) == 0 {
		changed = false
	}
	return changed
}

// AdjustedWeight returns the cached w + potential[v] − potential[u] for the
// edge u→v, saturated at the bounds, recomputing the slot when stale. The
// returned handle aliases the cache slot; callers must copy before keeping.
func (t *Teller) AdjustedWeight(u energy.Vertex, e *energy.HalfEdge, v energy.Vertex) energy.Handle {
	info := e.Info
	if info.Stamp() > t.lastMod[u] && info.Stamp() > t.lastMod[v] {
		return info.Adjusted()
	}
	t.refreshSlot(u, e, v)
	return info.Adjusted()
}

// AdjustedSign returns only the sign of the adjusted weight. Monotonicity
// shortcut: a positive sign survives while potential[v] has not decreased
// and potential[u] has not increased since the slot was stamped, and
// symmetrically for a negative sign.
func (t *Teller) AdjustedSign(u energy.Vertex, e *energy.HalfEdge, v energy.Vertex) int {
	info := e.Info
	stamp := info.Stamp()
	if stamp > t.lastMod[u] && stamp > t.lastMod[v] {
		return int(info.Sign())
	}
	switch {
	case info.Sign() > 0 && stamp > t.lastDec[v] && stamp > t.lastInc[u]:
		return 1
	case info.Sign() < 0 && stamp > t.lastInc[v] && stamp > t.lastDec[u]:
		return -1
	}
	t.refreshSlot(u, e, v)
	return int(info.Sign())
}

// refreshSlot recomputes the cache slot for the edge u→v.
func (t *Teller) refreshSlot(u energy.Vertex, e *energy.HalfEdge, v energy.Vertex) {
	info := e.Info
	adj := info.Adjusted()
	top, bottom := t.g.Top(), t.g.Bottom()

	if t.IsDecided(u) || t.IsDecided(v) {
		// Decided endpoints pin the edge: the potential difference is
		// dominated by whichever endpoint sits at ±∞.
		if t.IsDecided(v) {
			adj.Set(t.potential[v])
		} else {
			adj.Set(t.potential[u])
			adj.Neg()
		}
		info.SetStamp(stampForever)
		info.SetSign(int8(adj.Sign()))
		return
	}

	adj.Set(e.W)
	adj.Add(t.potential[v])
	adj.Sub(t.potential[u])
	switch {
	case adj.Cmp(top) >= 0:
		adj.Set(top)
	case adj.Cmp(bottom) <= 0:
		adj.Set(bottom)
	}

	stamp := t.lastMod[u]
	if t.lastMod[v] > stamp {
		stamp = t.lastMod[v]
	}
	info.SetStamp(stamp + 1)
	info.SetSign(int8(adj.Sign()))
}

// Close releases the potential vector back to the arena.
func (t *Teller) Close() {
	for i := range t.potential {
		t.potential[i].Release(t.arena)
	}
	t.potential = nil
}
