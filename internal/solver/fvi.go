package solver

import (
	"github.com/michaelcadilhac/oink/internal/energy"
	"github.com/michaelcadilhac/oink/pkg/collections"
	"github.com/michaelcadilhac/oink/pkg/utils"
)

// computer is one FVI potential computer. It produces, per round, a delta
// vector whose sum with the running potential equals the finite energy
// function over the set F of vertices it grows, and ±∞ on the complement.
//
// swap exchanges Max/Min, the bounds and every comparison, turning the same
// algorithm into the dual computation.
type computer struct {
	swap   bool
	g      *energy.Game
	teller *Teller
	arena  *energy.Arena
	logger utils.Logger

	delta  []energy.Handle
	inF    []bool
	strat  []energy.Vertex
	counts []int // good-sign out-edges to F^c per Max-role vertex; reused
	// as the remaining-edges-in-F counter during backtracking.

	phase1      []energy.Vertex
	phase2      *collections.MutablePQ[energy.Handle]
	toBacktrack []energy.Vertex

	// Scratch cells for the phase-1 maximum.
	best, cand energy.Handle

	stats *stats
}

func newComputer(g *energy.Game, teller *Teller, swap bool, logger utils.Logger, st *stats) *computer {
	n := g.NumVertices()
	arena := g.Arena()
	c := &computer{
		swap:   swap,
		g:      g,
		teller: teller,
		arena:  arena,
		logger: logger,
		delta:  make([]energy.Handle, n),
		inF:    make([]bool, n),
		strat:  make([]energy.Vertex, n),
		counts: make([]int, n),
		best:   arena.Zero(),
		cand:   arena.Zero(),
		stats:  st,
	}
	for v := int32(0); v < n; v++ {
		c.delta[v] = arena.Zero()
		c.strat[v] = energy.NoVertex
	}
	c.phase2 = collections.NewMutablePQ[energy.Handle](int(n), c.phase2Before, func(h energy.Handle) {
		h.Release(arena)
	})
	return c
}

// roleTop is +∞ for the primal computer and −∞ for the dual.
func (c *computer) roleTop() energy.Handle {
	if c.swap {
		return c.g.Bottom()
	}
	return c.g.Top()
}

// isMaxRole reports whether v plays the maximiser under this orientation.
func (c *computer) isMaxRole(v energy.Vertex) bool {
	return c.g.IsMax(v) != c.swap
}

// goodSign accepts the non-negative adjusted signs the maximiser can follow
// forever (non-positive under swap).
func (c *computer) goodSign(s int) bool {
	if c.swap {
		return s <= 0
	}
	return s >= 0
}

// strictBad is the complement of goodSign: an immediately losing edge sign
// for the maximiser.
func (c *computer) strictBad(s int) bool {
	return !c.goodSign(s)
}

// better orders phase-1 candidates: strictly greater for the primal,
// strictly smaller for the dual.
func (c *computer) better(a, b energy.Handle) bool {
	if c.swap {
		return a.Cmp(b) < 0
	}
	return a.Cmp(b) > 0
}

// phase2Before orders the phase-2 queue: smallest adjusted weight first for
// the primal, largest first for the dual.
func (c *computer) phase2Before(a, b energy.Handle) bool {
	if c.swap {
		return a.Cmp(b) > 0
	}
	return a.Cmp(b) < 0
}

// Delta returns the update vector produced by the last Compute.
func (c *computer) Delta() []energy.Handle { return c.delta }

// Compute runs one FVI round: initialise F from the adjusted-weight signs,
// alternate the two growth phases until the phase-2 queue runs dry, then
// finalise F^c at ±∞ and propagate it backwards through the attractor.
func (c *computer) Compute() {
	c.stats.computes++

	und := c.teller.UndecidedVertices()
	roleTop := c.roleTop()

	// Decided vertices count as settled; undecided ones enter the initial F
	// exactly when the minimiser is forced into an immediately bad edge.
	for i := range c.inF {
		c.inF[i] = true
	}
	for v := int32(0); v < c.g.NumVertices(); v++ {
		c.delta[v].Set(roleTop)
	}
	for _, v := range und {
		c.inF[v] = c.initialF(v)
		if c.inF[v] {
			c.delta[v].SetInt64(0)
		}
	}

	// Seed the phases: Max-role vertices with no good-sign escape to F^c go
	// onto the FIFO; edges from Min-role F^c vertices into F feed the queue.
	c.phase1 = c.phase1[:0]
	c.phase2.Clear()
	for i := range c.counts {
		c.counts[i] = 0
	}
	for _, v := range und {
		if !c.inF[v] {
			if !c.isMaxRole(v) {
				continue
			}
			cnt := 0
			outs := c.g.Outs(v)
			for i := range outs {
				e := &outs[i]
				if !c.inF[e.To] && c.goodSign(c.teller.AdjustedSign(v, e, e.To)) {
					cnt++
				}
			}
			c.counts[v] = cnt
			if cnt == 0 {
				c.phase1 = append(c.phase1, v)
			}
			continue
		}
		ins := c.g.Ins(v)
		for i := range ins {
			e := &ins[i]
			u := e.To
			if !c.inF[u] && !c.isMaxRole(u) {
				w := c.arena.Copy(c.teller.AdjustedWeight(u, e, v))
				c.phase2.Set(u, w, collections.UpdateOnlyIfHigher)
			}
		}
	}

	for {
		// Phase 1: pop Max-role vertices whose good-sign edges all lead
		// into F; their delta is the best such continuation.
		head := 0
		for head < len(c.phase1) {
			c.stats.phase1++
			v := c.phase1[head]
			head++
			debugAssertf(!c.inF[v] && c.counts[v] == 0, "phase-1 vertex not ready")

			c.best.Set(c.g.Bottom())
			if c.swap {
				c.best.Set(c.g.Top())
			}
			bestTo := energy.NoVertex
			outs := c.g.Outs(v)
			for i := range outs {
				e := &outs[i]
				if c.strictBad(c.teller.AdjustedSign(v, e, e.To)) {
					continue
				}
				debugAssertf(c.inF[e.To], "good-sign edge escapes F")
				c.cand.Set(c.teller.AdjustedWeight(v, e, e.To))
				c.cand.Add(c.delta[e.To])
				if bestTo == energy.NoVertex || c.better(c.cand, c.best) {
					c.best.Set(c.cand)
					bestTo = e.To
				}
			}
			c.delta[v].Set(c.best)
			// Remember the edge attaining the optimum: it is the winning
			// move in case repeated reductions push v all the way to the
			// bound without an F^c round pinning it.
			if bestTo != energy.NoVertex {
				c.strat[v] = bestTo
			}
			c.inF[v] = true
			c.decreasePreds(v)
		}
		c.phase1 = c.phase1[:0]

		// Phase 2: admit the single cheapest Min-role escape into F, then
		// hand control back to phase 1.
		progressed := false
		for !c.phase2.Empty() {
			c.stats.phase2++
			u, w, _ := c.phase2.Pop()
			if c.inF[u] {
				w.Release(c.arena)
				continue
			}
			c.delta[u].Set(w)
			w.Release(c.arena)
			c.inF[u] = true
			c.decreasePreds(u)
			progressed = true
			break
		}
		if !progressed {
			break
		}
	}

	c.finaliseFc(und, roleTop)
}

// initialF decides membership of v in the initial F from adjusted signs:
// the minimiser forces an immediately bad edge from a Max-role vertex iff
// every outgoing edge is bad, and from a Min-role vertex iff some outgoing
// edge is.
func (c *computer) initialF(v energy.Vertex) bool {
	outs := c.g.Outs(v)
	if c.isMaxRole(v) {
		for i := range outs {
			e := &outs[i]
			if !c.strictBad(c.teller.AdjustedSign(v, e, e.To)) {
				return false
			}
		}
		return true
	}
	for i := range outs {
		e := &outs[i]
		if c.strictBad(c.teller.AdjustedSign(v, e, e.To)) {
			return true
		}
	}
	return false
}

// decreasePreds updates the predecessors of a vertex freshly added to F.
func (c *computer) decreasePreds(v energy.Vertex) {
	ins := c.g.Ins(v)
	for i := range ins {
		e := &ins[i]
		u := e.To
		if c.inF[u] {
			continue
		}
		if c.isMaxRole(u) {
			if c.counts[u] > 0 && c.goodSign(c.teller.AdjustedSign(u, e, v)) {
				c.counts[u]--
				if c.counts[u] == 0 {
					c.phase1 = append(c.phase1, u)
				}
			}
		} else {
			w := c.arena.Copy(c.teller.AdjustedWeight(u, e, v))
			w.Add(c.delta[v])
			c.phase2.Set(u, w, collections.UpdateOnlyIfHigher)
		}
	}
}

// finaliseFc pins the remaining vertices at ±∞, records the maximiser's
// strategies inside F^c, and runs the backward attractor so that every
// vertex forced into F^c joins it.
func (c *computer) finaliseFc(und []energy.Vertex, roleTop energy.Handle) {
	c.toBacktrack = c.toBacktrack[:0]
	for _, v := range und {
		if c.inF[v] {
			continue
		}
		c.toBacktrack = append(c.toBacktrack, v)
		if c.isMaxRole(v) {
			outs := c.g.Outs(v)
			for i := range outs {
				e := &outs[i]
				if !c.inF[e.To] && c.goodSign(c.teller.AdjustedSign(v, e, e.To)) {
					c.strat[v] = e.To
					break
				}
			}
		}
	}

	// counts doubles as the remaining-out-edges-in-F counter here; it is
	// zero on every Min-role vertex after the main loop.
	for len(c.toBacktrack) > 0 {
		c.stats.backtracks++
		v := c.toBacktrack[len(c.toBacktrack)-1]
		c.toBacktrack = c.toBacktrack[:len(c.toBacktrack)-1]
		ins := c.g.Ins(v)
		for i := range ins {
			u := ins[i].To
			if !c.inF[u] {
				continue
			}
			if c.isMaxRole(u) {
				c.inF[u] = false
				c.delta[u].Set(roleTop)
				c.strat[u] = v
				c.toBacktrack = append(c.toBacktrack, u)
			} else {
				if c.counts[u] == 0 {
					c.counts[u] = len(c.g.Outs(u))
				}
				c.counts[u]--
				if c.counts[u] == 0 {
					c.inF[u] = false
					c.delta[u].Set(roleTop)
					c.toBacktrack = append(c.toBacktrack, u)
				}
			}
		}
	}
}

// StrategyFor reports the winning move recorded for v, if any: Max-role
// vertices pinned at their bound keep the strategy found when F^c or the
// phase-1 optimum last touched them, Min-role vertices with a finite
// potential follow the first edge to another finite vertex whose adjusted
// sign is non-positive (non-negative under swap).
func (c *computer) StrategyFor(v energy.Vertex) (energy.Vertex, bool) {
	pot := c.teller.Potential()
	if c.isMaxRole(v) {
		if c.strat[v] != energy.NoVertex && !c.finite(pot[v]) {
			return c.strat[v], true
		}
		return energy.NoVertex, false
	}

	if !c.finite(pot[v]) {
		return energy.NoVertex, false
	}
	outs := c.g.Outs(v)
	for i := range outs {
		e := &outs[i]
		if !c.finite(pot[e.To]) {
			continue
		}
		s := c.teller.AdjustedSign(v, e, e.To)
		if (!c.swap && s <= 0) || (c.swap && s >= 0) {
			return e.To, true
		}
	}
	return energy.NoVertex, false
}

// finite reports whether the potential has not reached this role's bound.
func (c *computer) finite(p energy.Handle) bool {
	if c.swap {
		return p.Cmp(c.g.Bottom()) > 0
	}
	return p.Cmp(c.g.Top()) < 0
}

// allZeroOnUndecided reports whether the last round produced no update.
func (c *computer) allZeroOnUndecided() bool {
	for _, v := range c.teller.UndecidedVertices() {
		if c.delta[v].Sign() != 0 {
			return false
		}
	}
	return true
}

// Close releases the computer's cells back to the arena.
func (c *computer) Close() {
	for i := range c.delta {
		c.delta[i].Release(c.arena)
	}
	c.delta = nil
	c.best.Release(c.arena)
	c.cand.Release(c.arena)
	c.phase2.Clear()
}

func debugAssertf(cond bool, msg string) {
	if energy.DebugChecks && !cond {
		panic("solver: invariant violation: " + msg)
	}
}
