package energy

import (
	"github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
)

// Vertex indexes a game vertex.
type Vertex = int32

// NoVertex marks the absence of a vertex (no strategy recorded).
const NoVertex Vertex = -1

// EdgeInfo is the adjusted-weight cache slot attached to an edge. The slot
// is shared between the out-entry and its in-mirror, and is valid only while
// its stamp exceeds the last-modified stamps of both endpoint potentials.
type EdgeInfo struct {
	adj   Handle
	stamp uint64
	sign  int8
}

// Adjusted returns a proxy of the cached adjusted weight.
func (i *EdgeInfo) Adjusted() Handle { return Proxy(&i.adj) }

// Stamp returns the slot's validity stamp.
func (i *EdgeInfo) Stamp() uint64 { return i.stamp }

// SetStamp updates the slot's validity stamp.
func (i *EdgeInfo) SetStamp(s uint64) { i.stamp = s }

// Sign returns the sign recorded with the last recomputation.
func (i *EdgeInfo) Sign() int8 { return i.sign }

// SetSign records the sign of the cached value.
func (i *EdgeInfo) SetSign(s int8) { i.sign = s }

// HalfEdge is one direction of an edge. In out-lists To is the destination
// and W owns the weight cell; in in-lists To is the source and W is a proxy
// of the very same cell. Info is shared by both halves.
type HalfEdge struct {
	W    Handle
	To   Vertex
	Info *EdgeInfo
}

// Game is the energy game graph: vertices owned by Max or Min, and weighted
// edges mirrored across out- and in-adjacency.
type Game struct {
	arena  *Arena
	kind   model.WeightKind
	nverts int32
	nedges int

	top    Handle // +∞ bound, dominating every simple-cycle sum
	bottom Handle // −∞ bound

	outs     [][]HalfEdge
	ins      [][]HalfEdge
	maxOwned []bool
}

// NewGame creates a game with n vertices, no edges, and zero bounds.
// SetTop must be called before solving.
func NewGame(arena *Arena, kind model.WeightKind, n int32) *Game {
	return &Game{
		arena:    arena,
		kind:     kind,
		nverts:   n,
		top:      arena.Zero(),
		bottom:   arena.Zero(),
		outs:     make([][]HalfEdge, n),
		ins:      make([][]HalfEdge, n),
		maxOwned: make([]bool, n),
	}
}

// Arena returns the weight arena backing this game.
func (g *Game) Arena() *Arena { return g.arena }

// WeightKind returns the concrete weight representation.
func (g *Game) WeightKind() model.WeightKind { return g.kind }

// NumVertices returns the vertex count.
func (g *Game) NumVertices() int32 { return g.nverts }

// NumEdges returns the number of live edges.
func (g *Game) NumEdges() int { return g.nedges }

// SetTop steals the +∞ bound and derives −∞ as its negation.
func (g *Game) SetTop(h *Handle) {
	g.top.Set(*h)
	g.bottom.Set(*h)
	g.bottom.Neg()
	h.Release(g.arena)
}

// Top returns a proxy of the +∞ bound.
func (g *Game) Top() Handle { return Proxy(&g.top) }

// Bottom returns a proxy of the −∞ bound.
func (g *Game) Bottom() Handle { return Proxy(&g.bottom) }

// MakeMax assigns v to Max.
func (g *Game) MakeMax(v Vertex) { g.maxOwned[v] = true }

// MakeMin assigns v to Min.
func (g *Game) MakeMin(v Vertex) { g.maxOwned[v] = false }

// IsMax reports whether Max owns v.
func (g *Game) IsMax(v Vertex) bool { return g.maxOwned[v] }

// IsMin reports whether Min owns v.
func (g *Game) IsMin(v Vertex) bool { return !g.maxOwned[v] }

// Outs returns the out-edges of v.
func (g *Game) Outs(v Vertex) []HalfEdge { return g.outs[v] }

// Ins returns the in-edges of v. Their To fields hold the edge sources.
func (g *Game) Ins(v Vertex) []HalfEdge { return g.ins[v] }

// MaxVertices returns all Max-owned vertices in index order.
func (g *Game) MaxVertices() []Vertex {
	var vs []Vertex
	for v := int32(0); v < g.nverts; v++ {
		if g.maxOwned[v] {
			vs = append(vs, v)
		}
	}
	return vs
}

// MinVertices returns all Min-owned vertices in index order.
func (g *Game) MinVertices() []Vertex {
	var vs []Vertex
	for v := int32(0); v < g.nverts; v++ {
		if !g.maxOwned[v] {
			vs = append(vs, v)
		}
	}
	return vs
}

// AddEdge steals w and installs the edge u→v: the out-entry owns the weight
// cell, the in-mirror proxies it, and both share one cache slot.
func (g *Game) AddEdge(u Vertex, w *Handle, v Vertex) {
	owned := Steal(w)
	info := &EdgeInfo{adj: g.arena.Zero()}
	g.outs[u] = append(g.outs[u], HalfEdge{W: owned, To: v, Info: info})
	g.ins[v] = append(g.ins[v], HalfEdge{W: Proxy(&owned), To: u, Info: info})
	g.nedges++
}

// SomeOutWeight returns a proxy of the first outgoing weight of v.
func (g *Game) SomeOutWeight(v Vertex) Handle {
	return Proxy(&g.outs[v][0].W)
}

// UpdateOuts applies an in-place transform to every outgoing edge of v.
// Used by the eager reduce path; the lazy teller leaves weights untouched.
func (g *Game) UpdateOuts(v Vertex, f func(e *HalfEdge)) {
	for i := range g.outs[v] {
		f(&g.outs[v][i])
	}
}

// IsolateVertex detaches v from the graph: every incident edge is removed
// from the neighbour's mirror list first and the owning entry released
// afterwards, so proxies never outlive their cell. Swap-remove keeps the
// cost at O(degree).
func (g *Game) IsolateVertex(v Vertex) {
	for i := range g.outs[v] {
		e := &g.outs[v][i]
		if e.To != v {
			g.removeHalf(g.ins, e.To, v)
		}
	}
	for i := range g.outs[v] {
		g.releaseOwning(&g.outs[v][i])
	}
	g.nedges -= len(g.outs[v])
	g.outs[v] = g.outs[v][:0]

	for i := range g.ins[v] {
		e := &g.ins[v][i]
		if e.To == v {
			continue // self-loop, already gone with outs[v]
		}
		// Remove and release the owning entry at the source.
		out := g.outs[e.To]
		for j := range out {
			if out[j].To == v {
				g.releaseOwning(&out[j])
				out[j] = out[len(out)-1]
				g.outs[e.To] = out[:len(out)-1]
				g.nedges--
				break
			}
		}
	}
	g.ins[v] = g.ins[v][:0]
}

// IsIsolated reports whether v has no incident edges.
func (g *Game) IsIsolated(v Vertex) bool {
	return len(g.outs[v]) == 0 && len(g.ins[v]) == 0
}

// removeHalf swap-removes the mirror entry pointing back at v.
func (g *Game) removeHalf(lists [][]HalfEdge, at Vertex, v Vertex) {
	l := lists[at]
	for i := range l {
		if l[i].To == v {
			l[i] = l[len(l)-1]
			lists[at] = l[:len(l)-1]
			return
		}
	}
	debugAssert(false, "mirror edge entry missing")
}

// releaseOwning returns an out-entry's weight and cache cell to the arena.
func (g *Game) releaseOwning(e *HalfEdge) {
	e.W.Release(g.arena)
	e.Info.adj.Release(g.arena)
}

// Validate checks the game is well formed: a positive bound and at least
// one outgoing edge per vertex.
func (g *Game) Validate() error {
	if g.top.Sign() <= 0 {
		return errors.New(errors.CodeInvalidInput, "energy bound is not positive")
	}
	for v := int32(0); v < g.nverts; v++ {
		if len(g.outs[v]) == 0 {
			return errors.Newf(errors.CodeInvalidInput, "vertex %d has no outgoing edge", v)
		}
	}
	return nil
}

// Close releases every weight cell still held by the game. The arena is
// empty afterwards provided all solver state was closed first.
func (g *Game) Close() {
	for v := int32(0); v < g.nverts; v++ {
		for i := range g.outs[v] {
			g.releaseOwning(&g.outs[v][i])
		}
		g.outs[v] = nil
		g.ins[v] = nil
	}
	g.nedges = 0
	g.top.Release(g.arena)
	g.bottom.Release(g.arena)
}
