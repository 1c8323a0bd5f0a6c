// Package game holds the in-memory parity game model shared by the
// parity→energy reduction and the verifier.
package game

import (
	"github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
)

// Vertex indexes a game vertex.
type Vertex = int32

// ParityGame is a finite directed graph with vertex priorities.
// Owner 0 plays Max (even priorities), owner 1 plays Min (odd priorities).
type ParityGame struct {
	n        int32
	priority []int32
	owner    []uint8
	outs     [][]Vertex
	ins      [][]Vertex
	labels   []string
}

// NewParityGame creates a game with n vertices and no edges.
func NewParityGame(n int32) *ParityGame {
	return &ParityGame{
		n:        n,
		priority: make([]int32, n),
		owner:    make([]uint8, n),
		outs:     make([][]Vertex, n),
		ins:      make([][]Vertex, n),
		labels:   make([]string, n),
	}
}

// FromInput builds a ParityGame from parsed input, validating edge targets.
func FromInput(in *model.ParityInput) (*ParityGame, error) {
	g := NewParityGame(in.N)
	for _, v := range in.Vertices {
		if v.ID < 0 || v.ID >= in.N {
			return nil, errors.Newf(errors.CodeInvalidInput, "vertex id %d out of range [0,%d)", v.ID, in.N)
		}
		g.priority[v.ID] = v.Priority
		g.owner[v.ID] = v.Owner
		g.labels[v.ID] = v.Label
		for _, s := range v.Succs {
			if s < 0 || s >= in.N {
				return nil, errors.Newf(errors.CodeInvalidInput, "edge %d→%d references unknown vertex", v.ID, s)
			}
			g.AddEdge(v.ID, s)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// AddEdge appends the edge u→v to both adjacency directions.
func (g *ParityGame) AddEdge(u, v Vertex) {
	g.outs[u] = append(g.outs[u], v)
	g.ins[v] = append(g.ins[v], u)
}

// Validate checks that the game is total: every vertex has a successor.
func (g *ParityGame) Validate() error {
	for v := int32(0); v < g.n; v++ {
		if len(g.outs[v]) == 0 {
			return errors.Newf(errors.CodeInvalidInput, "vertex %d has no outgoing edge", v)
		}
	}
	return nil
}

// NumVertices returns the vertex count.
func (g *ParityGame) NumVertices() int32 { return g.n }

// NumEdges returns the edge count.
func (g *ParityGame) NumEdges() int {
	total := 0
	for _, o := range g.outs {
		total += len(o)
	}
	return total
}

// Priority returns the priority of v.
func (g *ParityGame) Priority(v Vertex) int32 { return g.priority[v] }

// Owner returns the owner of v (0 = Max, 1 = Min).
func (g *ParityGame) Owner(v Vertex) uint8 { return g.owner[v] }

// Label returns the optional label of v.
func (g *ParityGame) Label(v Vertex) string { return g.labels[v] }

// Outs returns the successors of v.
func (g *ParityGame) Outs(v Vertex) []Vertex { return g.outs[v] }

// Ins returns the predecessors of v.
func (g *ParityGame) Ins(v Vertex) []Vertex { return g.ins[v] }

// HasEdge reports whether u→v is present.
func (g *ParityGame) HasEdge(u, v Vertex) bool {
	for _, s := range g.outs[u] {
		if s == v {
			return true
		}
	}
	return false
}

// MaxPriority returns the largest priority in the game (0 for empty games).
func (g *ParityGame) MaxPriority() int32 {
	var max int32
	for _, p := range g.priority {
		if p > max {
			max = p
		}
	}
	return max
}
