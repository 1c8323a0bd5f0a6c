// Package verifier independently certifies solved parity games: it checks
// the strategy assignment vertex by vertex, then decomposes the graph
// restricted to winner-forced edges into strongly connected components and
// certifies that the loser cannot win inside any of them.
package verifier

import (
	"fmt"

	"github.com/michaelcadilhac/oink/internal/game"
	"github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
)

// Mode selects the per-SCC certificate.
type Mode int

const (
	// ModeParity checks the parity of the maximum priority in each SCC.
	ModeParity Mode = iota
	// ModeEnergy runs Bellman-Ford over priorities and rejects SCCs that
	// still relax on the final round.
	ModeEnergy
)

// Verifier certifies a solution against the original parity game.
type Verifier struct {
	g    *game.ParityGame
	mode Mode
}

// New creates a verifier for the given game.
func New(g *game.ParityGame, mode Mode) *Verifier {
	return &Verifier{g: g, mode: mode}
}

// Verify checks the full solution and returns a VerificationFailure error
// describing the first offence found, or nil when the solution certifies.
func (vr *Verifier) Verify(results []model.VertexResult) error {
	g := vr.g
	n := g.NumVertices()
	if int32(len(results)) != n {
		return errors.Newf(errors.CodeVerification, "solution covers %d of %d vertices", len(results), n)
	}

	// Pass 1: strategies. A winner-owned vertex must follow an existing
	// edge into its own dominion; a loser-owned vertex must have no escape
	// edge and no recorded strategy.
	for v := int32(0); v < n; v++ {
		r := results[v]
		if r.Winner == g.Owner(v) {
			if r.Strategy == model.NoStrategy {
				return errors.Newf(errors.CodeVerification, "winning vertex %d has no strategy", v)
			}
			if !g.HasEdge(v, r.Strategy) {
				return errors.Newf(errors.CodeVerification, "strategy %d→%d is not a valid move", v, r.Strategy)
			}
			if results[r.Strategy].Winner != r.Winner {
				return errors.Newf(errors.CodeVerification, "strategy %d→%d leaves the dominion", v, r.Strategy)
			}
		} else {
			for _, to := range g.Outs(v) {
				if results[to].Winner != r.Winner {
					return errors.Newf(errors.CodeVerification, "escape edge %d→%d out of the dominion", v, to)
				}
			}
			if r.Strategy != model.NoStrategy {
				return errors.Newf(errors.CodeVerification, "losing vertex %d has a strategy", v)
			}
		}
	}

	// Pass 2: SCC decomposition of the winner-forced graph, highest vertex
	// index first, certifying each component.
	return vr.checkSCCs(results)
}

// succs returns the allowed moves in the winner-forced graph: the winner
// keeps only its strategy, the loser keeps every edge.
func (vr *Verifier) succs(results []model.VertexResult, v int32, yield func(int32) bool) {
	if results[v].Strategy != model.NoStrategy {
		yield(results[v].Strategy)
		return
	}
	for _, to := range vr.g.Outs(v) {
		if !yield(to) {
			return
		}
	}
}

// checkSCCs runs an iterative Tarjan search, rooted at the highest vertex
// indices first, over the winner-forced graph.
func (vr *Verifier) checkSCCs(results []model.VertexResult) error {
	g := vr.g
	n := g.NumVertices()

	done := make([]bool, n)
	low := make([]int64, n)
	var res []int32
	var st []int32
	var pre int64

	for root := n - 1; root >= 0; root-- {
		if done[root] || low[root] != 0 {
			continue
		}

		bot := pre
		st = append(st[:0], root)

		for len(st) > 0 {
			v := st[len(st)-1]

			if low[v] <= bot {
				pre++
				low[v] = pre
				res = append(res, v)
			}

			min := low[v]
			pushed := false
			vr.succs(results, v, func(to int32) bool {
				if done[to] {
					return true
				}
				if low[to] <= bot {
					st = append(st, to)
					pushed = true
					return false
				}
				if low[to] < min {
					min = low[to]
				}
				return true
			})
			if pushed {
				continue
			}

			if min < low[v] {
				low[v] = min
				st = st[:len(st)-1]
				continue
			}

			// v roots an SCC: extract it from res and certify.
			var scc []int32
			for {
				u := res[len(res)-1]
				res = res[:len(res)-1]
				done[u] = true
				scc = append(scc, u)
				if u == v {
					break
				}
			}
			if err := vr.checkComponent(results, scc, v); err != nil {
				return err
			}
			st = st[:len(st)-1]
		}
	}
	return nil
}

// checkComponent certifies that the loser cannot win within one SCC.
func (vr *Verifier) checkComponent(results []model.VertexResult, scc []int32, root int32) error {
	if vr.mode == ModeParity {
		return vr.checkParity(results, scc, root)
	}
	return vr.checkEnergy(results, scc)
}

func (vr *Verifier) checkParity(results []model.VertexResult, scc []int32, root int32) error {
	g := vr.g
	maxPrio := int32(-1)
	for _, v := range scc {
		if g.Priority(v) > maxPrio {
			maxPrio = g.Priority(v)
		}
	}

	cycles := len(scc) > 1 || results[root].Strategy == root ||
		(results[root].Strategy == model.NoStrategy && g.HasEdge(root, root))
	if !cycles {
		return nil
	}

	winner := results[root].Winner
	if uint8(maxPrio%2) == winner {
		return nil
	}
	// The dominating priority has the loser's parity: the loser wins here.
	return errors.Newf(errors.CodeVerification,
		"scc where loser wins: priority %d in component %v", maxPrio, scc)
}

// checkEnergy certifies the component with Bellman-Ford over priorities,
// negated when Min is the claimed winner: a relaxation that still fires on
// the final round exposes an infinite cycle in the loser's favour.
func (vr *Verifier) checkEnergy(results []model.VertexResult, scc []int32) error {
	g := vr.g
	inSCC := make(map[int32]int, len(scc))
	for i, v := range scc {
		inSCC[v] = i
	}

	winner := results[scc[0]].Winner
	searchNegative := winner == model.OwnerMax

	dist := make([]int64, len(scc))
	inf := make([]bool, len(scc))
	for i := range inf {
		inf[i] = true
	}
	inf[inSCC[scc[len(scc)-1]]] = false // the root entered first

	var offending []int32
	for round := 0; round < len(scc); round++ {
		last := round == len(scc)-1
		for _, u := range scc {
			ui := inSCC[u]
			if inf[ui] {
				continue
			}
			w := int64(g.Priority(u))
			if !searchNegative {
				w = -w
			}
			relax := func(to int32) bool {
				ti, ok := inSCC[to]
				if !ok {
					return true
				}
				if inf[ti] || dist[ui]+w < dist[ti] {
					if last {
						offending = scc
						return false
					}
					dist[ti] = dist[ui] + w
					inf[ti] = false
				}
				return true
			}
			vr.succs(results, u, relax)
			if offending != nil {
				return errors.Newf(errors.CodeVerification,
					"scc where loser wins: infinite cycle in component %v", offending)
			}
		}
	}
	return nil
}

// String renders the mode for diagnostics.
func (m Mode) String() string {
	switch m {
	case ModeParity:
		return "parity"
	case ModeEnergy:
		return "energy"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}
