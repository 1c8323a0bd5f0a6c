package energy

import (
	"math/big"

	"github.com/michaelcadilhac/oink/internal/game"
	"github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
)

// int64AutoBound caps the derived +∞ bound under which native int64 weights
// are safe: adjusted weights stay within ±2·top during a round.
const int64AutoBound = int64(1) << 61

// FromEnergyInput builds an energy game from parsed input. WeightAuto picks
// int64 when every weight and the derived bound fit comfortably, big
// otherwise. The bound is maxAbsW·n + 1, strictly above any simple-cycle sum.
func FromEnergyInput(in *model.EnergyInput, kind model.WeightKind) (*Game, error) {
	maxAbs := new(big.Int)
	for _, e := range in.Edges {
		abs := new(big.Int).Abs(e.Weight)
		if abs.Cmp(maxAbs) > 0 {
			maxAbs.Set(abs)
		}
	}
	bound := new(big.Int).Mul(maxAbs, big.NewInt(int64(in.N)))
	bound.Add(bound, big.NewInt(1))

	switch kind {
	case model.WeightAuto:
		if bound.IsInt64() && bound.Int64() < int64AutoBound {
			kind = model.WeightInt64
		} else {
			kind = model.WeightBig
		}
	case model.WeightInt64:
		if !bound.IsInt64() || bound.Int64() >= int64AutoBound {
			return nil, errors.New(errors.CodeInvalidInput, "weights too large for int64; use big")
		}
	case model.WeightBig:
	default:
		return nil, errors.Newf(errors.CodeUnsupported, "weight kind %q not supported for energy games", kind)
	}

	var arena *Arena
	if kind == model.WeightInt64 {
		arena = NewInt64Arena()
	} else {
		arena = NewBigArena()
	}

	g := NewGame(arena, kind, in.N)
	for v := int32(0); v < in.N; v++ {
		if in.Owners[v] == model.OwnerMax {
			g.MakeMax(v)
		} else {
			g.MakeMin(v)
		}
	}
	for _, e := range in.Edges {
		w := arena.Zero()
		setFromBig(w, e.Weight, kind)
		g.AddEdge(e.Src, &w, e.Dst)
	}

	top := arena.Zero()
	setFromBig(top, bound, kind)
	g.SetTop(&top)

	if err := g.Validate(); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// FromParity builds the energy game encoding a parity game. Edge u→v is
// weighted by the priority of its destination; swap negates the encoding and
// exchanges the players.
//
// The chosen encoding per weight kind:
//   - big:   w(p) = (−b)^p with b the least power of two above the vertex
//     count; +∞ = b^(pmax+1), which strictly dominates any simple-cycle sum.
//   - vec:   dense vector with ±1 at slot p, compared lexicographically from
//     the top; +∞ occupies a reserved slot above pmax.
//   - map:   sparse {p ↦ (−1)^p} with the same reserved infinity priority.
func FromParity(pg *game.ParityGame, kind model.WeightKind, swap bool) (*Game, error) {
	if kind == model.WeightAuto {
		kind = model.WeightBig
	}

	n := pg.NumVertices()
	pmax := pg.MaxPriority()

	var arena *Arena
	switch kind {
	case model.WeightBig:
		arena = NewBigArena()
	case model.WeightVec:
		arena = NewVecArena(int(pmax) + 2)
	case model.WeightMap:
		arena = NewMapArena()
	default:
		return nil, errors.Newf(errors.CodeUnsupported, "weight kind %q not supported for parity games", kind)
	}

	g := NewGame(arena, kind, n)
	for v := int32(0); v < n; v++ {
		if (pg.Owner(v) == model.OwnerMax) != swap {
			g.MakeMax(v)
		} else {
			g.MakeMin(v)
		}
	}

	// Weights are memoized per priority and copied per edge.
	base := parityBase(int64(n))
	templates := make(map[int32]Handle)
	weightFor := func(p int32) Handle {
		if h, ok := templates[p]; ok {
			return h
		}
		h := priorityWeight(arena, kind, base, p, swap)
		templates[p] = h
		return h
	}

	for u := int32(0); u < n; u++ {
		for _, v := range pg.Outs(u) {
			t := weightFor(pg.Priority(v))
			w := arena.Copy(t)
			g.AddEdge(u, &w, v)
		}
	}
	for _, h := range templates {
		h.Release(arena)
	}

	top := infinityWeight(arena, kind, base, pmax)
	debugAssert(dominatesCycleSums(kind, top, base, pmax, int64(n)), "infinity does not dominate cycle sums")
	g.SetTop(&top)

	if err := g.Validate(); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// parityBase returns the least power of two strictly greater than n.
func parityBase(n int64) int64 {
	b := int64(1)
	for t := n; t != 0; t >>= 1 {
		b <<= 1
	}
	return b
}

// priorityWeight builds the weight of one priority under the chosen kind.
func priorityWeight(arena *Arena, kind model.WeightKind, base int64, p int32, swap bool) Handle {
	h := arena.Zero()
	switch kind {
	case model.WeightBig:
		cell := h.cell.(*bigValue)
		w := new(big.Int).Exp(big.NewInt(-base), big.NewInt(int64(p)), nil)
		cell.setBig(w)
	case model.WeightVec:
		cell := h.cell.(*vecValue)
		cell.v[p] = 1 - 2*int64(p%2)
	case model.WeightMap:
		cell := h.cell.(*mapValue)
		cell.addEntry(p, 1-2*int64(p%2))
	}
	if swap {
		h.Neg()
	}
	return h
}

// infinityWeight builds the +∞ bound under the chosen kind.
func infinityWeight(arena *Arena, kind model.WeightKind, base int64, pmax int32) Handle {
	h := arena.Zero()
	switch kind {
	case model.WeightBig:
		cell := h.cell.(*bigValue)
		w := new(big.Int).Exp(big.NewInt(base), big.NewInt(int64(pmax)+1), nil)
		cell.setBig(w)
	case model.WeightVec:
		cell := h.cell.(*vecValue)
		cell.v[pmax+1] = 1
	case model.WeightMap:
		cell := h.cell.(*mapValue)
		cell.addEntry(pmax+1, 1)
	}
	return h
}

// dominatesCycleSums checks that the bound strictly exceeds n·|w|max, the
// coarse cap on any simple-cycle sum.
func dominatesCycleSums(kind model.WeightKind, top Handle, base int64, pmax int32, n int64) bool {
	if kind != model.WeightBig {
		// The reserved slot above pmax dominates lexicographically whenever
		// lower-slot multiplicities stay below the base; n < base by choice.
		return n < base
	}
	limit := new(big.Int).Exp(big.NewInt(base), big.NewInt(int64(pmax)), nil)
	limit.Mul(limit, big.NewInt(n))
	return top.cell.(*bigValue).v.Cmp(limit) > 0
}

func setFromBig(h Handle, w *big.Int, kind model.WeightKind) {
	if kind == model.WeightInt64 {
		h.cell.SetInt64(w.Int64())
	} else {
		h.cell.(*bigValue).setBig(w)
	}
}
