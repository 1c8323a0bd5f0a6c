package solver

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelcadilhac/oink/internal/energy"
	"github.com/michaelcadilhac/oink/internal/game"
	"github.com/michaelcadilhac/oink/pkg/model"
)

func energyGame(t *testing.T, n int32, owners []uint8, edges []model.EnergyEdge) *energy.Game {
	t.Helper()
	g, err := energy.FromEnergyInput(&model.EnergyInput{N: n, Owners: owners, Edges: edges}, model.WeightAuto)
	require.NoError(t, err)
	return g
}

func edge(src, dst int32, w int64) model.EnergyEdge {
	return model.EnergyEdge{Src: src, Dst: dst, Weight: big.NewInt(w)}
}

func solve(t *testing.T, g *energy.Game) ([]model.VertexResult, *Driver) {
	t.Helper()
	d := New(g, nil)
	require.NoError(t, d.Run(context.Background()))
	return d.Results(), d
}

// Two-vertex alternating cycle with sum −2: Min wins both vertices, and
// Min's strategy at vertex 1 is the edge back to 0.
func TestSolveAlternatingCycle(t *testing.T) {
	g := energyGame(t, 2,
		[]uint8{model.OwnerMax, model.OwnerMin},
		[]model.EnergyEdge{edge(0, 1, 3), edge(1, 0, -5)})
	results, d := solve(t, g)
	defer func() { d.Close(); g.Close(); assert.True(t, g.Arena().Empty()) }()

	assert.Equal(t, model.VertexResult{Vertex: 0, Winner: model.OwnerMin, Strategy: model.NoStrategy}, results[0])
	assert.Equal(t, model.VertexResult{Vertex: 1, Winner: model.OwnerMin, Strategy: 0}, results[1])
}

// Max escapes through 0→1 and keeps the sum bounded on the zero-weight
// cycle; Min stays trapped in the −1 self-loop.
func TestSolveMaxEscape(t *testing.T) {
	g := energyGame(t, 3,
		[]uint8{model.OwnerMax, model.OwnerMin, model.OwnerMin},
		[]model.EnergyEdge{
			edge(0, 1, 1), edge(0, 2, -10),
			edge(1, 0, -1),
			edge(2, 2, -1),
		})
	results, d := solve(t, g)
	defer func() { d.Close(); g.Close(); assert.True(t, g.Arena().Empty()) }()

	assert.Equal(t, model.VertexResult{Vertex: 0, Winner: model.OwnerMax, Strategy: 1}, results[0])
	assert.Equal(t, model.VertexResult{Vertex: 1, Winner: model.OwnerMax, Strategy: model.NoStrategy}, results[1])
	assert.Equal(t, model.VertexResult{Vertex: 2, Winner: model.OwnerMin, Strategy: 2}, results[2])
}

// Four-vertex gadget: an all-positive Max cycle and an all-negative Min
// cycle. The driver settles in exactly two compute rounds with the bound on
// one pair and its negation on the other.
func TestSolvePotentialConvergence(t *testing.T) {
	g := energyGame(t, 4,
		[]uint8{model.OwnerMax, model.OwnerMin, model.OwnerMin, model.OwnerMin},
		[]model.EnergyEdge{
			edge(0, 1, 1), edge(1, 0, 1),
			edge(2, 3, -1), edge(3, 2, -1),
		})
	results, d := solve(t, g)
	defer func() { d.Close(); g.Close() }()

	assert.Equal(t, uint64(2), d.Stats().Computes)

	pot := d.Teller().Potential()
	assert.Equal(t, 0, pot[0].Cmp(g.Top()))
	assert.Equal(t, 0, pot[1].Cmp(g.Top()))
	assert.Equal(t, 0, pot[2].Cmp(g.Bottom()))
	assert.Equal(t, 0, pot[3].Cmp(g.Bottom()))

	assert.Equal(t, model.VertexResult{Vertex: 0, Winner: model.OwnerMax, Strategy: 1}, results[0])
	assert.Equal(t, model.VertexResult{Vertex: 1, Winner: model.OwnerMax, Strategy: model.NoStrategy}, results[1])
	assert.Equal(t, model.VertexResult{Vertex: 2, Winner: model.OwnerMin, Strategy: 3}, results[2])
	assert.Equal(t, model.VertexResult{Vertex: 3, Winner: model.OwnerMin, Strategy: 2}, results[3])
}

// The dual of the convergence gadget: owners and signs flipped must produce
// the symmetric outcome.
func TestSolvePotentialConvergenceDual(t *testing.T) {
	g := energyGame(t, 4,
		[]uint8{model.OwnerMin, model.OwnerMax, model.OwnerMax, model.OwnerMax},
		[]model.EnergyEdge{
			edge(0, 1, -1), edge(1, 0, -1),
			edge(2, 3, 1), edge(3, 2, 1),
		})
	results, d := solve(t, g)
	defer func() { d.Close(); g.Close() }()

	pot := d.Teller().Potential()
	assert.Equal(t, 0, pot[0].Cmp(g.Bottom()))
	assert.Equal(t, 0, pot[1].Cmp(g.Bottom()))
	assert.Equal(t, 0, pot[2].Cmp(g.Top()))
	assert.Equal(t, 0, pot[3].Cmp(g.Top()))

	assert.Equal(t, model.OwnerMin, results[0].Winner)
	assert.Equal(t, model.OwnerMin, results[1].Winner)
	assert.Equal(t, int32(1), results[0].Strategy)
	assert.Equal(t, model.OwnerMax, results[2].Winner)
	assert.Equal(t, int32(3), results[2].Strategy)
}

// Disconnected components are solved independently in one run.
func TestSolveDisconnectedComponents(t *testing.T) {
	g := energyGame(t, 4,
		[]uint8{model.OwnerMax, model.OwnerMin, model.OwnerMin, model.OwnerMin},
		[]model.EnergyEdge{
			edge(0, 1, 3), edge(1, 0, -5), // Min cycle
			edge(2, 3, -1), edge(3, 2, 2), // positive cycle: Max survives
		})
	results, d := solve(t, g)
	defer func() { d.Close(); g.Close() }()

	assert.Equal(t, model.OwnerMin, results[0].Winner)
	assert.Equal(t, model.OwnerMin, results[1].Winner)
	assert.Equal(t, model.OwnerMax, results[2].Winner)
	assert.Equal(t, model.OwnerMax, results[3].Winner)
}

// Parity spot check: cycle with maximum priority 3 (odd) is won by Min
// everywhere, solved through the parity→energy reduction.
func TestSolveParityReduction(t *testing.T) {
	pg, err := game.FromInput(&model.ParityInput{
		N: 3,
		Vertices: []model.ParityVertex{
			{ID: 0, Priority: 2, Owner: model.OwnerMax, Succs: []int32{1}},
			{ID: 1, Priority: 3, Owner: model.OwnerMin, Succs: []int32{2}},
			{ID: 2, Priority: 1, Owner: model.OwnerMax, Succs: []int32{0}},
		},
	})
	require.NoError(t, err)

	for _, kind := range []model.WeightKind{model.WeightBig, model.WeightVec, model.WeightMap} {
		g, err := energy.FromParity(pg, kind, false)
		require.NoError(t, err)
		results, d := solve(t, g)

		for v := int32(0); v < 3; v++ {
			assert.Equal(t, model.OwnerMin, results[v].Winner, "kind %s vertex %d", kind, v)
		}
		assert.Equal(t, int32(2), results[1].Strategy, "kind %s", kind)
		assert.Equal(t, model.NoStrategy, results[0].Strategy)
		assert.Equal(t, model.NoStrategy, results[2].Strategy)

		d.Close()
		g.Close()
		assert.True(t, g.Arena().Empty(), "kind %s leaks cells", kind)
	}
}

// A parity game where the even player forces the dominating even priority.
func TestSolveParityEvenWins(t *testing.T) {
	pg, err := game.FromInput(&model.ParityInput{
		N: 2,
		Vertices: []model.ParityVertex{
			{ID: 0, Priority: 2, Owner: model.OwnerMax, Succs: []int32{0, 1}},
			{ID: 1, Priority: 1, Owner: model.OwnerMin, Succs: []int32{0}},
		},
	})
	require.NoError(t, err)
	g, err := energy.FromParity(pg, model.WeightBig, false)
	require.NoError(t, err)
	results, d := solve(t, g)
	defer func() { d.Close(); g.Close() }()

	// Max loops on the priority-2 vertex forever.
	assert.Equal(t, model.OwnerMax, results[0].Winner)
	assert.Equal(t, int32(0), results[0].Strategy)
	assert.Equal(t, model.OwnerMax, results[1].Winner)
	assert.Equal(t, model.NoStrategy, results[1].Strategy)
}

// All-Min graph with a single negative cycle behaves like shortest paths:
// everything diverges to −∞.
func TestSolveAllMinNegative(t *testing.T) {
	g := energyGame(t, 3,
		[]uint8{model.OwnerMin, model.OwnerMin, model.OwnerMin},
		[]model.EnergyEdge{
			edge(0, 1, 4), edge(1, 2, -1), edge(2, 0, -4),
		})
	results, d := solve(t, g)
	defer func() { d.Close(); g.Close() }()

	for v := int32(0); v < 3; v++ {
		assert.Equal(t, model.OwnerMin, results[v].Winner)
		assert.NotEqual(t, model.NoStrategy, results[v].Strategy)
	}
}

// All-Max graph with a positive cycle: Max survives everywhere.
func TestSolveAllMaxPositive(t *testing.T) {
	g := energyGame(t, 2,
		[]uint8{model.OwnerMax, model.OwnerMax},
		[]model.EnergyEdge{edge(0, 1, -2), edge(1, 0, 3)})
	results, d := solve(t, g)
	defer func() { d.Close(); g.Close() }()

	assert.Equal(t, model.OwnerMax, results[0].Winner)
	assert.Equal(t, model.OwnerMax, results[1].Winner)
	assert.NotEqual(t, model.NoStrategy, results[0].Strategy)
	assert.NotEqual(t, model.NoStrategy, results[1].Strategy)
}

// Single-vertex zero self-loop: the winner is ill-defined, but the bound
// must still dominate the loop so the fixed point converges to a
// deterministic answer.
func TestSolveZeroSelfLoop(t *testing.T) {
	g := energyGame(t, 1,
		[]uint8{model.OwnerMax},
		[]model.EnergyEdge{edge(0, 0, 0)})
	require.Equal(t, 1, g.Top().Sign())
	results, d := solve(t, g)
	defer func() { d.Close(); g.Close() }()

	assert.True(t, d.Teller().IsDecided(0))
	assert.Equal(t, model.VertexResult{Vertex: 0, Winner: model.OwnerMin, Strategy: model.NoStrategy}, results[0])
}

// Running the driver twice on the same input yields identical winners and
// strategies.
func TestSolveDeterministic(t *testing.T) {
	build := func() *energy.Game {
		return energyGame(t, 4,
			[]uint8{model.OwnerMax, model.OwnerMin, model.OwnerMax, model.OwnerMin},
			[]model.EnergyEdge{
				edge(0, 1, 2), edge(0, 2, -3),
				edge(1, 0, -2), edge(1, 3, 1),
				edge(2, 3, 4), edge(2, 0, 0),
				edge(3, 2, -4), edge(3, 1, -1),
			})
	}
	g1 := build()
	r1, d1 := solve(t, g1)
	g2 := build()
	r2, d2 := solve(t, g2)
	defer func() { d1.Close(); g1.Close(); d2.Close(); g2.Close() }()

	assert.Equal(t, r1, r2)
}

// After Run finishes, the potential of any vertex still undecided must lie
// strictly between the bounds, and a subsequent compute must keep producing
// an all-zero delta.
func TestSolveFixedPointInvariants(t *testing.T) {
	g := energyGame(t, 2,
		[]uint8{model.OwnerMax, model.OwnerMin},
		[]model.EnergyEdge{edge(0, 1, 3), edge(1, 0, -5)})
	_, d := solve(t, g)
	defer func() { d.Close(); g.Close() }()

	for _, v := range d.Teller().UndecidedVertices() {
		pot := d.Teller().Potential()[v]
		assert.Equal(t, -1, pot.Cmp(g.Top()))
		assert.Equal(t, 1, pot.Cmp(g.Bottom()))
	}

	d.compute()
	assert.True(t, d.current().allZeroOnUndecided())
	assert.False(t, d.teller.Reduce(d.current().Delta()))
}

func TestSolveRejectsDeadEnd(t *testing.T) {
	arena := energy.NewInt64Arena()
	g := energy.NewGame(arena, model.WeightInt64, 2)
	h := arena.FromInt64(1)
	g.AddEdge(0, &h, 1)
	top := arena.FromInt64(4)
	g.SetTop(&top)

	d := New(g, nil)
	err := d.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no outgoing edge")
	d.Close()
	g.Close()
}

func TestSolveCancellation(t *testing.T) {
	g := energyGame(t, 2,
		[]uint8{model.OwnerMax, model.OwnerMin},
		[]model.EnergyEdge{edge(0, 1, 3), edge(1, 0, -5)})
	defer g.Close()
	d := New(g, nil)
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Run(ctx)
	require.Error(t, err)
}
