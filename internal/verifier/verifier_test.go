package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelcadilhac/oink/internal/game"
	oerrors "github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
)

func buildGame(t *testing.T, in *model.ParityInput) *game.ParityGame {
	t.Helper()
	g, err := game.FromInput(in)
	require.NoError(t, err)
	return g
}

func res(v int32, winner uint8, strat int32) model.VertexResult {
	return model.VertexResult{Vertex: v, Winner: winner, Strategy: strat}
}

// The documented negative case: both vertices claimed for Max although the
// dominating priority of the only cycle is odd.
func TestVerifyRejectsLoserWinsSCC(t *testing.T) {
	g := buildGame(t, &model.ParityInput{
		N: 2,
		Vertices: []model.ParityVertex{
			{ID: 0, Priority: 1, Owner: model.OwnerMax, Succs: []int32{1}},
			{ID: 1, Priority: 0, Owner: model.OwnerMin, Succs: []int32{0}},
		},
	})
	err := New(g, ModeParity).Verify([]model.VertexResult{
		res(0, model.OwnerMax, 1),
		res(1, model.OwnerMax, model.NoStrategy),
	})
	require.Error(t, err)
	assert.True(t, oerrors.IsVerificationFailure(err))
	assert.Contains(t, err.Error(), "loser wins")
}

// The correct solution of the same game certifies: Min wins everything.
func TestVerifyAcceptsCorrectSolution(t *testing.T) {
	g := buildGame(t, &model.ParityInput{
		N: 2,
		Vertices: []model.ParityVertex{
			{ID: 0, Priority: 1, Owner: model.OwnerMax, Succs: []int32{1}},
			{ID: 1, Priority: 0, Owner: model.OwnerMin, Succs: []int32{0}},
		},
	})
	err := New(g, ModeParity).Verify([]model.VertexResult{
		res(0, model.OwnerMin, model.NoStrategy),
		res(1, model.OwnerMin, 0),
	})
	assert.NoError(t, err)
}

func threeCycle(t *testing.T) *game.ParityGame {
	return buildGame(t, &model.ParityInput{
		N: 3,
		Vertices: []model.ParityVertex{
			{ID: 0, Priority: 2, Owner: model.OwnerMax, Succs: []int32{1}},
			{ID: 1, Priority: 3, Owner: model.OwnerMin, Succs: []int32{2}},
			{ID: 2, Priority: 1, Owner: model.OwnerMax, Succs: []int32{0}},
		},
	})
}

func TestVerifyThreeCycleMinWins(t *testing.T) {
	g := threeCycle(t)
	err := New(g, ModeParity).Verify([]model.VertexResult{
		res(0, model.OwnerMin, model.NoStrategy),
		res(1, model.OwnerMin, 2),
		res(2, model.OwnerMin, model.NoStrategy),
	})
	assert.NoError(t, err)
}

func TestVerifyStrategyChecks(t *testing.T) {
	g := threeCycle(t)

	t.Run("winner without strategy", func(t *testing.T) {
		err := New(g, ModeParity).Verify([]model.VertexResult{
			res(0, model.OwnerMin, model.NoStrategy),
			res(1, model.OwnerMin, model.NoStrategy),
			res(2, model.OwnerMin, model.NoStrategy),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no strategy")
	})

	t.Run("strategy is not an edge", func(t *testing.T) {
		err := New(g, ModeParity).Verify([]model.VertexResult{
			res(0, model.OwnerMin, model.NoStrategy),
			res(1, model.OwnerMin, 0),
			res(2, model.OwnerMin, model.NoStrategy),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid move")
	})

	t.Run("loser with strategy", func(t *testing.T) {
		err := New(g, ModeParity).Verify([]model.VertexResult{
			res(0, model.OwnerMin, 1),
			res(1, model.OwnerMin, 2),
			res(2, model.OwnerMin, model.NoStrategy),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "losing vertex")
	})
}

func TestVerifyStrategyLeavesDominion(t *testing.T) {
	// Two dominions: 0 loops on priority 2 (Max wins), 1 loops on priority
	// 1 (Min wins). A Max strategy pointing into the Min dominion must be
	// rejected.
	g := buildGame(t, &model.ParityInput{
		N: 2,
		Vertices: []model.ParityVertex{
			{ID: 0, Priority: 2, Owner: model.OwnerMax, Succs: []int32{0, 1}},
			{ID: 1, Priority: 1, Owner: model.OwnerMin, Succs: []int32{1}},
		},
	})
	err := New(g, ModeParity).Verify([]model.VertexResult{
		res(0, model.OwnerMax, 1),
		res(1, model.OwnerMin, 1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leaves the dominion")

	// A winner-owned vertex may keep an unused edge out of its dominion as
	// long as its strategy stays inside; the valid split certifies.
	err = New(g, ModeParity).Verify([]model.VertexResult{
		res(0, model.OwnerMax, 0),
		res(1, model.OwnerMin, 1),
	})
	assert.NoError(t, err)
}

func TestVerifyEscapeEdge(t *testing.T) {
	// Vertex 0 is claimed for Max but its Min owner can escape to the Min
	// dominion.
	g := buildGame(t, &model.ParityInput{
		N: 2,
		Vertices: []model.ParityVertex{
			{ID: 0, Priority: 2, Owner: model.OwnerMin, Succs: []int32{0, 1}},
			{ID: 1, Priority: 1, Owner: model.OwnerMin, Succs: []int32{1}},
		},
	})
	err := New(g, ModeParity).Verify([]model.VertexResult{
		res(0, model.OwnerMax, model.NoStrategy),
		res(1, model.OwnerMin, 1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escape edge")
}

// Energy mode: priorities act as vertex weights. A claimed-Max component
// is rejected when it holds a negative cycle, a claimed-Min one when it
// holds a positive cycle.
func TestVerifyEnergyMode(t *testing.T) {
	// Cycle 0→1→0 with weights 0 and 2: sum +2.
	g := buildGame(t, &model.ParityInput{
		N: 2,
		Vertices: []model.ParityVertex{
			{ID: 0, Priority: 0, Owner: model.OwnerMin, Succs: []int32{1}},
			{ID: 1, Priority: 2, Owner: model.OwnerMin, Succs: []int32{0}},
		},
	})
	// Make the weights: verifier reads priorities as weights; use a game
	// whose "priorities" encode 0 and 2: cycle sum +2, fine for Max.
	err := New(g, ModeEnergy).Verify([]model.VertexResult{
		res(0, model.OwnerMax, model.NoStrategy),
		res(1, model.OwnerMax, model.NoStrategy),
	})
	assert.NoError(t, err)

	// The same claim for Min must be rejected: Min cannot force a negative
	// cycle in a non-negative component.
	err = New(g, ModeEnergy).Verify([]model.VertexResult{
		res(0, model.OwnerMin, 1),
		res(1, model.OwnerMin, 0),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "infinite cycle")
}

func TestVerifyCoverage(t *testing.T) {
	g := threeCycle(t)
	err := New(g, ModeParity).Verify([]model.VertexResult{})
	require.Error(t, err)
	assert.True(t, oerrors.IsVerificationFailure(err))
}
