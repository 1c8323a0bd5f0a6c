package solver

import (
	"context"

	"github.com/michaelcadilhac/oink/internal/energy"
	"github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
	"github.com/michaelcadilhac/oink/pkg/utils"
)

// stats counts the work of a driver run.
type stats struct {
	computes   uint64
	phase1     uint64
	phase2     uint64
	backtracks uint64
}

// Driver alternates the primal and dual FVI computers against one potential
// teller until a round leaves every potential unchanged. Max strategies are
// read from the primal computer, Min strategies from the dual.
type Driver struct {
	g      *energy.Game
	teller *Teller
	primal *computer
	dual   *computer
	swap   bool
	logger utils.Logger
	stats  stats
	closed bool
}

// New creates a driver for the game. The game must validate before Run.
func New(g *energy.Game, logger utils.Logger) *Driver {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	d := &Driver{
		g:      g,
		teller: NewTeller(g),
		logger: logger,
		swap:   false, // first compute flips to the dual side
	}
	d.primal = newComputer(g, d.teller, false, logger, &d.stats)
	d.dual = newComputer(g, d.teller, true, logger, &d.stats)
	return d
}

// Teller exposes the running potential state.
func (d *Driver) Teller() *Teller { return d.teller }

// current returns the computer that ran last.
func (d *Driver) current() *computer {
	if d.swap {
		return d.dual
	}
	return d.primal
}

// compute flips sides and runs one FVI round. A round that produces no
// update on any undecided vertex immediately triggers one round of the
// other side, which pins the zero-delta fixed point down for both players.
func (d *Driver) compute() {
	d.swap = !d.swap
	d.current().Compute()
	if !d.current().allZeroOnUndecided() {
		return
	}
	d.swap = !d.swap
	d.current().Compute()
}

// Run drives compute/reduce to the fixed point. The engine is synchronous;
// cancellation is honoured between rounds only.
func (d *Driver) Run(ctx context.Context) error {
	if err := d.g.Validate(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.CodeSolveError, "solve cancelled", err)
		}
		d.compute()
		d.logger.Debug("round %d: %d undecided", d.stats.computes, len(d.teller.UndecidedVertices()))
		if !d.teller.Reduce(d.current().Delta()) {
			return nil
		}
	}
}

// StrategyFor returns the recorded winning move for v: Min-owned vertices
// consult the dual computer, Max-owned ones the primal.
func (d *Driver) StrategyFor(v energy.Vertex) (energy.Vertex, bool) {
	if d.g.IsMin(v) {
		return d.dual.StrategyFor(v)
	}
	return d.primal.StrategyFor(v)
}

// Results reads the winner and strategy of every vertex. A vertex whose
// owner has a recorded winning move is won by its owner; otherwise the
// opponent wins and no strategy is reported.
func (d *Driver) Results() []model.VertexResult {
	n := d.g.NumVertices()
	results := make([]model.VertexResult, n)
	for v := int32(0); v < n; v++ {
		owner := model.OwnerMin
		if d.g.IsMax(v) {
			owner = model.OwnerMax
		}
		if strat, ok := d.StrategyFor(v); ok {
			results[v] = model.VertexResult{Vertex: v, Winner: owner, Strategy: strat}
		} else {
			results[v] = model.VertexResult{Vertex: v, Winner: 1 - owner, Strategy: model.NoStrategy}
		}
	}
	return results
}

// Stats returns the accumulated work counters.
func (d *Driver) Stats() model.SolveStats {
	return model.SolveStats{
		Computes:   d.stats.computes,
		Reduces:    d.teller.reduces,
		PotUpdates: d.teller.potUpdates,
		Phase1:     d.stats.phase1,
		Phase2:     d.stats.phase2,
		Backtracks: d.stats.backtracks,
	}
}

// Close releases all solver-held weight cells. The game itself is closed by
// its owner.
func (d *Driver) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.primal.Close()
	d.dual.Close()
	d.teller.Close()
}
