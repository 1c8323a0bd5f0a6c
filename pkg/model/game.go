// Package model defines the data structures exchanged between the parsers,
// the solver engine and the output layers.
package model

import "math/big"

// GameFormat identifies the input format of a game description.
type GameFormat string

const (
	// FormatPGSolver is the PGSolver parity-game text format.
	FormatPGSolver GameFormat = "pgsolver"
	// FormatEnergy is the plain-text energy-game format.
	FormatEnergy GameFormat = "energy"
)

// WeightKind selects the concrete weight representation used by the engine.
type WeightKind string

const (
	// WeightAuto picks int64 when the derived bounds fit, big otherwise.
	WeightAuto WeightKind = "auto"
	// WeightInt64 uses native 64-bit integers.
	WeightInt64 WeightKind = "int64"
	// WeightBig uses arbitrary-precision integers.
	WeightBig WeightKind = "big"
	// WeightVec uses a dense per-priority vector (parity games only).
	WeightVec WeightKind = "vec"
	// WeightMap uses a sparse priority→multiplicity map (parity games only).
	WeightMap WeightKind = "map"
)

// Player owner encoding: 0 plays Max (even), 1 plays Min (odd).
const (
	OwnerMax uint8 = 0
	OwnerMin uint8 = 1
)

// ParityVertex is one vertex of a parsed parity game.
type ParityVertex struct {
	ID       int32   `json:"id"`
	Priority int32   `json:"priority"`
	Owner    uint8   `json:"owner"`
	Succs    []int32 `json:"succs"`
	Label    string  `json:"label,omitempty"`
}

// ParityInput is a parsed parity game.
type ParityInput struct {
	// N is the number of vertices; vertex ids are 0..N-1.
	N        int32          `json:"n"`
	Vertices []ParityVertex `json:"vertices"`
}

// EnergyEdge is one weighted edge of a parsed energy game.
type EnergyEdge struct {
	Src    int32    `json:"src"`
	Dst    int32    `json:"dst"`
	Weight *big.Int `json:"weight"`
}

// EnergyInput is a parsed energy game.
type EnergyInput struct {
	N      int32        `json:"n"`
	Owners []uint8      `json:"owners"`
	Edges  []EnergyEdge `json:"edges"`
}

// GameInput is the parser output: exactly one of Parity, Energy is set.
type GameInput struct {
	Format GameFormat   `json:"format"`
	Parity *ParityInput `json:"parity,omitempty"`
	Energy *EnergyInput `json:"energy,omitempty"`
}

// NumVertices returns the vertex count of whichever game is present.
func (g *GameInput) NumVertices() int {
	switch {
	case g.Parity != nil:
		return int(g.Parity.N)
	case g.Energy != nil:
		return int(g.Energy.N)
	default:
		return 0
	}
}
