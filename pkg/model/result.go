package model

import "time"

// NoStrategy marks a vertex without a recorded strategy edge.
const NoStrategy int32 = -1

// VertexResult is the solved outcome for one vertex.
type VertexResult struct {
	Vertex   int32 `json:"vertex"`
	Winner   uint8 `json:"winner"`
	Strategy int32 `json:"strategy"` // NoStrategy when the winner does not own the vertex
}

// SolveStats counts the work performed by the solver.
type SolveStats struct {
	Computes   uint64 `json:"computes"`
	Reduces    uint64 `json:"reduces"`
	PotUpdates uint64 `json:"pot_updates"`
	Phase1     uint64 `json:"phase1"`
	Phase2     uint64 `json:"phase2"`
	Backtracks uint64 `json:"backtracks"`
}

// SolveResult is the full outcome of one solve run.
type SolveResult struct {
	UUID     string         `json:"uuid"`
	Input    string         `json:"input"`
	Format   GameFormat     `json:"format"`
	Weights  WeightKind     `json:"weights"`
	Vertices int            `json:"vertices"`
	Edges    int            `json:"edges"`
	Duration time.Duration  `json:"duration_ns"`
	Verified bool           `json:"verified"`
	Results  []VertexResult `json:"results"`
	Stats    SolveStats     `json:"stats"`
}

// WinnerOf returns the winner for a vertex id, or false when out of range.
func (r *SolveResult) WinnerOf(v int32) (uint8, bool) {
	if v < 0 || int(v) >= len(r.Results) {
		return 0, false
	}
	return r.Results[v].Winner, true
}
