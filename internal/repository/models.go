package repository

import (
	"encoding/json"
	"time"

	"github.com/michaelcadilhac/oink/pkg/model"
)

// SolveRun represents the solve_run table.
type SolveRun struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UUID       string    `gorm:"column:uuid;type:varchar(64);uniqueIndex"`
	Input      string    `gorm:"column:input;type:varchar(512)"`
	Format     string    `gorm:"column:format;type:varchar(16)"`
	Weights    string    `gorm:"column:weights;type:varchar(16)"`
	Vertices   int       `gorm:"column:vertices"`
	Edges      int       `gorm:"column:edges"`
	DurationNS int64     `gorm:"column:duration_ns"`
	Verified   bool      `gorm:"column:verified"`
	Results    string    `gorm:"column:results;type:text"`
	Stats      string    `gorm:"column:stats;type:text"`
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime"`
}

// TableName returns the table name for SolveRun.
func (SolveRun) TableName() string {
	return "solve_run"
}

// FromModel converts a SolveResult into its row representation.
func FromModel(r *model.SolveResult) (*SolveRun, error) {
	results, err := json.Marshal(r.Results)
	if err != nil {
		return nil, err
	}
	stats, err := json.Marshal(r.Stats)
	if err != nil {
		return nil, err
	}
	return &SolveRun{
		UUID:       r.UUID,
		Input:      r.Input,
		Format:     string(r.Format),
		Weights:    string(r.Weights),
		Vertices:   r.Vertices,
		Edges:      r.Edges,
		DurationNS: int64(r.Duration),
		Verified:   r.Verified,
		Results:    string(results),
		Stats:      string(stats),
	}, nil
}

// ToModel converts the row back to a SolveResult.
func (r *SolveRun) ToModel() *model.SolveResult {
	result := &model.SolveResult{
		UUID:     r.UUID,
		Input:    r.Input,
		Format:   model.GameFormat(r.Format),
		Weights:  model.WeightKind(r.Weights),
		Vertices: r.Vertices,
		Edges:    r.Edges,
		Duration: time.Duration(r.DurationNS),
		Verified: r.Verified,
	}
	if r.Results != "" {
		_ = json.Unmarshal([]byte(r.Results), &result.Results)
	}
	if r.Stats != "" {
		_ = json.Unmarshal([]byte(r.Stats), &result.Stats)
	}
	return result
}
