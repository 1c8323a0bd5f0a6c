// Package service orchestrates one solve: fetch the input, parse it, build
// the energy game, run the driver, optionally certify and persist the
// result.
package service

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/michaelcadilhac/oink/internal/energy"
	"github.com/michaelcadilhac/oink/internal/game"
	"github.com/michaelcadilhac/oink/internal/parser"
	"github.com/michaelcadilhac/oink/internal/repository"
	"github.com/michaelcadilhac/oink/internal/solver"
	"github.com/michaelcadilhac/oink/internal/storage"
	"github.com/michaelcadilhac/oink/internal/verifier"
	"github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
	"github.com/michaelcadilhac/oink/pkg/utils"
)

const tracerName = "github.com/michaelcadilhac/oink"

// Options configures one solve request.
type Options struct {
	// Format forces the input format; empty means detect.
	Format model.GameFormat
	// Weights selects the weight representation.
	Weights model.WeightKind
	// Verify certifies the solution before reporting it.
	Verify bool
	// Save persists the run through the repository.
	Save bool
}

// Service wires the parsers, the engine, and the optional side services.
type Service struct {
	registry *parser.Registry
	store    storage.Storage
	repo     repository.RunRepository
	logger   utils.Logger
}

// New creates a Service. store and repo may be nil when remote inputs and
// persistence are not configured.
func New(store storage.Storage, repo repository.RunRepository, logger utils.Logger) *Service {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &Service{
		registry: parser.NewRegistry(),
		store:    store,
		repo:     repo,
		logger:   logger,
	}
}

// open resolves the input path: plain files first, then the configured
// storage backend.
func (s *Service) open(ctx context.Context, path string) (io.ReadCloser, error) {
	if f, err := os.Open(path); err == nil {
		return f, nil
	}
	if s.store != nil {
		return s.store.Download(ctx, path)
	}
	return nil, errors.Newf(errors.CodeNotFound, "cannot open input %q", path)
}

// SolveFile runs the full pipeline on one input file.
func (s *Service) SolveFile(ctx context.Context, path string, opts Options) (*model.SolveResult, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "solve-file")
	span.SetAttributes(attribute.String("input", path))
	defer span.End()

	timer := utils.NewTimer()

	stop := timer.Start("parse")
	rc, err := s.open(ctx, path)
	if err != nil {
		return nil, err
	}
	input, err := s.registry.ParseReader(ctx, rc, opts.Format)
	rc.Close()
	stop()
	if err != nil {
		return nil, err
	}

	stop = timer.Start("convert")
	var pg *game.ParityGame
	var eg *energy.Game
	switch {
	case input.Parity != nil:
		pg, err = game.FromInput(input.Parity)
		if err == nil {
			eg, err = energy.FromParity(pg, opts.Weights, false)
		}
	case input.Energy != nil:
		eg, err = energy.FromEnergyInput(input.Energy, opts.Weights)
	default:
		err = errors.New(errors.CodeInvalidInput, "empty game input")
	}
	stop()
	if err != nil {
		return nil, err
	}
	defer eg.Close()

	result := &model.SolveResult{
		UUID:     uuid.NewString(),
		Input:    path,
		Format:   input.Format,
		Weights:  eg.WeightKind(),
		Vertices: int(eg.NumVertices()),
		Edges:    eg.NumEdges(),
	}

	stop = timer.Start("solve")
	_, solveSpan := tracer.Start(ctx, "solve")
	driver := solver.New(eg, s.logger)
	defer driver.Close()
	err = driver.Run(ctx)
	solveSpan.End()
	duration := stop()
	if err != nil {
		return nil, err
	}
	result.Results = driver.Results()
	result.Stats = driver.Stats()
	result.Duration = duration

	if opts.Verify {
		stop = timer.Start("verify")
		_, verifySpan := tracer.Start(ctx, "verify")
		err = s.verify(pg, result.Results)
		verifySpan.End()
		stop()
		if err != nil {
			return nil, err
		}
		result.Verified = pg != nil
	}

	if opts.Save && s.repo != nil {
		stop = timer.Start("store")
		_, storeSpan := tracer.Start(ctx, "store")
		err = s.repo.SaveRun(ctx, result)
		storeSpan.End()
		stop()
		if err != nil {
			return nil, err
		}
	}

	s.logger.Debug("solved %s: %s", path, timer.Summary())
	s.logger.Debug("stats: computes=%d reduces=%d pot_updates=%d phase1=%d phase2=%d backtracks=%d",
		result.Stats.Computes, result.Stats.Reduces, result.Stats.PotUpdates,
		result.Stats.Phase1, result.Stats.Phase2, result.Stats.Backtracks)
	return result, nil
}

// verify certifies a solution; only parity inputs carry the priorities the
// verifier needs.
func (s *Service) verify(pg *game.ParityGame, results []model.VertexResult) error {
	if pg == nil {
		s.logger.Warn("verification is only available for parity inputs, skipping")
		return nil
	}
	return verifier.New(pg, verifier.ModeParity).Verify(results)
}

// VerifySolution certifies an externally produced solution against the
// parity game at path.
func (s *Service) VerifySolution(ctx context.Context, path string, results []model.VertexResult, mode verifier.Mode) error {
	pg, err := s.LoadParity(ctx, path)
	if err != nil {
		return err
	}
	return verifier.New(pg, mode).Verify(results)
}

// LoadParity parses the input at path as a parity game.
func (s *Service) LoadParity(ctx context.Context, path string) (*game.ParityGame, error) {
	rc, err := s.open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	input, err := s.registry.ParseReader(ctx, rc, "")
	if err != nil {
		return nil, err
	}
	if input.Parity == nil {
		return nil, errors.New(errors.CodeUnsupported, "verification requires a parity game input")
	}
	return game.FromInput(input.Parity)
}

// WriteSolutionArtifact uploads a rendered solution next to the input when
// a storage backend is configured.
func (s *Service) WriteSolutionArtifact(ctx context.Context, key string, reader io.Reader) error {
	if s.store == nil {
		return errors.New(errors.CodeUnsupported, "no storage backend configured")
	}
	start := time.Now()
	if err := s.store.Upload(ctx, key, reader); err != nil {
		return err
	}
	s.logger.Debug("uploaded %s in %s", key, time.Since(start).Round(time.Millisecond))
	return nil
}
