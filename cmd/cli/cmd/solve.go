package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/michaelcadilhac/oink/internal/repository"
	"github.com/michaelcadilhac/oink/internal/service"
	"github.com/michaelcadilhac/oink/internal/storage"
	"github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
	"github.com/michaelcadilhac/oink/pkg/parallel"
	"github.com/michaelcadilhac/oink/pkg/writer"
)

var (
	// Solve command flags
	solveFormat  string
	solveWeights string
	solveOutput  string
	solveJSON    bool
	solveVerify  bool
	solveSave    bool
	solveJobs    int
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve <input>...",
	Short: "Solve parity or energy games",
	Long: `Solve reads one or more game files, runs the FVI engine and prints one
"<vertex> <winner> <strategy>" line per vertex. With several inputs the
games are solved concurrently and each solution is written next to its
input as <input>.sol.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringVarP(&solveFormat, "format", "f", "", "Input format: pgsolver or energy (default: detect)")
	solveCmd.Flags().StringVarP(&solveWeights, "weights", "w", "", "Weight representation: auto, int64, big, vec, map")
	solveCmd.Flags().StringVarP(&solveOutput, "output", "o", "", "Output file (default: stdout; single input only)")
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "Emit the full result as JSON instead of solution lines")
	solveCmd.Flags().BoolVar(&solveVerify, "verify", false, "Certify the solution before reporting it")
	solveCmd.Flags().BoolVar(&solveSave, "save", false, "Persist the run to the database")
	solveCmd.Flags().IntVarP(&solveJobs, "jobs", "j", 0, "Games solved concurrently in batch mode (default: config)")
}

// buildService assembles the service from config and flags.
func buildService(needRepo bool) (*service.Service, func(), error) {
	store, err := storage.New(&cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var repo repository.RunRepository
	if needRepo {
		db, err := repository.NewGormDB(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		gormRepo, err := repository.NewGormRunRepository(db)
		if err != nil {
			repository.Close(db)
			return nil, nil, err
		}
		repo = gormRepo
		cleanup = func() { _ = repository.Close(db) }
	}

	return service.New(store, repo, logger), cleanup, nil
}

func solveOptions() (service.Options, error) {
	opts := service.Options{
		Format:  model.GameFormat(solveFormat),
		Weights: model.WeightKind(solveWeights),
		Verify:  solveVerify || cfg.Solver.Verify,
		Save:    solveSave || cfg.Solver.Save,
	}
	switch opts.Format {
	case "", model.FormatPGSolver, model.FormatEnergy:
	default:
		return opts, errors.Newf(errors.CodeUnsupported, "unknown format %q", solveFormat)
	}
	if opts.Weights == "" {
		opts.Weights = model.WeightKind(cfg.Solver.Weights)
	}
	return opts, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	opts, err := solveOptions()
	if err != nil {
		return err
	}

	svc, cleanup, err := buildService(opts.Save)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(args) == 1 {
		return solveOne(cmd.Context(), svc, args[0], opts)
	}
	return solveBatch(cmd.Context(), svc, args, opts)
}

func solveOne(ctx context.Context, svc *service.Service, input string, opts service.Options) error {
	result, err := svc.SolveFile(ctx, input, opts)
	if err != nil {
		return err
	}

	out := os.Stdout
	if solveOutput != "" {
		f, err := os.Create(solveOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return writeResult(result, out)
}

func solveBatch(ctx context.Context, svc *service.Service, inputs []string, opts service.Options) error {
	if solveOutput != "" {
		return errors.New(errors.CodeUnsupported, "--output is only valid with a single input")
	}

	jobs := solveJobs
	if jobs <= 0 {
		jobs = cfg.Solver.Jobs
	}

	results, errs := parallel.Map(ctx, inputs,
		parallel.DefaultPoolConfig().WithWorkers(jobs),
		func(ctx context.Context, input string) (*model.SolveResult, error) {
			return svc.SolveFile(ctx, input, opts)
		})

	failed := 0
	for i, input := range inputs {
		if errs[i] != nil {
			failed++
			logger.Error("%s: %v", input, errs[i])
			continue
		}
		path := input + ".sol"
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = writeResult(results[i], f)
		f.Close()
		if err != nil {
			return err
		}
		logger.Info("%s: %d vertices solved in %s → %s",
			input, results[i].Vertices, results[i].Duration.Round(0), path)
	}
	if failed > 0 {
		return errors.Newf(errors.CodeSolveError, "%d of %d games failed", failed, len(inputs))
	}
	return nil
}

func writeResult(result *model.SolveResult, out *os.File) error {
	if solveJSON {
		return writer.NewPrettyJSONWriter[*model.SolveResult]().Write(result, out)
	}
	if err := writer.WriteSolution(result.Results, out); err != nil {
		return fmt.Errorf("failed to write solution: %w", err)
	}
	return nil
}
