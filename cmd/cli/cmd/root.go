// Package cmd implements the oink command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/michaelcadilhac/oink/pkg/config"
	"github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/telemetry"
	"github.com/michaelcadilhac/oink/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg          *config.Config
	logger       utils.Logger
	otelShutdown telemetry.ShutdownFunc
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "oink",
	Short: "A parity and energy game solver",
	Long: `oink solves two-player infinite-duration games on finite weighted
graphs: energy games directly, and parity games through the priority-to-
weight reduction. The engine is a fixed-point value iteration (FVI) over
potentials, alternating a primal and a dual round until nothing changes.

Solutions list, per vertex, the winning player and a positional strategy,
and can be certified by an independent SCC-based verifier.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logLevel := utils.ParseLogLevel(cfg.Log.Level)
		if verbose {
			logLevel = utils.LevelDebug
		}
		if cfg.Log.OutputPath != "" {
			logger, err = utils.NewFileLogger(logLevel, cfg.Log.OutputPath)
			if err != nil {
				return err
			}
		} else {
			logger = utils.NewDefaultLogger(logLevel, os.Stderr)
		}
		utils.SetGlobalLogger(logger)

		otelShutdown, err = telemetry.Init(cmd.Context())
		if err != nil {
			logger.Warn("telemetry init failed: %v", err)
			otelShutdown = nil
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if otelShutdown != nil {
			return otelShutdown(context.Background())
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", BinName(), errors.GetErrorMessage(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default: ./config.yaml)")

	binName := BinName()
	rootCmd.Example = `  # Solve a parity game in PGSolver format
  ` + binName + ` solve game.pg

  # Solve an energy game and certify nothing before printing
  ` + binName + ` solve -f energy game.e

  # Solve, certify and persist the run
  ` + binName + ` solve --verify --save game.pg

  # Certify an existing solution
  ` + binName + ` verify game.pg game.sol

  # List persisted runs
  ` + binName + ` history -n 10`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
