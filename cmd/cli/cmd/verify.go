package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/michaelcadilhac/oink/internal/verifier"
	"github.com/michaelcadilhac/oink/pkg/writer"
)

var verifyEnergySemantics bool

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <game> <solution>",
	Short: "Certify a solved game",
	Long: `Verify reads a parity game and a solution file ("<vertex> <winner>
<strategy>" lines) and certifies the solution independently of the solver:
strategies must stay in their dominion, and no strongly connected component
of the winner-forced graph may let the loser win. Exit code 0 means the
solution certifies.`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().BoolVar(&verifyEnergySemantics, "energy-semantics", false,
		"Certify with Bellman-Ford over priorities instead of the parity criterion")
}

func runVerify(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := buildService(false)
	if err != nil {
		return err
	}
	defer cleanup()

	pg, err := svc.LoadParity(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	f, err := os.Open(args[1])
	if err != nil {
		return err
	}
	results, err := writer.ReadSolution(f, pg.NumVertices())
	f.Close()
	if err != nil {
		return err
	}

	mode := verifier.ModeParity
	if verifyEnergySemantics {
		mode = verifier.ModeEnergy
	}
	if err := verifier.New(pg, mode).Verify(results); err != nil {
		return err
	}
	logger.Info("solution certifies (%s mode, %d vertices)", mode, pg.NumVertices())
	return nil
}
