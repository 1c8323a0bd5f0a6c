package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/michaelcadilhac/oink/internal/repository"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List persisted solve runs",
	Long:  `History lists the most recent solve runs saved with "solve --save".`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := repository.NewGormDB(&cfg.Database)
	if err != nil {
		return err
	}
	defer repository.Close(db)

	repo, err := repository.NewGormRunRepository(db)
	if err != nil {
		return err
	}
	runs, err := repo.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UUID\tINPUT\tFORMAT\tWEIGHTS\tVERTICES\tEDGES\tDURATION\tVERIFIED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%t\n",
			r.UUID, r.Input, r.Format, r.Weights, r.Vertices, r.Edges,
			r.Duration.Round(0), r.Verified)
	}
	return tw.Flush()
}
