package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/facultydir/harvester/internal/csvio"
	"github.com/facultydir/harvester/internal/reconcile"
)

// newReconcileCmd creates the 'reconcile' subcommand, an audit tool
// that diffs the name columns of two CSV batches.
func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <left.csv> <right.csv>",
		Short: "Compare the name columns of two CSV batches",
		Long: `Reads two CSV batches and reports names present in both, names
only in the left batch, and names only in the right batch. Useful for
auditing drift between a fresh crawl and an earlier snapshot.`,
		Args: cobra.ExactArgs(2),
		RunE: runReconcileCommand,
	}
}

func runReconcileCommand(cmd *cobra.Command, args []string) error {
	rt, err := resolveRuntime(cmd.Context())
	if err != nil {
		return err
	}

	left, err := csvio.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read left batch: %w", err)
	}
	right, err := csvio.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read right batch: %w", err)
	}

	res := reconcile.Compare(reconcile.Names(left), reconcile.Names(right))

	rt.logger.Info("reconcile finished",
		zap.String("left", args[0]),
		zap.String("right", args[1]),
		zap.Int("matches", res.Matches),
		zap.Int("only_left", len(res.OnlyLeft)),
		zap.Int("only_right", len(res.OnlyRight)),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "matches: %d\n", res.Matches)
	for _, name := range res.OnlyLeft {
		fmt.Fprintf(out, "only in %s: %s\n", args[0], name)
	}
	for _, name := range res.OnlyRight {
		fmt.Fprintf(out, "only in %s: %s\n", args[1], name)
	}
	return nil
}
