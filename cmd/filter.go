package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/facultydir/harvester/internal/csvio"
	"github.com/facultydir/harvester/internal/directory"
	"github.com/facultydir/harvester/internal/filter"
)

// newFilterCmd creates the 'filter' subcommand. It narrows the raw
// directory batch down to records in whitelisted departments.
func newFilterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter",
		Short: "Filter the directory batch by department whitelist",
		Long: `Reads the directory CSV, keeps only records whose department
matches the whitelist (case-insensitively), and writes the surviving
records to the filtered CSV in their original order.`,
		RunE: runFilterCommand,
	}
}

func runFilterCommand(cmd *cobra.Command, _ []string) error {
	rt, err := resolveRuntime(cmd.Context())
	if err != nil {
		return err
	}
	cfg := rt.cfg

	records, err := csvio.ReadFile(cfg.Files.DirectoryCSV)
	if err != nil {
		return fmt.Errorf("read directory csv: %w", err)
	}

	kept := filter.ByDepartment(records, directory.DefaultDepartments)

	if err := csvio.WriteFile(cfg.Files.FilteredCSV, kept); err != nil {
		return fmt.Errorf("write filtered csv: %w", err)
	}
	rt.logger.Info("filtered batch written",
		zap.String("path", cfg.Files.FilteredCSV),
		zap.Int("in", len(records)),
		zap.Int("kept", len(kept)),
	)
	return nil
}
