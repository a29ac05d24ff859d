package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/facultydir/harvester/internal/crawl"
	"github.com/facultydir/harvester/internal/csvio"
	"github.com/facultydir/harvester/internal/extract"
)

// newCrawlCmd creates the 'crawl' subcommand. It walks every partition
// of the rendered directory and writes the raw batch to the directory
// CSV file.
func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Harvest the faculty directory into a CSV batch",
		Long: `Renders each partition of the directory with headless Chrome,
pages forward until the partition is exhausted, extracts one record per
person block, and writes the accumulated batch to the directory CSV.`,
		RunE: runCrawlCommand,
	}
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	rt, err := resolveRuntime(cmd.Context())
	if err != nil {
		return err
	}
	cfg := rt.cfg

	extractor := extract.New(extract.Config{Origin: cfg.Crawler.Origin})

	renderer, err := crawl.NewChromedpRenderer(crawl.RendererConfig{
		UserAgent:      cfg.Crawler.UserAgent,
		WaitSelector:   extract.PersonSelector(),
		PageTimeout:    cfg.PageWait(),
		MaxConcurrency: cfg.Crawler.RenderParallel,
		DomainQPS:      cfg.Crawler.DomainQPS,
	}, rt.logger)
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	defer renderer.Close()

	controller, err := crawl.NewController(renderer, extractor, crawl.Config{
		BaseURL:     cfg.Crawler.BaseURL,
		Partitions:  cfg.PartitionKeys(),
		Concurrency: cfg.Crawler.Concurrency,
	}, rt.logger)
	if err != nil {
		return fmt.Errorf("init controller: %w", err)
	}

	started := time.Now()
	records, err := controller.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("run crawl: %w", err)
	}

	if err := csvio.WriteFile(cfg.Files.DirectoryCSV, records); err != nil {
		return fmt.Errorf("write directory csv: %w", err)
	}
	rt.logger.Info("directory batch written",
		zap.String("path", cfg.Files.DirectoryCSV),
		zap.Int("records", len(records)),
	)

	rt.publishSummary(cmd.Context(), map[string]any{
		"stage":       "crawl",
		"records":     len(records),
		"partitions":  len(cfg.PartitionKeys()),
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return nil
}
