package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/facultydir/harvester/internal/config"
	"github.com/facultydir/harvester/internal/csvio"
	"github.com/facultydir/harvester/internal/database"
	"github.com/facultydir/harvester/internal/directory"
	"github.com/facultydir/harvester/internal/fetch"
	"github.com/facultydir/harvester/internal/load"
	"github.com/facultydir/harvester/internal/storage/gcs"
	"github.com/facultydir/harvester/internal/storage/local"
	"github.com/facultydir/harvester/internal/storage/memory"
)

// newLoadCmd creates the 'load' subcommand. The optional argument is
// the zero-based row offset to resume from after an interrupted run.
func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load [startAt]",
		Short: "Load the filtered batch into Postgres",
		Long: `Reads the filtered CSV and persists each valid record in its own
transaction, relocating photos to blob storage first. Pass a row offset
to resume a run that was interrupted partway through the batch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLoadCommand,
	}
}

func runLoadCommand(cmd *cobra.Command, args []string) error {
	rt, err := resolveRuntime(cmd.Context())
	if err != nil {
		return err
	}
	cfg := rt.cfg

	startAt := 0
	if len(args) == 1 {
		startAt, err = strconv.Atoi(args[0])
		if err != nil || startAt < 0 {
			return fmt.Errorf("startAt must be a non-negative integer, got %q", args[0])
		}
	}

	records, err := csvio.ReadFile(cfg.Files.FilteredCSV)
	if err != nil {
		return fmt.Errorf("read filtered csv: %w", err)
	}

	blobs, closeBlobs, err := buildBlobStore(cmd.Context(), cfg, rt.logger)
	if err != nil {
		return err
	}
	defer closeBlobs()

	fetcher := fetch.NewCollyFetcher(fetch.Config{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	relocator := load.NewRelocator(fetcher, blobs, rt.logger)

	store, err := database.NewStaffStore(cmd.Context(), database.StaffStoreConfig{
		DSN:      cfg.DB.DSN,
		Table:    cfg.DB.Table,
		MaxConns: cfg.DB.MaxConns,
	})
	if err != nil {
		return fmt.Errorf("init staff store: %w", err)
	}
	defer store.Close()

	pipeline, err := load.NewPipeline(store, relocator, directory.DefaultDepartments, load.Config{
		TimeslotsPerHour: cfg.DB.TimeslotsPerHour,
	}, rt.logger)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	runID := uuid.NewString()
	started := time.Now()
	counters, err := pipeline.Run(cmd.Context(), records, startAt)
	if err != nil {
		return fmt.Errorf("run load %s: %w", runID, err)
	}

	rt.logger.Info("load finished",
		zap.String("run_id", runID),
		zap.Int("start_at", startAt),
		zap.Int("inserted", counters.Inserted),
		zap.Int("skipped_duplicate", counters.SkippedDuplicate),
		zap.Int("skipped_invalid", counters.SkippedInvalid),
		zap.Int("failed", counters.Failed),
	)

	rt.publishSummary(cmd.Context(), map[string]any{
		"stage":             "load",
		"run_id":            runID,
		"start_at":          startAt,
		"rows":              len(records),
		"inserted":          counters.Inserted,
		"skipped_duplicate": counters.SkippedDuplicate,
		"skipped_invalid":   counters.SkippedInvalid,
		"failed":            counters.Failed,
		"duration_ms":       time.Since(started).Milliseconds(),
	})
	return nil
}

// buildBlobStore selects the photo store backend from config. The
// returned closer releases any underlying client.
func buildBlobStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (load.BlobStore, func(), error) {
	switch cfg.Storage.Backend {
	case "gcs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("init gcs client: %w", err)
		}
		store, err := gcs.New(client, gcs.Config{Bucket: cfg.Storage.GCSBucket})
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("init gcs store: %w", err)
		}
		closer := func() {
			if cerr := client.Close(); cerr != nil {
				logger.Warn("gcs client close failed", zap.Error(cerr))
			}
		}
		return store, closer, nil
	case "local":
		store, err := local.New(local.Config{BaseDir: cfg.Storage.LocalDir})
		if err != nil {
			return nil, nil, fmt.Errorf("init local store: %w", err)
		}
		return store, func() {}, nil
	case "memory":
		return memory.NewBlobStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
