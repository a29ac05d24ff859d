// Package cmd defines and implements the CLI commands for the harvester
// executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/facultydir/harvester/internal/config"
	"github.com/facultydir/harvester/internal/logging"
	"github.com/facultydir/harvester/internal/metrics"
	"github.com/facultydir/harvester/internal/ops"
	"github.com/facultydir/harvester/internal/publisher"
	pubsubpub "github.com/facultydir/harvester/internal/publisher/pubsub"
)

var cfgFile string

// appKeyType is the key for storing the runtime in the context.
type appKeyType string

const appKey appKeyType = "app"

// runtime carries the services shared by every subcommand.
type runtime struct {
	cfg          config.Config
	logger       *zap.Logger
	publisher    publisher.Publisher
	pubsubClient *pubsub.Client
	opsServer    *ops.Server
}

// newRuntime loads config and brings up logging, metrics, the optional
// ops listener, and the optional Pub/Sub publisher.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics.Init()

	rt := &runtime{cfg: cfg, logger: logger}

	if cfg.Ops.Port > 0 {
		rt.opsServer = ops.NewServer(cfg.Ops.Port, logger)
		go func() {
			if serveErr := rt.opsServer.Start(); serveErr != nil {
				logger.Error("ops listener failed", zap.Error(serveErr))
			}
		}()
	}

	if cfg.PubSub.ProjectID != "" && cfg.PubSub.TopicName != "" {
		client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("init pubsub client: %w", err)
		}
		rt.pubsubClient = client
		rt.publisher = pubsubpub.New(client)
	}

	return rt, nil
}

// Close releases every service the runtime owns.
func (rt *runtime) Close() {
	if rt.opsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.opsServer.Shutdown(ctx); err != nil {
			rt.logger.Warn("ops shutdown failed", zap.Error(err))
		}
	}
	if rt.pubsubClient != nil {
		if err := rt.pubsubClient.Close(); err != nil {
			rt.logger.Warn("pubsub close failed", zap.Error(err))
		}
	}
	_ = rt.logger.Sync()
}

// publishSummary sends a run-summary event when a publisher is
// configured. Publishing is best-effort; failures are logged, never
// returned.
func (rt *runtime) publishSummary(ctx context.Context, payload any) {
	if rt.publisher == nil {
		return
	}
	id, err := rt.publisher.Publish(ctx, rt.cfg.PubSub.TopicName, payload)
	if err != nil {
		rt.logger.Warn("publish run summary failed", zap.Error(err))
		return
	}
	rt.logger.Info("run summary published", zap.String("message_id", id))
}

func resolveRuntime(ctx context.Context) (*runtime, error) {
	rt, ok := ctx.Value(appKey).(*runtime)
	if !ok || rt == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return rt, nil
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvester",
		Short: "Faculty directory harvest and load toolchain.",
		Long: `harvester traverses a rendered faculty directory, extracts person
records into CSV batches, filters them against a department whitelist,
and loads the cleaned rows into Postgres with photo relocation to
durable blob storage.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, rt))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if rt, ok := cmd.Context().Value(appKey).(*runtime); ok && rt != nil {
				rt.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults plus HARVESTER_* env)")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newFilterCmd())
	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newReconcileCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
