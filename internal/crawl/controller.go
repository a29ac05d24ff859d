// Package crawl drives the partitioned traversal of the directory and
// assembles the raw record batch.
package crawl

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/facultydir/harvester/internal/directory"
	"github.com/facultydir/harvester/internal/metrics"
)

// Renderer produces a DOM snapshot for a URL, or an error when the page
// never presents the presence marker. Any error terminates the current
// partition; it is never fatal to the run.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Extractor maps one rendered document into records.
type Extractor interface {
	Extract(html string) ([]directory.Record, error)
}

// Config controls the traversal.
type Config struct {
	// BaseURL is a printf template taking the partition key and the
	// one-based page number, e.g. "https://host/dir/%s?page=%d".
	BaseURL string
	// Partitions are crawled in the given order.
	Partitions []string
	// Concurrency bounds how many partitions crawl at once. Pages
	// within a partition stay sequential.
	Concurrency int
}

// Controller enumerates every partition and accumulates extracted
// records in partition-key order, then page order.
type Controller struct {
	renderer  Renderer
	extractor Extractor
	cfg       Config
	logger    *zap.Logger
}

// cursor is the transient per-partition traversal state.
type cursor struct {
	page      int
	records   int
	exhausted bool
}

// NewController constructs a Controller.
func NewController(renderer Renderer, extractor Extractor, cfg Config, logger *zap.Logger) (*Controller, error) {
	if renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if len(cfg.Partitions) == 0 {
		return nil, fmt.Errorf("at least one partition is required")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		renderer:  renderer,
		extractor: extractor,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Run crawls every partition and returns the concatenated batch. The
// output order is deterministic regardless of crawl concurrency.
func (c *Controller) Run(ctx context.Context) ([]directory.Record, error) {
	results := make([][]directory.Record, len(c.cfg.Partitions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for i, key := range c.cfg.Partitions {
		g.Go(func() error {
			results[i] = c.CrawlPartition(gctx, key)
			return nil
		})
	}
	// Goroutines only record results, so Wait cannot fail.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("crawl interrupted: %w", err)
	}

	var all []directory.Record
	for _, part := range results {
		all = append(all, part...)
	}
	c.logger.Info("crawl finished",
		zap.Int("partitions", len(c.cfg.Partitions)),
		zap.Int("records", len(all)),
	)
	return all, nil
}

// CrawlPartition walks pages 1..N of one partition until the renderer
// stops producing the presence marker. An empty first page is a valid
// empty partition. Render failures on later pages also terminate the
// partition; there is no retry.
func (c *Controller) CrawlPartition(ctx context.Context, key string) []directory.Record {
	var records []directory.Record
	cur := cursor{page: 1}

	for !cur.exhausted {
		pageURL := fmt.Sprintf(c.cfg.BaseURL, key, cur.page)
		html, err := c.renderer.Render(ctx, pageURL)
		if err != nil {
			c.logger.Debug("partition exhausted",
				zap.String("partition", key),
				zap.Int("page", cur.page),
				zap.Error(err),
			)
			cur.exhausted = true
			break
		}
		metrics.PageRendered(key)

		extracted, err := c.extractor.Extract(html)
		if err != nil {
			c.logger.Warn("page extraction failed, terminating partition",
				zap.String("partition", key),
				zap.Int("page", cur.page),
				zap.Error(err),
			)
			cur.exhausted = true
			break
		}
		metrics.RecordsExtracted(key, len(extracted))

		records = append(records, extracted...)
		cur.records += len(extracted)
		cur.page++
	}

	c.logger.Info("partition done",
		zap.String("partition", key),
		zap.Int("pages", cur.page-1),
		zap.Int("records", cur.records),
	)
	return records
}
