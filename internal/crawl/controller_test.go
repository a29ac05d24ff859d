package crawl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/facultydir/harvester/internal/directory"
)

// fakeRenderer serves canned pages keyed by URL and records every
// request. URLs with no entry behave like marker-timeout pages.
type fakeRenderer struct {
	mu    sync.Mutex
	pages map[string]string
	seen  []string
}

func (f *fakeRenderer) Render(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, url)
	html, ok := f.pages[url]
	if !ok {
		return "", errors.New("wait for marker: context deadline exceeded")
	}
	return html, nil
}

func (f *fakeRenderer) requested(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.seen {
		if s == url {
			return true
		}
	}
	return false
}

// nameExtractor yields one record per comma-separated token.
type nameExtractor struct{}

func (nameExtractor) Extract(html string) ([]directory.Record, error) {
	var out []directory.Record
	for _, name := range strings.Split(html, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, directory.Record{Name: directory.FieldOf(name)})
		}
	}
	return out, nil
}

func testConfig(partitions ...string) Config {
	return Config{
		BaseURL:     "https://example.edu/dir/%s?page=%d",
		Partitions:  partitions,
		Concurrency: 2,
	}
}

func pageURL(key string, page int) string {
	return fmt.Sprintf("https://example.edu/dir/%s?page=%d", key, page)
}

func recordNames(records []directory.Record) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name.Value()
	}
	return names
}

func TestCrawlPartitionWalksPagesUntilExhaustion(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{pages: map[string]string{
		pageURL("A", 1): "Abbott,Ames",
		pageURL("A", 2): "Ayers",
	}}
	c, err := NewController(renderer, nameExtractor{}, testConfig("A"), zap.NewNop())
	require.NoError(t, err)

	got := c.CrawlPartition(context.Background(), "A")
	require.Equal(t, []string{"Abbott", "Ames", "Ayers"}, recordNames(got))
	require.True(t, renderer.requested(pageURL("A", 3)), "page 3 must be probed to detect exhaustion")
	require.False(t, renderer.requested(pageURL("A", 4)), "no page past the exhaustion signal")
}

func TestCrawlPartitionEmptyFirstPageIsValid(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{pages: map[string]string{}}
	c, err := NewController(renderer, nameExtractor{}, testConfig("Q"), zap.NewNop())
	require.NoError(t, err)

	got := c.CrawlPartition(context.Background(), "Q")
	require.Empty(t, got)
	require.True(t, renderer.requested(pageURL("Q", 1)))
	require.False(t, renderer.requested(pageURL("Q", 2)), "no second page after an empty first page")
}

func TestRunConcatenatesInPartitionOrder(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{pages: map[string]string{
		pageURL("A", 1): "Abbott",
		pageURL("B", 1): "Baker,Barnes",
		pageURL("B", 2): "Burns",
		pageURL("C", 1): "Cole",
	}}
	c, err := NewController(renderer, nameExtractor{}, testConfig("A", "B", "C"), zap.NewNop())
	require.NoError(t, err)

	got, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Abbott", "Baker", "Barnes", "Burns", "Cole"}, recordNames(got))
}

func TestRunRenderFailureMidPartitionTerminatesOnlyThatPartition(t *testing.T) {
	t.Parallel()

	// B's page 2 is absent so B stops after page 1; C is unaffected.
	renderer := &fakeRenderer{pages: map[string]string{
		pageURL("B", 1): "Baker",
		pageURL("C", 1): "Cole",
	}}
	c, err := NewController(renderer, nameExtractor{}, testConfig("B", "C"), zap.NewNop())
	require.NoError(t, err)

	got, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Baker", "Cole"}, recordNames(got))
}

func TestRunReportsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	renderer := &fakeRenderer{pages: map[string]string{}}
	c, err := NewController(renderer, nameExtractor{}, testConfig("A"), zap.NewNop())
	require.NoError(t, err)

	_, err = c.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewControllerValidation(t *testing.T) {
	t.Parallel()

	_, err := NewController(nil, nameExtractor{}, testConfig("A"), zap.NewNop())
	require.Error(t, err)

	_, err = NewController(&fakeRenderer{}, nil, testConfig("A"), zap.NewNop())
	require.Error(t, err)

	_, err = NewController(&fakeRenderer{}, nameExtractor{}, Config{BaseURL: "x"}, zap.NewNop())
	require.Error(t, err)
}
