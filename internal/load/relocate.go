package load

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/facultydir/harvester/internal/directory"
	"github.com/facultydir/harvester/internal/metrics"
)

// PhotoContentType is the fixed content type photos are stored under.
const PhotoContentType = "image/jpeg"

// ByteFetcher fetches raw bytes from a URL.
type ByteFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// BlobStore writes photo bytes and returns a durable URL.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Relocation carries either the durable photo URL or the reason the
// relocation was omitted. It never represents a hard failure; photo
// relocation is best-effort and never blocks a load.
type Relocation struct {
	URL           string
	OmittedReason string
}

// Omitted reports whether no photo URL was produced.
func (r Relocation) Omitted() bool { return r.URL == "" }

// ImageRelocator copies a source photo into durable storage.
type ImageRelocator interface {
	Relocate(ctx context.Context, name string, source directory.Field) Relocation
}

// Relocator implements ImageRelocator over a fetcher and a blob store.
type Relocator struct {
	fetcher ByteFetcher
	blobs   BlobStore
	logger  *zap.Logger
}

// NewRelocator constructs a Relocator.
func NewRelocator(fetcher ByteFetcher, blobs BlobStore, logger *zap.Logger) *Relocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relocator{fetcher: fetcher, blobs: blobs, logger: logger}
}

// PhotoKey derives the deterministic storage key for a person.
func PhotoKey(name string) string {
	return fmt.Sprintf("images/%s.jpg", strings.ReplaceAll(name, " ", "_"))
}

// Relocate fetches the source photo and uploads it under the person's
// key. Every failure degrades to an omitted result with a reason.
func (r *Relocator) Relocate(ctx context.Context, name string, source directory.Field) Relocation {
	src, ok := source.Get()
	if !ok {
		return r.omit(name, "no source url", nil)
	}
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return r.omit(name, "source url not absolute", nil)
	}

	data, err := r.fetcher.FetchBytes(ctx, src)
	if err != nil {
		return r.omit(name, "fetch failed", err)
	}

	url, err := r.blobs.PutObject(ctx, PhotoKey(name), PhotoContentType, data)
	if err != nil {
		return r.omit(name, "upload failed", err)
	}

	metrics.ImageRelocated()
	return Relocation{URL: url}
}

func (r *Relocator) omit(name, reason string, err error) Relocation {
	metrics.ImageOmitted(reason)
	r.logger.Debug("photo relocation omitted",
		zap.String("name", name),
		zap.String("reason", reason),
		zap.Error(err),
	)
	return Relocation{OmittedReason: reason}
}
