package load

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/facultydir/harvester/internal/directory"
	"github.com/facultydir/harvester/internal/storage/memory"
)

type fakeFetcher struct {
	data  []byte
	err   error
	calls []string
}

func (f *fakeFetcher) FetchBytes(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	return f.data, f.err
}

type failingBlobStore struct{}

func (failingBlobStore) PutObject(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("bucket unavailable")
}

func TestPhotoKeyReplacesSpaces(t *testing.T) {
	t.Parallel()

	require.Equal(t, "images/Jane_Doe.jpg", PhotoKey("Jane Doe"))
	require.Equal(t, "images/Doe.jpg", PhotoKey("Doe"))
}

func TestRelocateStoresPhotoUnderDeterministicKey(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{data: []byte{0xff, 0xd8, 0xff}}
	blobs := memory.NewBlobStore()
	r := NewRelocator(fetcher, blobs, zap.NewNop())

	got := r.Relocate(context.Background(), "Jane Doe", directory.FieldOf("https://example.edu/photos/doe.jpg"))
	require.False(t, got.Omitted())
	require.Equal(t, "memory://images/Jane_Doe.jpg", got.URL)
	require.Equal(t, []string{"https://example.edu/photos/doe.jpg"}, fetcher.calls)

	data, ct, ok := blobs.Object("images/Jane_Doe.jpg")
	require.True(t, ok)
	require.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
	require.Equal(t, PhotoContentType, ct)
}

func TestRelocateOmitsMissingSource(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	r := NewRelocator(fetcher, memory.NewBlobStore(), zap.NewNop())

	got := r.Relocate(context.Background(), "Jane Doe", directory.Missing)
	require.True(t, got.Omitted())
	require.Equal(t, "no source url", got.OmittedReason)
	require.Empty(t, fetcher.calls, "nothing should be fetched without a source")
}

func TestRelocateOmitsRelativeSource(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	r := NewRelocator(fetcher, memory.NewBlobStore(), zap.NewNop())

	got := r.Relocate(context.Background(), "Jane Doe", directory.FieldOf("/photos/doe.jpg"))
	require.True(t, got.Omitted())
	require.Equal(t, "source url not absolute", got.OmittedReason)
	require.Empty(t, fetcher.calls)
}

func TestRelocateOmitsOnFetchFailure(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	blobs := memory.NewBlobStore()
	r := NewRelocator(fetcher, blobs, zap.NewNop())

	got := r.Relocate(context.Background(), "Jane Doe", directory.FieldOf("https://example.edu/doe.jpg"))
	require.True(t, got.Omitted())
	require.Equal(t, "fetch failed", got.OmittedReason)
	require.Zero(t, blobs.Len())
}

func TestRelocateOmitsOnUploadFailure(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{data: []byte("photo")}
	r := NewRelocator(fetcher, failingBlobStore{}, zap.NewNop())

	got := r.Relocate(context.Background(), "Jane Doe", directory.FieldOf("https://example.edu/doe.jpg"))
	require.True(t, got.Omitted())
	require.Equal(t, "upload failed", got.OmittedReason)
}
