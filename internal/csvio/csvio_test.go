package csvio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/facultydir/harvester/internal/directory"
)

func sampleRecords() []directory.Record {
	return []directory.Record{
		{
			Name:           directory.FieldOf("Doe"),
			Title:          directory.FieldOf("Dr."),
			Position:       directory.FieldOf("Professor"),
			ImageSourceURL: directory.FieldOf("https://example.edu/photos/doe.jpg"),
			Department:     directory.FieldOf("Music"),
			OfficeLocation: directory.FieldOf("Hall 101"),
			Phone:          directory.FieldOf("555-0100"),
			Email:          directory.FieldOf("doe@example.edu"),
		},
		{
			Name:  directory.FieldOf("Smith"),
			Email: directory.FieldOf("smith@example.edu"),
		},
	}
}

func TestRoundTripPreservesFieldsAndSentinels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleRecords()))

	got, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, sampleRecords(), got)
}

func TestWriteEmitsSentinelLiteral(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []directory.Record{{
		Name:  directory.FieldOf("Smith"),
		Email: directory.FieldOf("smith@example.edu"),
	}}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, strings.Join(Header, ","), lines[0])
	require.Equal(t, "Smith,N/A,N/A,N/A,N/A,N/A,N/A,smith@example.edu", lines[1])
}

func TestReadDecodesSentinelCaseInsensitively(t *testing.T) {
	t.Parallel()

	in := strings.Join(Header, ",") + "\n" +
		"Smith,n/a,N/A,,Music,N/a,555-0100,smith@example.edu\n"
	got, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.True(t, got[0].Title.IsMissing())
	require.True(t, got[0].Position.IsMissing())
	require.True(t, got[0].ImageSourceURL.IsMissing())
	require.True(t, got[0].OfficeLocation.IsMissing())
	require.Equal(t, "Music", got[0].Department.Value())
}

func TestReadRejectsEmptyAndRaggedInput(t *testing.T) {
	t.Parallel()

	_, err := Read(strings.NewReader(""))
	require.Error(t, err)

	_, err = Read(strings.NewReader(strings.Join(Header, ",") + "\nonly,two\n"))
	require.Error(t, err)
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "batch.csv")
	require.NoError(t, WriteFile(path, sampleRecords()))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, sampleRecords(), got)
}
