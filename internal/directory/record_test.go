package directory

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestFieldOfTrimsAndDetectsMissing(t *testing.T) {
	t.Parallel()

	f := FieldOf("  Professor  ")
	require.False(t, f.IsMissing())
	require.Equal(t, "Professor", f.Value())

	require.True(t, FieldOf("").IsMissing())
	require.True(t, FieldOf("   ").IsMissing())
	require.True(t, Missing.IsMissing())
}

func TestFieldZeroValueIsMissing(t *testing.T) {
	t.Parallel()

	var f Field
	require.True(t, f.IsMissing())
	require.Equal(t, "", f.Value())

	_, ok := f.Get()
	require.False(t, ok)
}

func TestFieldTruncate(t *testing.T) {
	t.Parallel()

	long := FieldOf(strings.Repeat("x", 80))
	require.Equal(t, strings.Repeat("x", 50), long.Truncate(MaxTitleLen).Value())

	short := FieldOf("short")
	require.Equal(t, "short", short.Truncate(MaxTitleLen).Value())

	require.True(t, Missing.Truncate(10).IsMissing())
}

func TestFieldTruncateKeepsValidUTF8(t *testing.T) {
	t.Parallel()

	// The accented rune straddles the 50-byte limit; the cut must back
	// off to the previous rune boundary instead of splitting it.
	title := FieldOf(strings.Repeat("x", MaxTitleLen-1) + "é")
	got := title.Truncate(MaxTitleLen).Value()
	require.True(t, utf8.ValidString(got))
	require.Equal(t, strings.Repeat("x", MaxTitleLen-1), got)

	whole := FieldOf(strings.Repeat("é", 10))
	require.Equal(t, strings.Repeat("é", 10), whole.Truncate(MaxTitleLen).Value())

	cut := FieldOf(strings.Repeat("é", 30)).Truncate(MaxTitleLen)
	require.True(t, utf8.ValidString(cut.Value()))
	require.Equal(t, strings.Repeat("é", 25), cut.Value())
}

func TestDepartmentsCanonicalIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	got, ok := DefaultDepartments.Canonical("music")
	require.True(t, ok)
	require.Equal(t, "Music", got)

	got, ok = DefaultDepartments.Canonical("  LIFE SCIENCES ")
	require.True(t, ok)
	require.Equal(t, "Life Sciences", got)

	_, ok = DefaultDepartments.Canonical("Astrology")
	require.False(t, ok)
	require.False(t, DefaultDepartments.Contains("Astrology"))
}

func TestDepartmentsNamesPreservesOrder(t *testing.T) {
	t.Parallel()

	d := NewDepartments("B", "A", "C")
	require.Equal(t, []string{"B", "A", "C"}, d.Names())
}
