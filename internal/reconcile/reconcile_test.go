package reconcile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/facultydir/harvester/internal/directory"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	res := Compare(
		[]string{"Doe", "Smith", "Jones"},
		[]string{"Smith", "Baker", "Doe"},
	)
	require.Equal(t, 2, res.Matches)
	require.Equal(t, []string{"Jones"}, res.OnlyLeft)
	require.Equal(t, []string{"Baker"}, res.OnlyRight)
}

func TestCompareIdenticalLists(t *testing.T) {
	t.Parallel()

	res := Compare([]string{"Doe", "Smith"}, []string{"Doe", "Smith"})
	require.Equal(t, 2, res.Matches)
	require.Empty(t, res.OnlyLeft)
	require.Empty(t, res.OnlyRight)
}

func TestCompareEmptySides(t *testing.T) {
	t.Parallel()

	res := Compare(nil, []string{"Doe"})
	require.Zero(t, res.Matches)
	require.Empty(t, res.OnlyLeft)
	require.Equal(t, []string{"Doe"}, res.OnlyRight)
}

func TestNamesSkipsMissing(t *testing.T) {
	t.Parallel()

	records := []directory.Record{
		{Name: directory.FieldOf("Doe")},
		{},
		{Name: directory.FieldOf("Smith")},
	}
	require.Equal(t, []string{"Doe", "Smith"}, Names(records))
}
