// Package reconcile audits drift between two independently produced
// record batches by comparing their name columns.
package reconcile

import (
	"github.com/facultydir/harvester/internal/directory"
)

// Result captures a two-way name comparison.
type Result struct {
	Matches   int
	OnlyLeft  []string
	OnlyRight []string
}

// Names extracts the non-missing names from a batch in order.
func Names(records []directory.Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		if name, ok := rec.Name.Get(); ok {
			out = append(out, name)
		}
	}
	return out
}

// Compare tallies names present in both lists and collects the ones
// found on only one side. Order within each side is preserved.
func Compare(left, right []string) Result {
	leftSet := toSet(left)
	rightSet := toSet(right)

	var res Result
	for _, name := range left {
		if _, ok := rightSet[name]; ok {
			res.Matches++
		} else {
			res.OnlyLeft = append(res.OnlyLeft, name)
		}
	}
	for _, name := range right {
		if _, ok := leftSet[name]; !ok {
			res.OnlyRight = append(res.OnlyRight, name)
		}
	}
	return res
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
