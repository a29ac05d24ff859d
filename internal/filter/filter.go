// Package filter selects records whose department belongs to the
// closed enumeration shared with load-time validation.
package filter

import (
	"github.com/facultydir/harvester/internal/directory"
)

// ByDepartment returns the records whose Department resolves to an
// enumeration entry, in input order. Records with a missing department
// are dropped.
func ByDepartment(records []directory.Record, departments directory.Departments) []directory.Record {
	kept := make([]directory.Record, 0, len(records))
	for _, rec := range records {
		dept, ok := rec.Department.Get()
		if !ok {
			continue
		}
		if departments.Contains(dept) {
			kept = append(kept, rec)
		}
	}
	return kept
}
