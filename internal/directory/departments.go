package directory

import "strings"

// Departments is the closed enumeration used by both the filter stage
// and load-time validation.
type Departments struct {
	canonical map[string]string
	ordered   []string
}

// DefaultDepartments lists every department eligible for loading.
var DefaultDepartments = NewDepartments(
	"Art and Design",
	"Business and Economics",
	"Communication Arts",
	"Computer Technology and Information Systems",
	"Counseling",
	"Criminal Justice",
	"Educational Foundations and Leadership",
	"Health, Human Performance, and Sport",
	"History, Politics, and Geography",
	"Language and Literature",
	"Life Sciences",
	"Music",
	"Physical Sciences and Mathematics",
	"Psychology and Sociology",
	"Technology and Applied Science",
)

// NewDepartments builds the enumeration from canonical names.
func NewDepartments(names ...string) Departments {
	d := Departments{
		canonical: make(map[string]string, len(names)),
		ordered:   append([]string(nil), names...),
	}
	for _, n := range names {
		d.canonical[strings.ToLower(n)] = n
	}
	return d
}

// Canonical resolves a department name case-insensitively and returns
// its canonical form.
func (d Departments) Canonical(name string) (string, bool) {
	c, ok := d.canonical[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Contains reports whether the name matches an enumeration entry.
func (d Departments) Contains(name string) bool {
	_, ok := d.Canonical(name)
	return ok
}

// Names returns the canonical names in declaration order.
func (d Departments) Names() []string {
	return append([]string(nil), d.ordered...)
}
