// Package analyzer folds parsed access log records into report statistics.
package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/ccollicutt/logreport/pkg/parser"
)

// OrderAscending is the --order value that sorts tables by ascending count.
const OrderAscending = "asc"

// Arguments are the user-supplied parameters of a report run.
type Arguments struct {
	// Path is the path specification handed to the source resolver.
	Path string

	// From and To bound the time window, both exclusive. Nil means unbounded.
	// Values are civil times (see parser.Civil).
	From *time.Time
	To   *time.Time

	// Format selects the report layout. Empty means markdown.
	Format string

	// FilterField and FilterValue restrict records to those whose field
	// contains a match of the FilterValue regular expression.
	FilterField string
	FilterValue string

	// FilterFieldSet and FilterValueSet mark flags given explicitly, which
	// makes an empty FilterField or FilterValue count as present.
	FilterFieldSet bool
	FilterValueSet bool

	// Order is "asc" (any case) for ascending tables, anything else descends.
	Order string
}

// Ascending reports whether count tables sort in ascending order.
func (a *Arguments) Ascending() bool {
	return strings.EqualFold(a.Order, OrderAscending)
}

// HasFieldFilter reports whether both filter field and value are present.
// An empty value that was given explicitly is a pattern matching everything.
func (a *Arguments) HasFieldFilter() bool {
	return (a.FilterField != "" || a.FilterFieldSet) && (a.FilterValue != "" || a.FilterValueSet)
}

// String dumps every argument on its own line.
func (a *Arguments) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "path = %s\n", orDash(a.Path))
	fmt.Fprintf(&b, "from = %s\n", FormatBound(a.From))
	fmt.Fprintf(&b, "to = %s\n", FormatBound(a.To))
	fmt.Fprintf(&b, "format = %s\n", orDash(a.Format))
	fmt.Fprintf(&b, "filterField = %s\n", present(a.FilterField, a.FilterFieldSet))
	fmt.Fprintf(&b, "filterValue = %s\n", present(a.FilterValue, a.FilterValueSet))
	fmt.Fprintf(&b, "order = %s\n", orDash(a.Order))
	return b.String()
}

// FormatBound renders an optional time bound, "-" when absent.
func FormatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return parser.FormatCivil(*t)
}

// present renders a value that may have been given explicitly as empty.
func present(s string, set bool) string {
	if set {
		return s
	}
	return orDash(s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
