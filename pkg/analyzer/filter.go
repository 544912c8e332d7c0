package analyzer

import (
	"regexp"
	"time"

	"github.com/ccollicutt/logreport/pkg/apperrors"
	"github.com/ccollicutt/logreport/pkg/parser"
)

// Filter decides which parsed records take part in a report.
type Filter struct {
	from *time.Time
	to   *time.Time

	field   string
	pattern *regexp.Regexp
}

// NewFilter builds a filter from the run arguments. The filter value is
// compiled as a regular expression.
func NewFilter(args *Arguments) (*Filter, error) {
	f := &Filter{
		from: args.From,
		to:   args.To,
	}

	if args.HasFieldFilter() {
		re, err := regexp.Compile(args.FilterValue)
		if err != nil {
			return nil, apperrors.InvalidArguments(err, "Неверное регулярное выражение в --filter-value: %s", args.FilterValue)
		}
		f.field = args.FilterField
		f.pattern = re
	}

	return f, nil
}

// Match reports whether rec is retained. The time window excludes both of
// its bounds; the field filter needs a known field containing a match.
func (f *Filter) Match(rec *parser.LogRecord) bool {
	if f.from != nil && !rec.Timestamp.After(*f.from) {
		return false
	}
	if f.to != nil && !rec.Timestamp.Before(*f.to) {
		return false
	}

	if f.pattern != nil {
		value, ok := rec.FieldValue(f.field)
		if !ok || !f.pattern.MatchString(value) {
			return false
		}
	}

	return true
}
