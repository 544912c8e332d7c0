// Package output renders aggregated access log statistics as text reports.
package output

import (
	"cmp"
	"fmt"
	"maps"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/ccollicutt/logreport/pkg/analyzer"
	"github.com/ccollicutt/logreport/pkg/config"
)

// Report is everything a formatter needs to render one run.
type Report struct {
	// Stats are the aggregated statistics.
	Stats *analyzer.Statistics

	// Args are the run arguments; they supply the time window and the
	// order of the resource table.
	Args *analyzer.Arguments

	// TopLimit is the number of rows in the IP and day tables.
	TopLimit int
}

// NewReport creates a Report. A non-positive topLimit uses the default.
func NewReport(stats *analyzer.Statistics, args *analyzer.Arguments, topLimit int) *Report {
	if topLimit <= 0 {
		topLimit = config.DefaultTopLimit
	}
	return &Report{Stats: stats, Args: args, TopLimit: topLimit}
}

// Row is one line of a count table.
type Row[K cmp.Ordered] struct {
	Key   K
	Count int64
}

// StatusRow is one line of the status code table.
type StatusRow struct {
	Code   int
	Reason string
	Count  int64
}

// Files returns the source names joined for display.
func (r *Report) Files() string {
	return strings.Join(r.Stats.FileNames, ", ")
}

// From returns the lower time bound for display.
func (r *Report) From() string {
	return analyzer.FormatBound(r.Args.From)
}

// To returns the upper time bound for display.
func (r *Report) To() string {
	return analyzer.FormatBound(r.Args.To)
}

// Resources returns every requested resource ordered by count.
func (r *Report) Resources() []Row[string] {
	return TopK(r.Stats.Resources, r.Args.Ascending(), 0)
}

// IPAddresses returns the busiest remote addresses, highest count first.
// The table order argument does not apply.
func (r *Report) IPAddresses() []Row[string] {
	return TopK(r.Stats.IPAddresses, false, r.TopLimit)
}

// Days returns the busiest days, highest count first.
// The table order argument does not apply.
func (r *Report) Days() []Row[string] {
	return TopK(r.Stats.RequestsPerDay, false, r.TopLimit)
}

// Statuses returns the status code table in ascending code order.
func (r *Report) Statuses() []StatusRow {
	codes := slices.Sorted(maps.Keys(r.Stats.Statuses))
	rows := make([]StatusRow, len(codes))
	for i, code := range codes {
		rows[i] = StatusRow{Code: code, Reason: StatusText(code), Count: r.Stats.Statuses[code]}
	}
	return rows
}

// TopK orders counts by value, ascending or descending, and keeps at most
// limit rows (all rows when limit <= 0). Equal counts keep ascending key order.
func TopK[K cmp.Ordered](counts map[K]int64, ascending bool, limit int) []Row[K] {
	rows := make([]Row[K], 0, len(counts))
	for _, key := range slices.Sorted(maps.Keys(counts)) {
		rows = append(rows, Row[K]{Key: key, Count: counts[key]})
	}

	slices.SortStableFunc(rows, func(a, b Row[K]) int {
		if ascending {
			return cmp.Compare(a.Count, b.Count)
		}
		return cmp.Compare(b.Count, a.Count)
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// FormatSize renders a non-negative byte size with two fractional digits,
// rounding half up on the shortest decimal form of v: 0.125 gives "0.13"
// and 1.005 gives "1.01".
func FormatSize(v float64) string {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'f', -1, 64))
	if !ok || v < 0 {
		return fmt.Sprintf("%.2f", v)
	}

	// floor(v*100 + 1/2)
	r.Mul(r, big.NewRat(100, 1))
	r.Add(r, big.NewRat(1, 2))
	cents := new(big.Int).Quo(r.Num(), r.Denom())

	whole, frac := new(big.Int).QuoRem(cents, big.NewInt(100), new(big.Int))
	return fmt.Sprintf("%s.%02d", whole.String(), frac.Int64())
}
