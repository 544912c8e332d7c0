package analyzer

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/logreport/pkg/apperrors"
	"github.com/ccollicutt/logreport/pkg/parser"
)

// percentileRank is the rank of the reported response size percentile.
const percentileRank = 0.95

// Aggregator folds log lines into Statistics.
// It is not safe for concurrent use.
type Aggregator struct {
	args    *Arguments
	grammar *parser.Grammar
	filter  *Filter
	names   []string

	stats     *Statistics
	sizes     []int64
	totalSize int64

	linesRead    int
	linesMatched int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithGrammar sets the grammar used to parse lines. The default is
// parser.DefaultGrammar.
func WithGrammar(g *parser.Grammar) Option {
	return func(a *Aggregator) {
		if g != nil {
			a.grammar = g
		}
	}
}

// WithSourceNames sets the source identifiers reported as Statistics.FileNames.
func WithSourceNames(names []string) Option {
	return func(a *Aggregator) {
		a.names = names
	}
}

// NewAggregator creates an empty aggregator for a run with the given arguments.
func NewAggregator(args *Arguments, opts ...Option) (*Aggregator, error) {
	filter, err := NewFilter(args)
	if err != nil {
		return nil, err
	}

	a := &Aggregator{
		args:    args,
		grammar: parser.DefaultGrammar(),
		filter:  filter,
		stats:   newStatistics(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// AddLine parses one raw line and adds the record if it is retained.
// Lines that do not match the grammar are skipped.
func (a *Aggregator) AddLine(line string) error {
	a.linesRead++

	rec, err := a.grammar.Parse(line)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	a.linesMatched++

	if a.filter.Match(rec) {
		a.Add(rec)
	}
	return nil
}

// Add counts a record that has already passed the filter.
func (a *Aggregator) Add(rec *parser.LogRecord) {
	a.sizes = append(a.sizes, rec.BodyBytesSent)
	a.totalSize += rec.BodyBytesSent

	a.stats.TotalRequests++
	a.stats.Resources[rec.Request]++
	a.stats.Statuses[rec.Status]++
	a.stats.IPAddresses[rec.RemoteAddr]++
	a.stats.RequestsPerDay[a.grammar.Day(rec.Timestamp)]++
}

// Result finalizes the fold. It fails with a no-data error when no record
// was retained.
func (a *Aggregator) Result() (*Statistics, error) {
	n := len(a.sizes)
	if n == 0 {
		return nil, apperrors.NoData(a.args.String())
	}

	sorted := slices.Clone(a.sizes)
	slices.Sort(sorted)
	index := int(math.Ceil(percentileRank*float64(n))) - 1

	stats := a.stats
	stats.AvgResponseSize = float64(a.totalSize) / float64(n)
	stats.ResponseSizePercentile95 = float64(sorted[index])
	stats.FileNames = a.names
	return stats, nil
}

// Aggregate drains src through a new Aggregator and returns the result.
// The source is not closed.
func Aggregate(ctx context.Context, src parser.LineSource, args *Arguments, opts ...Option) (*Statistics, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	agg, err := NewAggregator(args, opts...)
	if err != nil {
		return nil, err
	}

	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if err := agg.AddLine(line.Text); err != nil {
			logger.Debug().
				Str("source", line.Source).
				Int("line", line.LineNum).
				Err(err).
				Msg("unparseable record")
			return nil, fmt.Errorf("%s:%d: %w", line.Source, line.LineNum, err)
		}
	}

	logger.Debug().
		Int("lines_read", agg.linesRead).
		Int("lines_matched", agg.linesMatched).
		Int64("records_retained", agg.stats.TotalRequests).
		Dur("elapsed", time.Since(start)).
		Msg("aggregation finished")

	return agg.Result()
}
