// Package detector samples access logs and reports which line formats they use.
package detector

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/ccollicutt/logreport/pkg/parser"
)

// DefaultSampleSize is the number of lines sampled when none is configured.
const DefaultSampleSize = 100

// DetectionResult holds the result of analyzing a sample of lines.
type DetectionResult struct {
	Matches      []FormatMatch // Formats that matched, sorted by confidence descending
	SampledLines int           // Number of non-empty lines sampled

	// Unmatched holds up to three sampled lines no known format accepted.
	Unmatched []string
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     *AccessLogFormat
	Confidence float64 // 0.0 to 1.0 (share of sampled lines parsed)
	MatchCount int     // Number of lines that parsed
	SampleLine string  // Example line that parsed
}

// Detector samples log lines to identify access log formats.
type Detector struct {
	formats    []*AccessLogFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithFormats replaces the formats to detect. The first entry wins ties.
func WithFormats(formats ...*AccessLogFormat) Option {
	return func(d *Detector) {
		d.formats = formats
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect samples the head of src and analyzes it. The source is not closed.
func (d *Detector) Detect(ctx context.Context, src parser.LineSource) (*DetectionResult, error) {
	lines, err := d.sample(ctx, src)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	counts := make([]int, len(d.formats))
	samples := make([]string, len(d.formats))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.SampledLines++

		matched := false
		for i, format := range d.formats {
			rec, err := format.Grammar.Parse(line)
			if err != nil || rec == nil {
				continue
			}
			matched = true
			if counts[i] == 0 {
				samples[i] = line
			}
			counts[i]++
		}

		if !matched && len(result.Unmatched) < 3 {
			result.Unmatched = append(result.Unmatched, line)
		}
	}

	for i, format := range d.formats {
		if counts[i] == 0 {
			continue
		}
		result.Matches = append(result.Matches, FormatMatch{
			Format:     format,
			Confidence: float64(counts[i]) / float64(result.SampledLines),
			MatchCount: counts[i],
			SampleLine: samples[i],
		})
	}

	// Sort by confidence descending; equal confidence keeps format order
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})

	return result
}

// sample reads up to sampleSize non-empty lines.
func (d *Detector) sample(ctx context.Context, src parser.LineSource) ([]string, error) {
	var lines []string
	for len(lines) < d.sampleSize {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line.Text) != "" {
			lines = append(lines, line.Text)
		}
	}
	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
