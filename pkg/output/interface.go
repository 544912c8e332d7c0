package output

import (
	"context"
	"io"
	"strings"

	"github.com/ccollicutt/logreport/pkg/apperrors"
)

// Report format names.
const (
	FormatMarkdown = "markdown"
	FormatADoc     = "adoc"
)

// Formatter renders a report in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (markdown, adoc).
	Name() string
}

// NewFormatter returns the formatter for a case-insensitive format name.
// An empty name selects markdown.
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case FormatADoc:
		return NewADocFormatter(), nil
	default:
		return nil, apperrors.UnsupportedFormat(name)
	}
}
