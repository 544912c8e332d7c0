package parser

import (
	"context"
	"io"
)

// LineSource provides a pull iterator over raw log lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*Line, error)

	// Close releases any resources held by the source. It is safe to call
	// Close more than once and before the source is exhausted.
	Close() error
}

// Opener opens the byte stream of one named input.
type Opener func(ctx context.Context) (io.ReadCloser, error)

// Stream is one named input of a StreamSource.
type Stream struct {
	Name string
	Open Opener
}
