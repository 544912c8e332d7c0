package parser

import (
	"bufio"
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ccollicutt/logreport/pkg/apperrors"
)

// StreamSource implements LineSource by concatenating streams in order.
// Each stream is opened lazily when the previous one is exhausted, so at
// most one file handle or HTTP body is open at a time.
type StreamSource struct {
	streams []Stream

	current       io.ReadCloser
	currentReader *bufio.Reader
	currentSource string
	currentLine   int
	streamIndex   int
	closed        bool
}

// NewStreamSource creates a LineSource over the given streams.
func NewStreamSource(streams ...Stream) *StreamSource {
	return &StreamSource{
		streams:     streams,
		streamIndex: -1,
	}
}

// Next returns the next line across all streams.
// Returns io.EOF when all streams have been exhausted.
func (s *StreamSource) Next(ctx context.Context) (*Line, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.closed {
			return nil, io.EOF
		}

		if s.currentReader == nil {
			if err := s.openNextStream(ctx); err != nil {
				return nil, err
			}
		}

		text, err := readLine(s.currentReader)
		if err == nil {
			s.currentLine++
			if !utf8.ValidString(text) {
				text = strings.ToValidUTF8(text, "\uFFFD")
			}
			return &Line{
				Text:    text,
				Source:  s.currentSource,
				LineNum: s.currentLine,
			}, nil
		}

		if err != io.EOF {
			source := s.currentSource
			_ = s.closeCurrent()
			return nil, apperrors.IORead(source, err)
		}

		// Current stream exhausted, try next
		if err := s.closeCurrent(); err != nil {
			return nil, apperrors.IORead(s.currentSource, err)
		}
	}
}

// Close releases the currently open stream, if any, and ends iteration.
func (s *StreamSource) Close() error {
	s.closed = true
	return s.closeCurrent()
}

func (s *StreamSource) openNextStream(ctx context.Context) error {
	s.streamIndex++
	if s.streamIndex >= len(s.streams) {
		return io.EOF
	}

	stream := s.streams[s.streamIndex]
	rc, err := stream.Open(ctx)
	if err != nil {
		return err
	}

	s.current = rc
	s.currentReader = bufio.NewReader(rc)
	s.currentSource = stream.Name
	s.currentLine = 0
	return nil
}

func (s *StreamSource) closeCurrent() error {
	s.currentReader = nil
	if s.current != nil {
		err := s.current.Close()
		s.current = nil
		return err
	}
	return nil
}

// readLine returns the next line of r without its line terminator ("\n" or
// "\r\n"). Lines have no length limit. A final line without a terminator is
// returned before io.EOF.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
