package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/ccollicutt/logreport/pkg/apperrors"
)

// fileOpener opens a local file, decompressing it when its name says so.
func fileOpener(path string) Opener {
	return func(_ context.Context) (io.ReadCloser, error) {
		f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
		if err != nil {
			return nil, apperrors.IORead(path, err)
		}
		rc, err := decompress(path, f)
		if err != nil {
			return nil, apperrors.IORead(path, err)
		}
		return rc, nil
	}
}

// urlOpener issues a GET for rawURL. Any transport failure or error status
// makes the resource unreachable.
func urlOpener(client *http.Client, userAgent, rawURL string) Opener {
	return func(ctx context.Context) (io.ReadCloser, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, apperrors.ResourceUnreachable(rawURL, err)
		}
		if userAgent != "" {
			req.Header.Set("User-Agent", userAgent)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, apperrors.ResourceUnreachable(rawURL, err)
		}
		if resp.StatusCode >= 400 {
			_ = resp.Body.Close()
			return nil, apperrors.ResourceUnreachable(rawURL, fmt.Errorf("status %d", resp.StatusCode))
		}

		rc, err := decompress(rawURL, resp.Body)
		if err != nil {
			return nil, apperrors.IORead(rawURL, err)
		}
		return rc, nil
	}
}

// decompress wraps rc in a decoder chosen by the name's extension.
// On error rc is closed.
func decompress(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(rc)
		if err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return &stackedReadCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil

	case strings.HasSuffix(name, ".zst"):
		dec, err := zstd.NewReader(rc)
		if err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		return &stackedReadCloser{Reader: dec, closers: []io.Closer{dec.IOReadCloser(), rc}}, nil

	default:
		return rc, nil
	}
}

// stackedReadCloser closes a decoder and then the stream beneath it.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
