package parser

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/logreport/pkg/apperrors"
)

// Path specification syntax.
const (
	urlListSeparator = "|"
	subtreeMarker    = "**"
	childrenSuffix   = "/*"
)

// Resolution is the outcome of resolving a path specification.
type Resolution struct {
	// Names identifies every selected source, in read order: file basenames
	// for local inputs, the URLs verbatim for remote inputs.
	Names []string

	// Source yields the lines of all selected sources. The caller must Close it.
	Source LineSource
}

// Resolver expands a path specification into a line source.
type Resolver struct {
	baseDir   string
	client    *http.Client
	userAgent string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) {
		if c != nil {
			r.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header sent to URL sources.
func WithUserAgent(ua string) ResolverOption {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// NewResolver creates a resolver whose local paths are relative to baseDir.
func NewResolver(baseDir string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		baseDir: baseDir,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsURLSpec reports whether a path specification selects URL mode.
// The check is a literal prefix test, not URL parsing.
func IsURLSpec(pathSpec string) bool {
	return strings.HasPrefix(pathSpec, "http")
}

// Resolve expands pathSpec. In URL mode it is a '|'-separated list of URLs;
// otherwise it is a path under the base directory that may use "**" (every
// file in a subtree, optionally with a required basename) or a trailing "/*"
// (every file directly in a directory).
func (r *Resolver) Resolve(ctx context.Context, pathSpec string) (*Resolution, error) {
	var (
		res *Resolution
		err error
	)
	if IsURLSpec(pathSpec) {
		res, err = r.resolveURLs(pathSpec)
	} else {
		res, err = r.resolveFiles(pathSpec)
	}
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", pathSpec).
		Strs("sources", res.Names).
		Msg("resolved sources")
	return res, nil
}

func (r *Resolver) resolveURLs(pathSpec string) (*Resolution, error) {
	rawURLs := strings.Split(pathSpec, urlListSeparator)

	// Every URL is checked before any is opened.
	for _, raw := range rawURLs {
		if err := validateURL(raw); err != nil {
			return nil, apperrors.MalformedURL(raw, err)
		}
	}

	streams := make([]Stream, len(rawURLs))
	for i, raw := range rawURLs {
		streams[i] = Stream{Name: raw, Open: urlOpener(r.client, r.userAgent, raw)}
	}

	return &Resolution{
		Names:  rawURLs,
		Source: NewStreamSource(streams...),
	}, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("scheme must be http or https")
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func (r *Resolver) resolveFiles(pathSpec string) (*Resolution, error) {
	var (
		files []string
		err   error
	)

	switch {
	case strings.Contains(pathSpec, subtreeMarker):
		idx := strings.Index(pathSpec, subtreeMarker)
		root := filepath.Join(r.baseDir, strings.TrimSuffix(pathSpec[:idx], "/"))
		basename := strings.TrimPrefix(pathSpec[idx+len(subtreeMarker):], "/")
		if err := requireExists(root, pathSpec); err != nil {
			return nil, err
		}
		err = walkTree(root, basename, &files)

	case strings.HasSuffix(pathSpec, childrenSuffix):
		root := filepath.Join(r.baseDir, strings.TrimSuffix(pathSpec, childrenSuffix))
		if err := requireExists(root, pathSpec); err != nil {
			return nil, err
		}
		files, err = listChildren(root)

	default:
		path := filepath.Join(r.baseDir, pathSpec)
		if err := requireExists(path, pathSpec); err != nil {
			return nil, err
		}
		files = []string{path}
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}

	return &Resolution{
		Names:  names,
		Source: newNamedFileSource(files, names),
	}, nil
}

// newNamedFileSource reads files in order and reports each line's Source as
// the matching name.
func newNamedFileSource(files, names []string) *StreamSource {
	streams := make([]Stream, len(files))
	for i, path := range files {
		streams[i] = Stream{Name: names[i], Open: fileOpener(path)}
	}
	return NewStreamSource(streams...)
}

func requireExists(path, pathSpec string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.FileNotFound(pathSpec, err)
	}
	return apperrors.IORead(path, err)
}

// walkTree appends, depth first and in directory listing order, every
// regular file under dir whose basename equals name (any file if name is
// empty).
func walkTree(dir, name string, out *[]string) error {
	entries, err := readDirUnsorted(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		isDir, isRegular := entryKind(path, e)
		switch {
		case isDir:
			if err := walkTree(path, name, out); err != nil {
				return err
			}
		case isRegular:
			if name == "" || name == e.Name() {
				*out = append(*out, path)
			}
		}
	}
	return nil
}

// listChildren returns the regular files directly inside dir, in directory
// listing order.
func listChildren(dir string) ([]string, error) {
	entries, err := readDirUnsorted(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if _, isRegular := entryKind(path, e); isRegular {
			files = append(files, path)
		}
	}
	return files, nil
}

// readDirUnsorted lists dir in the order the platform returns entries.
// os.ReadDir would sort by name.
func readDirUnsorted(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, apperrors.IORead(dir, err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, apperrors.IORead(dir, err)
	}
	return entries, nil
}

// entryKind classifies an entry, following symlinks. Broken links are neither.
func entryKind(path string, e fs.DirEntry) (isDir, isRegular bool) {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir(), e.Type().IsRegular()
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, false
	}
	return info.IsDir(), info.Mode().IsRegular()
}
