package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"shopmigrate/internal/logger"
)

// ErrNoMatch is returned when a location pattern matches no file.
var ErrNoMatch = errors.New("no file matches location")

// Source resolves location patterns and opens the chosen file.
type Source interface {
	// Resolve returns the concrete location for pattern. Wildcard patterns
	// select the lexicographically last match, i.e. the newest timestamped export.
	Resolve(ctx context.Context, pattern string) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// LocalSource reads files from disk.
type LocalSource struct{}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[`)
}

func lastMatch(matches []string, pattern string) (string, error) {
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, pattern)
	}

	sort.Strings(matches)

	return matches[len(matches)-1], nil
}

func (LocalSource) Resolve(_ context.Context, pattern string) (string, error) {
	if !hasMeta(pattern) {
		return pattern, nil
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid file pattern %s: %w", pattern, err)
	}

	return lastMatch(matches, pattern)
}

func (LocalSource) Open(_ context.Context, location string) (io.ReadCloser, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read local file %s: %w", location, err)
	}

	return f, nil
}

// Loader picks a Source per location scheme and parses the CSV it points at.
type Loader struct {
	Local  Source
	Remote Source // used for s3:// locations; nil disables them
	Web    Source // used for http(s) locations
	logger logger.Sink
}

// NewLoader returns a loader for local files. Attach an S3 source with
// WithRemote when locations may point at a bucket.
func NewLoader(log logger.Sink) *Loader {
	if log == nil {
		log = logger.Nop()
	}

	return &Loader{Local: LocalSource{}, Web: NewHTTPSource(HTTPConfig{}), logger: log}
}

func (l *Loader) WithRemote(s Source) *Loader {
	l.Remote = s
	return l
}

// WithWeb replaces the source used for http(s) locations.
func (l *Loader) WithWeb(s Source) *Loader {
	l.Web = s
	return l
}

func (l *Loader) source(location string) (Source, error) {
	if IsHTTP(location) && l.Web != nil {
		return l.Web, nil
	}

	if IsS3(location) {
		if l.Remote == nil {
			return nil, fmt.Errorf("%w: no S3 source configured for %s", ErrInvalidS3URL, location)
		}

		return l.Remote, nil
	}

	return l.Local, nil
}

// Load resolves pattern, then reads and parses the file it selects.
func (l *Loader) Load(ctx context.Context, pattern string, comma rune) (*Table, error) {
	src, err := l.source(pattern)
	if err != nil {
		return nil, err
	}

	location, err := src.Resolve(ctx, pattern)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	rc, err := src.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := ReadCSV(rc, comma)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}

	t.Path = location

	l.logger.Info("Loaded CSV",
		"path", location,
		"rows", len(t.Rows),
		"columns", len(t.Header),
		"delimiter", string(t.Delimiter),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return t, nil
}
