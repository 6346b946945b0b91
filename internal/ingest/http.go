package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTP source errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrPatternUnsupported   = errors.New("wildcards are not supported for http locations")
)

// RetryPolicy controls how downloads are retried.
type RetryPolicy struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultRetryPolicy retries transient failures three times.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:       3,
	InitialDelay:      500 * time.Millisecond,
	MaxDelay:          30 * time.Second,
	BackoffMultiplier: 2.0,
}

// Delay returns the wait before the retry following attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := float64(p.InitialDelay)
	for i := 1; i < attempt; i++ {
		d *= p.BackoffMultiplier
	}

	if p.MaxDelay > 0 && time.Duration(d) > p.MaxDelay {
		return p.MaxDelay
	}

	return time.Duration(d)
}

// HTTPSource downloads exports published behind an authenticated URL.
type HTTPSource struct {
	client   *http.Client
	retry    RetryPolicy
	token    string
	maxBytes int64
}

// HTTPConfig configures an HTTPSource. Zero values pick defaults.
type HTTPConfig struct {
	Client   *http.Client
	Retry    *RetryPolicy
	Token    string // sent as a bearer token when set
	MaxBytes int64
}

const defaultMaxDownload = 256 << 20

func NewHTTPSource(cfg HTTPConfig) *HTTPSource {
	s := &HTTPSource{
		client:   cfg.Client,
		retry:    DefaultRetryPolicy,
		token:    cfg.Token,
		maxBytes: cfg.MaxBytes,
	}

	if s.client == nil {
		s.client = &http.Client{Timeout: 2 * time.Minute}
	}

	if cfg.Retry != nil {
		s.retry = *cfg.Retry
	}

	if s.retry.MaxAttempts < 1 {
		s.retry.MaxAttempts = 1
	}

	if s.maxBytes <= 0 {
		s.maxBytes = defaultMaxDownload
	}

	return s
}

// IsHTTP reports whether location is an http(s) URL.
func IsHTTP(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (s *HTTPSource) Resolve(_ context.Context, pattern string) (string, error) {
	if hasMeta(pattern) {
		return "", fmt.Errorf("%w: %s", ErrPatternUnsupported, pattern)
	}

	return pattern, nil
}

// Open downloads location into memory, retrying transport errors and
// transient status codes.
func (s *HTTPSource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	var lastErr error

	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		body, retry, err := s.fetch(ctx, location)
		if err == nil {
			return io.NopCloser(bytes.NewReader(body)), nil
		}

		lastErr = fmt.Errorf("download %s (attempt %d/%d): %w", location, attempt, s.retry.MaxAttempts, err)

		if !retry || attempt == s.retry.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.retry.Delay(attempt)):
		}
	}

	return nil, lastErr
}

func (s *HTTPSource) fetch(ctx context.Context, location string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.8")

	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, isRetryableStatus(resp.StatusCode), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, false, nil
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests,
		http.StatusRequestTimeout,
		http.StatusBadGateway:
		return true
	}

	return false
}
