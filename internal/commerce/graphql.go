// Package commerce is the client for the hosted store's GraphQL admin API:
// transport with cost-budget throttling, and natural-key lookup plus
// create, update and delete for products and customers.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"shopmigrate/internal/logger"
	"shopmigrate/internal/telemetry"
	"shopmigrate/pkg/textutil"
)

// Defaults for the cost throttle.
const (
	DefaultLowWater      = 100
	DefaultThrottlePause = 2 * time.Second
	defaultTimeout       = 30 * time.Second
	maxResponseBytes     = 10 * 1024 * 1024
)

// Client defines the interface for GraphQL communication.
type Client interface {
	Execute(ctx context.Context, query string, variables map[string]any) (*GraphQLResponse, error)
}

// Ensure GraphQLClient implements Client.
var _ Client = (*GraphQLClient)(nil)

// GraphQLRequest represents a GraphQL request.
type GraphQLRequest struct {
	Variables map[string]any `json:"variables,omitempty"`
	Query     string         `json:"query"`
}

// GraphQLResponse represents a GraphQL response.
type GraphQLResponse struct {
	Extensions *Extensions     `json:"extensions,omitempty"`
	Data       json.RawMessage `json:"data"`
	Errors     []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a top-level GraphQL error.
type GraphQLError struct {
	Extensions map[string]any `json:"extensions,omitempty"`
	Message    string         `json:"message"`
	Locations  []struct {
		Line   int `json:"line"`
		Column int `json:"column"`
	} `json:"locations,omitempty"`
	Path []any `json:"path,omitempty"`
}

// Extensions carries the query cost report.
type Extensions struct {
	Cost *QueryCost `json:"cost,omitempty"`
}

// QueryCost describes what a call cost and what budget remains.
type QueryCost struct {
	RequestedQueryCost int            `json:"requestedQueryCost"`
	ActualQueryCost    int            `json:"actualQueryCost"`
	ThrottleStatus     ThrottleStatus `json:"throttleStatus"`
}

// ThrottleStatus is the server's view of the cost bucket.
type ThrottleStatus struct {
	MaximumAvailable   float64 `json:"maximumAvailable"`
	CurrentlyAvailable float64 `json:"currentlyAvailable"`
	RestoreRate        float64 `json:"restoreRate"`
}

// Options tune a GraphQLClient. Zero values select the defaults.
type Options struct {
	HTTPClient *http.Client
	Metrics    *telemetry.Metrics
	// LowWater is the remaining budget below which the client pauses.
	LowWater int
	// ThrottlePause is how long the client pauses.
	ThrottlePause time.Duration
	// RateLimit caps requests per second; 0 disables the cap.
	RateLimit float64
}

// GraphQLClient handles GraphQL communication with the store.
type GraphQLClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *telemetry.Metrics
	logger     logger.Sink
	endpoint   string
	token      string
	lowWater   int
	pause      time.Duration

	mu        sync.Mutex
	remaining int
	known     bool
}

// NewGraphQLClient creates a new GraphQL client.
func NewGraphQLClient(endpoint, token string, opts Options, log logger.Sink) *GraphQLClient {
	if log == nil {
		log = logger.Nop()
	}

	c := &GraphQLClient{
		httpClient: opts.HTTPClient,
		metrics:    opts.Metrics,
		logger:     log,
		endpoint:   endpoint,
		token:      token,
		lowWater:   opts.LowWater,
		pause:      opts.ThrottlePause,
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	if c.lowWater <= 0 {
		c.lowWater = DefaultLowWater
	}

	if c.pause <= 0 {
		c.pause = DefaultThrottlePause
	}

	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}

		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return c
}

// Budget returns the last reported remaining cost budget. ok is false until
// a response carried one.
func (c *GraphQLClient) Budget() (remaining int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.remaining, c.known
}

// Execute sends a GraphQL request and returns the response. A response with
// top-level errors is returned together with a *ProtocolError. When the
// remaining budget falls below the low-water mark the call pauses before
// returning.
func (c *GraphQLClient) Execute(ctx context.Context, query string, variables map[string]any) (*GraphQLResponse, error) {
	op := operationName(query)
	c.logger.Debug(fmt.Sprintf("Executing GraphQL operation: %s", op))

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.do(ctx, query, variables)
	c.metrics.RemoteCall(ctx, op, time.Since(start), err)

	if resp != nil && resp.Extensions != nil && resp.Extensions.Cost != nil {
		c.observeCost(ctx, op, resp.Extensions.Cost)
	}

	return resp, err
}

func (c *GraphQLClient) do(ctx context.Context, query string, variables map[string]any) (resp *GraphQLResponse, err error) {
	jsonBody, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		c.logger.Error(fmt.Sprintf("GraphQL request failed with status %d: %s", httpResp.StatusCode, textutil.Truncate(string(body), 200)))
		return nil, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatusCode, httpResp.StatusCode, textutil.Truncate(string(body), 200))
	}

	var gqlResp GraphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return &gqlResp, &ProtocolError{Errors: gqlResp.Errors}
	}

	return &gqlResp, nil
}

// observeCost records the advertised budget and pauses when it is low. The
// pause is fixed, whatever the margin.
func (c *GraphQLClient) observeCost(ctx context.Context, op string, cost *QueryCost) {
	remaining := int(cost.ThrottleStatus.CurrentlyAvailable)

	c.mu.Lock()
	c.remaining = remaining
	c.known = true
	c.mu.Unlock()

	if remaining >= c.lowWater {
		return
	}

	c.logger.Warn(fmt.Sprintf("⏳ Cost budget low (%d < %d), pausing %s", remaining, c.lowWater, c.pause),
		"operation", op)
	c.metrics.Throttled(ctx)

	t := time.NewTimer(c.pause)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// UnmarshalGraphQLData unmarshals the response data into the target struct.
func UnmarshalGraphQLData[T any](resp *GraphQLResponse) (*T, error) {
	if resp == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, ErrNoData
	}

	var target T
	if err := json.Unmarshal(resp.Data, &target); err != nil {
		return nil, fmt.Errorf("failed to parse response data: %w", err)
	}

	return &target, nil
}

// operationName extracts "Name" from "query Name(...)" or "mutation Name".
func operationName(query string) string {
	fields := strings.Fields(query)
	if len(fields) < 2 || (fields[0] != "query" && fields[0] != "mutation") {
		return "anonymous"
	}

	name := fields[1]
	if i := strings.IndexAny(name, "({"); i >= 0 {
		name = name[:i]
	}

	if name == "" {
		return "anonymous"
	}

	return name
}
