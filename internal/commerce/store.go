package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"shopmigrate/internal/logger"
)

// Store exposes natural-key lookup and upsert operations over a Client.
// It holds no state besides the client, so it is safe for concurrent use.
type Store struct {
	client     Client
	logger     logger.Sink
	locationID string
}

// NewStore creates a store. locationID is where inventory quantities are set;
// when empty, quantities are not written.
func NewStore(client Client, locationID string, log logger.Sink) *Store {
	if log == nil {
		log = logger.Nop()
	}

	return &Store{client: client, logger: log, locationID: locationID}
}

// searchQuery scopes a search to exactly one value of field.
func searchQuery(field, value string) string {
	return field + ":" + strconv.Quote(value)
}

type connection[T any] struct {
	Nodes []T `json:"nodes"`
}

type idNode struct {
	ID string `json:"id"`
}

// mutate runs a mutation and decodes the payload under field, failing when
// either the top-level or the inline user error list is non-empty.
func mutate[T any](ctx context.Context, c Client, field, query string, vars map[string]any) (*T, error) {
	resp, err := c.Execute(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}

	data, err := UnmarshalGraphQLData[map[string]json.RawMessage](resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}

	raw, ok := (*data)[field]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%s: %w", field, ErrNoData)
	}

	var envelope struct {
		UserErrors []UserError `json:"userErrors"`
	}

	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%s: failed to parse payload: %w", field, err)
	}

	if len(envelope.UserErrors) > 0 {
		return nil, &UserErrorsError{Operation: field, Errors: envelope.UserErrors}
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s: failed to parse payload: %w", field, err)
	}

	return &out, nil
}

// findFirst runs a search query and returns the first node under field, or
// nil when there are none.
func findFirst[T any](ctx context.Context, c Client, field, query string, vars map[string]any) (*T, error) {
	resp, err := c.Execute(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}

	data, err := UnmarshalGraphQLData[map[string]connection[T]](resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}

	conn, ok := (*data)[field]
	if !ok || len(conn.Nodes) == 0 {
		return nil, nil
	}

	return &conn.Nodes[0], nil
}

type deletePayload struct {
	DeletedID string `json:"deletedId"`
}
