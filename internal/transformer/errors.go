package transformer

import (
	"errors"
	"fmt"
)

// Construction failure causes.
var (
	ErrMissingKey   = errors.New("missing natural key")
	ErrInvalidKey   = errors.New("invalid natural key")
	ErrMissingPrice = errors.New("missing required price")
)

// ErrSkipped marks a row deliberately left out of the import.
var ErrSkipped = errors.New("row skipped")

// PayloadConstructionError reports a row for which no payload may be built.
type PayloadConstructionError struct {
	Err    error
	Key    string
	Reason string
	Row    int
}

func (e *PayloadConstructionError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("row %d (%s): %s", e.Row, e.Key, e.Reason)
	}

	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

func (e *PayloadConstructionError) Unwrap() error {
	return e.Err
}

func constructionError(row int, key string, err error, detail string) *PayloadConstructionError {
	reason := err.Error()
	if detail != "" {
		reason += ": " + detail
	}

	return &PayloadConstructionError{Err: err, Key: key, Reason: reason, Row: row}
}

// SkipError reports a row excluded by feed rules before normalization.
type SkipError struct {
	Reason string
	Row    int
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("row %d skipped: %s", e.Row, e.Reason)
}

func (e *SkipError) Is(target error) bool {
	return target == ErrSkipped
}
