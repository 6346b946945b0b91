package commerce

import (
	"errors"
	"fmt"
	"strings"
)

// Remote errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrGraphQLError         = errors.New("graphql error")
	ErrUserErrors           = errors.New("mutation rejected")
	ErrNoData               = errors.New("no data in response")
	ErrNoVariant            = errors.New("product has no default variant")
)

// ProtocolError carries the top-level error list of a response.
type ProtocolError struct {
	Errors []GraphQLError
}

func (e *ProtocolError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}

	return fmt.Sprintf("%s: %s", ErrGraphQLError, strings.Join(msgs, "; "))
}

func (e *ProtocolError) Unwrap() error {
	return ErrGraphQLError
}

// UserError is a field-level error returned inline by a mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrorsError reports a mutation whose inline user error list was not
// empty, even though the response carried no top-level errors.
type UserErrorsError struct {
	Operation string
	Errors    []UserError
}

func (e *UserErrorsError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		if len(ue.Field) > 0 {
			msgs = append(msgs, strings.Join(ue.Field, ".")+": "+ue.Message)
			continue
		}

		msgs = append(msgs, ue.Message)
	}

	return fmt.Sprintf("%s: %s: %s", e.Operation, ErrUserErrors, strings.Join(msgs, "; "))
}

func (e *UserErrorsError) Unwrap() error {
	return ErrUserErrors
}

// PartialFailureError reports a multi-step upsert that failed after earlier
// steps were applied remotely. Nothing is rolled back.
type PartialFailureError struct {
	Err       error
	EntityID  string
	Step      string
	Completed []string
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("entity %s left partially written (done: %s), step %s failed: %v",
		e.EntityID, strings.Join(e.Completed, ", "), e.Step, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
