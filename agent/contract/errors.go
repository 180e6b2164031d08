package contract

import (
	"errors"
	"fmt"
)

var (
	ErrModelInvoke      = errors.New("model invoke failed")
	ErrNotFound         = errors.New("no clients found for advisor")
	ErrDataUnavailable  = errors.New("client data unavailable")
	ErrUnknownFunction  = errors.New("unknown function")
	ErrInvalidArguments = errors.New("invalid function arguments")
	ErrInvalidQuery     = errors.New("query is empty")
	ErrValidation       = errors.New("validation failed")
)

type DispatchErrorKind string

const (
	KindUnknownFunction DispatchErrorKind = "unknown_function"
	KindUpstreamFailure DispatchErrorKind = "upstream_failure"
	KindInvalidQuery    DispatchErrorKind = "invalid_query"
)

// DispatchError ends a single dispatch turn. It is converted into a
// user-visible message at the top of query processing.
type DispatchError struct {
	Kind     DispatchErrorKind
	Function string
	Err      error
}

func NewDispatchError(kind DispatchErrorKind, function string, err error) *DispatchError {
	return &DispatchError{Kind: kind, Function: function, Err: err}
}

func (e *DispatchError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("dispatch %s (function=%s): %v", e.Kind, e.Function, e.Err)
	}
	return fmt.Sprintf("dispatch %s: %v", e.Kind, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown in place of an answer.
func (e *DispatchError) UserMessage() string {
	switch e.Kind {
	case KindUnknownFunction:
		return "Error: Unknown function called"
	case KindInvalidQuery:
		return "Please enter a question."
	default:
		return fmt.Sprintf("Error processing query: %v", e.Err)
	}
}
