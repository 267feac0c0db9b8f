package services

import (
	"encoding/json"
	"fmt"
)

// Status tags every result returned by the ledger operations.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is either a success value or an error. Expected failures
// (validation, storage) are carried here instead of being returned as a
// separate error, so callers always receive a tagged outcome.
type Result[T any] struct {
	Value T
	Err   error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

func (r Result[T]) Status() Status {
	if r.Err != nil {
		return StatusError
	}
	return StatusSuccess
}

// Message is the caller-facing error text, empty on success.
func (r Result[T]) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

type errorBody struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// MarshalJSON flattens the result into a single object: the value's fields
// plus "status" on success, or {"status":"error","message":...}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(errorBody{Status: StatusError, Message: r.Err.Error()})
	}

	payload, err := json.Marshal(r.Value)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("result value must encode as a JSON object: %w", err)
	}
	fields["status"] = json.RawMessage(`"` + string(StatusSuccess) + `"`)
	return json.Marshal(fields)
}
