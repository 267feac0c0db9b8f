// Package http exposes the ledger operations as a JSON API.
//
// This file implements a small builder for JSON responses so every handler
// writes the same status/message envelope.

package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
	indent     bool
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Indent pretty-prints the body with two-space indentation.
func (b *JSONResponseBuilder) Indent() *JSONResponseBuilder {
	b.indent = true
	return b
}

// Write encodes the body before touching w, so an encoding failure still
// produces a well-formed 500.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if b.indent {
		enc.SetIndent("", "  ")
	}
	status := b.statusCode
	if err := enc.Encode(b.body); err != nil {
		slog.Error("failed to encode response", "error", err)
		buf.Reset()
		buf.WriteString(`{"status":"error","message":"failed to encode response"}` + "\n")
		status = http.StatusInternalServerError
	}

	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

type errorBody struct {
	Status  services.Status `json:"status"`
	Message string          `json:"message"`
}

// ErrorResponse creates a response carrying the error envelope.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Body(errorBody{Status: services.StatusError, Message: message})
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func MethodNotAllowedError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, message)
}

// TooManyRequestsError tells the client to retry after retryAfter seconds.
func TooManyRequestsError(message, retryAfter string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, message).Header("Retry-After", retryAfter)
}

// statusFor maps an operation error to an HTTP status.
func statusFor(err error) int {
	switch {
	case core.IsValidation(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ResultResponse writes res with okStatus on success, or the mapped error
// status otherwise. The body is the result's own JSON in both cases.
func ResultResponse[T any](res services.Result[T], okStatus int) *JSONResponseBuilder {
	status := okStatus
	if !res.OK() {
		status = statusFor(res.Err)
	}
	return NewJSONResponse().Status(status).Body(res)
}
