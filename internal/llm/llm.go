package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for document simplification.
type Client interface {
	SimplifyDocument(ctx context.Context, input SimplifyInput) (json.RawMessage, error)
	AnswerQuestion(ctx context.Context, input QuestionInput) (string, error)
}

// SimplifyInput captures the inputs for a simplification request.
type SimplifyInput struct {
	DocumentText string
	Level        string
	Audience     string
}

// QuestionInput captures the inputs for a document Q&A request.
type QuestionInput struct {
	DocumentText string
	Question     string
}

// ErrTransient marks provider failures worth a single retry: timeouts, rate
// limits and upstream 5xx.
var ErrTransient = errors.New("transient llm failure")

// IsTransient reports whether err is a retryable provider failure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

type fixJSONKey struct{}

// WithFixJSON returns a context signaling a fix-JSON retry with the given raw output.
func WithFixJSON(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, fixJSONKey{}, raw)
}

// FixJSONFromContext returns the raw JSON to repair, if any.
func FixJSONFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(fixJSONKey{})
	raw, ok := val.(string)
	return raw, ok
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation used when no provider key is
// configured. Processing against it fails cleanly instead of hanging.
type PlaceholderClient struct{}

// SimplifyDocument returns ErrNotImplemented.
func (PlaceholderClient) SimplifyDocument(ctx context.Context, input SimplifyInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}

// AnswerQuestion returns ErrNotImplemented.
func (PlaceholderClient) AnswerQuestion(ctx context.Context, input QuestionInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotImplemented
}
