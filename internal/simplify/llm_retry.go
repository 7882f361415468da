package simplify

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"strings"
	"time"

	"legaldoc-backend/internal/llm"
)

const llmRetryBaseDelay = 300 * time.Millisecond

// retryingLLM wraps a client with a single retry for transient failures.
type retryingLLM struct {
	base       llm.Client
	requestID  string
	documentID string
}

func newRetryingLLM(base llm.Client, documentID, requestID string) llm.Client {
	if base == nil {
		return nil
	}
	return retryingLLM{
		base:       base,
		requestID:  requestID,
		documentID: documentID,
	}
}

func (r retryingLLM) SimplifyDocument(ctx context.Context, input llm.SimplifyInput) (json.RawMessage, error) {
	resp, err := r.base.SimplifyDocument(ctx, input)
	if err == nil || !shouldRetryLLM(err) {
		return resp, err
	}

	log.Printf("llm retry attempt=1 request_id=%s document_id=%s error=%s", r.requestID, r.documentID, sanitizeError(err))
	select {
	case <-time.After(llmRetryBaseDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return r.base.SimplifyDocument(ctx, input)
}

func (r retryingLLM) AnswerQuestion(ctx context.Context, input llm.QuestionInput) (string, error) {
	resp, err := r.base.AnswerQuestion(ctx, input)
	if err == nil || !shouldRetryLLM(err) {
		return resp, err
	}

	log.Printf("llm retry attempt=1 request_id=%s document_id=%s error=%s", r.requestID, r.documentID, sanitizeError(err))
	select {
	case <-time.After(llmRetryBaseDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return r.base.AnswerQuestion(ctx, input)
}

func shouldRetryLLM(err error) bool {
	if err == nil {
		return false
	}
	if llm.IsTransient(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") {
		return true
	}

	return false
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
