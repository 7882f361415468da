package queue

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"legaldoc-backend/internal/shared/telemetry"
)

// MessageMeta captures payload details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode job"
	}
	return "decode job: " + e.Err.Error()
}

// ErrMissingDocumentID indicates a job missing the document id.
type ErrMissingDocumentID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingDocumentID) Error() string { return "missing document id" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	DocumentID string
	RequestID  string
	Err        error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process document"
	}
	return "process document: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseJob validates and decodes a queue payload.
func ParseJob(body string) (ProcessJob, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return ProcessJob{}, meta, ErrEmptyBody{Meta: meta}
	}

	job, err := DecodeJob([]byte(body))
	if err != nil {
		return ProcessJob{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(job.DocumentID) == "" {
		return job, meta, ErrMissingDocumentID{Meta: meta, RequestID: job.RequestID}
	}
	return job, meta, nil
}

// JobHandler runs one parsed job.
type JobHandler func(ctx context.Context, job ProcessJob) error

// Worker polls SQS and dispatches jobs to a handler. Malformed messages are
// deleted so they do not poison the queue; handler failures leave the
// message in place for redelivery.
type Worker struct {
	SQS      *sqs.Client
	QueueURL string
	Handler  JobHandler

	WaitTime    int32
	MaxMessages int32
}

// NewWorker constructs a Worker with default polling settings.
func NewWorker(client *sqs.Client, queueURL string, handler JobHandler) *Worker {
	return &Worker{
		SQS:         client,
		QueueURL:    queueURL,
		Handler:     handler,
		WaitTime:    20,
		MaxMessages: 5,
	}
}

// Run polls until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if w.Handler == nil {
		return errors.New("queue worker: handler not configured")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := w.SQS.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(w.QueueURL),
			WaitTimeSeconds:     w.WaitTime,
			MaxNumberOfMessages: w.MaxMessages,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			telemetry.Error("worker.receive.failed", map[string]any{"err": err.Error()})
			time.Sleep(2 * time.Second)
			continue
		}
		for _, msg := range out.Messages {
			w.handleMessage(ctx, msg)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)
	job, meta, err := ParseJob(body)
	if err != nil {
		telemetry.Error("worker.job.invalid", map[string]any{
			"err":      err.Error(),
			"body_len": meta.BodyLen,
			"body_sha": meta.BodySHA,
		})
		w.delete(ctx, msg)
		return
	}

	telemetry.Info("worker.job.start", map[string]any{
		"document_id": job.DocumentID,
		"request_id":  job.RequestID,
	})
	if err := w.Handler(ctx, job); err != nil {
		telemetry.Error("worker.job.failed", map[string]any{
			"document_id": job.DocumentID,
			"request_id":  job.RequestID,
			"err":         err.Error(),
		})
		return
	}

	telemetry.Info("worker.job.done", map[string]any{
		"document_id": job.DocumentID,
		"request_id":  job.RequestID,
	})
	w.delete(ctx, msg)
}

func (w *Worker) delete(ctx context.Context, msg sqstypes.Message) {
	_, err := w.SQS.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(w.QueueURL),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		telemetry.Error("worker.delete.failed", map[string]any{"err": err.Error()})
	}
}
