package queue

import (
	"context"
	"time"
)

// Client sends processing jobs to a queue backend.
type Client interface {
	Send(ctx context.Context, job ProcessJob) error
}

// jobVersion is bumped when the payload shape changes.
const jobVersion = 1

// Enqueuer adapts a Client to the enqueue seam used by the simplification
// service.
type Enqueuer struct {
	Client Client
}

// EnqueueProcess queues one document for background processing.
func (e *Enqueuer) EnqueueProcess(ctx context.Context, documentID, level, audience, requestID string, includeOriginal bool) error {
	return e.Client.Send(ctx, ProcessJob{
		DocumentID:      documentID,
		Level:           level,
		Audience:        audience,
		IncludeOriginal: includeOriginal,
		RequestID:       requestID,
		EnqueuedAt:      time.Now().UTC().Format(time.RFC3339),
		Version:         jobVersion,
	})
}
