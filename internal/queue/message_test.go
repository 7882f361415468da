package queue

import (
	"errors"
	"reflect"
	"testing"
)

func TestJobRoundTrip(t *testing.T) {
	job := ProcessJob{
		DocumentID:      "doc-123",
		Level:           "standard",
		Audience:        "general_public",
		IncludeOriginal: true,
		RequestID:       "request-456",
		EnqueuedAt:      "2026-08-25T10:00:00Z",
		Version:         1,
	}

	payload, err := EncodeJob(job)
	if err != nil {
		t.Fatalf("encode job: %v", err)
	}

	got, err := DecodeJob(payload)
	if err != nil {
		t.Fatalf("decode job: %v", err)
	}

	if !reflect.DeepEqual(got, job) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, job)
	}
}

func TestParseJobEmptyBody(t *testing.T) {
	_, meta, err := ParseJob("   ")
	var emptyErr ErrEmptyBody
	if !errors.As(err, &emptyErr) {
		t.Fatalf("err = %v, want ErrEmptyBody", err)
	}
	if meta.BodyLen != 3 {
		t.Fatalf("body_len = %d, want 3", meta.BodyLen)
	}
}

func TestParseJobDecodeFailure(t *testing.T) {
	_, _, err := ParseJob("{not json")
	var decodeErr ErrDecode
	if !errors.As(err, &decodeErr) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}

func TestParseJobMissingDocumentID(t *testing.T) {
	_, _, err := ParseJob(`{"request_id": "req-1"}`)
	var missingErr ErrMissingDocumentID
	if !errors.As(err, &missingErr) {
		t.Fatalf("err = %v, want ErrMissingDocumentID", err)
	}
	if missingErr.RequestID != "req-1" {
		t.Fatalf("request_id = %q", missingErr.RequestID)
	}
}

func TestParseJobValid(t *testing.T) {
	job, meta, err := ParseJob(`{"document_id": "doc-1", "simplification_level": "basic"}`)
	if err != nil {
		t.Fatalf("ParseJob: %v", err)
	}
	if job.DocumentID != "doc-1" || job.Level != "basic" {
		t.Fatalf("job = %+v", job)
	}
	if meta.BodySHA == "" {
		t.Fatal("expected a body hash")
	}
}
