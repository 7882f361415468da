package client

import (
	"reflect"
	"testing"
)

func TestReduceTransitions(t *testing.T) {
	cases := []struct {
		name  string
		state State
		event Event
		want  State
	}{
		{"idle starts upload", Idle{}, UploadStarted{Filename: "lease.pdf"}, Uploading{Filename: "lease.pdf"}},
		{"upload success starts processing", Uploading{Filename: "lease.pdf"}, UploadSucceeded{DocumentID: "doc-1"}, Processing{DocumentID: "doc-1", Filename: "lease.pdf"}},
		{"upload failure is terminal", Uploading{Filename: "lease.pdf"}, UploadFailed{Reason: "too large"}, Failed{Stage: StageUpload, Reason: "too large", CanRetry: true}},
		{"processing success completes", Processing{DocumentID: "doc-1"}, ProcessingSucceeded{}, Completed{DocumentID: "doc-1"}},
		{"processing failure is terminal", Processing{DocumentID: "doc-1"}, ProcessingFailed{Reason: "extraction failed"}, Failed{Stage: StageProcessing, Reason: "extraction failed", CanRetry: true}},
		{"reset from completed", Completed{DocumentID: "doc-1"}, Reset{}, Idle{}},
		{"reset from failed", Failed{Stage: StageUpload}, Reset{}, Idle{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Reduce(tc.state, tc.event)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Reduce(%+v, %+v) = %+v, want %+v", tc.state, tc.event, got, tc.want)
			}
		})
	}
}

func TestReduceIgnoresInvalidEvents(t *testing.T) {
	cases := []struct {
		name  string
		state State
		event Event
	}{
		{"idle ignores upload success", Idle{}, UploadSucceeded{DocumentID: "doc-1"}},
		{"idle ignores processing failure", Idle{}, ProcessingFailed{Reason: "x"}},
		{"uploading ignores another start", Uploading{Filename: "a.pdf"}, UploadStarted{Filename: "b.pdf"}},
		{"uploading ignores processing success", Uploading{Filename: "a.pdf"}, ProcessingSucceeded{}},
		{"processing ignores upload events", Processing{DocumentID: "doc-1"}, UploadSucceeded{DocumentID: "doc-2"}},
		{"completed ignores processing failure", Completed{DocumentID: "doc-1"}, ProcessingFailed{Reason: "late"}},
		{"completed ignores new upload", Completed{DocumentID: "doc-1"}, UploadStarted{Filename: "b.pdf"}},
		{"failed ignores processing success", Failed{Stage: StageUpload}, ProcessingSucceeded{}},
		{"failed ignores new upload", Failed{Stage: StageProcessing, Reason: "x", CanRetry: true}, UploadStarted{Filename: "b.pdf"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Reduce(tc.state, tc.event)
			if !reflect.DeepEqual(got, tc.state) {
				t.Fatalf("Reduce(%+v, %+v) = %+v, want unchanged", tc.state, tc.event, got)
			}
		})
	}
}

func TestFailedExitsOnlyThroughReset(t *testing.T) {
	failed := State(Failed{Stage: StageProcessing, Reason: "llm unavailable", CanRetry: true})

	for _, event := range []Event{
		UploadStarted{Filename: "lease.pdf"},
		UploadSucceeded{DocumentID: "doc-2"},
		UploadFailed{Reason: "again"},
		ProcessingSucceeded{},
		ProcessingFailed{Reason: "again"},
	} {
		if got := Reduce(failed, event); !reflect.DeepEqual(got, failed) {
			t.Fatalf("Reduce(Failed, %+v) = %+v, want unchanged", event, got)
		}
	}

	if got := Reduce(failed, Reset{}); !reflect.DeepEqual(got, State(Idle{})) {
		t.Fatalf("Reduce(Failed, Reset) = %+v, want Idle", got)
	}
}

func TestProcessingFailureNeverStaysProcessing(t *testing.T) {
	state := State(Processing{DocumentID: "doc-1"})
	state = Reduce(state, ProcessingFailed{Reason: "llm unavailable"})

	failed, ok := state.(Failed)
	if !ok {
		t.Fatalf("state = %+v, want Failed", state)
	}
	if failed.Stage != StageProcessing || !failed.CanRetry {
		t.Fatalf("failed = %+v", failed)
	}
}
