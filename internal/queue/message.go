package queue

import "encoding/json"

// ProcessJob is the payload sent to the processing worker.
type ProcessJob struct {
	DocumentID      string `json:"document_id"`
	Level           string `json:"simplification_level"`
	Audience        string `json:"target_audience"`
	IncludeOriginal bool   `json:"include_original"`
	RequestID       string `json:"request_id"`
	EnqueuedAt      string `json:"enqueued_at"`
	Version         int    `json:"version"`
}

// EncodeJob returns the JSON representation of a job.
func EncodeJob(job ProcessJob) ([]byte, error) {
	return json.Marshal(job)
}

// DecodeJob parses a JSON payload into a ProcessJob.
func DecodeJob(payload []byte) (ProcessJob, error) {
	var job ProcessJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return ProcessJob{}, err
	}
	return job, nil
}
