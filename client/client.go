package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/shared/config"
	"legaldoc-backend/internal/simplify"
)

// Per-call deadlines. Processing waits on the LLM, so it gets the long one.
const (
	uploadTimeout  = 60 * time.Second
	processTimeout = 120 * time.Second
	fetchTimeout   = 30 * time.Second
)

// RejectedError reports a file that failed pre-flight validation. No request
// was sent.
type RejectedError struct {
	Code    string
	Message string
}

func (e *RejectedError) Error() string { return e.Message }

// APIError reports a non-2xx response with the server's error envelope.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Type, e.Message)
}

// TransportError reports a network failure before any response arrived.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// UploadClient talks to the document API. The zero value is not usable; use
// New.
type UploadClient struct {
	BaseURL     string
	Token       string
	HTTPClient  *http.Client
	MaxFileSize int64
}

// New constructs a client for the given API base URL, e.g.
// "https://api.example.com/api/v1".
func New(baseURL string) *UploadClient {
	return &UploadClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTPClient:  &http.Client{},
		MaxFileSize: config.MaxFileSizeDefault,
	}
}

// Upload validates the file locally, then posts it as multipart form data.
// A local validation rejection returns *RejectedError without touching the
// network; a server-side rejection (bad type, too large) comes back as
// *RejectedError too, carrying the server's message.
func (c *UploadClient) Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*documents.UploadResponse, error) {
	check := CheckFileWithLimit(filename, contentType, size, c.maxFileSize())
	if !check.OK {
		return nil, &RejectedError{Code: check.Code, Message: check.Message}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/documents/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out documents.UploadResponse
	if err := c.do(req, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) &&
			(apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusRequestEntityTooLarge) {
			return nil, &RejectedError{Code: apiErr.Type, Message: apiErr.Message}
		}
		return nil, err
	}
	return &out, nil
}

// Process requests simplification for an uploaded document and waits for the
// result.
func (c *UploadClient) Process(ctx context.Context, documentID, level, audience string) (*simplify.ResultResponse, error) {
	payload, err := json.Marshal(simplify.ProcessRequest{
		SimplificationLevel: level,
		TargetAudience:      audience,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/documents/%s/process", c.BaseURL, documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out simplify.ResultResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Result fetches the stored simplification result.
func (c *UploadClient) Result(ctx context.Context, documentID string) (*simplify.ResultResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/documents/"+documentID, nil)
	if err != nil {
		return nil, err
	}

	var out simplify.ResultResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Metadata fetches the document's processing metadata.
func (c *UploadClient) Metadata(ctx context.Context, documentID string) (*documents.MetadataResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/documents/%s/metadata", c.BaseURL, documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var out documents.MetadataResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download fetches the rendered markdown for a processed document.
func (c *UploadClient) Download(ctx context.Context, documentID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/documents/%s/download", c.BaseURL, documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *UploadClient) do(req *http.Request, out any) error {
	c.authorize(req)
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *UploadClient) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

func (c *UploadClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *UploadClient) maxFileSize() int64 {
	if c.MaxFileSize > 0 {
		return c.MaxFileSize
	}
	return config.MaxFileSizeDefault
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Type: "unknown_error"}
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Error != "" {
			apiErr.Type = envelope.Error
		}
		apiErr.Message = envelope.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
