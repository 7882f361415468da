package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestTrackEndpoint(t *testing.T) {
	store := NewMemoryStore()
	router := newTestRouter(NewService(store))

	body := strings.NewReader(`{"action": "view", "document_id": "doc-1", "metadata": {"source": "web"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics/track", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	events, err := store.ListByDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("ListByDocument: %v", err)
	}
	if len(events) != 1 || events[0].Action != ActionView {
		t.Fatalf("events = %+v", events)
	}
}

func TestTrackEndpointRejectsUnknownAction(t *testing.T) {
	router := newTestRouter(NewService(NewMemoryStore()))

	body := strings.NewReader(`{"action": "launch", "document_id": "doc-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics/track", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error != "validation_error" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestTrackEndpointRequiresBody(t *testing.T) {
	router := newTestRouter(NewService(NewMemoryStore()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics/track", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUsageEndpoint(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()
	_ = store.Append(context.Background(), Event{DocumentID: "doc-1", Action: ActionUpload, Timestamp: now})
	_ = store.Append(context.Background(), Event{DocumentID: "doc-1", Action: ActionProcess, Timestamp: now})
	router := newTestRouter(NewService(store))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/usage?days=7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var stats UsageStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.PeriodDays != 7 || stats.TotalEvents != 2 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestPerformanceEndpoint(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()
	seconds := 2.5
	_ = store.Append(context.Background(), Event{DocumentID: "doc-1", Action: ActionProcess, Timestamp: now, ProcessingTime: &seconds})
	router := newTestRouter(NewService(store))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/performance", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats PerformanceStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.ProcessedDocuments != 1 || stats.AvgProcessingTime != 2.5 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestDocumentEndpoint(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Append(context.Background(), Event{DocumentID: "doc-1", Action: ActionUpload, Timestamp: time.Now().UTC()})
	router := newTestRouter(NewService(store))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/documents/doc-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var report DocumentReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.DocumentID != "doc-1" || report.TotalEvents != 1 {
		t.Fatalf("report = %+v", report)
	}
}

func TestDocumentTypesEndpoint(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Append(context.Background(), Event{
		DocumentID: "doc-1",
		Action:     ActionUpload,
		Timestamp:  time.Now().UTC(),
		Metadata:   map[string]any{"file_type": "pdf"},
	})
	router := newTestRouter(NewService(store))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/document-types", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"pdf"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestEffectivenessEndpoint(t *testing.T) {
	store := NewMemoryStore()
	conf := 0.8
	_ = store.Append(context.Background(), Event{
		DocumentID:          "doc-1",
		Action:              ActionProcess,
		Timestamp:           time.Now().UTC(),
		SimplificationLevel: "basic",
		ConfidenceScore:     &conf,
	})
	router := newTestRouter(NewService(store))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/simplification-effectiveness", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"basic"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
