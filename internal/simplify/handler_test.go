package simplify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, env *testEnv) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(env.svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestProcessEndpointReturnsResult(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(t, env)

	body := strings.NewReader(`{"simplification_level": "basic", "target_audience": "students"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/process", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.DocumentID != "doc-1" {
		t.Fatalf("document_id = %q", resp.DocumentID)
	}
	if resp.SimplificationLevel != "basic" {
		t.Fatalf("level = %q", resp.SimplificationLevel)
	}
}

func TestProcessEndpointGatesOriginalText(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(t, env)

	body := strings.NewReader(`{"include_original": true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/process", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var withOriginal ResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &withOriginal); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if withOriginal.OriginalText == "" {
		t.Fatal("include_original=true should return the extracted text")
	}

	env2 := newTestEnv(t)
	router2 := newTestRouter(t, env2)
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/process", nil)
	rec2 := httptest.NewRecorder()
	router2.ServeHTTP(rec2, req2)

	if rec2.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec2.Code, rec2.Body.String())
	}
	if strings.Contains(rec2.Body.String(), "original_text") {
		t.Fatalf("default response should omit original_text: %s", rec2.Body.String())
	}
}

func TestProcessEndpointNoBodyUsesDefaults(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(t, env)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/process", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestProcessEndpointUnknownDocument(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(t, env)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/missing/process", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestProcessEndpointInvalidLevel(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(t, env)

	body := strings.NewReader(`{"simplification_level": "extreme"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/process", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestProcessEndpointExtractionFailureIs422(t *testing.T) {
	env := newTestEnv(t)
	env.store.objects[env.doc.StoragePath] = []byte{0xff, 0xfe, 0x01}
	router := newTestRouter(t, env)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/process", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestProcessEndpointUpstreamFailureIs502(t *testing.T) {
	env := newTestEnv(t, scriptedResponse{err: errors.New("model exploded")})
	router := newTestRouter(t, env)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/process", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestResultEndpointBeforeProcessing(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(t, env)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error != "not_processed" {
		t.Fatalf("error = %q, want not_processed", resp.Error)
	}
}

func TestResultEndpointAfterProcessing(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.svc.Process(context.Background(), "doc-1", Options{}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	router := newTestRouter(t, env)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestDownloadEndpoint(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.svc.Process(context.Background(), "doc-1", Options{}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	router := newTestRouter(t, env)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/markdown") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "## Summary") {
		t.Fatal("body should be the rendered markdown")
	}
}

func TestDownloadFallsBackToGenericFilename(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.svc.Process(context.Background(), "doc-1", Options{}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	stored, err := env.svc.Repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	stored.OriginalFilename = "///"
	if err := env.svc.Repo.Upsert(context.Background(), stored); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	router := newTestRouter(t, env)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "document.simplified.md") {
		t.Fatalf("content disposition = %q, want the generic fallback name", cd)
	}
}

func TestQuestionEndpoint(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.svc.Process(context.Background(), "doc-1", Options{}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	router := newTestRouter(t, env)

	body := strings.NewReader(`{"question": "When is rent due?"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/qa", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Answer == "" {
		t.Fatal("expected an answer")
	}
}

func TestQuestionEndpointRequiresQuestion(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(t, env)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/doc-1/qa", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
