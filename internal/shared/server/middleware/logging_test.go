package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	prev := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = prev }()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("close pipe: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read pipe: %v", err)
	}
	return string(data)
}

func TestLoggingEmitsRequestFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Identity(), Logging())
	router.GET("/api/v1/documents/:id", func(c *gin.Context) {
		c.Set("documentId", c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	out := captureStdout(t, func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-123", nil)
		req.Header.Set("X-User-Id", "user-9")
		req.Header.Set("User-Agent", "loggingtest/1.0")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
	})

	line := firstLogLine(t, out, "request.complete")
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("unmarshal log line %q: %v", line, err)
	}

	if entry["method"] != "GET" {
		t.Fatalf("expected method GET, got %v", entry["method"])
	}
	if entry["path"] != "/api/v1/documents/doc-123" {
		t.Fatalf("expected path, got %v", entry["path"])
	}
	if got, ok := entry["status"].(float64); !ok || int(got) != http.StatusOK {
		t.Fatalf("expected status 200, got %v", entry["status"])
	}
	if entry["user_id"] != "user-9" {
		t.Fatalf("expected user_id user-9, got %v", entry["user_id"])
	}
	if entry["document_id"] != "doc-123" {
		t.Fatalf("expected document_id doc-123, got %v", entry["document_id"])
	}
	if entry["user_agent"] != "loggingtest/1.0" {
		t.Fatalf("expected user_agent, got %v", entry["user_agent"])
	}
	if id, ok := entry["request_id"].(string); !ok || id == "" {
		t.Fatalf("expected non-empty request_id, got %v", entry["request_id"])
	}
	if _, ok := entry["duration_ms"].(float64); !ok {
		t.Fatalf("expected numeric duration_ms, got %v", entry["duration_ms"])
	}
}

func TestLoggingSkipsOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Logging())
	router.OPTIONS("/anything", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	out := captureStdout(t, func() {
		req := httptest.NewRequest(http.MethodOptions, "/anything", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
	})

	if strings.Contains(out, "request.complete") {
		t.Fatalf("expected no request log for OPTIONS, got %q", out)
	}
}

func firstLogLine(t *testing.T, out, substr string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	t.Fatalf("no log line containing %q in %q", substr, out)
	return ""
}
