package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"legaldoc-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", "gemini-pro", 0.3, 4000)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.baseURL = server.URL
	return client
}

func candidateBody(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]string{{"text": text}},
			},
			"finishReason": "STOP",
		}},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestSimplifyDocumentReturnsJSON(t *testing.T) {
	payload := `{"summary": "A lease.", "key_points": ["rent is due"], "confidence_score": 0.8}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-pro:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key")
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) == 0 || !strings.Contains(req.Contents[0].Parts[0].Text, "DOCUMENT:") {
			t.Errorf("prompt should embed the document")
		}
		_, _ = w.Write([]byte(candidateBody(payload)))
	})

	raw, err := client.SimplifyDocument(context.Background(), llm.SimplifyInput{
		DocumentText: "THE TENANT SHALL PAY RENT",
		Level:        "standard",
		Audience:     "general_public",
	})
	if err != nil {
		t.Fatalf("SimplifyDocument: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("returned payload is not valid JSON: %s", raw)
	}
}

func TestSimplifyDocumentStripsMarkdownFences(t *testing.T) {
	fenced := "```json\n{\"summary\": \"ok\"}\n```"
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(candidateBody(fenced)))
	})

	raw, err := client.SimplifyDocument(context.Background(), llm.SimplifyInput{DocumentText: "text"})
	if err != nil {
		t.Fatalf("SimplifyDocument: %v", err)
	}
	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.Summary != "ok" {
		t.Fatalf("summary = %q", parsed.Summary)
	}
}

func TestSimplifyDocumentRepairsMalformedJSON(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(candidateBody(`not json at all`)))
			return
		}
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if !strings.Contains(req.Contents[0].Parts[0].Text, "not valid JSON") {
			t.Errorf("second call should be a repair prompt")
		}
		_, _ = w.Write([]byte(candidateBody(`{"summary": "repaired"}`)))
	})

	raw, err := client.SimplifyDocument(context.Background(), llm.SimplifyInput{DocumentText: "text"})
	if err != nil {
		t.Fatalf("SimplifyDocument: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
	if !strings.Contains(string(raw), "repaired") {
		t.Fatalf("payload = %s", raw)
	}
}

func TestGenerateMarksRateLimitTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"}}`))
	})

	_, err := client.SimplifyDocument(context.Background(), llm.SimplifyInput{DocumentText: "text"})
	if !llm.IsTransient(err) {
		t.Fatalf("err = %v, want transient", err)
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "invalid argument", "status": "INVALID_ARGUMENT"}}`))
	})

	_, err := client.AnswerQuestion(context.Background(), llm.QuestionInput{DocumentText: "d", Question: "q"})
	if err == nil || !strings.Contains(err.Error(), "invalid argument") {
		t.Fatalf("err = %v", err)
	}
	if llm.IsTransient(err) {
		t.Fatal("a 400 must not be retried")
	}
}

func TestAnswerQuestionReturnsPlainText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(candidateBody("The rent is due on the first of each month.")))
	})

	answer, err := client.AnswerQuestion(context.Background(), llm.QuestionInput{
		DocumentText: "Rent due on the 1st.",
		Question:     "When is rent due?",
	})
	if err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if !strings.Contains(answer, "first of each month") {
		t.Fatalf("answer = %q", answer)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose around object", `Here you go: {"a": 1} hope that helps`, `{"a": 1}`},
		{"no object", `nothing here`, `nothing here`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildSimplifyPromptDefaultsUnknownLevelAndAudience(t *testing.T) {
	prompt := BuildSimplifyPrompt("extreme", "martians", "doc text")
	if !strings.Contains(prompt, levelInstructions["standard"]) {
		t.Fatal("unknown level should fall back to standard")
	}
	if !strings.Contains(prompt, audienceInstructions["general_public"]) {
		t.Fatal("unknown audience should fall back to general_public")
	}
	if !strings.Contains(prompt, "confidence_score") {
		t.Fatal("prompt should carry the response schema")
	}
}
