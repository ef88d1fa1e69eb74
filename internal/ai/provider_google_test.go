package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quizforge/quizforge/internal/ai"
)

func TestGoogleProvider_Complete(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "Generated curriculum"}]}}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 34}
		}`))
	}))
	defer server.Close()

	provider := ai.NewGoogleProvider("test-key", ai.WithGoogleBaseURL(server.URL))

	resp, err := provider.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "system", Content: "You design curricula."},
			{Role: "user", Content: "Algebra, intermediate"},
		},
		Model: "gemini-2.5-flash",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if resp.Content != "Generated curriculum" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 34 {
		t.Errorf("tokens = %d/%d, want 12/34", resp.InputTokens, resp.OutputTokens)
	}
	if !strings.Contains(gotPath, "gemini-2.5-flash") {
		t.Errorf("request path = %q, want model in path", gotPath)
	}

	// The system message must be folded into the first user turn.
	contents, _ := gotBody["contents"].([]any)
	if len(contents) != 1 {
		t.Fatalf("contents len = %d, want 1", len(contents))
	}
	first, _ := contents[0].(map[string]any)
	parts, _ := first["parts"].([]any)
	part, _ := parts[0].(map[string]any)
	text, _ := part["text"].(string)
	if !strings.Contains(text, "You design curricula.") {
		t.Errorf("first user turn = %q, want folded system prompt", text)
	}
}

func TestGoogleProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := ai.NewGoogleProvider("test-key", ai.WithGoogleBaseURL(server.URL))

	_, err := provider.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("Complete() should fail on non-200 status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, want status code in message", err)
	}
}

func TestGoogleProvider_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	provider := ai.NewGoogleProvider("test-key", ai.WithGoogleBaseURL(server.URL))

	_, err := provider.Complete(context.Background(), ai.CompletionRequest{
		Messages: []ai.Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("Complete() should fail when response has no candidates")
	}
}
