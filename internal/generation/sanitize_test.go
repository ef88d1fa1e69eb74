package generation_test

import (
	"encoding/json"
	"testing"

	"github.com/quizforge/quizforge/internal/generation"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare json",
			raw:  `{"questions": []}`,
			want: `{"questions": []}`,
		},
		{
			name: "surrounding whitespace",
			raw:  "\n\n  {\"questions\": []}  \n",
			want: `{"questions": []}`,
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n{\"questions\": []}\n```",
			want: `{"questions": []}`,
		},
		{
			name: "fenced without language tag",
			raw:  "```\n{\"questions\": []}\n```",
			want: `{"questions": []}`,
		},
		{
			name: "prose before fence",
			raw:  "Here are your questions:\n```json\n{\"questions\": []}\n```\nLet me know if you need more.",
			want: `{"questions": []}`,
		},
		{
			name: "prose without fence",
			raw:  `Sure! Here is the JSON: {"questions": []} Hope that helps.`,
			want: `{"questions": []}`,
		},
		{
			name: "unclosed fence",
			raw:  "```json\n{\"questions\": []}",
			want: `{"questions": []}`,
		},
		{
			name: "no json at all",
			raw:  "  I cannot help with that.  ",
			want: "I cannot help with that.",
		},
		{
			name: "nested braces use outermost span",
			raw:  `prefix {"questions": [{"question": "q"}]} suffix`,
			want: `{"questions": [{"question": "q"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generation.Sanitize(tt.raw); got != tt.want {
				t.Errorf("Sanitize() = %q, want %q", got, tt.want)
			}
		})
	}
}

// A fenced response with leading prose must round-trip to the original JSON.
func TestSanitize_RoundTrip(t *testing.T) {
	original := map[string]any{
		"questions": []any{
			map[string]any{
				"question":       "What is 2+2?",
				"options":        []any{"A) 3", "B) 4", "C) 5", "D) 6"},
				"correct_answer": "B) 4",
			},
		},
	}
	encoded, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	wrapped := "Here is the quiz you asked for.\n```json\n" + string(encoded) + "\n```"

	var decoded map[string]any
	if err := json.Unmarshal([]byte(generation.Sanitize(wrapped)), &decoded); err != nil {
		t.Fatalf("sanitized output is not valid JSON: %v", err)
	}
	if len(decoded["questions"].([]any)) != 1 {
		t.Error("round-tripped JSON lost the questions array")
	}
}
