package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quizforge/quizforge/internal/ai"
)

// Completer is the slice of the AI gateway the generators need.
type Completer interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResponse, error)
}

const curriculumSystemPrompt = "You are an experienced teacher who designs clear, well-structured curricula."

// ContentGenerator produces free-form curriculum text for a topic and level.
// The output is opaque markdown; no parsing or validation happens beyond a
// non-emptiness check.
type ContentGenerator struct {
	client    Completer
	prompts   Prompts
	maxTokens int
}

// NewContentGenerator creates a curriculum content generator.
func NewContentGenerator(client Completer, prompts Prompts) *ContentGenerator {
	return &ContentGenerator{
		client:    client,
		prompts:   prompts,
		maxTokens: 4096,
	}
}

// GenerateCurriculum asks the model for curriculum text on topic at level.
// Level is advisory; any non-empty string is accepted. The provider is
// called once — transient failures are the caller's concern at this layer.
func (g *ContentGenerator) GenerateCurriculum(ctx context.Context, topic, level string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", fmt.Errorf("topic is required")
	}
	if strings.TrimSpace(level) == "" {
		return "", fmt.Errorf("level is required")
	}

	prompt, err := g.prompts.CurriculumPrompt(topic, level)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "system", Content: curriculumSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Task:      ai.TaskCurriculum,
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return "", &GenerationError{Op: "curriculum", Err: err}
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", &GenerationError{Op: "curriculum", Err: fmt.Errorf("model returned empty content")}
	}

	slog.Debug("curriculum generated",
		"topic", topic,
		"level", level,
		"length", len(resp.Content),
		"tokens", resp.TotalTokens(),
	)
	return resp.Content, nil
}
