package generation_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quizforge/quizforge/internal/ai"
	"github.com/quizforge/quizforge/internal/generation"
)

func TestContentGenerator_GenerateCurriculum(t *testing.T) {
	mock := ai.NewMockProvider("# Algebra\n\n## Learning objectives\n...")
	g := generation.NewContentGenerator(mock, generation.DefaultPrompts())

	content, err := g.GenerateCurriculum(context.Background(), "Algebra", "intermediate")
	if err != nil {
		t.Fatalf("GenerateCurriculum() error = %v", err)
	}
	if !strings.HasPrefix(content, "# Algebra") {
		t.Errorf("content = %q, want model output returned verbatim", content)
	}

	req := mock.LastRequest()
	if req == nil {
		t.Fatal("no request captured")
	}
	prompt := req.Messages[len(req.Messages)-1].Content
	if !strings.Contains(prompt, "Algebra") || !strings.Contains(prompt, "intermediate") {
		t.Errorf("prompt missing topic or level: %q", prompt)
	}
	if req.Task != ai.TaskCurriculum {
		t.Errorf("Task = %v, want TaskCurriculum", req.Task)
	}
}

func TestContentGenerator_EmptyInputs(t *testing.T) {
	g := generation.NewContentGenerator(ai.NewMockProvider("x"), generation.DefaultPrompts())

	if _, err := g.GenerateCurriculum(context.Background(), "", "beginner"); err == nil {
		t.Error("empty topic should be rejected")
	}
	if _, err := g.GenerateCurriculum(context.Background(), "Algebra", "  "); err == nil {
		t.Error("blank level should be rejected")
	}
}

func TestContentGenerator_ProviderFailure(t *testing.T) {
	cause := errors.New("connection refused")
	g := generation.NewContentGenerator(&ai.MockProvider{Err: cause}, generation.DefaultPrompts())

	_, err := g.GenerateCurriculum(context.Background(), "Algebra", "intermediate")

	var genErr *generation.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error = %T, want *GenerationError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("error should wrap the underlying cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error message %q should include the cause", err.Error())
	}
}

func TestContentGenerator_EmptyPayload(t *testing.T) {
	g := generation.NewContentGenerator(ai.NewMockProvider("  \n "), generation.DefaultPrompts())

	_, err := g.GenerateCurriculum(context.Background(), "Algebra", "intermediate")

	var genErr *generation.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error = %T, want *GenerationError", err)
	}
}
