package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quizforge/quizforge/internal/ai"
)

const defaultMaxAttempts = 3

const quizSystemPrompt = "You are an expert quiz author. You respond with strictly valid JSON and nothing else."

// QuizGenerator turns curriculum text into a validated, fixed-shape list of
// multiple-choice questions. It either returns a draft satisfying every
// schema invariant or fails with a typed error — never a partial result.
type QuizGenerator struct {
	client      Completer
	prompts     Prompts
	validator   Validator
	maxAttempts int
	transport   TransportRetry
	maxTokens   int
}

// QuizOption configures a QuizGenerator.
type QuizOption func(*QuizGenerator)

// WithStrictOptions demands letter-labelled options ("A) ".."D) ").
func WithStrictOptions() QuizOption {
	return func(g *QuizGenerator) {
		g.validator.Strict = true
	}
}

// WithMaxAttempts bounds the generate-validate retry loop.
func WithMaxAttempts(n int) QuizOption {
	return func(g *QuizGenerator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithTransportRetry wraps every provider call for transient failures.
func WithTransportRetry(tr TransportRetry) QuizOption {
	return func(g *QuizGenerator) {
		if tr != nil {
			g.transport = tr
		}
	}
}

// NewQuizGenerator creates a quiz generator.
func NewQuizGenerator(client Completer, prompts Prompts, opts ...QuizOption) *QuizGenerator {
	g := &QuizGenerator{
		client:      client,
		prompts:     prompts,
		maxAttempts: defaultMaxAttempts,
		transport:   SingleAttempt,
		maxTokens:   4096,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateQuiz generates count questions from curriculumText. Malformed JSON
// and schema violations trigger a fresh model request with the same prompt,
// up to the attempt bound; provider failures and other unexpected errors
// surface immediately as *GenerationError.
func (g *QuizGenerator) GenerateQuiz(ctx context.Context, curriculumText string, count int) ([]Question, error) {
	if strings.TrimSpace(curriculumText) == "" {
		return nil, fmt.Errorf("curriculum text is required")
	}
	if count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", count)
	}

	prompt, err := g.prompts.QuizPrompt(curriculumText, count, g.validator.Strict)
	if err != nil {
		return nil, err
	}

	var questions []Question
	err = Retry(ctx, g.maxAttempts, IsRetryable, func(ctx context.Context) error {
		qs, attemptErr := g.attempt(ctx, prompt, count)
		if attemptErr != nil {
			if IsRetryable(attemptErr) {
				slog.Warn("quiz draft rejected, retrying", "error", attemptErr)
			}
			return attemptErr
		}
		questions = qs
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("quiz generated", "questions", len(questions), "strict", g.validator.Strict)
	return questions, nil
}

// attempt runs one generate→sanitize→parse→validate cycle.
func (g *QuizGenerator) attempt(ctx context.Context, prompt string, count int) ([]Question, error) {
	var resp ai.CompletionResponse
	err := g.transport(ctx, func() error {
		var callErr error
		resp, callErr = g.client.Complete(ctx, ai.CompletionRequest{
			Messages: []ai.Message{
				{Role: "system", Content: quizSystemPrompt},
				{Role: "user", Content: prompt},
			},
			Task:      ai.TaskQuiz,
			MaxTokens: g.maxTokens,
		})
		if callErr != nil {
			return callErr
		}
		// An empty payload is a transient service failure, retried at the
		// same level as a failed call.
		if strings.TrimSpace(resp.Content) == "" {
			return fmt.Errorf("model returned empty content")
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &GenerationError{Op: "quiz", Err: err}
	}

	slog.Debug("raw quiz response", "body", resp.Content)
	candidate := Sanitize(resp.Content)
	slog.Debug("sanitized quiz response", "body", candidate)

	if !json.Valid([]byte(candidate)) {
		return nil, &MalformedResponseError{Err: fmt.Errorf("no parseable JSON object in response")}
	}

	return g.validator.Validate([]byte(candidate), count)
}
