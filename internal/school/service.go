package school

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizforge/quizforge/internal/generation"
)

const contentCacheTTL = 24 * time.Hour

// ContentCache caches generated curriculum content. The second return of Get
// reports whether the key was present.
type ContentCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// nopCache is used when no cache backend is configured.
type nopCache struct{}

func (nopCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (nopCache) Set(context.Context, string, string, time.Duration) error {
	return nil
}

// ContentGenerator produces instructional text for a topic and level.
type ContentGenerator interface {
	GenerateCurriculum(ctx context.Context, topic, level string) (string, error)
}

// QuizDrafter produces validated quiz questions from curriculum text.
type QuizDrafter interface {
	GenerateQuiz(ctx context.Context, curriculumText string, count int) ([]generation.Question, error)
}

// Service orchestrates curriculum generation, quiz creation, and attempt
// grading over a Store.
type Service struct {
	store   Store
	content ContentGenerator
	quizzes QuizDrafter
	cache   ContentCache
	log     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithContentCache sets the cache used for generated curriculum content.
func WithContentCache(c ContentCache) ServiceOption {
	return func(s *Service) { s.cache = c }
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// NewService creates a Service. Without WithContentCache every curriculum
// request goes to the generator.
func NewService(store Store, content ContentGenerator, quizzes QuizDrafter, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		content: content,
		quizzes: quizzes,
		cache:   nopCache{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurriculumRequest describes a curriculum to generate and persist.
type CurriculumRequest struct {
	Title    string
	Topic    string
	Level    string
	AuthorID string
}

func contentCacheKey(topic, level string) string {
	return fmt.Sprintf("curriculum:%s:%s", topic, level)
}

// CreateCurriculum generates instructional content for the request and
// persists it. Identical topic/level requests within the cache TTL reuse the
// previously generated text instead of calling the model again.
func (s *Service) CreateCurriculum(ctx context.Context, req CurriculumRequest) (*Curriculum, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("curriculum title is required")
	}

	key := contentCacheKey(req.Topic, req.Level)
	content, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("content cache read failed", "key", key, "error", err)
		hit = false
	}
	if !hit {
		content, err = s.content.GenerateCurriculum(ctx, req.Topic, req.Level)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, content, contentCacheTTL); err != nil {
			s.log.Warn("content cache write failed", "key", key, "error", err)
		}
	}

	c := Curriculum{
		Title:    req.Title,
		Topic:    req.Topic,
		Level:    req.Level,
		Content:  content,
		AuthorID: req.AuthorID,
	}
	id, err := s.store.SaveCurriculum(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("save curriculum: %w", err)
	}

	saved, err := s.store.GetCurriculum(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load saved curriculum: %w", err)
	}
	s.log.Info("curriculum created", "id", id, "topic", req.Topic, "level", req.Level, "cached", hit)
	return saved, nil
}

// CreateQuiz generates count validated questions from the curriculum's
// content and persists the quiz atomically. A generation or validation
// failure leaves no partial quiz behind.
func (s *Service) CreateQuiz(ctx context.Context, curriculumID, title string, count int) (*Quiz, []Question, error) {
	curriculum, err := s.store.GetCurriculum(ctx, curriculumID)
	if err != nil {
		return nil, nil, fmt.Errorf("load curriculum: %w", err)
	}

	drafts, err := s.quizzes.GenerateQuiz(ctx, curriculum.Content, count)
	if err != nil {
		return nil, nil, err
	}

	questions := make([]Question, len(drafts))
	for i, d := range drafts {
		questions[i] = Question{
			Text:          d.Text,
			Options:       d.Options,
			CorrectAnswer: d.CorrectAnswer,
		}
	}

	if title == "" {
		title = curriculum.Title + " quiz"
	}
	quizID, err := s.store.SaveQuiz(ctx, Quiz{Title: title, CurriculumID: curriculumID}, questions)
	if err != nil {
		return nil, nil, fmt.Errorf("save quiz: %w", err)
	}

	quiz, saved, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, nil, fmt.Errorf("load saved quiz: %w", err)
	}
	s.log.Info("quiz created", "id", quizID, "curriculum_id", curriculumID, "questions", len(saved))
	return quiz, saved, nil
}

// AttemptSubmission is one set of answers to a quiz, keyed by question ID.
type AttemptSubmission struct {
	QuizID    string
	UserID    string
	StudentID string
	Answers   map[string]string
}

// SubmitAttempt grades the submission against the quiz's questions and
// records the scored attempt.
func (s *Service) SubmitAttempt(ctx context.Context, sub AttemptSubmission) (*Attempt, error) {
	_, questions, err := s.store.GetQuiz(ctx, sub.QuizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}

	score := Grade(questions, sub.Answers)
	attempt := Attempt{
		UserID:      sub.UserID,
		QuizID:      sub.QuizID,
		StudentID:   sub.StudentID,
		Score:       &score,
		CompletedAt: time.Now(),
	}
	id, err := s.store.RecordAttempt(ctx, attempt)
	if err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}
	attempt.ID = id

	s.log.Info("attempt recorded", "id", id, "quiz_id", sub.QuizID, "score", score)
	return &attempt, nil
}
