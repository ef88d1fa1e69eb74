package school

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AttemptFilter narrows an attempt listing. Zero values mean "no filter".
type AttemptFilter struct {
	TeacherID string // attempts by students of this teacher
	StudentID string
	Since     time.Time
	Until     time.Time
}

// Store persists school entities. Implementations must keep SaveQuiz atomic:
// either the quiz and all its questions are stored, or nothing is.
type Store interface {
	SaveCurriculum(ctx context.Context, c Curriculum) (string, error)
	GetCurriculum(ctx context.Context, id string) (*Curriculum, error)
	UpdateCurriculum(ctx context.Context, c Curriculum) error
	ListCurricula(ctx context.Context) ([]Curriculum, error)

	SaveQuiz(ctx context.Context, quiz Quiz, questions []Question) (string, error)
	GetQuiz(ctx context.Context, id string) (*Quiz, []Question, error)

	SaveStudent(ctx context.Context, s Student) (string, error)
	ListStudents(ctx context.Context, teacherID string) ([]Student, error)

	RecordAttempt(ctx context.Context, a Attempt) (string, error)
	ListAttempts(ctx context.Context, f AttemptFilter) ([]AttemptDetail, error)
}

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	curricula map[string]Curriculum
	quizzes   map[string]Quiz
	questions map[string][]Question // quiz ID -> questions
	students  map[string]Student
	attempts  map[string]Attempt
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		curricula: make(map[string]Curriculum),
		quizzes:   make(map[string]Quiz),
		questions: make(map[string][]Question),
		students:  make(map[string]Student),
		attempts:  make(map[string]Attempt),
	}
}

func (s *MemoryStore) SaveCurriculum(_ context.Context, c Curriculum) (string, error) {
	if c.Title == "" {
		return "", fmt.Errorf("curriculum title is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	s.curricula[c.ID] = c
	return c.ID, nil
}

func (s *MemoryStore) GetCurriculum(_ context.Context, id string) (*Curriculum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.curricula[id]
	if !ok {
		return nil, fmt.Errorf("curriculum not found: %s", id)
	}
	return &c, nil
}

func (s *MemoryStore) UpdateCurriculum(_ context.Context, c Curriculum) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.curricula[c.ID]
	if !ok {
		return fmt.Errorf("curriculum not found: %s", c.ID)
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	s.curricula[c.ID] = c
	return nil
}

func (s *MemoryStore) ListCurricula(_ context.Context) ([]Curriculum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Curriculum, 0, len(s.curricula))
	for _, c := range s.curricula {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) SaveQuiz(_ context.Context, quiz Quiz, questions []Question) (string, error) {
	if len(questions) == 0 {
		return "", fmt.Errorf("quiz must have questions")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.curricula[quiz.CurriculumID]; !ok {
		return "", fmt.Errorf("curriculum not found: %s", quiz.CurriculumID)
	}

	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now()
	}

	stored := make([]Question, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		q.QuizID = quiz.ID
		stored[i] = q
	}

	s.quizzes[quiz.ID] = quiz
	s.questions[quiz.ID] = stored
	return quiz.ID, nil
}

func (s *MemoryStore) GetQuiz(_ context.Context, id string) (*Quiz, []Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, nil, fmt.Errorf("quiz not found: %s", id)
	}
	questions := append([]Question(nil), s.questions[id]...)
	return &quiz, questions, nil
}

func (s *MemoryStore) SaveStudent(_ context.Context, st Student) (string, error) {
	if st.Name == "" || st.Email == "" {
		return "", fmt.Errorf("student name and email are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.students {
		if existing.Email == st.Email && existing.ID != st.ID {
			return "", fmt.Errorf("student email already registered: %s", st.Email)
		}
	}
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now()
	}
	s.students[st.ID] = st
	return st.ID, nil
}

func (s *MemoryStore) ListStudents(_ context.Context, teacherID string) ([]Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Student, 0)
	for _, st := range s.students {
		if teacherID == "" || st.TeacherID == teacherID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) RecordAttempt(_ context.Context, a Attempt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quizzes[a.QuizID]; !ok {
		return "", fmt.Errorf("quiz not found: %s", a.QuizID)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CompletedAt.IsZero() {
		a.CompletedAt = time.Now()
	}
	s.attempts[a.ID] = a
	return a.ID, nil
}

func (s *MemoryStore) ListAttempts(_ context.Context, f AttemptFilter) ([]AttemptDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]AttemptDetail, 0)
	for _, a := range s.attempts {
		student, hasStudent := s.students[a.StudentID]
		if f.StudentID != "" && a.StudentID != f.StudentID {
			continue
		}
		if f.TeacherID != "" && (!hasStudent || student.TeacherID != f.TeacherID) {
			continue
		}
		if !f.Since.IsZero() && a.CompletedAt.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && a.CompletedAt.After(f.Until) {
			continue
		}

		detail := AttemptDetail{
			AttemptID:   a.ID,
			StudentID:   a.StudentID,
			QuizID:      a.QuizID,
			Score:       a.Score,
			CompletedAt: a.CompletedAt,
		}
		if hasStudent {
			detail.StudentName = student.Name
		}
		if quiz, ok := s.quizzes[a.QuizID]; ok {
			detail.QuizTitle = quiz.Title
			detail.CurriculumID = quiz.CurriculumID
			if c, ok := s.curricula[quiz.CurriculumID]; ok {
				detail.CurriculumTitle = c.Title
			}
		}
		out = append(out, detail)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}
