package school_test

import (
	"context"
	"testing"
	"time"

	"github.com/quizforge/quizforge/internal/school"
)

func ptr(f float64) *float64 { return &f }

func TestMemoryStore_CurriculumLifecycle(t *testing.T) {
	ctx := context.Background()
	store := school.NewMemoryStore()

	id, err := store.SaveCurriculum(ctx, school.Curriculum{
		Title:   "Fractions",
		Topic:   "fractions",
		Level:   "5th grade",
		Content: "A fraction represents part of a whole.",
	})
	if err != nil {
		t.Fatalf("SaveCurriculum() error = %v", err)
	}
	if id == "" {
		t.Fatal("SaveCurriculum() returned empty id")
	}

	got, err := store.GetCurriculum(ctx, id)
	if err != nil {
		t.Fatalf("GetCurriculum() error = %v", err)
	}
	if got.Title != "Fractions" || got.Topic != "fractions" {
		t.Errorf("GetCurriculum() = %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	got.Content = "Updated content."
	if err := store.UpdateCurriculum(ctx, *got); err != nil {
		t.Fatalf("UpdateCurriculum() error = %v", err)
	}
	updated, err := store.GetCurriculum(ctx, id)
	if err != nil {
		t.Fatalf("GetCurriculum() after update error = %v", err)
	}
	if updated.Content != "Updated content." {
		t.Errorf("Content = %q after update", updated.Content)
	}
	if !updated.CreatedAt.Equal(got.CreatedAt) {
		t.Error("UpdateCurriculum() changed CreatedAt")
	}

	list, err := store.ListCurricula(ctx)
	if err != nil {
		t.Fatalf("ListCurricula() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len(list) = %d, want 1", len(list))
	}
}

func TestMemoryStore_SaveCurriculumRequiresTitle(t *testing.T) {
	store := school.NewMemoryStore()
	if _, err := store.SaveCurriculum(context.Background(), school.Curriculum{}); err == nil {
		t.Error("SaveCurriculum() with empty title expected error")
	}
}

func TestMemoryStore_GetCurriculumNotFound(t *testing.T) {
	store := school.NewMemoryStore()
	if _, err := store.GetCurriculum(context.Background(), "missing"); err == nil {
		t.Error("GetCurriculum(missing) expected error")
	}
}

func TestMemoryStore_QuizLifecycle(t *testing.T) {
	ctx := context.Background()
	store := school.NewMemoryStore()

	curriculumID, err := store.SaveCurriculum(ctx, school.Curriculum{Title: "Fractions"})
	if err != nil {
		t.Fatalf("SaveCurriculum() error = %v", err)
	}

	questions := []school.Question{
		{
			Text:          "What is 1/2 + 1/4?",
			Options:       []string{"A) 3/4", "B) 2/6", "C) 1/8", "D) 1/2"},
			CorrectAnswer: "A) 3/4",
		},
		{
			Text:          "Which fraction is largest?",
			Options:       []string{"A) 1/3", "B) 1/2", "C) 1/4", "D) 1/8"},
			CorrectAnswer: "B) 1/2",
		},
	}

	quizID, err := store.SaveQuiz(ctx, school.Quiz{Title: "Fractions quiz", CurriculumID: curriculumID}, questions)
	if err != nil {
		t.Fatalf("SaveQuiz() error = %v", err)
	}

	quiz, got, err := store.GetQuiz(ctx, quizID)
	if err != nil {
		t.Fatalf("GetQuiz() error = %v", err)
	}
	if quiz.Title != "Fractions quiz" {
		t.Errorf("Title = %q", quiz.Title)
	}
	if len(got) != 2 {
		t.Fatalf("len(questions) = %d, want 2", len(got))
	}
	for i, q := range got {
		if q.ID == "" {
			t.Errorf("question %d has no id", i)
		}
		if q.QuizID != quizID {
			t.Errorf("question %d QuizID = %q, want %q", i, q.QuizID, quizID)
		}
	}
}

func TestMemoryStore_SaveQuizRejectsUnknownCurriculum(t *testing.T) {
	store := school.NewMemoryStore()
	_, err := store.SaveQuiz(context.Background(), school.Quiz{CurriculumID: "missing"}, []school.Question{{Text: "q"}})
	if err == nil {
		t.Error("SaveQuiz() with unknown curriculum expected error")
	}
}

func TestMemoryStore_SaveQuizRejectsEmpty(t *testing.T) {
	store := school.NewMemoryStore()
	if _, err := store.SaveQuiz(context.Background(), school.Quiz{}, nil); err == nil {
		t.Error("SaveQuiz() with no questions expected error")
	}
}

func TestMemoryStore_StudentEmailUnique(t *testing.T) {
	ctx := context.Background()
	store := school.NewMemoryStore()

	if _, err := store.SaveStudent(ctx, school.Student{Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("SaveStudent() error = %v", err)
	}
	if _, err := store.SaveStudent(ctx, school.Student{Name: "Other", Email: "ada@example.com"}); err == nil {
		t.Error("SaveStudent() with duplicate email expected error")
	}
}

func TestMemoryStore_ListStudentsByTeacher(t *testing.T) {
	ctx := context.Background()
	store := school.NewMemoryStore()

	for _, st := range []school.Student{
		{Name: "Ada", Email: "ada@example.com", TeacherID: "t1"},
		{Name: "Grace", Email: "grace@example.com", TeacherID: "t1"},
		{Name: "Edsger", Email: "edsger@example.com", TeacherID: "t2"},
	} {
		if _, err := store.SaveStudent(ctx, st); err != nil {
			t.Fatalf("SaveStudent(%s) error = %v", st.Name, err)
		}
	}

	got, err := store.ListStudents(ctx, "t1")
	if err != nil {
		t.Fatalf("ListStudents() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(students) = %d, want 2", len(got))
	}
	if got[0].Name != "Ada" || got[1].Name != "Grace" {
		t.Errorf("students not sorted by name: %v, %v", got[0].Name, got[1].Name)
	}

	all, err := store.ListStudents(ctx, "")
	if err != nil {
		t.Fatalf("ListStudents(all) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

func TestMemoryStore_Attempts(t *testing.T) {
	ctx := context.Background()
	store := school.NewMemoryStore()

	curriculumID, err := store.SaveCurriculum(ctx, school.Curriculum{Title: "Fractions"})
	if err != nil {
		t.Fatalf("SaveCurriculum() error = %v", err)
	}
	quizID, err := store.SaveQuiz(ctx, school.Quiz{Title: "Fractions quiz", CurriculumID: curriculumID}, []school.Question{
		{Text: "q", Options: []string{"A) a", "B) b", "C) c", "D) d"}, CorrectAnswer: "A) a"},
	})
	if err != nil {
		t.Fatalf("SaveQuiz() error = %v", err)
	}
	studentID, err := store.SaveStudent(ctx, school.Student{Name: "Ada", Email: "ada@example.com", TeacherID: "t1"})
	if err != nil {
		t.Fatalf("SaveStudent() error = %v", err)
	}
	otherID, err := store.SaveStudent(ctx, school.Student{Name: "Edsger", Email: "edsger@example.com", TeacherID: "t2"})
	if err != nil {
		t.Fatalf("SaveStudent() error = %v", err)
	}

	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	records := []school.Attempt{
		{QuizID: quizID, StudentID: studentID, Score: ptr(90), CompletedAt: base.Add(48 * time.Hour)},
		{QuizID: quizID, StudentID: studentID, Score: ptr(70), CompletedAt: base},
		{QuizID: quizID, StudentID: otherID, Score: ptr(50), CompletedAt: base.Add(24 * time.Hour)},
		{QuizID: quizID, StudentID: studentID, Score: nil, CompletedAt: base.Add(72 * time.Hour)},
	}
	for i, a := range records {
		if _, err := store.RecordAttempt(ctx, a); err != nil {
			t.Fatalf("RecordAttempt(%d) error = %v", i, err)
		}
	}

	all, err := store.ListAttempts(ctx, school.AttemptFilter{})
	if err != nil {
		t.Fatalf("ListAttempts() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len(all) = %d, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CompletedAt.After(all[i-1].CompletedAt) {
			t.Fatal("attempts not ordered most recent first")
		}
	}
	if all[0].Score != nil {
		t.Error("most recent attempt should be the ungraded one")
	}
	if all[1].QuizTitle != "Fractions quiz" || all[1].CurriculumTitle != "Fractions" {
		t.Errorf("join fields wrong: %+v", all[1])
	}
	if all[1].StudentName != "Ada" {
		t.Errorf("StudentName = %q, want Ada", all[1].StudentName)
	}

	byStudent, err := store.ListAttempts(ctx, school.AttemptFilter{StudentID: studentID})
	if err != nil {
		t.Fatalf("ListAttempts(student) error = %v", err)
	}
	if len(byStudent) != 3 {
		t.Errorf("len(byStudent) = %d, want 3", len(byStudent))
	}

	byTeacher, err := store.ListAttempts(ctx, school.AttemptFilter{TeacherID: "t2"})
	if err != nil {
		t.Fatalf("ListAttempts(teacher) error = %v", err)
	}
	if len(byTeacher) != 1 || byTeacher[0].StudentName != "Edsger" {
		t.Errorf("byTeacher = %+v", byTeacher)
	}

	windowed, err := store.ListAttempts(ctx, school.AttemptFilter{
		Since: base.Add(12 * time.Hour),
		Until: base.Add(60 * time.Hour),
	})
	if err != nil {
		t.Fatalf("ListAttempts(window) error = %v", err)
	}
	if len(windowed) != 2 {
		t.Errorf("len(windowed) = %d, want 2", len(windowed))
	}
}

func TestMemoryStore_RecordAttemptRejectsUnknownQuiz(t *testing.T) {
	store := school.NewMemoryStore()
	if _, err := store.RecordAttempt(context.Background(), school.Attempt{QuizID: "missing"}); err == nil {
		t.Error("RecordAttempt() with unknown quiz expected error")
	}
}
