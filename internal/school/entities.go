// Package school holds the domain entities and persistence layer for
// curricula, quizzes, students, and quiz attempts.
package school

import "time"

// User is an account holder; teachers author curricula and manage students.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsTeacher bool      `json:"is_teacher"`
	CreatedAt time.Time `json:"created_at"`
}

// Student is a pupil managed by a teacher. Students may also hold their own
// User account linked by email.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Grade     string    `json:"grade"`
	TeacherID string    `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Curriculum is a teacher-authored body of instructional text on a topic.
type Curriculum struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Topic     string    `json:"topic"`
	Level     string    `json:"level"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Quiz is a fixed set of questions derived from a curriculum.
type Quiz struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CurriculumID string    `json:"curriculum_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Question is one multiple-choice question belonging to a quiz. The json
// field names match the validated generation output and are the contract the
// presentation layer binds to.
type Question struct {
	ID            string   `json:"id"`
	QuizID        string   `json:"quiz_id"`
	Text          string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Attempt is one scored submission of a quiz. Score is nil until the attempt
// is graded; a nil score counts toward attempt totals but is excluded from
// every numeric aggregate.
type Attempt struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	QuizID      string    `json:"quiz_id"`
	StudentID   string    `json:"student_id,omitempty"`
	Score       *float64  `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// Assignment links a quiz to a student.
type Assignment struct {
	ID         string    `json:"id"`
	QuizID     string    `json:"quiz_id"`
	StudentID  string    `json:"student_id"`
	AssignedAt time.Time `json:"assigned_at"`
	Completed  bool      `json:"completed"`
}

// AttemptDetail is an attempt joined with its quiz, curriculum, and student.
// Analytics consumes these rows; the store produces them ordered by
// completion time descending (most recent first).
type AttemptDetail struct {
	AttemptID       string    `json:"attempt_id"`
	StudentID       string    `json:"student_id"`
	StudentName     string    `json:"student_name"`
	QuizID          string    `json:"quiz_id"`
	QuizTitle       string    `json:"quiz_title"`
	CurriculumID    string    `json:"curriculum_id"`
	CurriculumTitle string    `json:"curriculum_title"`
	Score           *float64  `json:"score"`
	CompletedAt     time.Time `json:"completed_at"`
}
