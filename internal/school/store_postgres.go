package school

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed Store implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) SaveCurriculum(ctx context.Context, c Curriculum) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if c.Title == "" {
		return "", fmt.Errorf("curriculum title is required")
	}

	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO curricula (title, topic, level, content, author_id)
		 VALUES ($1, $2, $3, $4, nullif($5, '')::uuid)
		 RETURNING id::text`,
		c.Title, c.Topic, c.Level, c.Content, c.AuthorID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("save curriculum: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) GetCurriculum(ctx context.Context, id string) (*Curriculum, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var c Curriculum
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, title, topic, level, content, coalesce(author_id::text, ''), created_at, updated_at
		 FROM curricula WHERE id = $1::uuid`,
		id,
	).Scan(&c.ID, &c.Title, &c.Topic, &c.Level, &c.Content, &c.AuthorID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get curriculum: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) UpdateCurriculum(ctx context.Context, c Curriculum) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx,
		`UPDATE curricula SET title = $2, content = $3, updated_at = now()
		 WHERE id = $1::uuid`,
		c.ID, c.Title, c.Content,
	)
	if err != nil {
		return fmt.Errorf("update curriculum: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("curriculum not found: %s", c.ID)
	}
	return nil
}

func (s *PostgresStore) ListCurricula(ctx context.Context) ([]Curriculum, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, title, topic, level, content, coalesce(author_id::text, ''), created_at, updated_at
		 FROM curricula ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list curricula: %w", err)
	}
	defer rows.Close()

	var out []Curriculum
	for rows.Next() {
		var c Curriculum
		if err := rows.Scan(&c.ID, &c.Title, &c.Topic, &c.Level, &c.Content, &c.AuthorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan curriculum: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveQuiz stores the quiz and its questions in one transaction so a failed
// insert never leaves a partial quiz behind.
func (s *PostgresStore) SaveQuiz(ctx context.Context, quiz Quiz, questions []Question) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if len(questions) == 0 {
		return "", fmt.Errorf("quiz must have questions")
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var quizID string
	err = tx.QueryRow(ctx,
		`INSERT INTO quizzes (title, curriculum_id) VALUES ($1, $2::uuid) RETURNING id::text`,
		quiz.Title, quiz.CurriculumID,
	).Scan(&quizID)
	if err != nil {
		return "", fmt.Errorf("save quiz: %w", err)
	}

	for i, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return "", fmt.Errorf("marshal options for question %d: %w", i+1, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO questions (quiz_id, position, question_text, options, correct_answer)
			 VALUES ($1::uuid, $2, $3, $4, $5)`,
			quizID, i, q.Text, options, q.CorrectAnswer,
		); err != nil {
			return "", fmt.Errorf("save question %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit quiz: %w", err)
	}
	return quizID, nil
}

func (s *PostgresStore) GetQuiz(ctx context.Context, id string) (*Quiz, []Question, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var quiz Quiz
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, title, curriculum_id::text, created_at FROM quizzes WHERE id = $1::uuid`,
		id,
	).Scan(&quiz.ID, &quiz.Title, &quiz.CurriculumID, &quiz.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("get quiz: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, quiz_id::text, question_text, options, correct_answer
		 FROM questions WHERE quiz_id = $1::uuid ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("get questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &options, &q.CorrectAnswer); err != nil {
			return nil, nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, nil, fmt.Errorf("decode options: %w", err)
		}
		questions = append(questions, q)
	}
	return &quiz, questions, rows.Err()
}

func (s *PostgresStore) SaveStudent(ctx context.Context, st Student) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if st.Name == "" || st.Email == "" {
		return "", fmt.Errorf("student name and email are required")
	}

	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO students (name, email, grade, teacher_id)
		 VALUES ($1, $2, $3, nullif($4, '')::uuid)
		 RETURNING id::text`,
		st.Name, st.Email, st.Grade, st.TeacherID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("save student: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) ListStudents(ctx context.Context, teacherID string) ([]Student, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, name, email, grade, coalesce(teacher_id::text, ''), created_at
		 FROM students WHERE ($1 = '' OR teacher_id = $1::uuid) ORDER BY name`,
		teacherID,
	)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.Grade, &st.TeacherID, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PostgresStore) RecordAttempt(ctx context.Context, a Attempt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	completedAt := a.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO attempts (user_id, quiz_id, student_id, score, completed_at)
		 VALUES (nullif($1, '')::uuid, $2::uuid, nullif($3, '')::uuid, $4, $5)
		 RETURNING id::text`,
		a.UserID, a.QuizID, a.StudentID, a.Score, completedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("record attempt: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) ListAttempts(ctx context.Context, f AttemptFilter) ([]AttemptDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT a.id::text, coalesce(a.student_id::text, ''), coalesce(st.name, ''),
		        a.quiz_id::text, q.title, q.curriculum_id::text, c.title,
		        a.score, a.completed_at
		 FROM attempts a
		 JOIN quizzes q ON q.id = a.quiz_id
		 JOIN curricula c ON c.id = q.curriculum_id
		 LEFT JOIN students st ON st.id = a.student_id
		 WHERE ($1 = '' OR st.teacher_id = $1::uuid)
		   AND ($2 = '' OR a.student_id = $2::uuid)
		   AND ($3::timestamptz IS NULL OR a.completed_at >= $3)
		   AND ($4::timestamptz IS NULL OR a.completed_at <= $4)
		 ORDER BY a.completed_at DESC`,
		f.TeacherID, f.StudentID, nullIfZero(f.Since), nullIfZero(f.Until),
	)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptDetail
	for rows.Next() {
		var d AttemptDetail
		if err := rows.Scan(
			&d.AttemptID, &d.StudentID, &d.StudentName,
			&d.QuizID, &d.QuizTitle, &d.CurriculumID, &d.CurriculumTitle,
			&d.Score, &d.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func nullIfZero(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
