package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/quizforge/quizforge/internal/school"
)

// Reporter answers analytics queries by reading attempts from a store and
// aggregating them.
type Reporter struct {
	store school.Store
	now   func() time.Time
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithClock overrides the reporter's clock, for tests.
func WithClock(now func() time.Time) ReporterOption {
	return func(r *Reporter) { r.now = now }
}

// NewReporter creates a Reporter over the store.
func NewReporter(store school.Store, opts ...ReporterOption) *Reporter {
	r := &Reporter{store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TeacherReport aggregates every attempt by the teacher's students, with
// per-student and class sections. A non-empty studentID narrows the report to
// that one student and drops the class sections.
func (r *Reporter) TeacherReport(ctx context.Context, teacherID, studentID string) (Report, error) {
	attempts, err := r.store.ListAttempts(ctx, school.AttemptFilter{
		TeacherID: teacherID,
		StudentID: studentID,
	})
	if err != nil {
		return Report{}, fmt.Errorf("list attempts: %w", err)
	}

	var students []school.Student
	if studentID == "" {
		students, err = r.store.ListStudents(ctx, teacherID)
		if err != nil {
			return Report{}, fmt.Errorf("list students: %w", err)
		}
	}
	return BuildReport(attempts, students, r.now()), nil
}

// StudentReport aggregates one student's own attempts. It has no class or
// per-student sections.
func (r *Reporter) StudentReport(ctx context.Context, studentID string) (Report, error) {
	attempts, err := r.store.ListAttempts(ctx, school.AttemptFilter{StudentID: studentID})
	if err != nil {
		return Report{}, fmt.Errorf("list attempts: %w", err)
	}
	return BuildReport(attempts, nil, r.now()), nil
}

// PerformanceTrends returns the period's bucketed score series for a teacher's
// class or one student.
func (r *Reporter) PerformanceTrends(ctx context.Context, teacherID, studentID string, period Period) ([]TrendBucket, error) {
	attempts, err := r.store.ListAttempts(ctx, school.AttemptFilter{
		TeacherID: teacherID,
		StudentID: studentID,
	})
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return Trends(attempts, period, r.now()), nil
}

// StudentSummary is the compact view a student sees of their own results.
type StudentSummary struct {
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  float64 `json:"highest_score"`
	LowestScore   float64 `json:"lowest_score"`
}

// Summary computes a student's own totals and score range.
func (r *Reporter) Summary(ctx context.Context, studentID string) (StudentSummary, error) {
	attempts, err := r.store.ListAttempts(ctx, school.AttemptFilter{StudentID: studentID})
	if err != nil {
		return StudentSummary{}, fmt.Errorf("list attempts: %w", err)
	}

	agg := Aggregate(Scores(attempts))
	return StudentSummary{
		TotalAttempts: len(attempts),
		AverageScore:  agg.Mean,
		HighestScore:  agg.Max,
		LowestScore:   agg.Min,
	}, nil
}
