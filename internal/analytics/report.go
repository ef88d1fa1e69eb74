package analytics

import (
	"sort"
	"time"

	"github.com/quizforge/quizforge/internal/school"
)

const (
	recentTrendSize  = 10
	recentScoresSize = 5
	weeklyWindow     = 7 * 24 * time.Hour
)

// Period selects the time window and bucket size for a trend series.
type Period string

const (
	PeriodWeek  Period = "week"  // 7 days, daily buckets
	PeriodMonth Period = "month" // 30 days, daily buckets
	PeriodYear  Period = "year"  // 365 days, monthly buckets
)

// TrendPoint is one recent attempt with a running moving average.
type TrendPoint struct {
	Date          string  `json:"date"`
	Score         float64 `json:"score"`
	Quiz          string  `json:"quiz"`
	Student       string  `json:"student"`
	Curriculum    string  `json:"curriculum"`
	MovingAverage float64 `json:"moving_average"`
}

// Overview is the top-level aggregate across all matching attempts.
type Overview struct {
	TotalQuizzes int `json:"total_quizzes"`
	Stats
	RecentTrend []TrendPoint `json:"recent_trend"`
}

// DatedScore is a score with its completion date.
type DatedScore struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// CurriculumStats is the aggregate for one curriculum bucket.
type CurriculumStats struct {
	Attempts     int `json:"attempts"`
	StudentCount int `json:"student_count"`
	Stats
	RecentScores []DatedScore `json:"recent_scores"`
}

// StudentPerformance is the per-student aggregate a teacher reviews.
type StudentPerformance struct {
	Name                  string  `json:"name"`
	AverageScore          float64 `json:"average_score"`
	MedianScore           float64 `json:"median_score"`
	StdDev                float64 `json:"std_dev"`
	RecentScore           float64 `json:"recent_score"`
	TotalAttempts         int     `json:"total_attempts"`
	Improvement           float64 `json:"improvement"`
	WeeklyProgress        float64 `json:"weekly_progress"`
	PerformancePercentile float64 `json:"performance_percentile"`
}

// ClassPerformance is the class-wide aggregate for a teacher.
type ClassPerformance struct {
	TotalStudents        int        `json:"total_students"`
	TotalAttempts        int        `json:"total_attempts"`
	ClassAverage         float64    `json:"class_average"`
	ClassMedian          float64    `json:"class_median"`
	ClassStdDev          float64    `json:"class_std_dev"`
	ClassQuartiles       [3]float64 `json:"class_quartiles"`
	RecentCompletionRate float64    `json:"recent_completion_rate"`
}

// Report is one analytics request answered at every granularity.
type Report struct {
	Overview              Overview                      `json:"overview"`
	CurriculumPerformance map[string]CurriculumStats    `json:"curriculum_performance"`
	StudentPerformance    map[string]StudentPerformance `json:"student_performance"`
	Class                 *ClassPerformance             `json:"class_performance,omitempty"`
}

// Scores extracts the graded scores from attempts, preserving order. Nil
// scores are dropped: ungraded attempts count toward attempt totals but
// never enter a numeric aggregate.
func Scores(attempts []school.AttemptDetail) []float64 {
	out := make([]float64, 0, len(attempts))
	for _, a := range attempts {
		if a.Score != nil {
			out = append(out, *a.Score)
		}
	}
	return out
}

// BuildOverview aggregates all attempts and assembles the recent trend.
// Attempts must be ordered most recent first, as the store returns them.
func BuildOverview(attempts []school.AttemptDetail) Overview {
	o := Overview{
		TotalQuizzes: len(attempts),
		Stats:        Aggregate(Scores(attempts)),
	}

	var running float64
	var graded int
	for i, a := range attempts {
		if i == recentTrendSize {
			break
		}
		point := TrendPoint{
			Date:       a.CompletedAt.Format("2006-01-02"),
			Quiz:       a.QuizTitle,
			Student:    a.StudentName,
			Curriculum: a.CurriculumTitle,
		}
		if a.Score != nil {
			point.Score = *a.Score
			running += *a.Score
			graded++
		}
		if graded > 0 {
			point.MovingAverage = running / float64(graded)
		}
		o.RecentTrend = append(o.RecentTrend, point)
	}
	return o
}

// BuildCurriculumPerformance buckets attempts by curriculum title and
// aggregates each bucket independently.
func BuildCurriculumPerformance(attempts []school.AttemptDetail) map[string]CurriculumStats {
	buckets := make(map[string][]school.AttemptDetail)
	for _, a := range attempts {
		buckets[a.CurriculumTitle] = append(buckets[a.CurriculumTitle], a)
	}

	out := make(map[string]CurriculumStats, len(buckets))
	for title, bucket := range buckets {
		cs := CurriculumStats{
			Attempts: len(bucket),
			Stats:    Aggregate(Scores(bucket)),
		}

		students := make(map[string]struct{})
		for _, a := range bucket {
			if a.StudentID != "" {
				students[a.StudentID] = struct{}{}
			}
			if a.Score != nil && len(cs.RecentScores) < recentScoresSize {
				cs.RecentScores = append(cs.RecentScores, DatedScore{
					Date:  a.CompletedAt.Format("2006-01-02"),
					Score: *a.Score,
				})
			}
		}
		cs.StudentCount = len(students)
		out[title] = cs
	}
	return out
}

// BuildStudentPerformance computes the per-student view. classAttempts is
// the full attempt set for the class; the percentile ranks each student's
// average against all graded class scores.
func BuildStudentPerformance(students []school.Student, classAttempts []school.AttemptDetail, now time.Time) map[string]StudentPerformance {
	classScores := Scores(classAttempts)

	byStudent := make(map[string][]school.AttemptDetail)
	for _, a := range classAttempts {
		byStudent[a.StudentID] = append(byStudent[a.StudentID], a)
	}

	out := make(map[string]StudentPerformance, len(students))
	for _, st := range students {
		attempts := byStudent[st.ID]
		perf := StudentPerformance{
			Name:          st.Name,
			TotalAttempts: len(attempts),
		}

		scores := Scores(attempts)
		if len(scores) > 0 {
			agg := Aggregate(scores)
			perf.AverageScore = agg.Mean
			perf.MedianScore = agg.Median
			perf.StdDev = agg.StdDev
			perf.RecentScore = scores[0]
			if len(scores) > 1 {
				perf.Improvement = scores[0] - scores[len(scores)-1]
			}
			perf.WeeklyProgress = WeeklyProgress(attempts, now)
			perf.PerformancePercentile = Percentile(classScores, agg.Mean)
		}

		out[st.ID] = perf
	}
	return out
}

// BuildClassPerformance computes the class-wide aggregate.
func BuildClassPerformance(students []school.Student, attempts []school.AttemptDetail, now time.Time) ClassPerformance {
	cp := ClassPerformance{
		TotalStudents: len(students),
		TotalAttempts: len(attempts),
	}
	if len(attempts) == 0 {
		return cp
	}

	agg := Aggregate(Scores(attempts))
	cp.ClassAverage = agg.Mean
	cp.ClassMedian = agg.Median
	cp.ClassStdDev = agg.StdDev
	cp.ClassQuartiles = agg.Quartiles

	weekAgo := now.Add(-weeklyWindow)
	recent := 0
	for _, a := range attempts {
		if !a.CompletedAt.Before(weekAgo) {
			recent++
		}
	}
	cp.RecentCompletionRate = float64(recent) / float64(len(attempts)) * 100
	return cp
}

// WeeklyProgress is the average graded score over the trailing seven days,
// or 0 when no graded attempts fall inside the window.
func WeeklyProgress(attempts []school.AttemptDetail, now time.Time) float64 {
	weekAgo := now.Add(-weeklyWindow)

	var sum float64
	var n int
	for _, a := range attempts {
		if a.Score != nil && !a.CompletedAt.Before(weekAgo) {
			sum += *a.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// BuildReport assembles every granularity in one pass. students and class
// may be empty for a student's own view, in which case the per-student and
// class sections are omitted.
func BuildReport(attempts []school.AttemptDetail, students []school.Student, now time.Time) Report {
	r := Report{
		Overview:              BuildOverview(attempts),
		CurriculumPerformance: BuildCurriculumPerformance(attempts),
	}
	if len(students) > 0 {
		r.StudentPerformance = BuildStudentPerformance(students, attempts, now)
		class := BuildClassPerformance(students, attempts, now)
		r.Class = &class
	}
	return r
}

// TrendBucket is one point of a period trend series.
type TrendBucket struct {
	Date     string  `json:"date"`
	Score    float64 `json:"score"`
	Attempts int     `json:"attempts"`
}

// Trends groups attempts inside the period's window into date buckets with
// the average graded score and attempt count per bucket, oldest first.
func Trends(attempts []school.AttemptDetail, period Period, now time.Time) []TrendBucket {
	var window time.Duration
	layout := "2006-01-02"
	switch period {
	case PeriodMonth:
		window = 30 * 24 * time.Hour
	case PeriodYear:
		window = 365 * 24 * time.Hour
		layout = "2006-01"
	default:
		window = 7 * 24 * time.Hour
	}
	start := now.Add(-window)

	type bucket struct {
		sum    float64
		graded int
		count  int
	}
	buckets := make(map[string]*bucket)
	for _, a := range attempts {
		if a.CompletedAt.Before(start) || a.CompletedAt.After(now) {
			continue
		}
		key := a.CompletedAt.Format(layout)
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		if a.Score != nil {
			b.sum += *a.Score
			b.graded++
		}
	}

	out := make([]TrendBucket, 0, len(buckets))
	for key, b := range buckets {
		point := TrendBucket{Date: key, Attempts: b.count}
		if b.graded > 0 {
			point.Score = b.sum / float64(b.graded)
		}
		out = append(out, point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
