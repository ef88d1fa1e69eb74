package analytics_test

import (
	"math"
	"testing"

	"github.com/quizforge/quizforge/internal/analytics"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregate_Empty(t *testing.T) {
	s := analytics.Aggregate(nil)

	if s.Count != 0 {
		t.Errorf("Count = %d, want 0", s.Count)
	}
	if s.Mean != 0 || s.Median != 0 || s.StdDev != 0 || s.Min != 0 || s.Max != 0 {
		t.Errorf("aggregates not neutral: %+v", s)
	}
	if s.Quartiles != [3]float64{0, 0, 0} {
		t.Errorf("Quartiles = %v, want [0 0 0]", s.Quartiles)
	}
	if s.ImprovementRate != 0 {
		t.Errorf("ImprovementRate = %v, want 0", s.ImprovementRate)
	}
}

func TestAggregate_SingleScore(t *testing.T) {
	s := analytics.Aggregate([]float64{80})

	if s.Count != 1 {
		t.Errorf("Count = %d, want 1", s.Count)
	}
	if s.Mean != 80 || s.Median != 80 {
		t.Errorf("Mean/Median = %v/%v, want 80/80", s.Mean, s.Median)
	}
	if s.StdDev != 0 {
		t.Errorf("StdDev = %v, want 0 (single sample has no dispersion)", s.StdDev)
	}
	if math.IsNaN(s.StdDev) {
		t.Error("StdDev is NaN")
	}
	if s.Quartiles != [3]float64{0, 0, 0} {
		t.Errorf("Quartiles = %v, want [0 0 0]", s.Quartiles)
	}
	if s.Min != 80 || s.Max != 80 {
		t.Errorf("Min/Max = %v/%v, want 80/80", s.Min, s.Max)
	}
}

func TestAggregate_FiveScores(t *testing.T) {
	s := analytics.Aggregate([]float64{60, 70, 80, 90, 100})

	if s.Count != 5 {
		t.Errorf("Count = %d, want 5", s.Count)
	}
	if !almostEqual(s.Mean, 80) {
		t.Errorf("Mean = %v, want 80", s.Mean)
	}
	if !almostEqual(s.Median, 80) {
		t.Errorf("Median = %v, want 80", s.Median)
	}
	// Sample standard deviation: sqrt(1000/4).
	if want := math.Sqrt(250); !almostEqual(s.StdDev, want) {
		t.Errorf("StdDev = %v, want %v", s.StdDev, want)
	}
	if s.Min != 60 || s.Max != 100 {
		t.Errorf("Min/Max = %v/%v, want 60/100", s.Min, s.Max)
	}
	if s.Quartiles[1] != 80 {
		t.Errorf("Q2 = %v, want 80", s.Quartiles[1])
	}
	if !(s.Quartiles[0] < s.Quartiles[1] && s.Quartiles[1] < s.Quartiles[2]) {
		t.Errorf("Quartiles not increasing: %v", s.Quartiles)
	}
}

func TestAggregate_EvenCountMedian(t *testing.T) {
	s := analytics.Aggregate([]float64{70, 80, 90, 100})
	if !almostEqual(s.Median, 85) {
		t.Errorf("Median = %v, want 85 (average of middle pair)", s.Median)
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	scores := []float64{90, 50, 70}
	analytics.Aggregate(scores)
	if scores[0] != 90 || scores[1] != 50 || scores[2] != 70 {
		t.Errorf("input mutated: %v", scores)
	}
}

func TestAggregate_ImprovementRate(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64 // most recent first
		want   float64
	}{
		{
			name:   "fewer than two scores",
			scores: []float64{80},
			want:   0,
		},
		{
			name: "recent window above older window",
			// recent five average 90, older five average 60
			scores: []float64{90, 90, 90, 90, 90, 60, 60, 60, 60, 60},
			want:   50,
		},
		{
			name: "short input compares mean against oldest",
			// mean 75 vs oldest 50 -> +50%
			scores: []float64{100, 50},
			want:   50,
		},
		{
			name:   "zero older average suppressed",
			scores: []float64{80, 0},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := analytics.Aggregate(tt.scores)
			if !almostEqual(s.ImprovementRate, tt.want) {
				t.Errorf("ImprovementRate = %v, want %v", s.ImprovementRate, tt.want)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	pool := []float64{50, 60, 70, 80, 90}

	tests := []struct {
		value float64
		want  float64
	}{
		{95, 100},
		{75, 60},
		{70, 40}, // strictly less: ties do not count
		{40, 0},
	}
	for _, tt := range tests {
		if got := analytics.Percentile(pool, tt.value); !almostEqual(got, tt.want) {
			t.Errorf("Percentile(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}

	if got := analytics.Percentile(nil, 80); got != 0 {
		t.Errorf("Percentile(empty) = %v, want 0", got)
	}
}
