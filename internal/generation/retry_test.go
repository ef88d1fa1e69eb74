package generation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quizforge/quizforge/internal/generation"
)

func TestRetry_SucceedsWithinBound(t *testing.T) {
	calls := 0
	err := generation.Retry(context.Background(), 3, func(error) bool { return true },
		func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_NonRetryableReturnsImmediately(t *testing.T) {
	fatal := errors.New("fatal")
	calls := 0
	err := generation.Retry(context.Background(), 3, func(error) bool { return false },
		func(ctx context.Context) error {
			calls++
			return fatal
		})
	if !errors.Is(err, fatal) {
		t.Errorf("error = %v, want the original error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetry_ExhaustionWrapsLastError(t *testing.T) {
	last := errors.New("still failing")
	err := generation.Retry(context.Background(), 3, func(error) bool { return true },
		func(ctx context.Context) error { return last })

	var exhausted *generation.RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %T, want *RetryExhaustedError", err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", exhausted.Attempts)
	}
	if !errors.Is(err, last) {
		t.Error("RetryExhaustedError should wrap the last failure")
	}
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := generation.Retry(ctx, 3, func(error) bool { return true },
		func(ctx context.Context) error {
			calls++
			return errors.New("x")
		})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestBackoffTransport_RetriesUntilSuccess(t *testing.T) {
	transport := generation.BackoffTransport()

	calls := 0
	err := transport(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("rate limited")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transport error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestBackoffTransport_HonorsContextDeadline(t *testing.T) {
	transport := generation.BackoffTransport()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := transport(ctx, func() error { return errors.New("always failing") })
	if err == nil {
		t.Fatal("transport should fail once the deadline passes")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"malformed response", &generation.MalformedResponseError{Err: errors.New("bad")}, true},
		{"schema violation", &generation.SchemaValidationError{Question: 1, Reason: "bad"}, true},
		{"generation failure", &generation.GenerationError{Op: "quiz", Err: errors.New("down")}, false},
		{"plain error", errors.New("anything"), false},
		{"wrapped schema violation", errors.Join(errors.New("ctx"), &generation.SchemaValidationError{Reason: "bad"}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generation.IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
