package generation

import (
	"errors"
	"fmt"
)

// GenerationError reports that the text-generation call failed or returned
// empty content. It is not retried by the bounded quiz retry loop.
type GenerationError struct {
	Op  string // "curriculum" or "quiz"
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s generation failed", e.Op)
	}
	return fmt.Sprintf("%s generation failed: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// MalformedResponseError reports that the sanitized model response is not
// valid JSON. Retryable within the bounded retry loop.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("model response is not valid JSON: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// SchemaValidationError reports that the parsed JSON violates the quiz
// schema. Question is the 1-based index of the offending question, or 0 for
// draft-level violations (wrong overall shape, wrong question count).
// Retryable within the bounded retry loop.
type SchemaValidationError struct {
	Question int
	Reason   string
}

func (e *SchemaValidationError) Error() string {
	if e.Question == 0 {
		return fmt.Sprintf("quiz draft invalid: %s", e.Reason)
	}
	return fmt.Sprintf("question %d invalid: %s", e.Question, e.Reason)
}

// RetryExhaustedError reports that the bounded retry loop ran out of
// attempts without producing a valid draft. Last holds the final failure.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("quiz generation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

// IsRetryable reports whether an error may be retried by requesting the
// model again with the same prompt. Only malformed JSON and schema
// violations qualify; anything else surfaces immediately.
func IsRetryable(err error) bool {
	var malformed *MalformedResponseError
	var schema *SchemaValidationError
	return errors.As(err, &malformed) || errors.As(err, &schema)
}
