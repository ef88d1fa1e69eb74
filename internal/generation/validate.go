package generation

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Question is a validated multiple-choice question. The json field names are
// the wire contract the rest of the application binds to.
type Question struct {
	Text          string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// optionPrefixes are the literal labels the strict variant requires the four
// options to collectively cover.
var optionPrefixes = [4]string{"A) ", "B) ", "C) ", "D) "}

// draftSchema is the structural shape a quiz draft must have before any
// semantic checks run: a JSON object whose "questions" member is an array of
// objects.
const draftSchema = `{
	"type": "object",
	"required": ["questions"],
	"properties": {
		"questions": {
			"type": "array",
			"items": {"type": "object"}
		}
	}
}`

var compiledDraftSchema *gojsonschema.Schema

func init() {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(draftSchema))
	if err != nil {
		panic(fmt.Sprintf("generation: invalid draft schema: %v", err))
	}
	compiledDraftSchema = schema
}

// Validator enforces the quiz draft schema. When Strict is set, each option
// must carry a letter label ("A) ".."D) ") and the four labels must all be
// present.
type Validator struct {
	Strict bool
}

// Validate checks a parsed quiz draft against the schema and returns the
// validated question list. Checks run in order and the first failure wins;
// doc must already be valid JSON. Draft violations are *SchemaValidationError
// values carrying the 1-based question index and a reason; internal failures
// of the schema engine surface as *GenerationError.
func (v Validator) Validate(doc []byte, wantCount int) ([]Question, error) {
	result, err := compiledDraftSchema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, &GenerationError{Op: "quiz", Err: fmt.Errorf("schema validation: %w", err)}
	}
	if !result.Valid() {
		return nil, &SchemaValidationError{Reason: result.Errors()[0].String()}
	}

	var draft struct {
		Questions []map[string]json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(doc, &draft); err != nil {
		return nil, &GenerationError{Op: "quiz", Err: fmt.Errorf("decode draft: %w", err)}
	}

	if len(draft.Questions) != wantCount {
		return nil, &SchemaValidationError{
			Reason: fmt.Sprintf("expected %d questions, got %d", wantCount, len(draft.Questions)),
		}
	}

	questions := make([]Question, 0, wantCount)
	for i, raw := range draft.Questions {
		q, err := v.validateQuestion(i+1, raw)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (v Validator) validateQuestion(index int, raw map[string]json.RawMessage) (Question, error) {
	var q Question

	for _, field := range []string{"question", "options", "correct_answer"} {
		if _, ok := raw[field]; !ok {
			return q, &SchemaValidationError{Question: index, Reason: fmt.Sprintf("missing field %q", field)}
		}
	}

	if err := json.Unmarshal(raw["question"], &q.Text); err != nil || q.Text == "" {
		return q, &SchemaValidationError{Question: index, Reason: "question must be a non-empty string"}
	}
	if err := json.Unmarshal(raw["options"], &q.Options); err != nil {
		return q, &SchemaValidationError{Question: index, Reason: "options must be an array of strings"}
	}
	if len(q.Options) != 4 {
		return q, &SchemaValidationError{
			Question: index,
			Reason:   fmt.Sprintf("expected 4 options, got %d", len(q.Options)),
		}
	}

	if v.Strict {
		if err := checkOptionPrefixes(q.Options); err != "" {
			return q, &SchemaValidationError{Question: index, Reason: err}
		}
	}

	if err := json.Unmarshal(raw["correct_answer"], &q.CorrectAnswer); err != nil {
		return q, &SchemaValidationError{Question: index, Reason: "correct_answer must be a string"}
	}
	if !contains(q.Options, q.CorrectAnswer) {
		return q, &SchemaValidationError{
			Question: index,
			Reason:   fmt.Sprintf("correct answer %q is not one of the options", q.CorrectAnswer),
		}
	}

	return q, nil
}

// checkOptionPrefixes verifies every option starts with a letter label and
// that the four labels are all present. Returns an empty string when valid.
func checkOptionPrefixes(options []string) string {
	var seen [4]bool
	for _, opt := range options {
		matched := false
		for i, prefix := range optionPrefixes {
			if len(opt) >= len(prefix) && opt[:len(prefix)] == prefix {
				seen[i] = true
				matched = true
				break
			}
		}
		if !matched {
			return fmt.Sprintf("option %q does not start with a letter label (A) ..D) )", opt)
		}
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Sprintf("options do not cover label %q", optionPrefixes[i])
		}
	}
	return ""
}

func contains(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}
