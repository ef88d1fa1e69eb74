package generation

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Prompts holds the instruction templates used for generation. Templates use
// text/template syntax; curriculum templates see {{.Topic}} and {{.Level}},
// quiz templates see {{.Content}} and {{.Count}}.
type Prompts struct {
	Curriculum string `yaml:"curriculum"`
	Quiz       string `yaml:"quiz"`
	QuizStrict string `yaml:"quiz_strict"`
}

const defaultCurriculumPrompt = `Generate a detailed curriculum for teaching {{.Topic}} at {{.Level}} level.
Include:
- Learning objectives
- Key concepts
- Practical exercises
- Assessment criteria
Format the response in markdown.`

const defaultQuizPrompt = `Based on this curriculum content:
{{.Content}}

Generate {{.Count}} multiple-choice questions.
Respond with JSON only. Do not include any prose, explanation, or markdown around it.
Use exactly this shape:
{"questions": [{"question": "...", "options": ["...", "...", "...", "..."], "correct_answer": "..."}]}
Each question must have exactly 4 options, and correct_answer must match one of the options exactly.`

const strictQuizAddendum = `
Prefix each option with its letter label followed by a space: "A) ", "B) ", "C) ", "D) ".
The correct_answer must include the same label prefix as the matching option.`

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() Prompts {
	return Prompts{
		Curriculum: defaultCurriculumPrompt,
		Quiz:       defaultQuizPrompt,
		QuizStrict: defaultQuizPrompt + strictQuizAddendum,
	}
}

// LoadPrompts reads template overrides from a YAML file. Fields left empty
// in the file keep their defaults.
func LoadPrompts(path string) (Prompts, error) {
	prompts := DefaultPrompts()

	data, err := os.ReadFile(path)
	if err != nil {
		return prompts, fmt.Errorf("reading prompts file: %w", err)
	}

	var overrides Prompts
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return prompts, fmt.Errorf("parsing prompts file: %w", err)
	}

	if overrides.Curriculum != "" {
		prompts.Curriculum = overrides.Curriculum
	}
	if overrides.Quiz != "" {
		prompts.Quiz = overrides.Quiz
	}
	if overrides.QuizStrict != "" {
		prompts.QuizStrict = overrides.QuizStrict
	}
	return prompts, nil
}

// CurriculumPrompt renders the curriculum template for a topic and level.
func (p Prompts) CurriculumPrompt(topic, level string) (string, error) {
	return render("curriculum", p.Curriculum, map[string]any{
		"Topic": topic,
		"Level": level,
	})
}

// QuizPrompt renders the quiz template for curriculum content and a target
// question count.
func (p Prompts) QuizPrompt(content string, count int, strict bool) (string, error) {
	text := p.Quiz
	if strict {
		text = p.QuizStrict
	}
	return render("quiz", text, map[string]any{
		"Content": content,
		"Count":   count,
	})
}

func render(name, text string, data map[string]any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing %s template: %w", name, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", name, err)
	}
	return sb.String(), nil
}
