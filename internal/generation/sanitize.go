package generation

import "strings"

// Sanitize recovers a JSON candidate from a raw model response that may wrap
// the payload in explanatory prose or a markdown code fence. It is a
// best-effort text transform, not a JSON tokenizer: the caller still has to
// parse the result.
//
// Steps, in order: strip a fenced code block (keeping only its contents),
// narrow to the span from the first '{' to the last '}', trim whitespace.
func Sanitize(raw string) string {
	text := stripFence(raw)

	if start := strings.Index(text, "{"); start != -1 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}

	return strings.TrimSpace(text)
}

// stripFence removes a triple-backtick code fence, tolerating a language tag
// after the opening fence and a missing closing fence.
func stripFence(text string) string {
	trimmed := strings.TrimSpace(text)

	open := strings.Index(trimmed, "```")
	if open == -1 {
		return text
	}

	rest := trimmed[open+3:]
	// Skip an optional language tag such as "json" on the opening line.
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		firstLine := strings.TrimSpace(rest[:nl])
		if firstLine != "" && !strings.ContainsAny(firstLine, "{}") {
			rest = rest[nl+1:]
		}
	}

	if close := strings.Index(rest, "```"); close != -1 {
		rest = rest[:close]
	}
	return rest
}
