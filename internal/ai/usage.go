package ai

import "sync"

// Usage records one completed provider call.
type Usage struct {
	Provider     string   `json:"provider"`
	Model        string   `json:"model"`
	Task         TaskType `json:"task"`
	InputTokens  int      `json:"input_tokens"`
	OutputTokens int      `json:"output_tokens"`
}

// UsageRecorder receives a Usage for every successful completion.
type UsageRecorder interface {
	Record(u Usage)
}

// NopUsageRecorder ignores all usage.
type NopUsageRecorder struct{}

func (NopUsageRecorder) Record(Usage) {}

// MemoryUsage accumulates per-task token counts in memory.
type MemoryUsage struct {
	mu      sync.Mutex
	byTask  map[TaskType]int64
	entries []Usage
}

// NewMemoryUsage creates an in-memory usage recorder.
func NewMemoryUsage() *MemoryUsage {
	return &MemoryUsage{byTask: make(map[TaskType]int64)}
}

func (m *MemoryUsage) Record(u Usage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byTask[u.Task] += int64(u.InputTokens + u.OutputTokens)
	m.entries = append(m.entries, u)
}

// TokensFor returns the total tokens recorded for a task.
func (m *MemoryUsage) TokensFor(task TaskType) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byTask[task]
}

// Entries returns a copy of all recorded usage entries.
func (m *MemoryUsage) Entries() []Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Usage(nil), m.entries...)
}
