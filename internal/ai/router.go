package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Router selects a provider per request, preferring an explicit task
// preference and falling back through the registration order.
type Router struct {
	providers map[string]Provider
	fallback  []string // ordered fallback chain
	prefer    map[TaskType]string
	usage     UsageRecorder
	mu        sync.RWMutex
}

// NewRouter creates a new router. A nil recorder disables usage tracking.
func NewRouter(usage UsageRecorder) *Router {
	if usage == nil {
		usage = NopUsageRecorder{}
	}
	return &Router{
		providers: make(map[string]Provider),
		prefer:    make(map[TaskType]string),
		usage:     usage,
	}
}

// Register adds a provider to the fallback chain.
func (r *Router) Register(name string, provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = provider
	r.fallback = append(r.fallback, name)
}

// Prefer routes requests with the given task to the named provider first.
func (r *Router) Prefer(task TaskType, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefer[task] = name
}

// Complete routes a request to the best available provider.
func (r *Router) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	r.mu.RLock()
	chain := r.chainFor(req.Task)
	r.mu.RUnlock()

	var lastErr error
	for _, name := range chain {
		r.mu.RLock()
		provider := r.providers[name]
		r.mu.RUnlock()

		resp, err := provider.Complete(ctx, req)
		if err != nil {
			// Respect caller cancellation instead of burning through the chain.
			if ctx.Err() != nil {
				return CompletionResponse{}, ctx.Err()
			}
			slog.Warn("provider failed, trying next",
				"provider", name,
				"task", req.Task.String(),
				"error", err,
			)
			lastErr = err
			continue
		}

		r.usage.Record(Usage{
			Provider:     name,
			Model:        resp.Model,
			Task:         req.Task,
			InputTokens:  resp.InputTokens,
			OutputTokens: resp.OutputTokens,
		})
		slog.Debug("completion finished",
			"provider", name,
			"model", resp.Model,
			"input_tokens", resp.InputTokens,
			"output_tokens", resp.OutputTokens,
		)
		return resp, nil
	}

	if lastErr != nil {
		return CompletionResponse{}, fmt.Errorf("all providers failed: %w", lastErr)
	}
	return CompletionResponse{}, fmt.Errorf("no providers registered")
}

// chainFor returns the provider names to try for a task, preferred one first.
func (r *Router) chainFor(task TaskType) []string {
	preferred, ok := r.prefer[task]
	if !ok {
		return append([]string(nil), r.fallback...)
	}
	chain := make([]string, 0, len(r.fallback))
	if _, exists := r.providers[preferred]; exists {
		chain = append(chain, preferred)
	}
	for _, name := range r.fallback {
		if name != preferred {
			chain = append(chain, name)
		}
	}
	return chain
}

// HasProvider returns true if at least one provider is registered.
func (r *Router) HasProvider() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers) > 0
}
