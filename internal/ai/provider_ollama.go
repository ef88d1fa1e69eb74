package ai

// Ollama exposes an OpenAI-compatible API at /v1, so the self-hosted
// provider is the OpenAI client pointed at the local server. No API key is
// required; the client sends an empty bearer token which Ollama ignores.

// NewOllamaProvider creates a provider for a self-hosted Ollama server.
func NewOllamaProvider(baseURL string, opts ...OpenAIOption) *OpenAIProvider {
	opts = append([]OpenAIOption{
		WithBaseURL(baseURL + "/v1"),
		WithDefaultModel("llama3:8b"),
		WithModels([]ModelInfo{
			{ID: "llama3:8b", Name: "Llama 3 8B", MaxTokens: 8192, Description: "Local default"},
		}),
	}, opts...)
	return NewOpenAIProvider("", opts...)
}
