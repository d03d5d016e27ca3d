package llm

import (
	"fmt"
	"os"
)

// NewProvider creates an LLM provider based on the given provider type and
// model. Supported provider types: "openai", "ollama". If rpm is positive,
// the provider is wrapped with a token-bucket rate limiter.
func NewProvider(providerType, model, ollamaHost string, rpm int) (Provider, error) {
	var provider Provider

	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		provider = NewOpenAIProvider(apiKey, model)

	case "ollama":
		host := ollamaHost
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		if host == "" {
			host = "http://localhost:11434"
		}
		provider = NewOllamaProvider(host, model)

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}

	if rpm > 0 {
		provider = NewRateLimitedProvider(provider, rpm)
	}

	return provider, nil
}

// EstimateTokens provides a rough token count estimation for the given text.
// Uses the approximation of 1 token per 4 characters. The justifier uses it
// to budget prompt size before calling out.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && len(text) > 0 {
		return 1
	}
	return n
}
