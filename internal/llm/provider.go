// Package llm abstracts the chat-completion backends used for intent
// extraction. A Provider turns one prompt into one text completion; parsing
// the completion into a structured intent is the caller's job.
package llm

import (
	"context"

	"github.com/motormatch/motormatch/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete generates a single completion for the request
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is the input for one completion call
type CompletionRequest struct {
	// System sets the assistant's role and output constraints
	System string

	// Prompt is the user-turn content
	Prompt string

	// Model overrides the configured model for this call (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// CompletionResponse is the provider's output
type CompletionResponse struct {
	// Text is the raw completion, trimmed
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults. The provider is disabled until
// explicitly configured; extraction falls back to keyword heuristics.
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Model:     "",
		Timeout:   30,
		MaxTokens: 600,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}
