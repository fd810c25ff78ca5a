package llm

import (
	"fmt"
	"strings"
	"time"
)

// Provider endpoints and defaults.
const (
	DeepSeekURL = "https://api.deepseek.com/v1/chat/completions"
	OpenAIURL   = "https://api.openai.com/v1/chat/completions"

	defaultDeepSeekModel  = "deepseek-chat"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-3-5-haiku-latest"

	defaultTemperature = 0.1
	defaultMaxTokens   = 500
	defaultTimeout     = 20 * time.Second
)

// Config holds configuration for the LLM classifier.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	MinInterval time.Duration
	Temperature float64
	MaxTokens   int
}

// NewClient creates a raw LLM client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "deepseek", "":
		if cfg.BaseURL == "" {
			cfg.BaseURL = DeepSeekURL
		}
		if cfg.Model == "" {
			cfg.Model = defaultDeepSeekModel
		}
		return newOpenAIClient(cfg)
	case "openai":
		if cfg.BaseURL == "" {
			cfg.BaseURL = OpenAIURL
		}
		if cfg.Model == "" {
			cfg.Model = defaultOpenAIModel
		}
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
