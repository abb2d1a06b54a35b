package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/persona/internal/model"
)

// NewProvider creates the configured provider. An empty provider name
// disables digests and returns nil, nil.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "anthropic", "claude":
		return NewAnthropicProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the file configuration. Citations are always strict.
func ConfigFromModel(cfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:        cfg.Provider,
		Model:           cfg.Model,
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		Timeout:         cfg.Timeout,
		StrictCitations: true,
		MaxTokens:       cfg.MaxTokens,
		HTTPProxy:       httpCfg.HTTPProxy,
		HTTPSProxy:      httpCfg.HTTPSProxy,
		NoProxy:         httpCfg.NoProxy,
	}
}
