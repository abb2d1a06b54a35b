package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/persona/internal/model"
)

// ErrDisabled is returned when no provider is configured
var ErrDisabled = errors.New("digest disabled")

// Digest is a generated prose summary of one profile
type Digest struct {
	Text       string   `json:"text"`
	Provider   string   `json:"provider"`
	Model      string   `json:"model,omitempty"`
	CitedURLs  []string `json:"cited_urls,omitempty"`
	TokensUsed int      `json:"tokens_used,omitempty"`
}

// Summarizer writes digests through an optional provider
type Summarizer struct {
	provider Provider
	config   Config
	logger   *log.Logger
}

// NewSummarizer creates a summarizer; a disabled config yields a summarizer
// whose Digest returns ErrDisabled
func NewSummarizer(config Config, logger *log.Logger) (*Summarizer, error) {
	if logger == nil {
		logger = log.Default()
	}
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config, logger: logger}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the provider name, empty when disabled
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// Digest writes a digest of p in language, citing only p's own URLs
func (s *Summarizer) Digest(ctx context.Context, p *model.Profile, language string) (*Digest, error) {
	if !s.IsEnabled() {
		return nil, ErrDisabled
	}
	if p == nil {
		return nil, fmt.Errorf("no profile to summarize")
	}

	allowed := p.URLs()
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Profile:     p,
		AllowedURLs: allowed,
		Language:    language,
		Model:       s.config.Model,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		s.logger.Warn("digest failed", "provider", s.provider.Name(), "error", err)
		return nil, fmt.Errorf("%s digest: %w", s.provider.Name(), err)
	}

	s.logger.Debug("digest written",
		"provider", s.provider.Name(),
		"model", resp.Model,
		"tokens", resp.TokensUsed,
		"citations", len(resp.CitedURLs))

	return &Digest{
		Text:       resp.Summary,
		Provider:   s.provider.Name(),
		Model:      resp.Model,
		CitedURLs:  resp.CitedURLs,
		TokensUsed: resp.TokensUsed,
	}, nil
}
