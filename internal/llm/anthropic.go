package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/liushuangls/go-anthropic/v2"
)

// AnthropicProvider implements Provider on the Messages API
type AnthropicProvider struct {
	client *anthropic.Client
	config Config
}

const anthropicDefaultModel = "claude-3-5-haiku-latest"

// NewAnthropicProvider creates a new Anthropic provider. BaseURL, when set,
// includes the API version path (e.g. https://api.anthropic.com/v1).
func NewAnthropicProvider(config Config) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	opts := []anthropic.ClientOption{
		anthropic.WithHTTPClient(newHTTPClient(config, defaultTimeout)),
	}
	if config.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(config.BaseURL, "/")))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(config.APIKey, opts...),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// IsAvailable sends a minimal message as a credentials check
func (p *AnthropicProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(pick(p.config.Model, anthropicDefaultModel)),
		MaxTokens: 10,
		Messages:  []anthropic.Message{userMessage("Hi")},
	})
	if err != nil {
		log.Warn("anthropic availability check failed", "error", err)
		return false
	}
	return true
}

// Summarize writes a digest with one message exchange
func (p *AnthropicProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	model := pick(req.Model, p.config.Model, anthropicDefaultModel)

	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(model),
		MaxTokens: pick(req.MaxTokens, p.config.MaxTokens, defaultMaxTokens),
		System:    systemPrompt,
		Messages:  []anthropic.Message{userMessage(promptFor(req))},
	})
	if err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return nil, fmt.Errorf("no content in Anthropic response")
	}

	return reply(*resp.Content[0].Text, req, p.config.StrictCitations,
		pick(string(resp.Model), model), resp.Usage.InputTokens+resp.Usage.OutputTokens)
}

func userMessage(text string) anthropic.Message {
	return anthropic.Message{
		Role:    anthropic.RoleUser,
		Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(text)},
	}
}
