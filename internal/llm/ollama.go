package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

// ollamaLoadTimeout covers cold model loads on a local server
const ollamaLoadTimeout = 60 * time.Second

// OllamaProvider implements Provider on the Ollama chat API
type OllamaProvider struct {
	baseURL string
	http    *http.Client
	config  Config
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

type ollamaModel struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

type ollamaTags struct {
	Models []ollamaModel `json:"models"`
}

// NewOllamaProvider creates a provider for a local or remote Ollama server
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	return &OllamaProvider{
		baseURL: strings.TrimSuffix(pick(config.BaseURL, "http://localhost:11434"), "/"),
		http:    newHTTPClient(config, ollamaLoadTimeout),
		config:  config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks that the server answers and, when a model is configured,
// that the model has been pulled
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	var tags ollamaTags
	if err := p.do(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		log.Warn("ollama availability check failed", "base_url", p.baseURL, "error", err)
		return false
	}
	if p.config.Model == "" {
		return true
	}
	pulled := lo.ContainsBy(tags.Models, func(m ollamaModel) bool {
		return m.Name == p.config.Model || m.Model == p.config.Model
	})
	if !pulled {
		log.Warn("ollama model not pulled", "model", p.config.Model)
	}
	return pulled
}

// Summarize writes a digest with one non-streaming chat call
func (p *OllamaProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	model := pick(req.Model, p.config.Model)
	if model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}
	prompt := promptFor(req)

	var resp ollamaChatResponse
	err := p.do(ctx, http.MethodPost, "/api/chat", ollamaChatRequest{
		Model: model,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Options: map[string]any{
			"temperature": 0.3,
			"num_predict": pick(req.MaxTokens, p.config.MaxTokens, defaultMaxTokens),
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("ollama API error: %w", err)
	}

	// Some models report no counts; estimate 4 characters per token
	tokens := resp.PromptEvalCount + resp.EvalCount
	if tokens == 0 {
		tokens = (len(prompt) + len(resp.Message.Content)) / 4
	}

	return reply(resp.Message.Content, req, p.config.StrictCitations, pick(resp.Model, model), tokens)
}

// do sends a JSON request and decodes the JSON answer into out
func (p *OllamaProvider) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
