// Package llm writes optional prose digests of resolved profiles. A digest
// never changes profile data and may only cite the profile's own URLs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/ppiankov/persona/internal/model"
	"github.com/ppiankov/persona/internal/util"
)

// ErrCitationLeak means a digest cited a URL outside the allowlist
var ErrCitationLeak = errors.New("citation leak")

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize writes a digest restricted to the request's allowlist
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for one digest
type SummarizeRequest struct {
	Profile *model.Profile

	// AllowedURLs is the strict allowlist of URLs the digest may cite
	AllowedURLs []string

	// Language is the language code the digest is written in
	Language string

	// Prompt overrides the default prompt when set
	Prompt string

	Model     string
	MaxTokens int
}

// SummarizeResponse contains the provider output
type SummarizeResponse struct {
	Summary    string
	CitedURLs  []string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "" (disabled)
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	// Timeout for API requests in seconds
	Timeout int

	// StrictCitations rejects digests citing URLs outside the allowlist
	StrictCitations bool

	MaxTokens int

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the defaults: disabled, strict citations
func DefaultConfig() Config {
	return Config{
		Timeout:         30,
		StrictCitations: true,
		MaxTokens:       600,
	}
}

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxTokens = 600
)

const systemPrompt = "You write short, neutral biographical digests from structured data. You never add facts that are not in the data."

var languageNames = map[string]string{
	"en": "English",
	"ru": "Russian",
}

// BuildPrompt constructs the default digest prompt for a profile
func BuildPrompt(p *model.Profile, allowedURLs []string, language string) string {
	lang, ok := languageNames[language]
	if !ok {
		lang = "English"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Write a 3-4 sentence digest about the person below, in %s.

RULES:
1. Use ONLY the facts listed below.
2. You may cite ONLY these URLs:
%s
3. Do not cite, infer or mention any other source.
4. If a fact is missing, leave it out. Do not guess.

Person:
`, lang, joinURLs(allowedURLs))

	fact := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "- %s: %s\n", label, value)
		}
	}
	facts := func(label string, values []string) {
		fact(label, strings.Join(lo.Compact(values), ", "))
	}

	fact("Name", p.Name)
	fact("Description", p.Description)
	fact("Born", p.BirthDate)
	facts("Birth place", p.BirthPlace)
	fact("Died", p.DeathDate)
	facts("Death place", p.DeathPlace)
	facts("Occupations", p.Occupations)
	facts("Citizenship", p.Countries)
	facts("Education", p.Educations)
	facts("Positions", p.Positions)
	facts("Awards", p.Awards)
	facts("Notable works", p.NotableWorks)
	facts("Parties", p.Parties)
	if p.Summary != "" {
		fmt.Fprintf(&b, "\nEncyclopedia intro:\n%s\n", truncate(p.Summary, 1500))
	}

	return b.String()
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(no URLs available, cite nothing)"
	}
	var b strings.Builder
	for i, u := range urls {
		if i >= 20 {
			fmt.Fprintf(&b, "\n... and %d more URLs", len(urls)-20)
			break
		}
		b.WriteString("\n- " + u)
	}
	return b.String()
}

var urlPattern = regexp.MustCompile(`https?://[^\s\)\]>"]+`)

// extractURLs returns the distinct http(s) URLs in text
func extractURLs(text string) []string {
	urls := lo.Map(urlPattern.FindAllString(text, -1), func(u string, _ int) string {
		return strings.TrimRight(u, ".,;:!?")
	})
	return lo.Uniq(urls)
}

// checkCitations extracts cited URLs and, in strict mode, rejects any
// outside allowed
func checkCitations(summary string, allowed []string, strict bool) ([]string, error) {
	cited := extractURLs(summary)
	if !strict {
		return cited, nil
	}
	for _, u := range cited {
		if !lo.Contains(allowed, u) {
			return nil, fmt.Errorf("%w: %s", ErrCitationLeak, u)
		}
	}
	return cited, nil
}

// promptFor returns the caller's prompt or the default one for the profile
func promptFor(req SummarizeRequest) string {
	if req.Prompt != "" {
		return req.Prompt
	}
	return BuildPrompt(req.Profile, req.AllowedURLs, req.Language)
}

// reply turns a raw model answer into a response, rejecting citation leaks
func reply(answer string, req SummarizeRequest, strict bool, model string, tokens int) (*SummarizeResponse, error) {
	summary := strings.TrimSpace(answer)
	if summary == "" {
		return nil, fmt.Errorf("empty digest from %s", model)
	}
	cited, err := checkCitations(summary, req.AllowedURLs, strict)
	if err != nil {
		return nil, err
	}
	return &SummarizeResponse{
		Summary:    summary,
		CitedURLs:  cited,
		Model:      model,
		TokensUsed: tokens,
	}, nil
}

// pick returns the first non-zero value
func pick[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

func timeoutOf(config Config, fallback time.Duration) time.Duration {
	if config.Timeout > 0 {
		return time.Duration(config.Timeout) * time.Second
	}
	return fallback
}

func newHTTPClient(config Config, fallback time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy)
	return &http.Client{
		Timeout:   timeoutOf(config, fallback),
		Transport: transport,
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
