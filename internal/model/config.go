package model

import "time"

// Config is the complete Persona configuration
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Wiki         WikiConfig         `yaml:"wiki" mapstructure:"wiki"`
	Locale       string             `yaml:"locale" mapstructure:"locale"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Bot          BotConfig          `yaml:"bot" mapstructure:"bot"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// HTTPConfig controls outbound requests to the wiki services
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per-call timeout
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// WikiConfig points at the encyclopedia and linked-data endpoints.
// An empty EncyclopediaEndpoint is derived from the locale.
type WikiConfig struct {
	EncyclopediaEndpoint string `yaml:"encyclopedia_endpoint,omitempty" mapstructure:"encyclopedia_endpoint"`
	WikidataEndpoint     string `yaml:"wikidata_endpoint" mapstructure:"wikidata_endpoint"`
	ThumbnailSize        int    `yaml:"thumbnail_size" mapstructure:"thumbnail_size"`
}

// CacheConfig controls the in-memory label cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig bounds the label lookup fan-out
type ConcurrencyConfig struct {
	LabelWorkers int `yaml:"label_workers" mapstructure:"label_workers"`
}

// RateLimitingConfig paces requests per upstream host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LLMConfig configures the optional profile digest
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// BotConfig configures the Telegram front-end
type BotConfig struct {
	Token       string        `yaml:"-" mapstructure:"token"`
	APIBase     string        `yaml:"api_base" mapstructure:"api_base"`
	PollTimeout time.Duration `yaml:"poll_timeout" mapstructure:"poll_timeout"`
	SessionTTL  time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      10 * time.Second,
			UserAgent:    "Persona/0.1 (+https://github.com/ppiankov/persona)",
			MaxBodyBytes: 5_000_000,
		},
		Wiki: WikiConfig{
			WikidataEndpoint: "https://www.wikidata.org/w/api.php",
			ThumbnailSize:    500,
		},
		Locale: "en",
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			LabelWorkers: 8,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 20,
			BurstSize:         10,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 600,
		},
		Bot: BotConfig{
			APIBase:     "https://api.telegram.org",
			PollTimeout: 30 * time.Second,
			SessionTTL:  2 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// EncyclopediaEndpointFor returns the configured endpoint or the default
// Wikipedia API for the locale
func (w WikiConfig) EncyclopediaEndpointFor(locale string) string {
	if w.EncyclopediaEndpoint != "" {
		return w.EncyclopediaEndpoint
	}
	if locale == "" {
		locale = "en"
	}
	return "https://" + locale + ".wikipedia.org/w/api.php"
}
