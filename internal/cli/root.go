package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/persona/internal/locale"
	"github.com/ppiankov/persona/internal/model"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=..."
var Version = "0.1.0"

var (
	cfgFile      string
	verbose      bool
	localeFlag   string
	logFormatArg string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "persona",
	Short: "Persona - person profiles from Wikipedia and Wikidata",
	Long: `Persona resolves a person's name into a structured profile.

It looks the name up in Wikipedia, follows the page to its Wikidata item,
checks that the item is a human and normalizes its claims (dates, places,
occupations, affiliations, websites) into labels in the target language.

Profiles are shown in the terminal (persona lookup) or through a
menu-driven Telegram bot (persona bot).`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command; ctx is cancelled on shutdown signals
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("persona v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.persona/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "target language ("+strings.Join(locale.Codes(), ", ")+")")
	rootCmd.PersistentFlags().StringVar(&logFormatArg, "log-format", "", "log format (text, json)")

	_ = viper.BindPFlag("locale", rootCmd.PersistentFlags().Lookup("locale"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and PERSONA_* variables
func initConfig() {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		} else {
			viper.AddConfigPath(filepath.Join(home, ".persona"))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// extraEnv binds keys that are absent from the marshaled defaults
// (secrets and empty optional values) to their environment variables
var extraEnv = map[string][]string{
	"bot.token":                  {"PERSONA_BOT_TOKEN", "TELEGRAM_BOT_TOKEN"},
	"llm.api_key":                {"PERSONA_LLM_API_KEY"},
	"llm.base_url":               {"PERSONA_LLM_BASE_URL"},
	"wiki.encyclopedia_endpoint": {"PERSONA_WIKI_ENCYCLOPEDIA_ENDPOINT"},
	"http.http_proxy":            {"PERSONA_HTTP_HTTP_PROXY"},
	"http.https_proxy":           {"PERSONA_HTTP_HTTPS_PROXY"},
	"http.no_proxy":              {"PERSONA_HTTP_NO_PROXY"},
}

// loadConfig merges defaults, the config file, PERSONA_* variables and
// bound flags, in increasing priority
func loadConfig(v *viper.Viper) (*model.Config, error) {
	v.SetEnvPrefix("PERSONA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := registerDefaults(v, model.DefaultConfig()); err != nil {
		return nil, err
	}
	for key, envs := range extraEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	applyLLMEnv(&cfg.LLM)
	return cfg, nil
}

// registerDefaults makes every default key known to viper so that
// AutomaticEnv overrides reach Unmarshal
func registerDefaults(v *viper.Viper, cfg *model.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("error reading defaults: %w", err)
	}
	setDefaults(v, "", tree)
	return nil
}

func setDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, value)
	}
}

// applyLLMEnv falls back to the provider's conventional variables
func applyLLMEnv(cfg *model.LLMConfig) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if cfg.BaseURL == "" {
			cfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
}

// newLogger builds the root logger; --verbose forces debug level
func newLogger(cfg model.LogConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if verbose {
		level = log.DebugLevel
	}

	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
	case "json":
		opts.Formatter = log.JSONFormatter
	default:
		return nil, fmt.Errorf("invalid log format %q (supported: text, json)", cfg.Format)
	}

	logger := log.NewWithOptions(os.Stderr, opts)
	log.SetDefault(logger)
	return logger, nil
}

// setup loads the configuration and the matching logger
func setup() (*model.Config, *log.Logger, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
