package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/ppiankov/persona/internal/bot"
	"github.com/ppiankov/persona/internal/llm"
	"github.com/ppiankov/persona/internal/locale"
	"github.com/ppiankov/persona/internal/resolve"
	"github.com/ppiankov/persona/internal/util"
	"github.com/ppiankov/persona/internal/worker"
)

// telegramRate stays under the Bot API limit of about 30 messages per second
const telegramRate = 25

// botCmd represents the bot command
var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long: `Bot long-polls the Telegram Bot API and serves person lookups in chat.

The token is read from bot.token, PERSONA_BOT_TOKEN or TELEGRAM_BOT_TOKEN
(a .env file in the working directory is loaded first).

Stop with Ctrl+C; in-flight lookups finish before exit.`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if cfg.Bot.Token == "" {
		return fmt.Errorf("telegram token not set (TELEGRAM_BOT_TOKEN)")
	}

	loc, err := locale.Lookup(cfg.Locale)
	if err != nil {
		return err
	}
	resolver, err := resolve.FromConfig(cfg, logger)
	if err != nil {
		return err
	}
	summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM, cfg.HTTP), logger.With("component", "llm"))
	if err != nil {
		return fmt.Errorf("digest setup failed: %w", err)
	}

	if summarizer.IsEnabled() {
		logger.Info("digest enabled", "provider", summarizer.ProviderName(), "model", cfg.LLM.Model)
	}

	base, err := url.Parse(cfg.Bot.APIBase)
	if err != nil || base.Host == "" {
		return fmt.Errorf("invalid bot.api_base %q", cfg.Bot.APIBase)
	}
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	limiter.SetHostRate(base.Hostname(), telegramRate, telegramRate)

	// The long poll holds the request open for the poll timeout
	httpCfg := cfg.HTTP
	httpCfg.Timeout = cfg.Bot.PollTimeout + cfg.HTTP.Timeout
	api := bot.NewAPI(cfg.Bot.APIBase, cfg.Bot.Token, util.NewHTTPClient(httpCfg, limiter), logger.With("component", "telegram"))

	b := bot.New(bot.Options{
		API:         api,
		Resolver:    resolver,
		Digester:    summarizer,
		Locale:      loc,
		Sessions:    bot.NewSessions(cfg.Bot.SessionTTL),
		PollTimeout: cfg.Bot.PollTimeout,
		Logger:      logger.With("component", "bot"),
	})

	return b.Run(cmd.Context())
}
