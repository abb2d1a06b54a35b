package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/persona/internal/llm"
	"github.com/ppiankov/persona/internal/model"
	"github.com/ppiankov/persona/internal/present"
	"github.com/ppiankov/persona/internal/resolve"
)

var (
	lookupJSON    bool
	lookupView    string
	lookupDigest  bool
	lookupTimeout time.Duration
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Resolve a person's name and print the profile",
	Long: `Lookup resolves a name through Wikipedia and Wikidata and prints the
resulting profile.

Views:
  card          short summary (default)
  all           card plus every category view
  demographic   gender, dates and places of birth and death, ethnicity, religion, children
  geographic    countries, birth and death places, languages
  professional  occupations, education, positions, awards, notable works
  political     parties, official websites, social media, external ids

Example:
  persona lookup "Albert Einstein"
  persona lookup "Лев Толстой" --locale ru --view all
  persona lookup "Ada Lovelace" --json
  persona lookup "Marie Curie" --digest`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print the profile as JSON")
	lookupCmd.Flags().StringVar(&lookupView, "view", "card", "view to print (card, all, demographic, geographic, professional, political)")
	lookupCmd.Flags().BoolVar(&lookupDigest, "digest", false, "append an LLM digest (requires llm.provider)")
	lookupCmd.Flags().DurationVar(&lookupTimeout, "timeout", time.Minute, "overall lookup timeout")
}

// lookupOutput is the --json document
type lookupOutput struct {
	Profile *model.Profile `json:"profile"`
	Digest  *llm.Digest    `json:"digest,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")

	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	resolver, err := resolve.FromConfig(cfg, logger)
	if err != nil {
		return err
	}

	var summarizer *llm.Summarizer
	if lookupDigest {
		summarizer, err = llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM, cfg.HTTP), logger.With("component", "llm"))
		if err != nil {
			return fmt.Errorf("digest setup failed: %w", err)
		}
		if !summarizer.IsEnabled() {
			return fmt.Errorf("--digest requires llm.provider in the config (openai, anthropic, ollama)")
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), lookupTimeout)
	defer cancel()

	profile, err := resolver.Resolve(ctx, name)
	if err != nil {
		fmt.Fprintln(os.Stderr, resolve.Message(resolver.Locale(), err))
		return fmt.Errorf("lookup %q: %w", name, err)
	}

	var digest *llm.Digest
	if summarizer != nil {
		digest, err = summarizer.Digest(ctx, profile, resolver.Locale().Code)
		if err != nil {
			// The profile is still printed without the digest
			logger.Warn("digest failed", "error", err)
		}
	}

	if lookupJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(lookupOutput{Profile: profile, Digest: digest})
	}

	out, err := renderLookup(present.NewRenderer(resolver.Locale(), present.FormatText), profile, lookupView)
	if err != nil {
		return err
	}
	fmt.Println(newStyles(os.Stdout).decorate(out))

	if digest != nil {
		fmt.Printf("\n%s (%s):\n%s\n", resolver.Locale().Labels.Digest, digest.Provider, digest.Text)
	}
	return nil
}

func renderLookup(r *present.Renderer, p *model.Profile, view string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(view)) {
	case "", "card":
		return r.Card(p), nil
	case "all":
		return r.Full(p), nil
	}
	v, err := present.ParseView(view)
	if err != nil {
		return "", err
	}
	return r.View(v, p), nil
}
