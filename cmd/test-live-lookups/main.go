// Test program that runs the resolver against live Wikipedia and Wikidata.
// It shows the happy path and each failure class on well-known pages.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/persona/internal/model"
	"github.com/ppiankov/persona/internal/present"
	"github.com/ppiankov/persona/internal/resolve"
)

func main() {
	fmt.Println("=== Live Lookup Test ===")
	fmt.Println()

	// Names with known outcomes
	names := []string{
		"Albert Einstein", // human with full claims
		"Mercury",         // disambiguation page
		"Berlin",          // linked item is not a human
		"Zzxqv Nonexistent Person 4711",
	}

	cfg := model.DefaultConfig()
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	resolver, err := resolve.FromConfig(cfg, logger)
	if err != nil {
		fmt.Printf("Setup error: %v\n", err)
		os.Exit(1)
	}
	renderer := present.NewRenderer(resolver.Locale(), present.FormatText)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, name := range names {
		fmt.Printf("Testing: %s\n", name)
		fmt.Println(strings.Repeat("-", 60))

		start := time.Now()
		profile, err := resolver.Resolve(ctx, name)
		elapsed := time.Since(start).Round(time.Millisecond)

		var fetchErr *resolve.FetchError
		switch {
		case err == nil:
			fmt.Printf("  ✓ Resolved in %s (wikidata %s)\n\n", elapsed, profile.WikidataID)
			fmt.Println(renderer.Full(profile))
		case errors.As(err, &fetchErr):
			fmt.Printf("  ⚠️  FETCH FAILED at stage %s: %v\n", fetchErr.Stage, fetchErr.Err)
		default:
			fmt.Printf("  ✓ Expected outcome in %s: %s\n", elapsed, resolve.Message(resolver.Locale(), err))
		}
		fmt.Println()
	}

	fmt.Println("=== Test Complete ===")
	fmt.Println("\nNote: results depend on the live content of Wikipedia and Wikidata.")
}
