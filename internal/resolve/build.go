package resolve

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/persona/internal/cache"
	"github.com/ppiankov/persona/internal/claims"
	"github.com/ppiankov/persona/internal/locale"
	"github.com/ppiankov/persona/internal/model"
	"github.com/ppiankov/persona/internal/util"
	"github.com/ppiankov/persona/internal/wiki"
	"github.com/ppiankov/persona/internal/worker"
)

// FromConfig wires a resolver against the configured endpoints
func FromConfig(cfg *model.Config, logger *log.Logger) (*Resolver, error) {
	if logger == nil {
		logger = log.Default()
	}

	loc, err := locale.Lookup(cfg.Locale)
	if err != nil {
		return nil, err
	}
	if cfg.Wiki.WikidataEndpoint == "" {
		return nil, fmt.Errorf("wiki.wikidata_endpoint is required")
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	httpClient := util.NewHTTPClient(cfg.HTTP, limiter)
	client := wiki.NewClient(httpClient, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, logger.With("component", "wiki"))

	var labels cache.Cache[string]
	if cfg.Cache.Enabled {
		labels = cache.NewMemory[string](cfg.Cache.TTL, 2*cfg.Cache.TTL)
	}

	pages := wiki.NewEncyclopedia(client, cfg.Wiki.EncyclopediaEndpointFor(loc.Code), cfg.Wiki.ThumbnailSize)
	entities := wiki.NewWikidata(client, cfg.Wiki.WikidataEndpoint, loc.Code, labels)
	normalizer := claims.NewNormalizer(entities, loc, cfg.Concurrency.LabelWorkers, logger.With("component", "claims"))

	logger.Debug("resolver configured",
		"encyclopedia", pages.Endpoint(),
		"wikidata", entities.Endpoint(),
		"locale", loc.Code,
		"label_workers", cfg.Concurrency.LabelWorkers,
		"label_cache", cfg.Cache.Enabled)

	return New(pages, entities, normalizer, loc, logger.With("component", "resolve")), nil
}
