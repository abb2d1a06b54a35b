// Package resolve turns a person's name into a normalized profile by chaining
// an encyclopedia page lookup with a linked-data entity fetch.
package resolve

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ppiankov/persona/internal/claims"
	"github.com/ppiankov/persona/internal/locale"
	"github.com/ppiankov/persona/internal/model"
	"github.com/ppiankov/persona/internal/wiki"
)

// PageSource looks up encyclopedia pages by title
type PageSource interface {
	Page(ctx context.Context, title string) (*wiki.Page, error)
}

// EntitySource fetches linked-data items by identifier
type EntitySource interface {
	Entity(ctx context.Context, id string) (*model.Entity, error)
}

// Resolver resolves names into profiles
type Resolver struct {
	pages      PageSource
	entities   EntitySource
	normalizer *claims.Normalizer
	loc        locale.Locale
	logger     *log.Logger
}

// New creates a resolver
func New(pages PageSource, entities EntitySource, normalizer *claims.Normalizer, loc locale.Locale, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		pages:      pages,
		entities:   entities,
		normalizer: normalizer,
		loc:        loc,
		logger:     logger,
	}
}

// Locale returns the locale profiles are resolved in
func (r *Resolver) Locale() locale.Locale {
	return r.loc
}

// Resolve looks name up and returns its profile. A page without a linked-data
// identifier yields a partial profile with Partial set and a nil error.
// Every failure is one of ErrNotFound, ErrAmbiguous, ErrNotAPerson or *FetchError.
func (r *Resolver) Resolve(ctx context.Context, name string) (profile *model.Profile, err error) {
	logger := r.logger.With("request", uuid.NewString(), "name", name)
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			profile = nil
			err = &FetchError{Stage: StagePanic, Err: fmt.Errorf("%v", rec)}
		}
		if err != nil {
			logger.Info("resolve failed", "error", err, "duration", time.Since(start))
			return
		}
		logger.Info("resolved", "partial", profile.Partial, "wikidata", profile.WikidataID, "duration", time.Since(start))
	}()

	page, err := r.pages.Page(ctx, name)
	if err != nil {
		return nil, &FetchError{Stage: StagePage, Err: err}
	}
	if page.Missing {
		return nil, ErrNotFound
	}
	if page.Disambiguation {
		return nil, ErrAmbiguous
	}

	if page.WikibaseItem == "" {
		logger.Debug("page has no linked-data identifier", "title", page.Title)
		return r.partial(page), nil
	}

	profile, err = r.fetchEntity(ctx, page.WikibaseItem, logger)
	if err != nil {
		return nil, err
	}

	profile.Summary = page.Extract
	profile.ImageURL = page.ThumbnailURL
	profile.PageURL = page.FullURL
	profile.WikipediaTitle = page.Title
	if profile.Name == "" {
		profile.Name = page.Title
	}

	return profile, nil
}

// FetchEntity fetches and normalizes one linked-data item. Items that are
// not instances of human fail with ErrNotAPerson before any label lookup.
func (r *Resolver) FetchEntity(ctx context.Context, id string) (profile *model.Profile, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			profile = nil
			err = &FetchError{Stage: StagePanic, Err: fmt.Errorf("%v", rec)}
		}
	}()
	return r.fetchEntity(ctx, id, r.logger.With("wikidata", id))
}

func (r *Resolver) fetchEntity(ctx context.Context, id string, logger *log.Logger) (*model.Profile, error) {
	entity, err := r.entities.Entity(ctx, id)
	if err != nil {
		return nil, &FetchError{Stage: StageEntity, Err: err}
	}

	if !claims.IsHuman(entity) {
		logger.Debug("entity is not a person", "id", id)
		return nil, ErrNotAPerson
	}

	profile := r.normalizer.Normalize(ctx, entity)
	profile.Name = entity.Label
	profile.Description = entity.Description
	profile.Aliases = entity.Aliases
	profile.WikidataID = id
	profile.WikidataURL = model.WikidataEntityURL(id)

	return profile, nil
}

// partial builds the summary-only profile of a page without linked data
func (r *Resolver) partial(page *wiki.Page) *model.Profile {
	profile := model.NewProfile()
	profile.Name = page.Title
	profile.Summary = page.Extract
	profile.PageURL = page.FullURL
	profile.WikipediaTitle = page.Title
	profile.Partial = true
	profile.Notice = r.loc.Messages.NoLinkedData

	profile.ImageURL = page.ThumbnailURL
	if unescaped, err := url.PathUnescape(page.ThumbnailURL); err == nil {
		profile.ImageURL = unescaped
	}

	return profile
}
