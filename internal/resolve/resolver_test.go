package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/persona/internal/locale"
	"github.com/ppiankov/persona/internal/model"
	"github.com/ppiankov/persona/internal/wiki"
)

// fakeWiki serves both MediaWiki endpoints from canned bodies
type fakeWiki struct {
	pages    map[string]string // title -> page JSON object
	entities map[string]string // id -> entity JSON object
	labels   map[string]string // id -> label

	pageCalls   atomic.Int32
	entityCalls atomic.Int32
	labelCalls  atomic.Int32
}

func (f *fakeWiki) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch q.Get("action") {
	case "query":
		f.pageCalls.Add(1)
		page, ok := f.pages[q.Get("titles")]
		if !ok {
			page = fmt.Sprintf(`{"title": %q, "missing": true}`, q.Get("titles"))
		}
		_, _ = fmt.Fprintf(w, `{"query": {"pages": [%s]}}`, page)
	case "wbgetentities":
		id := q.Get("ids")
		if q.Get("props") == "labels" {
			f.labelCalls.Add(1)
			label, ok := f.labels[id]
			if !ok {
				_, _ = fmt.Fprintf(w, `{"entities": {%q: {"id": %q, "labels": {}}}}`, id, id)
				return
			}
			_, _ = fmt.Fprintf(w, `{"entities": {%q: {"id": %q, "labels": {"en": {"language": "en", "value": %q}}}}}`, id, id, label)
			return
		}
		f.entityCalls.Add(1)
		entity, ok := f.entities[id]
		if !ok {
			_, _ = fmt.Fprintf(w, `{"entities": {%q: {"id": %q, "missing": ""}}}`, id, id)
			return
		}
		_, _ = fmt.Fprintf(w, `{"entities": {%q: %s}}`, id, entity)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func snak(pid, datatype, value string) string {
	return fmt.Sprintf(`{"mainsnak": {"snaktype": "value", "property": %q, "datavalue": {"type": %q, "value": %s}}, "rank": "normal"}`, pid, datatype, value)
}

func item(pid, id string) string {
	return snak(pid, "wikibase-entityid", fmt.Sprintf(`{"entity-type": "item", "id": %q}`, id))
}

func claimsJSON(byProperty map[string][]string) string {
	parts := make([]string, 0, len(byProperty))
	for pid, snaks := range byProperty {
		parts = append(parts, fmt.Sprintf("%q: [%s]", pid, strings.Join(snaks, ",")))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

var einstein = fmt.Sprintf(`{
	"id": "Q937",
	"labels": {"en": {"language": "en", "value": "Albert Einstein"}},
	"descriptions": {"en": {"language": "en", "value": "German-born theoretical physicist"}},
	"aliases": {"en": [{"language": "en", "value": "Einstein"}]},
	"claims": %s
}`, claimsJSON(map[string][]string{
	"P31":   {item("P31", "Q5")},
	"P569":  {snak("P569", "time", `{"time": "+1879-03-14T00:00:00Z", "precision": 11}`)},
	"P570":  {snak("P570", "time", `{"time": "+1955-04-18T00:00:00Z", "precision": 11}`)},
	"P19":   {item("P19", "Q3012")},
	"P106":  {item("P106", "Q169470"), item("P106", "Q1622272")},
	"P27":   {item("P27", "Q183"), item("P27", "Q39")},
	"P2002": {snak("P2002", "string", `"AlbertEinstein"`)},
	"P214":  {snak("P214", "string", `"75121530"`)},
}))

func newFixture() *fakeWiki {
	return &fakeWiki{
		pages: map[string]string{
			"Einstein, Albert": `{
				"title": "Albert Einstein",
				"extract": "Albert Einstein was a theoretical physicist.",
				"fullurl": "https://en.wikipedia.org/wiki/Albert_Einstein",
				"pageprops": {"wikibase_item": "Q937"},
				"thumbnail": {"source": "https://upload.wikimedia.org/Einstein_1921.jpg"}
			}`,
			"Mercury": `{"title": "Mercury", "pageprops": {"disambiguation": "", "wikibase_item": "Q302"}}`,
			"Lonely Page": `{
				"title": "Lonely Page",
				"extract": "A page with no item.",
				"fullurl": "https://en.wikipedia.org/wiki/Lonely_Page",
				"thumbnail": {"source": "https://upload.wikimedia.org/Caf%C3%A9_photo.jpg"}
			}`,
			"Berlin": `{"title": "Berlin", "pageprops": {"wikibase_item": "Q64"}}`,
			"Ghost":  `{"title": "Ghost", "pageprops": {"wikibase_item": "Q404404"}}`,
		},
		entities: map[string]string{
			"Q937": einstein,
			"Q64": fmt.Sprintf(`{"id": "Q64", "labels": {"en": {"language": "en", "value": "Berlin"}}, "claims": %s}`,
				claimsJSON(map[string][]string{
					"P31":  {item("P31", "Q515")},
					"P17":  {item("P17", "Q183")},
					"P190": {item("P190", "Q90")},
				})),
		},
		labels: map[string]string{
			"Q3012":    "Ulm",
			"Q169470":  "theoretical physicist",
			"Q1622272": "university teacher",
			"Q183":     "Germany",
		},
	}
}

func newTestResolver(t *testing.T, f *fakeWiki) *Resolver {
	t.Helper()
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)

	cfg := model.DefaultConfig()
	cfg.Wiki.EncyclopediaEndpoint = server.URL
	cfg.Wiki.WikidataEndpoint = server.URL
	cfg.RateLimiting.RequestsPerSecond = 0
	cfg.Cache.Enabled = false

	r, err := FromConfig(cfg, log.New(io.Discard))
	require.NoError(t, err)
	return r
}

func TestResolve_EndToEnd(t *testing.T) {
	f := newFixture()
	r := newTestResolver(t, f)

	profile, err := r.Resolve(context.Background(), "Einstein, Albert")
	require.NoError(t, err)

	assert.Equal(t, "Albert Einstein", profile.Name)
	assert.Equal(t, "1879 CE, 3/14", profile.BirthDate)
	assert.Equal(t, "1955 CE, 4/18", profile.DeathDate)
	assert.Equal(t, []string{"Ulm"}, profile.BirthPlace)
	assert.Equal(t, []string{"theoretical physicist", "university teacher"}, profile.Occupations)
	assert.Equal(t, []string{"Germany"}, profile.Countries, "Q39 has no label and is dropped")
	assert.Equal(t, "German-born theoretical physicist", profile.Description)
	assert.Equal(t, []string{"Einstein"}, profile.Aliases)
	assert.Equal(t, "Albert Einstein was a theoretical physicist.", profile.Summary)
	assert.Equal(t, "https://upload.wikimedia.org/Einstein_1921.jpg", profile.ImageURL)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Albert_Einstein", profile.PageURL)
	assert.Equal(t, "Albert Einstein", profile.WikipediaTitle)
	assert.Equal(t, "Q937", profile.WikidataID)
	assert.Equal(t, "https://www.wikidata.org/wiki/Q937", profile.WikidataURL)
	assert.False(t, profile.Partial)

	tw, ok := profile.SocialMedia[model.SocialTwitter].One()
	require.True(t, ok)
	assert.Equal(t, "https://twitter.com/AlbertEinstein", tw)
	viaf, ok := profile.ExternalIDs[model.ExternalVIAF].One()
	require.True(t, ok)
	assert.Equal(t, "75121530", viaf)
	assert.True(t, profile.OfficialWebsites.IsNone())

	assert.EqualValues(t, 1, f.pageCalls.Load())
	assert.EqualValues(t, 1, f.entityCalls.Load())
	assert.EqualValues(t, 5, f.labelCalls.Load())
}

func TestResolve_Disambiguation(t *testing.T) {
	f := newFixture()
	r := newTestResolver(t, f)

	profile, err := r.Resolve(context.Background(), "Mercury")
	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrAmbiguous)
	assert.Equal(t, locale.English.Messages.Ambiguous, Message(r.Locale(), err))
	assert.EqualValues(t, 0, f.entityCalls.Load())
	assert.EqualValues(t, 0, f.labelCalls.Load())
}

func TestResolve_NotFound(t *testing.T) {
	f := newFixture()
	r := newTestResolver(t, f)

	_, err := r.Resolve(context.Background(), "Xyzzy Plugh")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, locale.English.Messages.NotFound, Message(r.Locale(), err))
	assert.EqualValues(t, 0, f.entityCalls.Load())
}

func TestResolve_PartialProfile(t *testing.T) {
	f := newFixture()
	r := newTestResolver(t, f)

	profile, err := r.Resolve(context.Background(), "Lonely Page")
	require.NoError(t, err)

	assert.True(t, profile.Partial)
	assert.Equal(t, locale.English.Messages.NoLinkedData, profile.Notice)
	assert.Equal(t, "Lonely Page", profile.Name)
	assert.Equal(t, "A page with no item.", profile.Summary)
	assert.Equal(t, "https://upload.wikimedia.org/Café_photo.jpg", profile.ImageURL)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Lonely_Page", profile.PageURL)

	assert.Empty(t, profile.BirthDate)
	assert.Empty(t, profile.Occupations)
	assert.Empty(t, profile.WikidataID)
	assert.True(t, profile.OfficialWebsites.IsNone())
	assert.EqualValues(t, 0, f.entityCalls.Load())
}

func TestResolve_NotAPerson(t *testing.T) {
	f := newFixture()
	r := newTestResolver(t, f)

	_, err := r.Resolve(context.Background(), "Berlin")
	assert.ErrorIs(t, err, ErrNotAPerson)
	assert.Equal(t, locale.English.Messages.NotAPerson, Message(r.Locale(), err))
	assert.EqualValues(t, 1, f.entityCalls.Load())
	assert.EqualValues(t, 0, f.labelCalls.Load(), "no label lookups for a non-person")
}

func TestResolve_MissingEntityIsFetchError(t *testing.T) {
	f := newFixture()
	r := newTestResolver(t, f)

	profile, err := r.Resolve(context.Background(), "Ghost")
	assert.Nil(t, profile)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, StageEntity, fetchErr.Stage)
	assert.ErrorIs(t, err, wiki.ErrMissingEntity)
	assert.True(t, strings.HasPrefix(Message(r.Locale(), err), "Request error: "))
}

func TestResolve_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.Wiki.EncyclopediaEndpoint = server.URL
	cfg.Wiki.WikidataEndpoint = server.URL
	r, err := FromConfig(cfg, log.New(io.Discard))
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), "Anyone")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, StagePage, fetchErr.Stage)
}

type panickyPages struct{}

func (panickyPages) Page(context.Context, string) (*wiki.Page, error) {
	panic("boom")
}

type stubEntities struct {
	entity *model.Entity
	err    error
}

func (s stubEntities) Entity(context.Context, string) (*model.Entity, error) {
	return s.entity, s.err
}

func TestResolve_PanicBecomesFetchError(t *testing.T) {
	r := New(panickyPages{}, stubEntities{}, nil, locale.English, log.New(io.Discard))

	profile, err := r.Resolve(context.Background(), "Anyone")
	assert.Nil(t, profile)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, StagePanic, fetchErr.Stage)
}

func TestFetchEntity_ErrorWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	r := New(panickyPages{}, stubEntities{err: cause}, nil, locale.English, log.New(io.Discard))

	_, err := r.FetchEntity(context.Background(), "Q1")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Request error: connection reset", Message(locale.English, err))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(locale.English, nil))
	assert.Equal(t, locale.English.Messages.Unknown, Message(locale.English, errors.New("other")))
	assert.Equal(t, locale.Russian.Messages.NotFound, Message(locale.Russian, fmt.Errorf("wrapped: %w", ErrNotFound)))
}
