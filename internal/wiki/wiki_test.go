package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ppiankov/persona/internal/cache"
	"github.com/ppiankov/persona/internal/model"
)

const einsteinEntity = `{
  "entities": {
    "Q937": {
      "id": "Q937",
      "labels": {"en": {"language": "en", "value": "Albert Einstein"}},
      "descriptions": {"en": {"language": "en", "value": "German-born theoretical physicist"}},
      "aliases": {"en": [{"language": "en", "value": "Einstein"}]},
      "sitelinks": {"enwiki": {"site": "enwiki", "title": "Albert Einstein"}},
      "claims": {
        "P31": [{"mainsnak": {"snaktype": "value", "property": "P31",
          "datavalue": {"type": "wikibase-entityid", "value": {"entity-type": "item", "numeric-id": 5}}}, "rank": "normal"}],
        "P569": [{"mainsnak": {"snaktype": "value", "property": "P569",
          "datavalue": {"type": "time", "value": {"time": "+1879-03-14T00:00:00Z", "precision": 11}}}, "rank": "normal"}],
        "P2002": [{"mainsnak": {"snaktype": "value", "property": "P2002",
          "datavalue": {"type": "string", "value": "AlbertEinstein"}}, "rank": "normal"}],
        "P1559": [{"mainsnak": {"snaktype": "value", "property": "P1559",
          "datavalue": {"type": "monolingualtext", "value": {"text": "Albert Einstein", "language": "de"}}}, "rank": "normal"}],
        "P570": [{"mainsnak": {"snaktype": "somevalue", "property": "P570"}, "rank": "normal"}]
      }
    }
  }
}`

func newTestClient() *Client {
	return NewClient(&http.Client{Timeout: 5 * time.Second}, "persona-test", 1<<20, log.New(io.Discard))
}

func TestGetJSON_UserAgentAndStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "persona-test" {
			t.Errorf("Expected User-Agent persona-test, got %q", got)
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var out map[string]any
	err := newTestClient().getJSON(context.Background(), server.URL, nil, &out)
	if err == nil {
		t.Fatal("Expected error for 503 status")
	}
}

func TestGetJSON_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"error": {"code": "no-such-entity", "info": "Could not find an entity"}}`)
	}))
	defer server.Close()

	var out map[string]any
	err := newTestClient().getJSON(context.Background(), server.URL, nil, &out)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.Code != "no-such-entity" {
		t.Errorf("Expected code no-such-entity, got %s", apiErr.Code)
	}
}

func TestGetJSON_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer server.Close()

	var out map[string]any
	if err := newTestClient().getJSON(context.Background(), server.URL, nil, &out); err == nil {
		t.Fatal("Expected decode error")
	}
}

func TestEncyclopedia_Page(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("titles") != "Albert Einstein" {
			t.Errorf("Unexpected titles param: %s", q.Get("titles"))
		}
		if q.Get("formatversion") != "2" {
			t.Errorf("Expected formatversion=2, got %s", q.Get("formatversion"))
		}
		if q.Get("pithumbsize") != "500" {
			t.Errorf("Expected pithumbsize=500, got %s", q.Get("pithumbsize"))
		}
		_, _ = fmt.Fprint(w, `{"query": {"pages": [{
			"title": "Albert Einstein",
			"extract": "Albert Einstein was a German-born theoretical physicist.",
			"fullurl": "https://en.wikipedia.org/wiki/Albert_Einstein",
			"pageprops": {"wikibase_item": "Q937"},
			"thumbnail": {"source": "https://upload.wikimedia.org/einstein.jpg"}
		}]}}`)
	}))
	defer server.Close()

	enc := NewEncyclopedia(newTestClient(), server.URL, 0)
	page, err := enc.Page(context.Background(), "Albert Einstein")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.WikibaseItem != "Q937" {
		t.Errorf("Expected Q937, got %s", page.WikibaseItem)
	}
	if page.Disambiguation || page.Missing {
		t.Errorf("Expected a regular page, got %+v", page)
	}
	if page.ThumbnailURL != "https://upload.wikimedia.org/einstein.jpg" {
		t.Errorf("Unexpected thumbnail: %s", page.ThumbnailURL)
	}
	if page.FullURL != "https://en.wikipedia.org/wiki/Albert_Einstein" {
		t.Errorf("Unexpected full URL: %s", page.FullURL)
	}
}

func TestEncyclopedia_DisambiguationAndMissing(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDisamb bool
		wantMiss   bool
	}{
		{
			name:       "disambiguation",
			body:       `{"query": {"pages": [{"title": "Mercury", "pageprops": {"disambiguation": "", "wikibase_item": "Q302"}}]}}`,
			wantDisamb: true,
		},
		{
			name:     "missing",
			body:     `{"query": {"pages": [{"title": "Xyzzy Plugh", "missing": true}]}}`,
			wantMiss: true,
		},
		{
			name:     "invalid",
			body:     `{"query": {"pages": [{"title": "", "invalid": true}]}}`,
			wantMiss: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			page, err := NewEncyclopedia(newTestClient(), server.URL, 500).Page(context.Background(), "x")
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if page.Disambiguation != tt.wantDisamb {
				t.Errorf("Disambiguation = %v, want %v", page.Disambiguation, tt.wantDisamb)
			}
			if page.Missing != tt.wantMiss {
				t.Errorf("Missing = %v, want %v", page.Missing, tt.wantMiss)
			}
		})
	}
}

func TestEncyclopedia_NoPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"batchcomplete": true}`)
	}))
	defer server.Close()

	if _, err := NewEncyclopedia(newTestClient(), server.URL, 500).Page(context.Background(), "x"); err == nil {
		t.Fatal("Expected error when query has no pages")
	}
}

func TestWikidata_Entity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "wbgetentities" || q.Get("ids") != "Q937" {
			t.Errorf("Unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("languages") != "en" {
			t.Errorf("Expected languages=en, got %s", q.Get("languages"))
		}
		_, _ = fmt.Fprint(w, einsteinEntity)
	}))
	defer server.Close()

	wd := NewWikidata(newTestClient(), server.URL, "en", nil)
	entity, err := wd.Entity(context.Background(), "Q937")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if entity.Label != "Albert Einstein" {
		t.Errorf("Unexpected label: %s", entity.Label)
	}
	if entity.Description != "German-born theoretical physicist" {
		t.Errorf("Unexpected description: %s", entity.Description)
	}
	if len(entity.Aliases) != 1 || entity.Aliases[0] != "Einstein" {
		t.Errorf("Unexpected aliases: %v", entity.Aliases)
	}
	if entity.Sitelinks["enwiki"] != "Albert Einstein" {
		t.Errorf("Unexpected sitelinks: %v", entity.Sitelinks)
	}

	p31 := entity.ClaimsFor(model.PropertyInstanceOf)
	if len(p31) != 1 || p31[0].Value == nil || p31[0].Value.EntityID != "Q5" {
		t.Fatalf("Expected P31 rebuilt from numeric-id as Q5, got %+v", p31)
	}

	birth := entity.ClaimsFor("P569")
	if len(birth) != 1 || birth[0].Value.Kind != model.ValueTime || birth[0].Value.Precision != model.PrecisionDay {
		t.Errorf("Unexpected birth claim: %+v", birth)
	}

	twitter := entity.ClaimsFor("P2002")
	if len(twitter) != 1 || twitter[0].Value.Kind != model.ValueString || twitter[0].Value.Text != "AlbertEinstein" {
		t.Errorf("Unexpected twitter claim: %+v", twitter)
	}

	name := entity.ClaimsFor("P1559")
	if len(name) != 1 || name[0].Value.Kind != model.ValueText || name[0].Value.Language != "de" {
		t.Errorf("Unexpected monolingual claim: %+v", name)
	}

	death := entity.ClaimsFor("P570")
	if len(death) != 1 || death[0].HasValue() {
		t.Errorf("Expected valueless somevalue claim, got %+v", death)
	}
}

func TestWikidata_EntityMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"entities": {"Q0": {"id": "Q0", "missing": ""}}}`)
	}))
	defer server.Close()

	_, err := NewWikidata(newTestClient(), server.URL, "en", nil).Entity(context.Background(), "Q0")
	if !errors.Is(err, ErrMissingEntity) {
		t.Fatalf("Expected ErrMissingEntity, got %v", err)
	}
}

func TestWikidata_LabelCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("props") != "labels" {
			t.Errorf("Expected props=labels, got %s", r.URL.Query().Get("props"))
		}
		_, _ = fmt.Fprint(w, `{"entities": {"Q183": {"id": "Q183", "labels": {"ru": {"language": "ru", "value": "Германия"}}}}}`)
	}))
	defer server.Close()

	labels := cache.NewMemory[string](time.Minute, time.Minute)
	wd := NewWikidata(newTestClient(), server.URL, "ru", labels)

	for i := 0; i < 3; i++ {
		label, err := wd.Label(context.Background(), "Q183")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if label != "Германия" {
			t.Errorf("Unexpected label: %s", label)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 upstream call, got %d", calls.Load())
	}
}

func TestWikidata_LabelAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"entities": {"Q183": {"id": "Q183", "labels": {}}}}`)
	}))
	defer server.Close()

	_, err := NewWikidata(newTestClient(), server.URL, "en", nil).Label(context.Background(), "Q183")
	if !errors.Is(err, ErrNoLabel) {
		t.Fatalf("Expected ErrNoLabel, got %v", err)
	}
}

func TestDecodeDataValue_Unsupported(t *testing.T) {
	if v := decodeDataValue(wireDataValue{Type: "quantity", Value: []byte(`{"amount": "+1"}`)}); v != nil {
		t.Errorf("Expected nil for quantity, got %+v", v)
	}
	if v := decodeDataValue(wireDataValue{Type: "wikibase-entityid", Value: []byte(`{}`)}); v != nil {
		t.Errorf("Expected nil for empty entity id, got %+v", v)
	}
}
