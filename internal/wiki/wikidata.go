package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ppiankov/persona/internal/cache"
	"github.com/ppiankov/persona/internal/model"
)

// ErrNoLabel means the item exists but has no label in the requested language
var ErrNoLabel = errors.New("no label in requested language")

// ErrMissingEntity means the linked-data service does not know the identifier
var ErrMissingEntity = errors.New("entity not found")

type entitiesResponse struct {
	Entities map[string]wireEntity `json:"entities"`
}

type wireEntity struct {
	ID           string                     `json:"id"`
	Missing      *string                    `json:"missing"`
	Labels       map[string]wireTerm        `json:"labels"`
	Descriptions map[string]wireTerm        `json:"descriptions"`
	Aliases      map[string][]wireTerm      `json:"aliases"`
	Claims       map[string][]wireStatement `json:"claims"`
	Sitelinks    map[string]wireSitelink    `json:"sitelinks"`
}

type wireTerm struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type wireSitelink struct {
	Site  string `json:"site"`
	Title string `json:"title"`
}

type wireStatement struct {
	MainSnak wireSnak `json:"mainsnak"`
	Type     string   `json:"type"`
	Rank     string   `json:"rank"`
}

type wireSnak struct {
	SnakType  string         `json:"snaktype"`
	Property  string         `json:"property"`
	DataValue *wireDataValue `json:"datavalue"`
}

type wireDataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Wikidata queries the wbgetentities module of a Wikibase endpoint
type Wikidata struct {
	client   *Client
	endpoint string
	language string
	labels   cache.Cache[string]
}

// NewWikidata creates a client for endpoint returning terms in language.
// labels may be nil to disable label caching.
func NewWikidata(client *Client, endpoint, language string, labels cache.Cache[string]) *Wikidata {
	return &Wikidata{
		client:   client,
		endpoint: endpoint,
		language: language,
		labels:   labels,
	}
}

// Endpoint returns the API endpoint
func (w *Wikidata) Endpoint() string {
	return w.endpoint
}

// Entity fetches labels, claims, descriptions, aliases and sitelinks of one item
func (w *Wikidata) Entity(ctx context.Context, id string) (*model.Entity, error) {
	params := url.Values{
		"action":    {"wbgetentities"},
		"format":    {"json"},
		"ids":       {id},
		"props":     {"labels|claims|descriptions|aliases|sitelinks"},
		"languages": {w.language},
	}

	var resp entitiesResponse
	if err := w.client.getJSON(ctx, w.endpoint, params, &resp); err != nil {
		return nil, err
	}

	raw, ok := resp.Entities[id]
	if !ok || raw.Missing != nil {
		return nil, fmt.Errorf("%s: %w", id, ErrMissingEntity)
	}

	entity := w.decodeEntity(raw)
	if entity.ID == "" {
		entity.ID = id
	}
	return entity, nil
}

// Label returns the item's label in the configured language
func (w *Wikidata) Label(ctx context.Context, id string) (string, error) {
	key := cache.Key("label", w.language, id)
	if w.labels != nil {
		if label, ok := w.labels.Get(key); ok {
			return label, nil
		}
	}

	params := url.Values{
		"action":    {"wbgetentities"},
		"format":    {"json"},
		"ids":       {id},
		"props":     {"labels"},
		"languages": {w.language},
	}

	var resp entitiesResponse
	if err := w.client.getJSON(ctx, w.endpoint, params, &resp); err != nil {
		return "", err
	}

	raw, ok := resp.Entities[id]
	if !ok || raw.Missing != nil {
		return "", fmt.Errorf("%s: %w", id, ErrMissingEntity)
	}
	term, ok := raw.Labels[w.language]
	if !ok || term.Value == "" {
		return "", fmt.Errorf("%s: %w", id, ErrNoLabel)
	}

	if w.labels != nil {
		w.labels.Set(key, term.Value, cache.DefaultTTL)
	}
	return term.Value, nil
}

func (w *Wikidata) decodeEntity(raw wireEntity) *model.Entity {
	entity := &model.Entity{
		ID:     raw.ID,
		Claims: make(map[string][]model.Claim, len(raw.Claims)),
	}

	if term, ok := raw.Labels[w.language]; ok {
		entity.Label = term.Value
	}
	if term, ok := raw.Descriptions[w.language]; ok {
		entity.Description = term.Value
	}
	for _, alias := range raw.Aliases[w.language] {
		entity.Aliases = append(entity.Aliases, alias.Value)
	}
	if len(raw.Sitelinks) > 0 {
		entity.Sitelinks = make(map[string]string, len(raw.Sitelinks))
		for site, link := range raw.Sitelinks {
			entity.Sitelinks[site] = link.Title
		}
	}

	for property, statements := range raw.Claims {
		claims := make([]model.Claim, 0, len(statements))
		for _, st := range statements {
			claim := model.Claim{
				Property: property,
				SnakType: st.MainSnak.SnakType,
				Rank:     st.Rank,
			}
			if st.MainSnak.DataValue != nil {
				claim.Value = decodeDataValue(*st.MainSnak.DataValue)
			}
			claims = append(claims, claim)
		}
		entity.Claims[property] = claims
	}

	return entity
}

// decodeDataValue maps a datavalue onto a claim value; unsupported or
// malformed values yield nil
func decodeDataValue(dv wireDataValue) *model.ClaimValue {
	switch dv.Type {
	case "wikibase-entityid":
		var v struct {
			ID         string `json:"id"`
			EntityType string `json:"entity-type"`
			NumericID  int64  `json:"numeric-id"`
		}
		if err := json.Unmarshal(dv.Value, &v); err != nil {
			return nil
		}
		id := v.ID
		if id == "" && v.NumericID > 0 {
			id = entityPrefix(v.EntityType) + strconv.FormatInt(v.NumericID, 10)
		}
		if id == "" {
			return nil
		}
		return &model.ClaimValue{Kind: model.ValueEntity, EntityID: id}

	case "time":
		var v struct {
			Time      string `json:"time"`
			Precision int    `json:"precision"`
		}
		if err := json.Unmarshal(dv.Value, &v); err != nil {
			return nil
		}
		return &model.ClaimValue{Kind: model.ValueTime, Time: v.Time, Precision: v.Precision}

	case "string":
		var s string
		if err := json.Unmarshal(dv.Value, &s); err != nil {
			return nil
		}
		return &model.ClaimValue{Kind: model.ValueString, Text: s}

	case "monolingualtext":
		var v struct {
			Text     string `json:"text"`
			Language string `json:"language"`
		}
		if err := json.Unmarshal(dv.Value, &v); err != nil {
			return nil
		}
		return &model.ClaimValue{Kind: model.ValueText, Text: v.Text, Language: v.Language}
	}

	return nil
}

func entityPrefix(entityType string) string {
	switch entityType {
	case "property":
		return "P"
	case "lexeme":
		return "L"
	default:
		return "Q"
	}
}
