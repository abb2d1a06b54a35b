// Package claims turns linked-data claims into human-readable profile values.
//
// Label lookups for entity references are best effort: a reference whose
// label cannot be resolved is dropped from the result rather than failing
// the whole normalization.
package claims

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/ppiankov/persona/internal/locale"
	"github.com/ppiankov/persona/internal/model"
	"github.com/ppiankov/persona/internal/worker"
)

// Normalizer resolves an entity's claims into profile fields
type Normalizer struct {
	batch  *worker.LabelBatch
	loc    locale.Locale
	logger *log.Logger
}

// NewNormalizer creates a normalizer that looks labels up through fetcher
// with at most workers lookups in flight
func NewNormalizer(fetcher worker.LabelFetcher, loc locale.Locale, workers int, logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Normalizer{
		batch:  worker.NewLabelBatch(fetcher, workers),
		loc:    loc,
		logger: logger,
	}
}

// IsHuman reports whether the entity is an instance of the human class
func IsHuman(entity *model.Entity) bool {
	for _, claim := range entity.ClaimsFor(model.PropertyInstanceOf) {
		if !claim.HasValue() || claim.Value.Kind != model.ValueEntity {
			continue
		}
		if claim.Value.EntityID == model.ClassHuman {
			return true
		}
	}
	return false
}

// FirstValue returns the first value-bearing claim of a property
func FirstValue(entity *model.Entity, propertyID string) (model.ClaimValue, bool) {
	for _, claim := range entity.ClaimsFor(propertyID) {
		if claim.HasValue() {
			return *claim.Value, true
		}
	}
	return model.ClaimValue{}, false
}

// Date formats the first time value of a property. ok is false when the
// property has no time value at all.
func (n *Normalizer) Date(entity *model.Entity, propertyID string) (string, bool) {
	for _, claim := range entity.ClaimsFor(propertyID) {
		if claim.HasValue() && claim.Value.Kind == model.ValueTime {
			return FormatValue(*claim.Value, n.loc), true
		}
	}
	return "", false
}

// Values normalizes every value-bearing claim of a property in source order.
// The result is never nil.
func (n *Normalizer) Values(ctx context.Context, entity *model.Entity, propertyID string) []string {
	labels := n.resolveLabels(ctx, lo.Uniq(referencedIDs(entity, propertyID)))
	return n.valuesWith(entity, propertyID, labels)
}

// Identifier collects the string values of an external-identifier property,
// rewritten through the property's URL rule
func Identifier(entity *model.Entity, prop Property) model.Identifier {
	var values []string
	for _, claim := range entity.ClaimsFor(prop.ID) {
		if !claim.HasValue() || claim.Value.Kind != model.ValueString {
			continue
		}
		value := claim.Value.Text
		if prop.Rewrite != nil {
			value = prop.Rewrite(value)
		}
		values = append(values, value)
	}
	return model.NewIdentifier(values)
}

// Normalize applies PersonProperties to the entity. Labels for every entity
// reference across all list properties are fetched in one bounded fan-out.
func (n *Normalizer) Normalize(ctx context.Context, entity *model.Entity) *model.Profile {
	profile := model.NewProfile()

	var ids []string
	for _, prop := range PersonProperties {
		if prop.Kind == KindList {
			ids = append(ids, referencedIDs(entity, prop.ID)...)
		}
	}
	labels := n.resolveLabels(ctx, lo.Uniq(ids))

	for _, prop := range PersonProperties {
		switch prop.Kind {
		case KindDate:
			if date, ok := n.Date(entity, prop.ID); ok {
				*prop.date(profile) = date
			}
		case KindList:
			values := n.valuesWith(entity, prop.ID, labels)
			if len(values) > 0 {
				*prop.list(profile) = values
			}
		case KindWebsite:
			profile.OfficialWebsites = Identifier(entity, prop)
		case KindSocial:
			profile.SocialMedia[prop.Name] = Identifier(entity, prop)
		case KindExternal:
			profile.ExternalIDs[prop.Name] = Identifier(entity, prop)
		}
	}

	return profile
}

func (n *Normalizer) valuesWith(entity *model.Entity, propertyID string, labels map[string]string) []string {
	values := make([]string, 0)
	for _, claim := range entity.ClaimsFor(propertyID) {
		if !claim.HasValue() {
			continue
		}
		v := claim.Value
		switch v.Kind {
		case model.ValueEntity:
			if label, ok := labels[v.EntityID]; ok {
				values = append(values, label)
			}
		case model.ValueTime:
			values = append(values, FormatValue(*v, n.loc))
		case model.ValueString, model.ValueText:
			values = append(values, v.Text)
		}
	}
	return values
}

// resolveLabels looks up every id and keeps only the successful ones
func (n *Normalizer) resolveLabels(ctx context.Context, ids []string) map[string]string {
	labels := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return labels
	}

	for _, res := range n.batch.Lookup(ctx, ids) {
		label, ok := res.Option()
		if !ok {
			n.logger.Debug("label dropped", "id", res.ID, "error", res.Error)
			continue
		}
		labels[res.ID] = label
	}
	return labels
}

func referencedIDs(entity *model.Entity, propertyID string) []string {
	var ids []string
	for _, claim := range entity.ClaimsFor(propertyID) {
		if claim.HasValue() && claim.Value.Kind == model.ValueEntity && claim.Value.EntityID != "" {
			ids = append(ids, claim.Value.EntityID)
		}
	}
	return ids
}
