// Package present renders profiles as chat messages (Telegram HTML) or plain
// terminal text: a summary card plus four category views.
package present

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/net/html"

	"github.com/ppiankov/persona/internal/locale"
	"github.com/ppiankov/persona/internal/model"
)

// Format selects the markup of rendered output
type Format int

const (
	FormatHTML Format = iota // Telegram parse_mode=HTML
	FormatText
)

// View is a category view. Values double as Telegram callback data.
type View string

const (
	ViewDemographic  View = "demographic data"
	ViewGeographic   View = "geographical information"
	ViewProfessional View = "professional activity"
	ViewPolitical    View = "political-organizational affiliation"
)

// Views lists the category views in menu order
var Views = []View{ViewDemographic, ViewGeographic, ViewProfessional, ViewPolitical}

var viewAliases = map[string]View{
	"demographic":  ViewDemographic,
	"geographic":   ViewGeographic,
	"geographical": ViewGeographic,
	"professional": ViewProfessional,
	"political":    ViewPolitical,
}

// ParseView accepts a view's callback data or its short name
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	if v, ok := viewAliases[s]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Renderer renders profiles in one locale and format
type Renderer struct {
	loc    locale.Locale
	format Format
}

// NewRenderer creates a renderer
func NewRenderer(loc locale.Locale, format Format) *Renderer {
	return &Renderer{loc: loc, format: format}
}

// Title returns the caption of a view in the renderer's locale
func (r *Renderer) Title(v View) string {
	l := r.loc.Labels
	switch v {
	case ViewDemographic:
		return l.Demographic
	case ViewGeographic:
		return l.Geographic
	case ViewProfessional:
		return l.Professional
	case ViewPolitical:
		return l.Political
	}
	return string(v)
}

// Card renders the short summary sent right after a lookup
func (r *Renderer) Card(p *model.Profile) string {
	l := r.loc.Labels
	var b strings.Builder

	name := p.Name
	if name == "" {
		name = r.loc.Messages.Unknown
	}
	b.WriteString(r.bold("🪪 " + name))
	b.WriteString("\n\n")

	if p.BirthDate != "" || p.DeathDate != "" {
		r.field(&b, "📅", l.LifeYears, r.or(p.BirthDate)+" - "+r.or(p.DeathDate))
	}
	r.list(&b, "💼", l.Occupations, p.Occupations)
	r.list(&b, "🌍", l.Countries, p.Countries)

	if p.Description != "" {
		b.WriteString("\n📃 " + r.esc(p.Description) + "\n")
	}
	if p.Partial && p.Summary != "" {
		b.WriteString("\nℹ️ " + r.esc(truncate(p.Summary, 500)) + "\n")
	}
	if p.Notice != "" {
		b.WriteString("\n⚠️ " + r.esc(p.Notice) + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// View renders one category view
func (r *Renderer) View(v View, p *model.Profile) string {
	l := r.loc.Labels
	var b strings.Builder

	switch v {
	case ViewDemographic:
		b.WriteString(r.bold("📊 "+l.Demographic+":") + "\n\n")
		r.list(&b, "👤", l.Gender, p.Gender)
		r.text(&b, "🎂", l.BirthDate, p.BirthDate)
		r.list(&b, "🏠", l.BirthPlace, p.BirthPlace)
		r.text(&b, "⚰️", l.DeathDate, p.DeathDate)
		r.list(&b, "🕯️", l.DeathPlace, p.DeathPlace)
		r.list(&b, "🌐", l.EthnicGroup, p.EthnicGroup)
		r.list(&b, "🙏", l.Religion, p.Religion)
		r.list(&b, "👨‍👩‍👧‍👦", l.Children, p.Children)

	case ViewGeographic:
		b.WriteString(r.bold("🌍 "+l.Geographic+":") + "\n\n")
		r.list(&b, "🏳️", l.Citizenship, p.Countries)
		r.list(&b, "📍", l.BirthPlace, p.BirthPlace)
		r.list(&b, "⚰️", l.DeathPlace, p.DeathPlace)
		r.list(&b, "🗣️", l.Languages, p.Languages)

	case ViewProfessional:
		b.WriteString(r.bold("💼 "+l.Professional+":") + "\n\n")
		r.list(&b, "👔", l.Occupations, p.Occupations)
		r.list(&b, "🎓", l.Educations, p.Educations)
		r.list(&b, "🏛️", l.Positions, p.Positions)
		r.list(&b, "🏆", l.Awards, p.Awards)
		r.list(&b, "📚", l.NotableWorks, p.NotableWorks)

	case ViewPolitical:
		b.WriteString(r.bold("🏛️ "+l.Political+":") + "\n\n")
		r.list(&b, "🎗️", l.Parties, p.Parties)
		r.identifier(&b, "🌐", l.OfficialWebsite, l.OfficialWebsites, p.OfficialWebsites)
		r.links(&b, "🔗", l.SocialMedia, model.SocialKeys, p.SocialMedia)
		r.links(&b, "🗂️", l.ExternalIDs, model.ExternalKeys, p.ExternalIDs)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Full renders the card followed by every view, for terminal output
func (r *Renderer) Full(p *model.Profile) string {
	parts := []string{r.Card(p)}
	if !p.Partial {
		for _, v := range Views {
			parts = append(parts, r.View(v, p))
		}
	}
	if p.PageURL != "" {
		parts = append(parts, r.loc.Labels.Source+": "+r.esc(p.PageURL))
	}
	return strings.Join(parts, "\n\n")
}

func (r *Renderer) text(b *strings.Builder, icon, label, value string) {
	if value == "" {
		return
	}
	r.field(b, icon, label, value)
}

func (r *Renderer) list(b *strings.Builder, icon, label string, values []string) {
	values = lo.Compact(values)
	if len(values) == 0 {
		return
	}
	r.field(b, icon, label, strings.Join(values, ", "))
}

// identifier picks the singular or plural caption by cardinality
func (r *Renderer) identifier(b *strings.Builder, icon, one, many string, id model.Identifier) {
	switch id.Kind() {
	case model.IdentifierOne:
		v, _ := id.One()
		r.field(b, icon, one, v)
	case model.IdentifierMany:
		r.field(b, icon, many, strings.Join(id.Values(), ", "))
	}
}

func (r *Renderer) links(b *strings.Builder, icon, label string, keys []string, ids map[string]model.Identifier) {
	entries := lo.FilterMap(keys, func(key string, _ int) (string, bool) {
		id := ids[key]
		if id.IsNone() {
			return "", false
		}
		return key + " " + strings.Join(id.Values(), ", "), true
	})
	if len(entries) == 0 {
		return
	}
	r.field(b, icon, label, strings.Join(entries, "; "))
}

func (r *Renderer) field(b *strings.Builder, icon, label, value string) {
	b.WriteString(icon + " " + r.bold(label+":") + " " + r.esc(value) + "\n")
}

func (r *Renderer) bold(s string) string {
	if r.format == FormatHTML {
		return "<b>" + html.EscapeString(s) + "</b>"
	}
	return s
}

func (r *Renderer) esc(s string) string {
	if r.format == FormatHTML {
		return html.EscapeString(s)
	}
	return s
}

func (r *Renderer) or(s string) string {
	if s == "" {
		return r.loc.Messages.Unknown
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
