package claims

import (
	"strings"

	"github.com/ppiankov/persona/internal/model"
)

// PropertyKind selects how a property's claims land in the profile
type PropertyKind int

const (
	KindDate     PropertyKind = iota // First time value, formatted
	KindList                         // All values, formatted, in source order
	KindWebsite                      // Official website identifier
	KindSocial                       // Social handle rewritten to a profile URL
	KindExternal                     // External catalog identifier
)

// Property maps one linked-data property to a profile field
type Property struct {
	ID   string
	Name string // JSON field name, or the map key for social/external kinds
	Kind PropertyKind

	// Rewrite turns a raw string value into its canonical form (optional)
	Rewrite func(string) string

	date func(*model.Profile) *string
	list func(*model.Profile) *[]string
}

// PersonProperties is the fixed set of properties normalized for a person
var PersonProperties = []Property{
	{ID: "P569", Name: "birth_date", Kind: KindDate, date: func(p *model.Profile) *string { return &p.BirthDate }},
	{ID: "P570", Name: "death_date", Kind: KindDate, date: func(p *model.Profile) *string { return &p.DeathDate }},

	{ID: "P19", Name: "birth_place", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.BirthPlace }},
	{ID: "P20", Name: "death_place", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.DeathPlace }},
	{ID: "P106", Name: "occupations", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.Occupations }},
	{ID: "P27", Name: "countries", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.Countries }},
	{ID: "P69", Name: "educations", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.Educations }},
	{ID: "P166", Name: "awards", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.Awards }},
	{ID: "P800", Name: "notable_works", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.NotableWorks }},
	{ID: "P39", Name: "positions", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.Positions }},
	{ID: "P102", Name: "parties", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.Parties }},
	{ID: "P1412", Name: "languages", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.Languages }},
	{ID: "P21", Name: "gender", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.Gender }},
	{ID: "P172", Name: "ethnic_group", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.EthnicGroup }},
	{ID: "P140", Name: "religion", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.Religion }},
	{ID: "P40", Name: "children", Kind: KindList, list: func(p *model.Profile) *[]string { return &p.Children }},

	{ID: "P856", Name: "official_websites", Kind: KindWebsite, Rewrite: EnsureScheme},

	{ID: "P2002", Name: model.SocialTwitter, Kind: KindSocial, Rewrite: HandleURL("https://twitter.com/")},
	{ID: "P2003", Name: model.SocialInstagram, Kind: KindSocial, Rewrite: HandleURL("https://instagram.com/")},
	{ID: "P2013", Name: model.SocialFacebook, Kind: KindSocial, Rewrite: HandleURL("https://facebook.com/")},
	{ID: "P2397", Name: model.SocialYouTube, Kind: KindSocial, Rewrite: HandleURL("https://youtube.com/channel/")},

	{ID: "P345", Name: model.ExternalIMDb, Kind: KindExternal},
	{ID: "P214", Name: model.ExternalVIAF, Kind: KindExternal},
	{ID: "P213", Name: model.ExternalISNI, Kind: KindExternal},
	{ID: "P496", Name: model.ExternalORCID, Kind: KindExternal},
}

// FindProperty looks up a property by identifier
func FindProperty(id string) (Property, bool) {
	for _, prop := range PersonProperties {
		if prop.ID == id {
			return prop, true
		}
	}
	return Property{}, false
}

// HandleURL returns a rewrite that appends a handle to a fixed prefix
func HandleURL(prefix string) func(string) string {
	return func(handle string) string {
		return prefix + handle
	}
}

// EnsureScheme assumes HTTPS for a bare host or path
func EnsureScheme(value string) string {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return "https://" + value
}
