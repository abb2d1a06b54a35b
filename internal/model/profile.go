package model

import "strings"

// Profile is the flat, locale-specific record resolved for one person
type Profile struct {
	Name           string   `json:"full_name"`
	Aliases        []string `json:"aliases,omitempty"`
	Description    string   `json:"description,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	PageURL        string   `json:"page_url,omitempty"`
	WikipediaTitle string   `json:"wikipedia_title,omitempty"`

	BirthDate string `json:"birth_date,omitempty"`
	DeathDate string `json:"death_date,omitempty"`

	BirthPlace   []string `json:"birth_place,omitempty"`
	DeathPlace   []string `json:"death_place,omitempty"`
	Occupations  []string `json:"occupations,omitempty"`
	Countries    []string `json:"countries,omitempty"`
	Educations   []string `json:"educations,omitempty"`
	Awards       []string `json:"awards,omitempty"`
	NotableWorks []string `json:"notable_works,omitempty"`
	Positions    []string `json:"positions,omitempty"`
	Parties      []string `json:"parties,omitempty"`
	Languages    []string `json:"languages,omitempty"`
	Gender       []string `json:"gender,omitempty"`
	EthnicGroup  []string `json:"ethnic_group,omitempty"`
	Religion     []string `json:"religion,omitempty"`
	Children     []string `json:"children,omitempty"`

	OfficialWebsites Identifier            `json:"official_websites"`
	SocialMedia      map[string]Identifier `json:"social_media,omitempty"`
	ExternalIDs      map[string]Identifier `json:"external_ids,omitempty"`

	WikidataID  string `json:"wikidata_id,omitempty"`
	WikidataURL string `json:"wikidata_url,omitempty"`

	// Partial is set when the page has no linked-data identifier and only
	// summary fields could be filled
	Partial bool   `json:"partial,omitempty"`
	Notice  string `json:"notice,omitempty"`
}

// NewProfile returns a profile with its maps allocated
func NewProfile() *Profile {
	return &Profile{
		SocialMedia: make(map[string]Identifier),
		ExternalIDs: make(map[string]Identifier),
	}
}

// Social network keys in Profile.SocialMedia
const (
	SocialTwitter   = "twitter"
	SocialInstagram = "instagram"
	SocialFacebook  = "facebook"
	SocialYouTube   = "youtube"
)

// External catalog keys in Profile.ExternalIDs
const (
	ExternalIMDb  = "imdb"
	ExternalVIAF  = "viaf"
	ExternalISNI  = "isni"
	ExternalORCID = "orcid"
)

// SocialKeys lists social networks in display order
var SocialKeys = []string{SocialTwitter, SocialInstagram, SocialFacebook, SocialYouTube}

// ExternalKeys lists external catalogs in display order
var ExternalKeys = []string{ExternalIMDb, ExternalVIAF, ExternalISNI, ExternalORCID}

// WikidataEntityURL returns the canonical URL of a linked-data item
func WikidataEntityURL(id string) string {
	return "https://www.wikidata.org/wiki/" + id
}

// URLs returns every URL carried by the profile, deduplicated, in a stable
// order. Used as the citation allowlist for digests.
func (p *Profile) URLs() []string {
	var urls []string
	seen := make(map[string]bool)
	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}

	add(p.PageURL)
	add(p.WikidataURL)
	for _, u := range p.OfficialWebsites.Values() {
		add(u)
	}
	for _, key := range SocialKeys {
		for _, u := range p.SocialMedia[key].Values() {
			add(u)
		}
	}
	return urls
}
