package present

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/persona/internal/locale"
	"github.com/ppiankov/persona/internal/model"
)

func sampleProfile() *model.Profile {
	p := model.NewProfile()
	p.Name = "Albert Einstein"
	p.Description = "German-born theoretical physicist"
	p.BirthDate = "1879 CE, 3/14"
	p.DeathDate = "1955 CE, 4/18"
	p.BirthPlace = []string{"Ulm"}
	p.DeathPlace = []string{"Princeton"}
	p.Occupations = []string{"physicist", "university teacher"}
	p.Countries = []string{"Germany", "Switzerland"}
	p.Gender = []string{"male"}
	p.Languages = []string{"German"}
	p.Awards = []string{"Nobel Prize in Physics"}
	p.Parties = []string{"Party <A>"}
	p.OfficialWebsites = model.NewIdentifier([]string{"https://einstein.example"})
	p.SocialMedia[model.SocialTwitter] = model.NewIdentifier([]string{"https://twitter.com/AlbertEinstein"})
	p.ExternalIDs[model.ExternalVIAF] = model.NewIdentifier([]string{"75121530"})
	p.PageURL = "https://en.wikipedia.org/wiki/Albert_Einstein"
	return p
}

func TestCard(t *testing.T) {
	r := NewRenderer(locale.English, FormatHTML)
	card := r.Card(sampleProfile())

	assert.True(t, strings.HasPrefix(card, "<b>🪪 Albert Einstein</b>"))
	assert.Contains(t, card, "<b>Years of life:</b> 1879 CE, 3/14 - 1955 CE, 4/18")
	assert.Contains(t, card, "<b>Occupation:</b> physicist, university teacher")
	assert.Contains(t, card, "<b>Countries:</b> Germany, Switzerland")
	assert.Contains(t, card, "📃 German-born theoretical physicist")
}

func TestCard_LivingPerson(t *testing.T) {
	p := model.NewProfile()
	p.Name = "Someone"
	p.BirthDate = "1970 CE"

	card := NewRenderer(locale.English, FormatText).Card(p)
	assert.Contains(t, card, "Years of life: 1970 CE - Unknown")
	assert.NotContains(t, card, "<b>")
}

func TestCard_Partial(t *testing.T) {
	p := model.NewProfile()
	p.Name = "Lonely Page"
	p.Summary = "A page with no item."
	p.Partial = true
	p.Notice = locale.English.Messages.NoLinkedData

	card := NewRenderer(locale.English, FormatText).Card(p)
	assert.Contains(t, card, "A page with no item.")
	assert.Contains(t, card, "No data from Wikidata")
	assert.NotContains(t, card, "Years of life")
}

func TestView_FieldSubsets(t *testing.T) {
	r := NewRenderer(locale.English, FormatHTML)
	p := sampleProfile()

	demo := r.View(ViewDemographic, p)
	assert.Contains(t, demo, "Demographic data:")
	assert.Contains(t, demo, "<b>Gender:</b> male")
	assert.Contains(t, demo, "<b>Place of birth:</b> Ulm")
	assert.NotContains(t, demo, "Occupation")

	geo := r.View(ViewGeographic, p)
	assert.Contains(t, geo, "<b>Citizenship:</b> Germany, Switzerland")
	assert.Contains(t, geo, "<b>Languages:</b> German")
	assert.NotContains(t, geo, "Gender")

	prof := r.View(ViewProfessional, p)
	assert.Contains(t, prof, "<b>Awards:</b> Nobel Prize in Physics")
	assert.NotContains(t, prof, "Ulm")

	pol := r.View(ViewPolitical, p)
	assert.Contains(t, pol, "<b>Political parties:</b> Party &lt;A&gt;")
	assert.Contains(t, pol, "<b>Official website:</b> https://einstein.example")
	assert.Contains(t, pol, "twitter https://twitter.com/AlbertEinstein")
	assert.Contains(t, pol, "viaf 75121530")
}

func TestView_PluralWebsites(t *testing.T) {
	p := model.NewProfile()
	p.OfficialWebsites = model.NewIdentifier([]string{"https://a.example", "https://b.example"})

	pol := NewRenderer(locale.Russian, FormatText).View(ViewPolitical, p)
	assert.Contains(t, pol, "Официальные сайты: https://a.example, https://b.example")
}

func TestView_EmptyProfileOnlyHeader(t *testing.T) {
	r := NewRenderer(locale.English, FormatText)
	for _, v := range Views {
		out := r.View(v, model.NewProfile())
		assert.Equal(t, 1, len(strings.Split(out, "\n")), "view %s", v)
	}
}

func TestFull(t *testing.T) {
	out := NewRenderer(locale.English, FormatText).Full(sampleProfile())
	for _, v := range Views {
		assert.Contains(t, out, NewRenderer(locale.English, FormatText).Title(v))
	}
	assert.Contains(t, out, "Source: https://en.wikipedia.org/wiki/Albert_Einstein")
}

func TestParseView(t *testing.T) {
	v, err := ParseView("demographic data")
	require.NoError(t, err)
	assert.Equal(t, ViewDemographic, v)

	v, err = ParseView(" Political ")
	require.NoError(t, err)
	assert.Equal(t, ViewPolitical, v)

	_, err = ParseView("astrological")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "аб...", truncate("абв", 2))
}
