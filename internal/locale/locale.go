// Package locale holds the strings that depend on the target language:
// era markers, date phrasing, error messages and presentation labels.
// One locale is active per process.
package locale

import (
	"fmt"
	"sort"
	"strings"
)

// Date sentinels are the same in every locale
const (
	UnsupportedPrecision = "Unsupported precision"
	InvalidTimeFormat    = "Invalid time format"
)

// Locale is one target language
type Locale struct {
	// Code is the MediaWiki/Wikidata language code (e.g. "en", "ru")
	Code string

	EraBCE    string // e.g. "BCE"
	EraCE     string // e.g. "CE"
	MonthWord string // e.g. "month" in "1879 CE, month 3"

	Messages Messages
	Labels   Labels
}

// Messages are the user-facing texts for resolver outcomes and chat prompts
type Messages struct {
	NotFound     string
	Ambiguous    string
	NotAPerson   string
	NoLinkedData string
	FetchFailed  string // Format string, receives the cause
	Unknown      string

	Welcome    string
	Help       string
	AskName    string
	Searching  string // Format string, receives the name
	Cancelled  string
	NoProfile  string
	DigestOff  string
	DigestFail string
}

// Labels are the captions used by the presentation layer
type Labels struct {
	Search    string
	HelpBtn   string
	Cancel    string
	Digest    string
	LifeYears string

	Demographic  string
	Geographic   string
	Professional string
	Political    string

	Gender           string
	BirthDate        string
	BirthPlace       string
	DeathDate        string
	DeathPlace       string
	EthnicGroup      string
	Religion         string
	Children         string
	Citizenship      string
	Countries        string
	Languages        string
	Occupations      string
	Educations       string
	Positions        string
	Awards           string
	NotableWorks     string
	Parties          string
	OfficialWebsite  string
	OfficialWebsites string
	SocialMedia      string
	ExternalIDs      string
	Aliases          string
	Source           string
}

// English is the default locale
var English = Locale{
	Code:      "en",
	EraBCE:    "BCE",
	EraCE:     "CE",
	MonthWord: "month",
	Messages: Messages{
		NotFound:     "Article not found in Wikipedia",
		Ambiguous:    "This is a disambiguation page, please refine the query",
		NotAPerson:   "This is not a person",
		NoLinkedData: "No data from Wikidata",
		FetchFailed:  "Request error: %s",
		Unknown:      "Unknown",
		Welcome:      "Welcome to the encyclopedia bot!",
		Help:         "Commands:\n/help - list of commands\n/find - search for a person\n/cancel - cancel",
		AskName:      "📑 Enter a name to search for:",
		Searching:    "🔍 Looking up \"%s\"...",
		Cancelled:    "❌ Search cancelled",
		NoProfile:    "Search for a person first",
		DigestOff:    "Digest is not configured",
		DigestFail:   "Could not generate a digest",
	},
	Labels: Labels{
		Search:           "Search",
		HelpBtn:          "Help",
		Cancel:           "Cancel",
		Digest:           "Digest",
		LifeYears:        "Years of life",
		Demographic:      "Demographic data",
		Geographic:       "Geographical information",
		Professional:     "Professional activity",
		Political:        "Political/organizational affiliation",
		Gender:           "Gender",
		BirthDate:        "Date of birth",
		BirthPlace:       "Place of birth",
		DeathDate:        "Date of death",
		DeathPlace:       "Place of death",
		EthnicGroup:      "Ethnic group",
		Religion:         "Religion",
		Children:         "Children",
		Citizenship:      "Citizenship",
		Countries:        "Countries",
		Languages:        "Languages",
		Occupations:      "Occupation",
		Educations:       "Education",
		Positions:        "Positions",
		Awards:           "Awards",
		NotableWorks:     "Notable works",
		Parties:          "Political parties",
		OfficialWebsite:  "Official website",
		OfficialWebsites: "Official websites",
		SocialMedia:      "Social media",
		ExternalIDs:      "External identifiers",
		Aliases:          "Also known as",
		Source:           "Source",
	},
}

// Russian is the locale the chat bot was first written for
var Russian = Locale{
	Code:      "ru",
	EraBCE:    "до н. э.",
	EraCE:     "н. э.",
	MonthWord: "месяц",
	Messages: Messages{
		NotFound:     "Статья не найдена в Википедии",
		Ambiguous:    "Это страница неоднозначности, уточните запрос",
		NotAPerson:   "Это не человек",
		NoLinkedData: "Нет данных из Викиданных",
		FetchFailed:  "Ошибка запроса: %s",
		Unknown:      "Неизвестно",
		Welcome:      "Добро пожаловать в бот-энциклопедию!",
		Help:         "Список команд:\n/help - список команд\n/find - поиск личности\n/cancel - отмена",
		AskName:      "📑 Введите имя для поиска:",
		Searching:    "🔍 Ищу информацию о \"%s\"...",
		Cancelled:    "❌ Поиск отменен",
		NoProfile:    "Сначала найдите личность",
		DigestOff:    "Сводка не настроена",
		DigestFail:   "Не удалось составить сводку",
	},
	Labels: Labels{
		Search:           "Поиск",
		HelpBtn:          "Помощь",
		Cancel:           "Отмена",
		Digest:           "Сводка",
		LifeYears:        "Годы жизни",
		Demographic:      "Демографические данные",
		Geographic:       "Географическая информация",
		Professional:     "Профессиональная деятельность",
		Political:        "Политическая/организационная принадлежность",
		Gender:           "Пол",
		BirthDate:        "Дата рождения",
		BirthPlace:       "Место рождения",
		DeathDate:        "Дата смерти",
		DeathPlace:       "Место смерти",
		EthnicGroup:      "Этническая принадлежность",
		Religion:         "Религия",
		Children:         "Дети",
		Citizenship:      "Гражданство",
		Countries:        "Страны",
		Languages:        "Языки",
		Occupations:      "Род деятельности",
		Educations:       "Образование",
		Positions:        "Должности",
		Awards:           "Награды",
		NotableWorks:     "Известные работы",
		Parties:          "Политические партии",
		OfficialWebsite:  "Официальный сайт",
		OfficialWebsites: "Официальные сайты",
		SocialMedia:      "Социальные сети",
		ExternalIDs:      "Внешние идентификаторы",
		Aliases:          "Также известен как",
		Source:           "Источник",
	},
}

var registry = map[string]Locale{
	English.Code: English,
	Russian.Code: Russian,
}

// Lookup returns the locale for a language code
func Lookup(code string) (Locale, error) {
	loc, ok := registry[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Locale{}, fmt.Errorf("unsupported locale %q (supported: %s)", code, strings.Join(Codes(), ", "))
	}
	return loc, nil
}

// Codes returns the supported language codes, sorted
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Era returns the era marker for an astronomical year
func (l Locale) Era(year int) string {
	if year < 1 {
		return l.EraBCE
	}
	return l.EraCE
}
