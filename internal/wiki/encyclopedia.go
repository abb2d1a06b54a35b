package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Page is the intro-level view of an encyclopedia article
type Page struct {
	Title          string
	Extract        string // Plain-text intro
	WikibaseItem   string // Linked-data identifier, empty when absent
	Disambiguation bool
	Missing        bool
	ThumbnailURL   string
	FullURL        string
}

type queryResponse struct {
	Query struct {
		Pages []queryPage `json:"pages"`
	} `json:"query"`
}

type queryPage struct {
	Title     string `json:"title"`
	Missing   bool   `json:"missing"`
	Invalid   bool   `json:"invalid"`
	Extract   string `json:"extract"`
	FullURL   string `json:"fullurl"`
	PageProps *struct {
		WikibaseItem   string  `json:"wikibase_item"`
		Disambiguation *string `json:"disambiguation"`
	} `json:"pageprops"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

// Encyclopedia queries a Wikipedia action API endpoint
type Encyclopedia struct {
	client        *Client
	endpoint      string
	thumbnailSize int
}

// NewEncyclopedia creates a client for endpoint (e.g. https://en.wikipedia.org/w/api.php)
func NewEncyclopedia(client *Client, endpoint string, thumbnailSize int) *Encyclopedia {
	if thumbnailSize <= 0 {
		thumbnailSize = 500
	}
	return &Encyclopedia{
		client:        client,
		endpoint:      endpoint,
		thumbnailSize: thumbnailSize,
	}
}

// Endpoint returns the API endpoint
func (e *Encyclopedia) Endpoint() string {
	return e.endpoint
}

// Page looks up the article titled title, following redirects
func (e *Encyclopedia) Page(ctx context.Context, title string) (*Page, error) {
	params := url.Values{
		"action":        {"query"},
		"format":        {"json"},
		"formatversion": {"2"},
		"titles":        {title},
		"prop":          {"extracts|pageprops|pageimages|info"},
		"exintro":       {"1"},
		"explaintext":   {"1"},
		"ppprop":        {"wikibase_item|disambiguation"},
		"pithumbsize":   {strconv.Itoa(e.thumbnailSize)},
		"piprop":        {"thumbnail|name"},
		"redirects":     {"1"},
		"inprop":        {"url"},
	}

	var resp queryResponse
	if err := e.client.getJSON(ctx, e.endpoint, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Query.Pages) == 0 {
		return nil, fmt.Errorf("decode response: no pages in query result")
	}

	qp := resp.Query.Pages[0]
	page := &Page{
		Title:   qp.Title,
		Extract: qp.Extract,
		Missing: qp.Missing || qp.Invalid,
		FullURL: qp.FullURL,
	}
	if qp.PageProps != nil {
		page.WikibaseItem = qp.PageProps.WikibaseItem
		page.Disambiguation = qp.PageProps.Disambiguation != nil
	}
	if qp.Thumbnail != nil {
		page.ThumbnailURL = qp.Thumbnail.Source
	}

	return page, nil
}
