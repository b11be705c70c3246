// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve looks up DOIs for publication titles in the Crossref
// works registry. Candidates are validated by fuzzy title comparison
// and an optional year hint. Lookups never fail outright: network and
// decoding problems come back as a Match with StatusFailed and a
// warning, so callers can record them and move on.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/pubdoi/internal/httputil"
	"github.com/pdiddy/pubdoi/pkg/types"
)

// crossrefWorksBase is the Crossref works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var crossrefWorksBase = "https://api.crossref.org/works"

// selectFields limits the registry response to what matching needs.
const selectFields = "DOI,title,published-print,author,container-title"

const (
	defaultRows          = 3
	defaultMinSimilarity = 0.85
)

// Query is a lookup request. Title is required; Authors and Year are hints.
type Query struct {
	Title   string
	Authors string
	Year    string
}

// Match is the outcome of one lookup.
type Match struct {
	// DOI is the accepted candidate's identifier, empty when none.
	DOI string

	Status types.LookupStatus

	// Similarity is the normalized title similarity of the accepted candidate.
	Similarity float64

	// Title, Venue, Authors and Year describe the accepted candidate.
	Title   string
	Venue   string
	Authors []string
	Year    string

	// Candidates is the number of works the registry returned.
	Candidates int

	// Warning explains a failed lookup. Empty otherwise.
	Warning string
}

// URL returns the doi.org URL for the match, or "" when there is no DOI.
func (m Match) URL() string {
	return DOIURL(m.DOI)
}

// Resolver queries Crossref for DOIs. It holds no per-lookup state and
// imposes no pacing; batch callers pace requests themselves.
type Resolver struct {
	client *http.Client
	cfg    types.ResolverConfig
}

// New returns a Resolver using client, filling in defaults for zero
// config values.
func New(client *http.Client, cfg types.ResolverConfig) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Crossref.BaseURL == "" {
		cfg.Crossref.BaseURL = crossrefWorksBase
	}
	if cfg.Crossref.Rows <= 0 {
		cfg.Crossref.Rows = defaultRows
	}
	if cfg.MinSimilarity <= 0 {
		cfg.MinSimilarity = defaultMinSimilarity
	}
	return &Resolver{client: client, cfg: cfg}
}

// FindDOI returns the best matching DOI for title, or "" when no
// candidate is confident enough or the lookup failed.
func (r *Resolver) FindDOI(ctx context.Context, title, authors, year string) string {
	return r.Resolve(ctx, Query{Title: title, Authors: authors, Year: year}).DOI
}

// Resolve searches the registry for q.Title and returns the first
// candidate, in registry order, whose normalized title similarity
// exceeds the configured minimum and whose print year agrees with
// q.Year. A candidate without a print-publication block passes the year
// check regardless of the hint.
func (r *Resolver) Resolve(ctx context.Context, q Query) Match {
	title := cleanTitle(q.Title)
	if title == "" {
		return Match{Status: types.StatusNotFound, Warning: "title is required"}
	}

	items, err := r.search(ctx, title, strings.TrimSpace(q.Authors))
	if err != nil {
		return Match{Status: types.StatusFailed, Warning: fmt.Sprintf("error searching DOI: %v", err)}
	}
	if len(items) == 0 {
		return Match{Status: types.StatusNotFound}
	}

	wantYear := strings.TrimSpace(q.Year)

	for _, item := range items {
		if len(item.Title) == 0 {
			continue
		}

		sim := TitleSimilarity(item.Title[0], title)
		if sim <= r.cfg.MinSimilarity {
			continue
		}

		year := item.printYear()
		if wantYear != "" && item.PublishedPrint != nil && year != wantYear {
			continue
		}

		m := Match{
			DOI:        NormalizeDOI(item.DOI),
			Status:     types.StatusFound,
			Similarity: sim,
			Title:      item.Title[0],
			Year:       year,
			Candidates: len(items),
		}
		if len(item.ContainerTitle) > 0 {
			m.Venue = item.ContainerTitle[0]
		}
		for _, a := range item.Author {
			if name := a.name(); name != "" {
				m.Authors = append(m.Authors, name)
			}
		}
		if m.DOI == "" {
			m.Status = types.StatusNotFound
		}
		return m
	}

	return Match{Status: types.StatusNotFound, Candidates: len(items)}
}

// search runs one works query and returns the candidate items.
func (r *Resolver) search(ctx context.Context, title, authors string) ([]crossrefItem, error) {
	params := url.Values{
		"query.title": {`"` + title + `"`},
		"rows":        {strconv.Itoa(r.cfg.Crossref.Rows)},
		"select":      {selectFields},
	}
	if r.cfg.AuthorHint && authors != "" {
		params.Set("query.author", authors)
	}
	if r.cfg.Crossref.Mailto != "" {
		params.Set("mailto", r.cfg.Crossref.Mailto)
	}

	req, err := httputil.NewRequest(ctx, r.cfg.Crossref.BaseURL+"?"+params.Encode(), r.cfg.UserAgent)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.cfg.Crossref.PlusToken != "" {
		req.Header.Set("Crossref-Plus-API-Token", "Bearer "+r.cfg.Crossref.PlusToken)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Crossref API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Crossref API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}
	return cr.Message.Items, nil
}

// cleanTitle trims the title and flattens embedded newlines.
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.ReplaceAll(title, "\r\n", " ")
	return strings.ReplaceAll(title, "\n", " ")
}

// Crossref works search JSON structures.
type crossrefSearchResponse struct {
	Message struct {
		Items []crossrefItem `json:"items"`
	} `json:"message"`
}

type crossrefItem struct {
	DOI            string           `json:"DOI"`
	Title          []string         `json:"title"`
	PublishedPrint *crossrefDate    `json:"published-print"`
	Author         []crossrefAuthor `json:"author"`
	ContainerTitle []string         `json:"container-title"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

func (a crossrefAuthor) name() string {
	if a.Name != "" {
		return a.Name
	}
	return strings.TrimSpace(a.Given + " " + a.Family)
}

type crossrefDate struct {
	DateParts [][]json.Number `json:"date-parts"`
}

// printYear returns the first date-part of the print-publication date,
// or "" when the item has none.
func (it crossrefItem) printYear() string {
	if it.PublishedPrint == nil || len(it.PublishedPrint.DateParts) == 0 || len(it.PublishedPrint.DateParts[0]) == 0 {
		return ""
	}
	return it.PublishedPrint.DateParts[0][0].String()
}
