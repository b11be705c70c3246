// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubdoi/pkg/types"
)

// --- mock Crossref server ---

type capturedRequest struct {
	query  url.Values
	header http.Header
}

func crossrefTestServer(t *testing.T, statusCode int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.query = r.URL.Query()
		captured.header = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, captured
}

func testResolver(ts *httptest.Server) *Resolver {
	return New(ts.Client(), types.ResolverConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "pubdoi-test/0.1"},
		Crossref:   types.CrossrefConfig{BaseURL: ts.URL},
	})
}

func itemsJSON(items string) string {
	return `{"status":"ok","message-type":"work-list","message":{"items":[` + items + `]}}`
}

const graphsItem = `{
  "DOI": "10.1000/graphs",
  "title": ["A Study of Graphs"],
  "published-print": {"date-parts": [[2020, 5]]},
  "author": [{"given": "Jane", "family": "Smith"}, {"name": "Graph Consortium"}],
  "container-title": ["Journal of Math"]
}`

// --- Resolve ---

func TestResolveExactMatch(t *testing.T) {
	ts, captured := crossrefTestServer(t, http.StatusOK, itemsJSON(graphsItem))
	r := testResolver(ts)

	m := r.Resolve(context.Background(), Query{Title: "A Study of Graphs", Year: "2020"})

	assert.Equal(t, types.StatusFound, m.Status)
	assert.Equal(t, "10.1000/graphs", m.DOI)
	assert.Equal(t, "https://doi.org/10.1000/graphs", m.URL())
	assert.Equal(t, 1.0, m.Similarity)
	assert.Equal(t, "A Study of Graphs", m.Title)
	assert.Equal(t, "Journal of Math", m.Venue)
	assert.Equal(t, "2020", m.Year)
	assert.Equal(t, []string{"Jane Smith", "Graph Consortium"}, m.Authors)
	assert.Equal(t, 1, m.Candidates)
	assert.Empty(t, m.Warning)

	require.NotNil(t, captured.query)
	assert.Equal(t, `"A Study of Graphs"`, captured.query.Get("query.title"))
	assert.Equal(t, "3", captured.query.Get("rows"))
	assert.Equal(t, "DOI,title,published-print,author,container-title", captured.query.Get("select"))
	assert.Empty(t, captured.query.Get("query.author"))
	assert.Empty(t, captured.query.Get("mailto"))
	assert.Equal(t, "pubdoi-test/0.1", captured.header.Get("User-Agent"))
}

func TestResolveRejectsLowSimilarity(t *testing.T) {
	item := `{"DOI": "10.1000/theory", "title": ["A Study of Graph Theory"]}`
	ts, _ := crossrefTestServer(t, http.StatusOK, itemsJSON(item))
	r := testResolver(ts)

	m := r.Resolve(context.Background(), Query{Title: "A Study of Graphs"})
	assert.Equal(t, types.StatusNotFound, m.Status)
	assert.Empty(t, m.DOI)
	assert.Equal(t, 1, m.Candidates)
	assert.Empty(t, r.FindDOI(context.Background(), "A Study of Graphs", "", ""))
}

func TestResolveAcceptsCloseTitle(t *testing.T) {
	item := `{"DOI": "10.1000/on", "title": ["A Study on Graphs"]}`
	ts, _ := crossrefTestServer(t, http.StatusOK, itemsJSON(item))
	r := testResolver(ts)

	m := r.Resolve(context.Background(), Query{Title: "A study of graphs."})
	assert.Equal(t, "10.1000/on", m.DOI)
	assert.InDelta(t, 32.0/34.0, m.Similarity, 1e-9)
}

func TestResolveMinSimilarityConfigurable(t *testing.T) {
	item := `{"DOI": "10.1000/on", "title": ["A Study on Graphs"]}`
	ts, _ := crossrefTestServer(t, http.StatusOK, itemsJSON(item))
	r := New(ts.Client(), types.ResolverConfig{
		Crossref:      types.CrossrefConfig{BaseURL: ts.URL},
		MinSimilarity: 0.99,
	})

	assert.Empty(t, r.FindDOI(context.Background(), "A study of graphs", "", ""))
}

func TestResolveYearHint(t *testing.T) {
	tests := []struct {
		name    string
		items   string
		year    string
		wantDOI string
	}{
		{
			name: "year mismatch skips to next candidate",
			items: `{"DOI": "10.1/wrong-year", "title": ["A Study of Graphs"], "published-print": {"date-parts": [[2018]]}},
			        {"DOI": "10.1/right-year", "title": ["A Study of Graphs"], "published-print": {"date-parts": [[2020]]}}`,
			year:    "2020",
			wantDOI: "10.1/right-year",
		},
		{
			name:    "year mismatch only candidate",
			items:   `{"DOI": "10.1/wrong-year", "title": ["A Study of Graphs"], "published-print": {"date-parts": [[2018]]}}`,
			year:    "2020",
			wantDOI: "",
		},
		{
			name:    "candidate without print date passes year filter",
			items:   `{"DOI": "10.1/no-print", "title": ["A Study of Graphs"]}`,
			year:    "2020",
			wantDOI: "10.1/no-print",
		},
		{
			name:    "print block without date-parts fails year filter",
			items:   `{"DOI": "10.1/empty-print", "title": ["A Study of Graphs"], "published-print": {}}`,
			year:    "2020",
			wantDOI: "",
		},
		{
			name:    "null date part fails year filter",
			items:   `{"DOI": "10.1/null-print", "title": ["A Study of Graphs"], "published-print": {"date-parts": [[null]]}}`,
			year:    "2020",
			wantDOI: "",
		},
		{
			name: "empty date-parts skips to next candidate",
			items: `{"DOI": "10.1/empty-parts", "title": ["A Study of Graphs"], "published-print": {"date-parts": []}},
			        {"DOI": "10.1/good", "title": ["A Study of Graphs"], "published-print": {"date-parts": [[2020]]}}`,
			year:    "2020",
			wantDOI: "10.1/good",
		},
		{
			name:    "empty inner date-parts fails year filter",
			items:   `{"DOI": "10.1/empty-inner", "title": ["A Study of Graphs"], "published-print": {"date-parts": [[]]}}`,
			year:    "2020",
			wantDOI: "",
		},
		{
			name:    "empty date-parts accepted without hint",
			items:   `{"DOI": "10.1/empty-inner", "title": ["A Study of Graphs"], "published-print": {"date-parts": [[]]}}`,
			year:    "",
			wantDOI: "10.1/empty-inner",
		},
		{
			name:    "no hint ignores print year",
			items:   `{"DOI": "10.1/any-year", "title": ["A Study of Graphs"], "published-print": {"date-parts": [[1990]]}}`,
			year:    "",
			wantDOI: "10.1/any-year",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := crossrefTestServer(t, http.StatusOK, itemsJSON(tt.items))
			r := testResolver(ts)
			got := r.FindDOI(context.Background(), "A Study of Graphs", "", tt.year)
			assert.Equal(t, tt.wantDOI, got)
		})
	}
}

func TestResolveSkipsCandidatesWithoutTitle(t *testing.T) {
	items := `{"DOI": "10.1/untitled"},
	          {"DOI": "10.1/empty-title", "title": []},
	          {"DOI": "10.1/titled", "title": ["A Study of Graphs"]}`
	ts, _ := crossrefTestServer(t, http.StatusOK, itemsJSON(items))
	r := testResolver(ts)

	m := r.Resolve(context.Background(), Query{Title: "A Study of Graphs"})
	assert.Equal(t, "10.1/titled", m.DOI)
	assert.Equal(t, 3, m.Candidates)
}

func TestResolveAcceptedCandidateWithoutDOI(t *testing.T) {
	ts, _ := crossrefTestServer(t, http.StatusOK, itemsJSON(`{"title": ["A Study of Graphs"]}`))
	r := testResolver(ts)

	m := r.Resolve(context.Background(), Query{Title: "A Study of Graphs"})
	assert.Empty(t, m.DOI)
	assert.Equal(t, types.StatusNotFound, m.Status)
	assert.Equal(t, "A Study of Graphs", m.Title)
}

func TestResolveFirstAcceptableCandidateWins(t *testing.T) {
	items := `{"DOI": "10.1/first", "title": ["A Study of Graphs"]},
	          {"DOI": "10.1/second", "title": ["A Study of Graphs"]}`
	ts, _ := crossrefTestServer(t, http.StatusOK, itemsJSON(items))
	r := testResolver(ts)

	assert.Equal(t, "10.1/first", r.FindDOI(context.Background(), "A Study of Graphs", "", ""))
}

func TestResolveEmptyResults(t *testing.T) {
	ts, _ := crossrefTestServer(t, http.StatusOK, itemsJSON(""))
	r := testResolver(ts)

	m := r.Resolve(context.Background(), Query{Title: "Nothing"})
	assert.Equal(t, types.StatusNotFound, m.Status)
	assert.Empty(t, m.Warning)
	assert.Zero(t, m.Candidates)
}

func TestResolveFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantWarning string
	}{
		{"server error", http.StatusInternalServerError, "oops", "HTTP 500"},
		{"rate limited", http.StatusTooManyRequests, "", "HTTP 429"},
		{"malformed json", http.StatusOK, `{"message": {"items": [`, "parsing Crossref response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := crossrefTestServer(t, tt.status, tt.body)
			r := testResolver(ts)

			m := r.Resolve(context.Background(), Query{Title: "A Study of Graphs"})
			assert.Equal(t, types.StatusFailed, m.Status)
			assert.Empty(t, m.DOI)
			assert.Contains(t, m.Warning, tt.wantWarning)
		})
	}
}

func TestResolveNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	r := testResolver(ts)
	ts.Close()

	m := r.Resolve(context.Background(), Query{Title: "A Study of Graphs"})
	assert.Equal(t, types.StatusFailed, m.Status)
	assert.Contains(t, m.Warning, "Crossref API request")
}

func TestResolveEmptyTitleSkipsRequest(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()
	r := testResolver(ts)

	m := r.Resolve(context.Background(), Query{Title: "  \n "})
	assert.False(t, called)
	assert.Equal(t, types.StatusNotFound, m.Status)
	assert.Equal(t, "title is required", m.Warning)
}

func TestResolveCleansTitleNewlines(t *testing.T) {
	ts, captured := crossrefTestServer(t, http.StatusOK, itemsJSON(graphsItem))
	r := testResolver(ts)

	doi := r.FindDOI(context.Background(), "  A Study\nof Graphs \n", "", "")
	assert.Equal(t, "10.1000/graphs", doi)
	assert.Equal(t, `"A Study of Graphs"`, captured.query.Get("query.title"))
}

func TestResolveOptionalParameters(t *testing.T) {
	ts, captured := crossrefTestServer(t, http.StatusOK, itemsJSON(graphsItem))
	r := New(ts.Client(), types.ResolverConfig{
		Crossref: types.CrossrefConfig{
			BaseURL:   ts.URL,
			Mailto:    "me@example.com",
			PlusToken: "secret",
			Rows:      5,
		},
		AuthorHint: true,
	})

	r.Resolve(context.Background(), Query{Title: "A Study of Graphs", Authors: " Smith, J "})

	assert.Equal(t, "me@example.com", captured.query.Get("mailto"))
	assert.Equal(t, "Smith, J", captured.query.Get("query.author"))
	assert.Equal(t, "5", captured.query.Get("rows"))
	assert.Equal(t, "Bearer secret", captured.header.Get("Crossref-Plus-API-Token"))
}

func TestResolveNormalizesReturnedDOI(t *testing.T) {
	item := `{"DOI": "https://doi.org/10.1000/graphs", "title": ["A Study of Graphs"]}`
	ts, _ := crossrefTestServer(t, http.StatusOK, itemsJSON(item))
	r := testResolver(ts)

	assert.Equal(t, "10.1000/graphs", r.FindDOI(context.Background(), "A Study of Graphs", "", ""))
}

func TestNewDefaults(t *testing.T) {
	r := New(nil, types.ResolverConfig{})
	assert.Equal(t, http.DefaultClient, r.client)
	assert.Equal(t, crossrefWorksBase, r.cfg.Crossref.BaseURL)
	assert.Equal(t, 3, r.cfg.Crossref.Rows)
	assert.Equal(t, 0.85, r.cfg.MinSimilarity)
}
