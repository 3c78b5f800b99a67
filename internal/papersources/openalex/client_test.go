package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/literature-digest-service/internal/domain"
	"github.com/helixir/literature-digest-service/internal/papersources"
)

const worksJSON = `{
  "meta": {"count": 1, "page": 1, "per_page": 25},
  "results": [
    {
      "id": "https://openalex.org/W2741809807",
      "doi": "https://doi.org/10.1038/nature12373",
      "display_name": "A landmark paper",
      "publication_year": 2013,
      "publication_date": "2013-07-17",
      "cited_by_count": 4200,
      "ids": {"openalex": "https://openalex.org/W2741809807", "doi": "https://doi.org/10.1038/nature12373"},
      "authorships": [
        {"author_position": "first", "author": {"display_name": "Alice First"},
         "institutions": [{"display_name": "Stanford"}]},
        {"author_position": "last", "author": {"display_name": "Bob Last"},
         "institutions": [{"display_name": "Harvard Medical School"}]}
      ],
      "primary_location": {"source": {"display_name": "Nature", "issn_l": "0028-0836"}},
      "abstract_inverted_index": {"Despite": [0], "growing": [1], "interest": [2]}
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := papersources.NewHTTPClient(papersources.HTTPClientConfig{
		Timeout:   5 * time.Second,
		RateLimit: 1000,
		BurstSize: 1000,
	})
	return NewWithHTTPClient(Config{BaseURL: srv.URL, Email: "dev@helixir.io", Enabled: true}, httpClient)
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works", r.URL.Path)
		assert.Equal(t, "crispr", r.URL.Query().Get("search"))
		assert.Equal(t, "dev@helixir.io", r.URL.Query().Get("mailto"))
		_, _ = w.Write([]byte(worksJSON))
	})

	result, err := client.Search(context.Background(), papersources.SearchParams{Query: "crispr"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalResults)
	assert.Equal(t, domain.SourceTypeOpenAlex, result.Source)
	require.Len(t, result.Papers, 1)

	rec := result.Papers[0]
	assert.Equal(t, "10.1038/nature12373", rec.Identifier)
	assert.Equal(t, domain.IdentifierKindDOI, rec.IdentifierKind())
	assert.Equal(t, "A landmark paper", rec.Title)
	assert.Equal(t, "Despite growing interest", rec.Abstract)
	assert.Equal(t, "Alice First, Bob Last", rec.Authors)
	assert.Equal(t, "Bob Last", rec.CorrespondingAuthor)
	assert.Equal(t, "Harvard Medical School", rec.Institution)
	assert.Equal(t, "Nature", rec.JournalOrCategory)
	assert.Equal(t, "0028-0836", rec.ISSN)
	assert.Equal(t, "2013-07-17", rec.Date)
	require.NotNil(t, rec.CitationStat)
	assert.InDelta(t, 4200, *rec.CitationStat, 1e-9)
}

func TestSearchDateFilters(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t,
			"from_publication_date:2024-01-01,to_publication_date:2024-01-31",
			r.URL.Query().Get("filter"))
		_, _ = w.Write([]byte(`{"meta":{"count":0},"results":[]}`))
	})

	result, err := client.Search(context.Background(), papersources.SearchParams{
		Query:    "q",
		DateFrom: &from,
		DateTo:   &to,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Papers)
}

func TestSearchDropsWorksWithoutDOI(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"count":1},"results":[
			{"id":"https://openalex.org/W1","display_name":"No DOI here"}]}`))
	})

	result, err := client.Search(context.Background(), papersources.SearchParams{Query: "q"})
	require.NoError(t, err)
	assert.Empty(t, result.Papers)
}

func TestSearchUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("blocked"))
	})

	_, err := client.Search(context.Background(), papersources.SearchParams{Query: "q"})
	require.Error(t, err)

	var apiErr *domain.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "OpenAlex", apiErr.Source)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestGetByIDBareDOI(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/https://doi.org/10.1038/nature12373", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": "https://openalex.org/W2741809807",
			"doi": "https://doi.org/10.1038/nature12373",
			"display_name": "A landmark paper",
			"publication_date": "2013-07-17",
			"ids": {}
		}`))
	})

	rec, err := client.GetByID(context.Background(), "10.1038/nature12373")
	require.NoError(t, err)
	assert.Equal(t, "10.1038/nature12373", rec.Identifier)
}

func TestGetByIDNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetByID(context.Background(), "10.1101/ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuthorMeanCitedness(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/authors", r.URL.Path)
		assert.Equal(t, "Bob Last", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`{"meta":{"count":1},"results":[
			{"id":"https://openalex.org/A1","display_name":"Bob Last",
			 "summary_stats":{"2yr_mean_citedness":3.75,"h_index":40}}]}`))
	})

	stat, err := client.AuthorMeanCitedness(context.Background(), "Bob Last")
	require.NoError(t, err)
	assert.InDelta(t, 3.75, stat, 1e-9)
}

func TestAuthorMeanCitednessNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"count":0},"results":[]}`))
	})

	_, err := client.AuthorMeanCitedness(context.Background(), "Nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconstructAbstract(t *testing.T) {
	tests := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{"empty", nil, ""},
		{"single word", map[string][]int{"word": {0}}, "word"},
		{
			"ordered by position",
			map[string][]int{"the": {0, 2}, "over": {3}, "quick": {1}},
			"the quick the over",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconstructAbstract(tt.index))
		})
	}
}
