package biorxiv

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/literature-digest-service/internal/domain"
	"github.com/helixir/literature-digest-service/internal/papersources"
)

const feedJSON = `{
  "messages": [{"status": "ok", "count": 2, "total": 2}],
  "collection": [
    {
      "doi": "10.1101/2022.01.01.000001",
      "title": "CRISPR screening in organoids",
      "authors": "Doe, J.; Roe, R.",
      "author_corresponding": "Roe, R.",
      "author_corresponding_institution": "Broad Institute",
      "date": "2022-01-05",
      "version": "2",
      "category": "genomics",
      "abstract": "We applied CRISPR screens to organoid models.",
      "server": "biorxiv"
    },
    {
      "doi": "10.1101/2022.01.02.000002",
      "title": "Microbial ecology of soil",
      "authors": "Smith, A.",
      "author_corresponding": "Smith, A.",
      "author_corresponding_institution": "ETH",
      "date": "2022-01-06",
      "version": "1",
      "category": "microbiology",
      "abstract": "A soil survey.",
      "server": "biorxiv"
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
	client := NewWithHTTPClient(Config{BaseURL: srv.URL, Enabled: true}, httpClient)
	client.now = func() time.Time {
		return time.Date(2022, 1, 31, 12, 0, 0, 0, time.UTC)
	}
	return client
}

func TestSearchFiltersByQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/biorxiv/2022-01-01/2022-01-31/0", r.URL.Path)
		_, _ = w.Write([]byte(feedJSON))
	})

	result, err := client.Search(context.Background(), papersources.SearchParams{Query: "crispr organoids"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalResults)
	assert.Equal(t, domain.SourceTypeBioRxiv, result.Source)
	require.Len(t, result.Papers, 1)

	rec := result.Papers[0]
	assert.Equal(t, "10.1101/2022.01.01.000001", rec.Identifier)
	assert.Equal(t, domain.IdentifierKindDOI, rec.IdentifierKind())
	assert.Equal(t, "CRISPR screening in organoids", rec.Title)
	assert.Equal(t, "Doe, J.; Roe, R.", rec.Authors)
	assert.Equal(t, "Roe, R.", rec.CorrespondingAuthor)
	assert.Equal(t, "Broad Institute", rec.Institution)
	assert.Equal(t, "genomics", rec.JournalOrCategory)
	assert.Equal(t, "2022-01-05", rec.Date)
	assert.Equal(t, "2", rec.Version)
	assert.Equal(t, domain.SourceTypeBioRxiv, rec.Source)
}

func TestSearchEmptyQueryMatchesAll(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedJSON))
	})

	result, err := client.Search(context.Background(), papersources.SearchParams{})
	require.NoError(t, err)
	assert.Len(t, result.Papers, 2)
}

func TestSearchExplicitWindow(t *testing.T) {
	from := time.Date(2021, 12, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, 12, 15, 0, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/biorxiv/2021-12-01/2021-12-15/0", r.URL.Path)
		_, _ = w.Write([]byte(`{"messages":[{"status":"ok","count":0,"total":0}],"collection":[]}`))
	})

	result, err := client.Search(context.Background(), papersources.SearchParams{
		Query:    "anything",
		DateFrom: &from,
		DateTo:   &to,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Papers)
}

func TestSearchWalksPages(t *testing.T) {
	var pages []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Path)
		if len(pages) == 1 {
			// A full page of non-matching entries forces a second fetch.
			fmt.Fprint(w, `{"messages":[{"status":"ok","count":100,"total":101}],"collection":[`)
			for i := 0; i < 100; i++ {
				if i > 0 {
					fmt.Fprint(w, ",")
				}
				fmt.Fprintf(w, `{"doi":"10.1101/p.%d","title":"unrelated","abstract":"x","category":"y"}`, i)
			}
			fmt.Fprint(w, `]}`)
			return
		}
		fmt.Fprint(w, `{"messages":[{"status":"ok","count":1,"total":101}],"collection":[
			{"doi":"10.1101/match.1","title":"the target phrase","abstract":"","category":""}]}`)
	})

	result, err := client.Search(context.Background(), papersources.SearchParams{Query: "target"})
	require.NoError(t, err)
	require.Len(t, result.Papers, 1)
	assert.Equal(t, "10.1101/match.1", result.Papers[0].Identifier)
	require.Len(t, pages, 2)
	assert.Contains(t, pages[1], "/100")
}

func TestSearchDisabled(t *testing.T) {
	client := New(Config{Enabled: false})
	_, err := client.Search(context.Background(), papersources.SearchParams{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestSearchUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Search(context.Background(), papersources.SearchParams{Query: "q"})
	require.Error(t, err)

	var apiErr *domain.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bioRxiv", apiErr.Source)
}

func TestGetByIDReturnsLatestVersion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/biorxiv/10.1101/2022.01.01.000001/na/json", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"messages":[{"status":"ok","count":2}],
			"collection":[
				{"doi":"10.1101/2022.01.01.000001","title":"v1 title","version":"1"},
				{"doi":"10.1101/2022.01.01.000001","title":"v2 title","version":"2"}
			]}`))
	})

	rec, err := client.GetByID(context.Background(), "10.1101/2022.01.01.000001")
	require.NoError(t, err)
	assert.Equal(t, "v2 title", rec.Title)
	assert.Equal(t, "2", rec.Version)
}

func TestGetByIDNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"messages":[{"status":"no posts found"}],"collection":[]}`))
	})

	_, err := client.GetByID(context.Background(), "10.1101/ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceMetadata(t *testing.T) {
	client := New(Config{Enabled: true})
	assert.Equal(t, domain.SourceTypeBioRxiv, client.SourceType())
	assert.Equal(t, "bioRxiv", client.Name())
	assert.True(t, client.IsEnabled())
}
