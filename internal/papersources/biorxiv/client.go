package biorxiv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/helixir/literature-digest-service/internal/domain"
	"github.com/helixir/literature-digest-service/internal/papersources"
)

const (
	// DefaultBaseURL is the default bioRxiv API base URL.
	DefaultBaseURL = "https://api.biorxiv.org"

	// DefaultRateLimit is the default rate limit for requests per second.
	DefaultRateLimit = 5.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 5

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResults is the default maximum matching preprints per search.
	DefaultMaxResults = 30

	// DefaultWindowDays is the feed window when the caller gives no dates.
	DefaultWindowDays = 30

	// feedPageSize is the fixed page size of the bioRxiv details feed.
	feedPageSize = 100

	// maxFeedPages bounds how many feed pages one search will walk.
	maxFeedPages = 20

	// sourceName is the human-readable name for this source.
	sourceName = "bioRxiv"
)

// Config holds configuration for the bioRxiv client.
type Config struct {
	// BaseURL is the bioRxiv API base URL.
	// Defaults to https://api.biorxiv.org
	BaseURL string

	// Server selects the preprint server feed ("biorxiv" or "medrxiv").
	// Defaults to "biorxiv".
	Server string

	// Timeout is the request timeout.
	// Defaults to 30 seconds.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	// Defaults to 5 req/sec.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	// Defaults to 5.
	BurstSize int

	// MaxResults is the maximum matching preprints per search.
	// Defaults to DefaultMaxResults.
	MaxResults int

	// WindowDays is the feed window when the caller gives no dates.
	// Defaults to DefaultWindowDays.
	WindowDays int

	// Enabled indicates whether this source is enabled for searches.
	Enabled bool
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Server == "" {
		c.Server = "biorxiv"
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.WindowDays <= 0 {
		c.WindowDays = DefaultWindowDays
	}
}

// Client implements the papersources.PaperSource interface for bioRxiv.
type Client struct {
	config     Config
	httpClient *papersources.HTTPClient
	now        func() time.Time
}

// Compile-time check that Client implements PaperSource.
var _ papersources.PaperSource = (*Client)(nil)

// New creates a new bioRxiv client with the given configuration.
func New(cfg Config) *Client {
	cfg.applyDefaults()

	httpClient := papersources.NewHTTPClient(papersources.HTTPClientConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		BurstSize: cfg.BurstSize,
	})

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// NewWithHTTPClient creates a new bioRxiv client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *papersources.HTTPClient) *Client {
	cfg.applyDefaults()
	return &Client{
		config:     cfg,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Search walks the details feed for the requested date window and returns
// preprints whose title, abstract, or category matches every query term.
// The feed is cursor-paginated in pages of 100; the walk stops once enough
// matches are found, the feed is exhausted, or the page bound is hit.
func (c *Client) Search(ctx context.Context, params papersources.SearchParams) (*papersources.SearchResult, error) {
	if !c.config.Enabled {
		return nil, errors.New("biorxiv source is disabled")
	}

	startTime := time.Now()

	to := c.now().UTC()
	if params.DateTo != nil {
		to = *params.DateTo
	}
	from := to.AddDate(0, 0, -c.config.WindowDays)
	if params.DateFrom != nil {
		from = *params.DateFrom
	}

	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = c.config.MaxResults
	}

	terms := queryTerms(params.Query)

	papers := make([]*domain.PaperRecord, 0, maxResults)
	total := 0

	for page := 0; page < maxFeedPages; page++ {
		cursor := page * feedPageSize
		feed, err := c.fetchFeed(ctx, from, to, cursor)
		if err != nil {
			return nil, fmt.Errorf("details feed failed: %w", err)
		}

		if len(feed.Messages) > 0 {
			total = feed.Messages[0].Total
		}

		for i := range feed.Collection {
			if len(papers) >= maxResults {
				break
			}
			entry := &feed.Collection[i]
			if matches(entry, terms) {
				papers = append(papers, preprintToRecord(entry))
			}
		}

		if len(papers) >= maxResults || len(feed.Collection) < feedPageSize {
			break
		}
	}

	return &papersources.SearchResult{
		Papers:         papers,
		TotalResults:   total,
		Source:         domain.SourceTypeBioRxiv,
		SearchDuration: time.Since(startTime),
	}, nil
}

// GetByID retrieves a preprint by DOI. When multiple versions exist the most
// recent one is returned.
func (c *Client) GetByID(ctx context.Context, id string) (*domain.PaperRecord, error) {
	if !c.config.Enabled {
		return nil, errors.New("biorxiv source is disabled")
	}

	u := fmt.Sprintf("%s/details/%s/%s/na/json", c.config.BaseURL, c.config.Server, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, string(body), nil)
	}

	var details DetailsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&details); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(details.Collection) == 0 {
		return nil, domain.NewNotFoundError("paper", id)
	}

	// The collection lists versions oldest first.
	return preprintToRecord(&details.Collection[len(details.Collection)-1]), nil
}

// SourceType returns the source type identifier.
func (c *Client) SourceType() domain.SourceType {
	return domain.SourceTypeBioRxiv
}

// Name returns the human-readable name for this source.
func (c *Client) Name() string {
	return sourceName
}

// IsEnabled returns whether this source is enabled.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

// fetchFeed retrieves one page of the details feed for the date window.
func (c *Client) fetchFeed(ctx context.Context, from, to time.Time, cursor int) (*DetailsResponse, error) {
	u := fmt.Sprintf("%s/details/%s/%s/%s/%s",
		c.config.BaseURL,
		c.config.Server,
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
		strconv.Itoa(cursor))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewExternalAPIError(sourceName, resp.StatusCode, string(body), nil)
	}

	var details DetailsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&details); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &details, nil
}

// queryTerms splits a query into lowercased terms for local matching.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `"'`)
		if f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}

// matches reports whether every query term occurs in the preprint's title,
// abstract, or category. An empty term list matches everything.
func matches(p *Preprint, terms []string) bool {
	if len(terms) == 0 {
		return true
	}

	haystack := strings.ToLower(p.Title + " " + p.Abstract + " " + p.Category)
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// preprintToRecord converts a feed entry to a domain.PaperRecord.
// The DOI in the feed is versionless; the version travels separately so the
// bibliography can link to the exact content page.
func preprintToRecord(p *Preprint) *domain.PaperRecord {
	return &domain.PaperRecord{
		Identifier:          strings.TrimSpace(p.DOI),
		Title:               strings.TrimSpace(p.Title),
		Abstract:            strings.TrimSpace(p.Abstract),
		Authors:             strings.TrimSpace(p.Authors),
		CorrespondingAuthor: strings.TrimSpace(p.CorrespondingAuthor),
		Institution:         strings.TrimSpace(p.CorrespondingInstitute),
		JournalOrCategory:   strings.TrimSpace(p.Category),
		Date:                strings.TrimSpace(p.Date),
		Version:             strings.TrimSpace(p.Version),
		Source:              domain.SourceTypeBioRxiv,
	}
}
