// Package digest orchestrates one literature digest request: search the
// enabled paper sources for a topic, rank and enrich the results, ask the
// LLM for a narrative summary, and assemble the citation-checked HTML.
package digest

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/literature-digest-service/internal/domain"
	"github.com/helixir/literature-digest-service/internal/llm"
	"github.com/helixir/literature-digest-service/internal/observability"
	"github.com/helixir/literature-digest-service/internal/papersources"
	"github.com/helixir/literature-digest-service/internal/scimago"
	"github.com/helixir/literature-digest-service/internal/summary"
)

// ErrNoPapers indicates that no complete paper records were found for the
// requested topic and interval.
var ErrNoPapers = errors.New("no papers found")

// SourceSearcher fans a search out to the configured paper sources.
// *papersources.Registry satisfies this interface.
type SourceSearcher interface {
	SearchAll(ctx context.Context, params papersources.SearchParams) []papersources.SourceResult
	SearchSources(ctx context.Context, params papersources.SearchParams, types []domain.SourceType) []papersources.SourceResult
}

// StatsProvider resolves an author's mean citedness.
// *authorstats.Cache satisfies this interface.
type StatsProvider interface {
	MeanCitedness(ctx context.Context, author string) (float64, error)
}

// Config tunes the digest pipeline.
type Config struct {
	// MaxPapers is the default number of papers summarized per digest.
	MaxPapers int

	// MaxWords is the target word count for the narrative summary.
	MaxWords int

	// AbstractBudget is the per-paper abstract character budget for prompts.
	AbstractBudget int

	// DefaultIntervalDays is the lookback window when a request carries none.
	DefaultIntervalDays int
}

func (c *Config) applyDefaults() {
	if c.MaxPapers <= 0 {
		c.MaxPapers = 5
	}
	if c.MaxWords <= 0 {
		c.MaxWords = summary.DefaultMaxWords
	}
	if c.AbstractBudget <= 0 {
		c.AbstractBudget = summary.DefaultAbstractBudget
	}
	if c.DefaultIntervalDays <= 0 {
		c.DefaultIntervalDays = 30
	}
}

// Request describes one digest request.
type Request struct {
	// Topic is the search topic.
	Topic string

	// Sources restricts the search to specific sources. Empty means all
	// enabled sources.
	Sources []domain.SourceType

	// MaxPapers overrides the configured paper budget when positive.
	MaxPapers int

	// IntervalDays overrides the configured lookback window when positive.
	IntervalDays int
}

// Digest is the result of one digest request.
type Digest struct {
	// HTML is the trusted summary fragment: paragraphs plus bibliography.
	HTML string

	// PapersFound is the number of complete, deduplicated papers retrieved.
	PapersFound int

	// PapersSummarized is the number of papers sent to the model.
	PapersSummarized int

	// Interval is the human-readable lookback label (e.g. "last 30 days").
	Interval string
}

// Service runs the digest pipeline. It is stateless across requests; every
// call searches, summarizes, and assembles from scratch.
type Service struct {
	searcher   SourceSearcher
	summarizer llm.Summarizer
	assembler  *summary.Assembler
	stats      StatsProvider
	rankings   *scimago.Rankings
	metrics    *observability.Metrics
	logger     zerolog.Logger
	cfg        Config

	now func() time.Time
}

// NewService creates a digest service. stats and rankings may be nil to
// disable author-stat enrichment and journal rank annotations; metrics may
// be nil to disable instrumentation.
func NewService(
	searcher SourceSearcher,
	summarizer llm.Summarizer,
	stats StatsProvider,
	rankings *scimago.Rankings,
	metrics *observability.Metrics,
	logger zerolog.Logger,
	cfg Config,
) *Service {
	cfg.applyDefaults()
	return &Service{
		searcher:   searcher,
		summarizer: summarizer,
		assembler:  summary.NewAssembler(logger),
		stats:      stats,
		rankings:   rankings,
		metrics:    metrics,
		logger:     logger.With().Str("component", "digest").Logger(),
		cfg:        cfg,
		now:        time.Now,
	}
}

// BuildDigest runs the full pipeline for one request.
func (s *Service) BuildDigest(ctx context.Context, req Request) (*Digest, error) {
	start := s.now()
	if s.metrics != nil {
		s.metrics.RecordDigestStarted()
	}

	d, err := s.buildDigest(ctx, req)

	if s.metrics != nil {
		elapsed := s.now().Sub(start).Seconds()
		if err != nil {
			s.metrics.RecordDigestFailed(elapsed)
		} else {
			s.metrics.RecordDigestCompleted(elapsed, d.PapersFound, d.PapersSummarized)
		}
	}
	return d, err
}

func (s *Service) buildDigest(ctx context.Context, req Request) (*Digest, error) {
	intervalDays := req.IntervalDays
	if intervalDays <= 0 {
		intervalDays = s.cfg.DefaultIntervalDays
	}
	maxPapers := req.MaxPapers
	if maxPapers <= 0 {
		maxPapers = s.cfg.MaxPapers
	}
	interval := fmt.Sprintf("last %d days", intervalDays)

	logger := observability.WithDigestContext(s.logger, observability.RequestIDFromContext(ctx), req.Topic)

	to := s.now()
	from := to.AddDate(0, 0, -intervalDays)
	params := papersources.SearchParams{
		Query:    req.Topic,
		DateFrom: &from,
		DateTo:   &to,
	}

	papers, err := s.search(ctx, logger, params, req.Sources)
	if err != nil {
		return nil, err
	}

	papers = dedupe(papers)
	if len(papers) == 0 {
		return nil, fmt.Errorf("%w for topic %q in the %s", ErrNoPapers, req.Topic, interval)
	}
	found := len(papers)

	selected := s.rank(papers, maxPapers)
	s.enrich(ctx, logger, selected)

	systemPrompt, userPrompt := summary.BuildSummaryPrompt(req.Topic, selected, summary.PromptOptions{
		MaxWords:       s.cfg.MaxWords,
		AbstractBudget: s.cfg.AbstractBudget,
		Interval:       interval,
	})

	result, err := s.summarize(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	html, err := s.assembler.Assemble(result.Content, selected, &summary.BiblioMeta{
		PapersFound:      found,
		PapersSummarized: len(selected),
		HasCounts:        true,
		Interval:         interval,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("papers_found", found).
		Int("papers_summarized", len(selected)).
		Str("model", result.Model).
		Msg("digest assembled")

	return &Digest{
		HTML:             html,
		PapersFound:      found,
		PapersSummarized: len(selected),
		Interval:         interval,
	}, nil
}

// search fans out to the sources and collects the complete records. It only
// fails when every source failed; partial source failures are logged and
// tolerated.
func (s *Service) search(ctx context.Context, logger zerolog.Logger, params papersources.SearchParams, sources []domain.SourceType) ([]*domain.PaperRecord, error) {
	var results []papersources.SourceResult
	if len(sources) == 0 {
		results = s.searcher.SearchAll(ctx, params)
	} else {
		results = s.searcher.SearchSources(ctx, params, sources)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no paper sources available")
	}

	var papers []*domain.PaperRecord
	var failures int
	var lastErr error
	for _, r := range results {
		source := string(r.Source)
		if s.metrics != nil {
			s.metrics.RecordSearchStarted(source)
		}
		if r.Error != nil {
			failures++
			lastErr = r.Error
			if s.metrics != nil {
				s.metrics.RecordSearchFailed(source, 0)
			}
			logger.Warn().Err(r.Error).Str("source", source).Msg("source search failed")
			continue
		}
		if s.metrics != nil {
			s.metrics.RecordSearchCompleted(source, len(r.Result.Papers), r.Result.SearchDuration.Seconds())
		}
		for _, p := range r.Result.Papers {
			if p.Complete() {
				papers = append(papers, p)
			}
		}
	}

	if failures == len(results) {
		return nil, fmt.Errorf("all paper sources failed: %w", lastErr)
	}
	return papers, nil
}

// dedupe drops records whose normalized identifier was already seen. The
// first occurrence wins, so source registration order decides which record
// supplies the metadata.
func dedupe(papers []*domain.PaperRecord) []*domain.PaperRecord {
	seen := make(map[string]struct{}, len(papers))
	out := papers[:0:0]
	for _, p := range papers {
		key := summary.Key(p.Identifier)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// rank orders papers by citation stat, highest first, records without a
// stat last, and caps the result to max. Ties are broken randomly so a
// repeated request does not always favor the same papers.
func (s *Service) rank(papers []*domain.PaperRecord, max int) []*domain.PaperRecord {
	ranked := make([]*domain.PaperRecord, len(papers))
	copy(ranked, papers)

	rand.Shuffle(len(ranked), func(i, j int) {
		ranked[i], ranked[j] = ranked[j], ranked[i]
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].CitationStat, ranked[j].CitationStat
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})

	if len(ranked) > max {
		ranked = ranked[:max]
	}
	return ranked
}

// enrich fills in missing citation stats from the author-stat cache and
// annotates journal ranks. Both enrichments are best effort; a failed
// lookup leaves the record as it was.
func (s *Service) enrich(ctx context.Context, logger zerolog.Logger, papers []*domain.PaperRecord) {
	for _, p := range papers {
		if p.JournalRank == nil && p.ISSN != "" {
			if rank, ok := s.rankings.Lookup(p.ISSN); ok {
				r := rank
				p.JournalRank = &r
			}
		}

		if s.stats == nil || p.CitationStat != nil || p.CorrespondingAuthor == "" {
			continue
		}
		v, err := s.stats.MeanCitedness(ctx, p.CorrespondingAuthor)
		switch {
		case err == nil:
			stat := v
			p.CitationStat = &stat
			if s.metrics != nil {
				s.metrics.RecordAuthorStatsLookup("hit")
			}
		case errors.Is(err, domain.ErrNotFound):
			if s.metrics != nil {
				s.metrics.RecordAuthorStatsLookup("miss")
			}
		default:
			if s.metrics != nil {
				s.metrics.RecordAuthorStatsLookup("error")
			}
			logger.Warn().Err(err).Str("author", p.CorrespondingAuthor).Msg("author stats lookup failed")
		}
	}
}

// summarize calls the LLM and records request metrics.
func (s *Service) summarize(ctx context.Context, systemPrompt, userPrompt string) (*llm.SummaryResult, error) {
	start := s.now()
	result, err := s.summarizer.Summarize(ctx, llm.SummaryRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
	})
	elapsed := s.now().Sub(start).Seconds()

	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordLLMRequestFailed(s.summarizer.Provider(), s.summarizer.Model(), llm.ErrorType(err))
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordLLMRequest(s.summarizer.Provider(), result.Model, elapsed, result.InputTokens, result.OutputTokens)
	}
	return result, nil
}
