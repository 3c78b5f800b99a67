package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/helixir/literature-digest-service/internal/digest"
	"github.com/helixir/literature-digest-service/internal/domain"
	"github.com/helixir/literature-digest-service/internal/llm"
	"github.com/helixir/literature-digest-service/internal/observability"
	"github.com/helixir/literature-digest-service/internal/summary"
)

// maxRequestBodySize caps the digest request body at 64 KiB.
const maxRequestBodySize = 64 << 10

type createDigestRequest struct {
	// Topic is the search topic. Required.
	Topic string `json:"topic"`

	// Source restricts the search to one source (pubmed, biorxiv, openalex).
	// Empty means all enabled sources.
	Source string `json:"source,omitempty"`

	// MaxPapers overrides the configured paper budget when positive.
	MaxPapers int `json:"max_papers,omitempty"`

	// Interval is the lookback window in days.
	Interval int `json:"interval,omitempty"`
}

type createDigestResponse struct {
	HTML             string `json:"html"`
	PapersFound      int    `json:"papers_found"`
	PapersSummarized int    `json:"papers_summarized"`
	Interval         string `json:"interval"`
}

// createDigest handles POST /api/v1/digests.
func (s *Server) createDigest(w http.ResponseWriter, r *http.Request) {
	var req createDigestRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if req.MaxPapers < 0 {
		writeError(w, http.StatusBadRequest, "max_papers must not be negative")
		return
	}
	if req.Interval < 0 {
		writeError(w, http.StatusBadRequest, "interval must not be negative")
		return
	}

	sources, err := parseSource(req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger := observability.WithDigestContext(s.logger,
		observability.RequestIDFromContext(r.Context()), req.Topic)

	d, err := s.digests.BuildDigest(r.Context(), digest.Request{
		Topic:        req.Topic,
		Sources:      sources,
		MaxPapers:    req.MaxPapers,
		IntervalDays: req.Interval,
	})
	if err != nil {
		s.writeDigestError(w, logger, err)
		return
	}

	writeJSON(w, http.StatusOK, createDigestResponse{
		HTML:             d.HTML,
		PapersFound:      d.PapersFound,
		PapersSummarized: d.PapersSummarized,
		Interval:         d.Interval,
	})
}

// writeDigestError maps pipeline errors to HTTP status codes.
func (s *Server) writeDigestError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, digest.ErrNoPapers):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, summary.ErrEmptyOutput):
		logger.Error().Err(err).Msg("digest failed")
		writeError(w, http.StatusBadGateway, "summary generation produced no output")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "digest request timed out")
	case errors.Is(err, context.Canceled):
		// Nginx's non-standard 499 Client Closed Request.
		writeError(w, 499, "request cancelled")
	default:
		logger.Error().Err(err).Msg("digest failed")
		var apiErr *llm.APIError
		var extErr *domain.ExternalAPIError
		if errors.As(err, &apiErr) || errors.As(err, &extErr) {
			writeError(w, http.StatusBadGateway, "upstream service error")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseSource converts the request's source field to source types.
func parseSource(source string) ([]domain.SourceType, error) {
	source = strings.ToLower(strings.TrimSpace(source))
	switch source {
	case "":
		return nil, nil
	case string(domain.SourceTypePubMed):
		return []domain.SourceType{domain.SourceTypePubMed}, nil
	case string(domain.SourceTypeBioRxiv):
		return []domain.SourceType{domain.SourceTypeBioRxiv}, nil
	case string(domain.SourceTypeOpenAlex):
		return []domain.SourceType{domain.SourceTypeOpenAlex}, nil
	default:
		return nil, errors.New("unknown source: " + source)
	}
}
