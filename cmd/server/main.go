// Package main provides the entry point for the literature digest service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/helixir/literature-digest-service/internal/authorstats"
	"github.com/helixir/literature-digest-service/internal/config"
	"github.com/helixir/literature-digest-service/internal/digest"
	"github.com/helixir/literature-digest-service/internal/llm"
	"github.com/helixir/literature-digest-service/internal/observability"
	"github.com/helixir/literature-digest-service/internal/papersources"
	"github.com/helixir/literature-digest-service/internal/papersources/biorxiv"
	"github.com/helixir/literature-digest-service/internal/papersources/openalex"
	"github.com/helixir/literature-digest-service/internal/papersources/pubmed"
	"github.com/helixir/literature-digest-service/internal/scimago"
	httpserver "github.com/helixir/literature-digest-service/internal/server/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("literature-digest-service starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up metrics.
	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	}

	// Register paper sources.
	registry := papersources.NewRegistry()

	registry.Register(pubmed.New(pubmed.Config{
		Enabled:    cfg.PaperSources.PubMed.Enabled,
		BaseURL:    cfg.PaperSources.PubMed.BaseURL,
		APIKey:     cfg.PaperSources.PubMed.APIKey,
		Timeout:    cfg.PaperSources.PubMed.Timeout,
		RateLimit:  cfg.PaperSources.PubMed.RateLimit,
		MaxResults: cfg.PaperSources.PubMed.MaxResults,
	}))
	registry.Register(biorxiv.New(biorxiv.Config{
		Enabled:    cfg.PaperSources.BioRxiv.Enabled,
		BaseURL:    cfg.PaperSources.BioRxiv.BaseURL,
		Server:     cfg.PaperSources.BioRxiv.Server,
		Timeout:    cfg.PaperSources.BioRxiv.Timeout,
		RateLimit:  cfg.PaperSources.BioRxiv.RateLimit,
		MaxResults: cfg.PaperSources.BioRxiv.MaxResults,
		WindowDays: cfg.PaperSources.BioRxiv.WindowDays,
	}))
	openalexClient := openalex.New(openalex.Config{
		Enabled:    cfg.PaperSources.OpenAlex.Enabled,
		BaseURL:    cfg.PaperSources.OpenAlex.BaseURL,
		Email:      cfg.PaperSources.OpenAlex.Email,
		Timeout:    cfg.PaperSources.OpenAlex.Timeout,
		RateLimit:  cfg.PaperSources.OpenAlex.RateLimit,
		MaxResults: cfg.PaperSources.OpenAlex.MaxResults,
	})
	registry.Register(openalexClient)

	for _, source := range registry.EnabledSources() {
		logger.Info().Str("source", source.Name()).Msg("paper source enabled")
	}

	// Create the LLM summarizer.
	summarizer, err := llm.NewSummarizer(llm.FactoryConfig{
		Provider:    cfg.LLM.Provider,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		MaxRetries:  cfg.LLM.MaxRetries,
		RetryDelay:  cfg.LLM.RetryDelay,
		OpenAI: llm.OpenAIConfig{
			APIKey:  cfg.LLM.OpenAI.APIKey,
			Model:   cfg.LLM.OpenAI.Model,
			BaseURL: cfg.LLM.OpenAI.BaseURL,
		},
		Anthropic: llm.AnthropicConfig{
			APIKey:  cfg.LLM.Anthropic.APIKey,
			Model:   cfg.LLM.Anthropic.Model,
			BaseURL: cfg.LLM.Anthropic.BaseURL,
		},
	})
	if err != nil {
		return fmt.Errorf("create summarizer: %w", err)
	}
	logger.Info().
		Str("provider", summarizer.Provider()).
		Str("model", summarizer.Model()).
		Msg("LLM summarizer ready")

	// Set up the author-stat cache.
	var stats digest.StatsProvider
	if cfg.AuthorStats.Enabled {
		var store authorstats.Store
		if cfg.AuthorStats.StorePath != "" {
			sqliteStore, err := authorstats.OpenSQLite(cfg.AuthorStats.StorePath)
			if err != nil {
				return fmt.Errorf("open author stats store: %w", err)
			}
			defer sqliteStore.Close()
			store = sqliteStore
			logger.Info().Str("path", cfg.AuthorStats.StorePath).Msg("author stats store opened")
		} else {
			store = authorstats.NewMemoryStore()
		}
		stats = authorstats.NewCache(store, openalexClient, logger)
	}

	// Load journal rank data if configured.
	var rankings *scimago.Rankings
	if cfg.Scimago.CSVPath != "" {
		rankings, err = scimago.LoadFile(cfg.Scimago.CSVPath)
		if err != nil {
			return fmt.Errorf("load scimago csv: %w", err)
		}
		logger.Info().Int("issns", rankings.Len()).Msg("journal rank data loaded")
	}

	// Build the digest service.
	digests := digest.NewService(registry, summarizer, stats, rankings, metrics, logger, digest.Config{
		MaxPapers:           cfg.Digest.MaxPapers,
		MaxWords:            cfg.Digest.MaxWords,
		AbstractBudget:      cfg.Digest.AbstractBudget,
		DefaultIntervalDays: cfg.Digest.DefaultIntervalDays,
	})

	// Create the HTTP server.
	httpSrv := httpserver.NewServer(httpserver.Config{
		Address:         cfg.Server.HTTPAddress(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsPath:     cfg.Metrics.Path,
	}, digests, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info().
		Str("http_address", cfg.Server.HTTPAddress()).
		Msg("literature-digest-service is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logger.Info().Msg("literature-digest-service shutdown complete")
	return nil
}
