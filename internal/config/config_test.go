package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LITDIGEST_LLM_OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "litdigest", cfg.Metrics.Namespace)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4-turbo", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, 1024, cfg.LLM.MaxOutputTokens)

	assert.True(t, cfg.PaperSources.PubMed.Enabled)
	assert.Equal(t, "https://eutils.ncbi.nlm.nih.gov/entrez/eutils", cfg.PaperSources.PubMed.BaseURL)
	assert.InDelta(t, 3.0, cfg.PaperSources.PubMed.RateLimit, 1e-9)
	assert.Equal(t, "biorxiv", cfg.PaperSources.BioRxiv.Server)
	assert.Equal(t, 30, cfg.PaperSources.BioRxiv.WindowDays)
	assert.Equal(t, "https://api.openalex.org", cfg.PaperSources.OpenAlex.BaseURL)

	assert.Equal(t, 5, cfg.Digest.MaxPapers)
	assert.Equal(t, 250, cfg.Digest.MaxWords)
	assert.Equal(t, 1500, cfg.Digest.AbstractBudget)
	assert.Equal(t, 30, cfg.Digest.DefaultIntervalDays)

	assert.True(t, cfg.AuthorStats.Enabled)
	assert.Empty(t, cfg.AuthorStats.StorePath)
	assert.Empty(t, cfg.Scimago.CSVPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LITDIGEST_LLM_ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("LITDIGEST_LLM_PROVIDER", "anthropic")
	t.Setenv("LITDIGEST_SERVER_HTTP_PORT", "9999")
	t.Setenv("LITDIGEST_DIGEST_MAX_PAPERS", "12")
	t.Setenv("LITDIGEST_PAPER_SOURCES_OPENALEX_EMAIL", "dev@helixir.io")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-ant-test", cfg.LLM.Anthropic.APIKey)
	assert.Equal(t, 9999, cfg.Server.HTTPPort)
	assert.Equal(t, 12, cfg.Digest.MaxPapers)
	assert.Equal(t, "dev@helixir.io", cfg.PaperSources.OpenAlex.Email)
}

func TestLoadMissingAPIKey(t *testing.T) {
	// Provider defaults to openai; without a key validation fails.
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LITDIGEST_LLM_OPENAI_API_KEY")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Host: "0.0.0.0", HTTPPort: 8080},
			Logging: LoggingConfig{Level: "info"},
			LLM: LLMConfig{
				Provider: "openai",
				OpenAI:   OpenAIConfig{APIKey: "sk-test"},
			},
			PaperSources: PaperSourcesConfig{
				BioRxiv: BioRxivSourceConfig{Server: "biorxiv"},
			},
			Digest: DigestConfig{
				MaxPapers:           5,
				MaxWords:            250,
				AbstractBudget:      1500,
				DefaultIntervalDays: 30,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad http port", func(c *Config) { c.Server.HTTPPort = 0 }, "invalid HTTP port"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "invalid log level"},
		{"zero max papers", func(c *Config) { c.Digest.MaxPapers = 0 }, "max_papers"},
		{"zero abstract budget", func(c *Config) { c.Digest.AbstractBudget = 0 }, "abstract_budget"},
		{"bad biorxiv server", func(c *Config) { c.PaperSources.BioRxiv.Server = "chemrxiv" }, "invalid biorxiv server"},
		{"unsupported provider", func(c *Config) { c.LLM.Provider = "llama" }, "unsupported LLM provider"},
		{
			"anthropic without key",
			func(c *Config) { c.LLM.Provider = "anthropic" },
			"LITDIGEST_LLM_ANTHROPIC_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestHTTPAddress(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", HTTPPort: 8080}
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddress())
}
