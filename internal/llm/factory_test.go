package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSummarizer(t *testing.T) {
	t.Parallel()

	t.Run("openai", func(t *testing.T) {
		t.Parallel()
		s, err := NewSummarizer(FactoryConfig{
			Provider: "openai",
			Timeout:  30 * time.Second,
			OpenAI:   OpenAIConfig{APIKey: "k", Model: "gpt-4o"},
		})
		require.NoError(t, err)
		assert.Equal(t, "openai", s.Provider())
		assert.Equal(t, "gpt-4o", s.Model())
	})

	t.Run("anthropic", func(t *testing.T) {
		t.Parallel()
		s, err := NewSummarizer(FactoryConfig{
			Provider:  "anthropic",
			Timeout:   30 * time.Second,
			Anthropic: AnthropicConfig{APIKey: "k", Model: "claude-sonnet-4-20250514"},
		})
		require.NoError(t, err)
		assert.Equal(t, "anthropic", s.Provider())
		assert.Equal(t, "claude-sonnet-4-20250514", s.Model())
	})

	t.Run("retry delay override", func(t *testing.T) {
		t.Parallel()
		s, err := NewSummarizer(FactoryConfig{
			Provider:   "openai",
			RetryDelay: 5 * time.Millisecond,
			OpenAI:     OpenAIConfig{APIKey: "k"},
		})
		require.NoError(t, err)
		assert.Equal(t, 5*time.Millisecond, s.(*OpenAIProvider).retryDelay)
	})

	t.Run("unsupported provider", func(t *testing.T) {
		t.Parallel()
		_, err := NewSummarizer(FactoryConfig{Provider: "llama"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"llama"`)
	})

	t.Run("empty provider", func(t *testing.T) {
		t.Parallel()
		_, err := NewSummarizer(FactoryConfig{})
		require.Error(t, err)
	})
}
