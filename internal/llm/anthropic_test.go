package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicMessagesResponse(text string) messagesResponse {
	return messagesResponse{
		ID:    "msg_123",
		Type:  "message",
		Role:  "assistant",
		Model: "claude-sonnet-4-20250514",
		Content: []contentBlock{
			{Type: "text", Text: text},
		},
		StopReason: "end_turn",
		Usage:      anthropicUsage{InputTokens: 300, OutputTokens: 150},
	}
}

func TestAnthropicSummarizeSuccess(t *testing.T) {
	t.Parallel()

	var gotReq messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicAPIVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(anthropicMessagesResponse(`<p class="summary">Text.</p>`)))
	}))
	t.Cleanup(srv.Close)

	p := NewAnthropicProvider(AnthropicConfig{
		APIKey:  "test-key",
		Model:   "claude-sonnet-4-20250514",
		BaseURL: srv.URL,
	}, 0.2, 5*time.Second, 0)

	result, err := p.Summarize(context.Background(), SummaryRequest{
		SystemPrompt: "rules",
		UserPrompt:   "papers",
		MaxTokens:    4096,
	})
	require.NoError(t, err)

	assert.Equal(t, `<p class="summary">Text.</p>`, result.Content)
	assert.Equal(t, "claude-sonnet-4-20250514", result.Model)
	assert.Equal(t, 300, result.InputTokens)
	assert.Equal(t, 150, result.OutputTokens)

	assert.Equal(t, "rules", gotReq.System)
	assert.Equal(t, 4096, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "papers", gotReq.Messages[0].Content)
}

func TestAnthropicSummarizeSkipsNonTextBlocks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := anthropicMessagesResponse("the text")
		resp.Content = append([]contentBlock{{Type: "thinking"}}, resp.Content...)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)

	p := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "m", BaseURL: srv.URL}, 0, 5*time.Second, 0)

	result, err := p.Summarize(context.Background(), SummaryRequest{UserPrompt: "u"})
	require.NoError(t, err)
	assert.Equal(t, "the text", result.Content)
}

func TestAnthropicSummarizeNoContentBlocks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := anthropicMessagesResponse("")
		resp.Content = nil
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)

	p := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "m", BaseURL: srv.URL}, 0, 5*time.Second, 0)

	_, err := p.Summarize(context.Background(), SummaryRequest{UserPrompt: "u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content blocks")
}

func TestAnthropicSummarizeRetriesOn429(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(anthropicMessagesResponse("ok")))
	}))
	t.Cleanup(srv.Close)

	p := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "m", BaseURL: srv.URL}, 0, 5*time.Second, 2)
	p.retryDelay = time.Millisecond

	result, err := p.Summarize(context.Background(), SummaryRequest{UserPrompt: "u"})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAnthropicSummarizePermanentErrorDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"max_tokens required"}}`))
	}))
	t.Cleanup(srv.Close)

	p := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "m", BaseURL: srv.URL}, 0, 5*time.Second, 3)

	_, err := p.Summarize(context.Background(), SummaryRequest{UserPrompt: "u"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "anthropic", apiErr.Provider)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid_request_error", apiErr.Type)
	assert.Equal(t, "max_tokens required", apiErr.Message)
	assert.False(t, apiErr.IsTransient())
}
