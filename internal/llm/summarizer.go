// Package llm provides LLM-backed narrative summary generation for the
// Literature Digest Service.
//
// The package defines the Summarizer abstraction and hand-rolled HTTP clients
// for the OpenAI Chat Completions API and the Anthropic Messages API. Prompt
// construction lives in the summary package; this package only transports
// prompts and returns the raw model text.
//
// Example usage:
//
//	summarizer, err := llm.NewSummarizer(cfg)
//	result, err := summarizer.Summarize(ctx, llm.SummaryRequest{
//		SystemPrompt: system,
//		UserPrompt:   user,
//	})
package llm

import "context"

// SummaryRequest contains the prompts for one summary generation call.
type SummaryRequest struct {
	// SystemPrompt carries the writing and citation rules.
	SystemPrompt string

	// UserPrompt carries the topic and the paper records.
	UserPrompt string

	// MaxTokens caps the response length. Zero means the provider default.
	MaxTokens int
}

// SummaryResult contains the generated summary text and call metadata.
type SummaryResult struct {
	// Content is the raw model output. Callers must run it through the
	// summary assembly pipeline before serving it.
	Content string

	// Model is the model that produced the output.
	Model string

	// InputTokens is the number of input tokens used.
	InputTokens int

	// OutputTokens is the number of output tokens used.
	OutputTokens int
}

// Summarizer defines the interface for LLM-based summary generation.
//
// Implementations should handle provider-specific API calls, response parsing,
// and error handling while conforming to this unified interface.
type Summarizer interface {
	// Summarize generates a narrative summary from the given prompts.
	// The context should be used for cancellation and deadline propagation.
	Summarize(ctx context.Context, req SummaryRequest) (*SummaryResult, error)

	// Provider returns the name of the LLM provider (e.g., "openai", "anthropic").
	Provider() string

	// Model returns the model identifier being used.
	Model() string
}
