package summary

import (
	"fmt"
	"strings"

	"github.com/helixir/literature-digest-service/internal/domain"
)

// Default prompt constraints.
const (
	// DefaultMaxWords is the target word count for the narrative summary.
	DefaultMaxWords = 250

	// DefaultAbstractBudget is the per-paper abstract character budget
	// applied before prompt submission.
	DefaultAbstractBudget = 1500
)

// PromptOptions tunes summary prompt construction.
type PromptOptions struct {
	// MaxWords is the target word count for the summary. Zero means
	// DefaultMaxWords.
	MaxWords int

	// AbstractBudget is the per-paper abstract character budget. Zero means
	// DefaultAbstractBudget.
	AbstractBudget int

	// Interval is an optional label describing the time window the papers
	// were retrieved from (e.g. "the last 30 days").
	Interval string
}

// BuildSummaryPrompt builds the system and user prompts for narrative
// summary generation. The system prompt pins down the citation contract the
// assembly pipeline repairs against; the user prompt carries the topic and
// the paper records with budget-truncated abstracts.
func BuildSummaryPrompt(topic string, papers []*domain.PaperRecord, opts PromptOptions) (systemPrompt, userPrompt string) {
	if opts.MaxWords <= 0 {
		opts.MaxWords = DefaultMaxWords
	}
	if opts.AbstractBudget <= 0 {
		opts.AbstractBudget = DefaultAbstractBudget
	}
	return buildSystemPrompt(opts), buildUserPrompt(topic, papers, opts)
}

// buildSystemPrompt constructs the system-level instructions for the model.
func buildSystemPrompt(opts PromptOptions) string {
	var sb strings.Builder
	sb.WriteString("You are a scientific writer producing a short narrative summary of recent research papers.\n\n")
	sb.WriteString("Rules:\n")
	fmt.Fprintf(&sb, "- Write flowing prose of at most %d words, split into a few paragraphs.\n", opts.MaxWords)
	sb.WriteString("- Wrap every paragraph in <p class=\"summary\">...</p> tags.\n")
	sb.WriteString("- Cite every single paper at least once, inline, using exactly the identifier given for it: (DOI: <identifier>) or (PMID: <identifier>).\n")
	sb.WriteString("- Use only plain inline anchor markup; no lists, no headings, no code fences.\n")
	sb.WriteString("- Do not write a references or bibliography section; it is generated separately.\n")
	return sb.String()
}

// buildUserPrompt constructs the user-level prompt with the topic and papers.
func buildUserPrompt(topic string, papers []*domain.PaperRecord, opts PromptOptions) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\n", topic)
	if opts.Interval != "" {
		fmt.Fprintf(&sb, "Time window: %s\n", opts.Interval)
	}
	fmt.Fprintf(&sb, "\nSummarize the following %d papers, citing each one:\n", len(papers))

	for i, p := range papers {
		id := Normalize(p.Identifier)
		label := CitationLabel(id)
		if label == "" {
			label = "ID"
		}
		fmt.Fprintf(&sb, "\n%d. %s: %s\n", i+1, label, id)
		if p.Title != "" {
			fmt.Fprintf(&sb, "Title: %s\n", p.Title)
		}
		if p.Authors != "" {
			fmt.Fprintf(&sb, "Authors: %s\n", p.Authors)
		}
		if p.JournalOrCategory != "" {
			fmt.Fprintf(&sb, "Journal/category: %s\n", p.JournalOrCategory)
		}
		if p.Date != "" {
			fmt.Fprintf(&sb, "Date: %s\n", p.Date)
		}
		if p.Abstract != "" {
			fmt.Fprintf(&sb, "Abstract: %s\n", TruncateAbstract(p.Abstract, opts.AbstractBudget))
		}
	}
	return sb.String()
}

// TruncateAbstract cuts an abstract to the given character budget, breaking
// at a word boundary where possible. Budgets of zero or less return the
// abstract unchanged.
func TruncateAbstract(abstract string, budget int) string {
	if budget <= 0 {
		return abstract
	}
	runes := []rune(abstract)
	if len(runes) <= budget {
		return abstract
	}
	cut := string(runes[:budget])
	if i := strings.LastIndexByte(cut, ' '); i > budget/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "..."
}
