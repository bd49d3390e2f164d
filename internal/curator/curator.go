// Package curator implements two-pass article selection: a batched
// AI-relevance filter (Pass A), two-key deduplication, then a single
// ranking oracle call picking the top stories (Pass B).
package curator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Vicking28/daily-ai-news/internal/ai"
	"github.com/Vicking28/daily-ai-news/internal/feed"
	"github.com/Vicking28/daily-ai-news/internal/textutil"
)

const (
	batchSize        = 100
	minSelectionWarn = 5

	// DefaultMaxStories is the top-N target when the caller does not
	// override it.
	DefaultMaxStories = 12
)

// ErrNoRelevantArticles means Pass A filtered everything out; there is
// nothing to build a script from.
var ErrNoRelevantArticles = errors.New("no AI-relevant articles found")

// Curator selects the day's stories. A nil oracle client degrades
// Pass A to a static keyword filter; Pass B always requires the oracle.
type Curator struct {
	client ai.Client
	log    *zap.SugaredLogger
}

func New(client ai.Client, log *zap.SugaredLogger) *Curator {
	return &Curator{client: client, log: log}
}

// Curate runs the full selection: relevance filter, dedup, ranking.
// The result is at most maxCount articles in the oracle's ranked order,
// always a subset of the input set.
func (c *Curator) Curate(ctx context.Context, articles []feed.Article, maxCount int) ([]feed.Article, error) {
	if maxCount <= 0 {
		maxCount = DefaultMaxStories
	}

	relevant, err := c.filterRelevant(ctx, articles)
	if err != nil {
		return nil, err
	}
	if len(relevant) == 0 {
		return nil, ErrNoRelevantArticles
	}

	deduped := Dedup(relevant)
	c.log.Infow("curation candidates",
		"fetched", len(articles), "relevant", len(relevant), "deduped", len(deduped))

	return c.rank(ctx, deduped, maxCount)
}

// --- Pass A: relevance filter ---

type relevanceResponse struct {
	RelevantIDs []string `json:"relevantIds"`
}

// filterRelevant keeps the AI-relevant articles. With an oracle the set
// is partitioned into fixed-size batches processed strictly one after
// another; a failed batch is skipped, its articles silently excluded.
func (c *Curator) filterRelevant(ctx context.Context, articles []feed.Article) ([]feed.Article, error) {
	if c.client == nil {
		return keywordFilter(articles), nil
	}

	keep := make(map[string]bool)
	for start := 0; start < len(articles); start += batchSize {
		end := start + batchSize
		if end > len(articles) {
			end = len(articles)
		}
		batch := articles[start:end]

		ids, err := c.classifyBatch(ctx, batch)
		if err != nil {
			c.log.Warnw("relevance batch failed, skipping",
				"batch_start", start, "batch_size", len(batch), "error", err)
			continue
		}
		for _, id := range ids {
			keep[id] = true
		}
	}

	var relevant []feed.Article
	for _, a := range articles {
		if keep[a.ID] {
			relevant = append(relevant, a)
		}
	}
	return relevant, nil
}

const relevanceSystemPrompt = `You are a news classifier for a daily AI podcast. Given a list of articles, identify which ones are genuinely about artificial intelligence, machine learning, or AI industry news. Exclude generic tech news that merely mentions AI in passing.

Respond with ONLY a JSON object of this exact shape:
{"relevantIds": ["id1", "id2"]}`

func (c *Curator) classifyBatch(ctx context.Context, batch []feed.Article) ([]string, error) {
	var sb strings.Builder
	for _, a := range batch {
		fmt.Fprintf(&sb, "id:%s | %s | %s\n", a.ID,
			textutil.Truncate(a.Title, 120), textutil.Truncate(a.Summary, 200))
	}

	text, err := c.client.Complete(ctx, ai.Request{
		System:    relevanceSystemPrompt,
		User:      sb.String(),
		MaxTokens: 2048,
	})
	if err != nil {
		return nil, err
	}

	var resp relevanceResponse
	if err := ai.DecodeJSON(text, &resp); err != nil {
		return nil, err
	}
	if resp.RelevantIDs == nil {
		return nil, fmt.Errorf("relevance response missing relevantIds")
	}

	// Ignore ids the oracle invented.
	known := make(map[string]bool, len(batch))
	for _, a := range batch {
		known[a.ID] = true
	}
	var ids []string
	for _, id := range resp.RelevantIDs {
		if known[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// aiVocabulary backs the static fallback filter used when no oracle is
// configured. Case-insensitive substring match over title+summary.
var aiVocabulary = []string{
	"artificial intelligence", " ai ", "machine learning", "deep learning",
	"neural", "llm", "large language model", "gpt", "chatgpt", "openai",
	"anthropic", "claude", "gemini", "deepmind", "mistral", "transformer",
	"inference", "model training", "embedding", "diffusion",
	"reinforcement learning", "nlp", "computer vision", "pytorch",
	"tensorflow", "generative", "copilot", "agentic", " agent",
}

func keywordFilter(articles []feed.Article) []feed.Article {
	var relevant []feed.Article
	for _, a := range articles {
		text := " " + strings.ToLower(a.Title+" "+a.Summary) + " "
		for _, kw := range aiVocabulary {
			if strings.Contains(text, kw) {
				relevant = append(relevant, a)
				break
			}
		}
	}
	return relevant
}

// --- Deduplication ---

// Dedup collapses duplicates in two passes: exact link first, then
// normalized title key, which catches the same story republished on a
// different URL. First occurrence wins; order is preserved.
func Dedup(articles []feed.Article) []feed.Article {
	seenLink := make(map[string]bool)
	seenTitle := make(map[string]bool)

	out := make([]feed.Article, 0, len(articles))
	for _, a := range articles {
		if a.Link != "" {
			if seenLink[a.Link] {
				continue
			}
			seenLink[a.Link] = true
		}
		if key := textutil.TitleKey(a.Title); key != "" {
			if seenTitle[key] {
				continue
			}
			seenTitle[key] = true
		}
		out = append(out, a)
	}
	return out
}

// --- Pass B: ranking ---

type rankingResponse struct {
	SelectedIDs []string `json:"selectedIds"`
}

const rankingSystemPrompt = `You are the editor of a daily AI news podcast. From the candidate articles, select and rank the stories worth covering today. Prefer recent news, high-impact announcements and research. If several candidates cover the same event, pick only the best one.

Respond with ONLY a JSON object of this exact shape, most important story first:
{"selectedIds": ["id1", "id2"]}`

// rank invokes the ranking oracle once. Unlike Pass A there is no safe
// partial result here: any oracle or decode failure is fatal.
func (c *Curator) rank(ctx context.Context, candidates []feed.Article, maxCount int) ([]feed.Article, error) {
	if c.client == nil {
		return nil, fmt.Errorf("ranking requires an AI oracle, none configured")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Select up to %d stories.\n\n", maxCount)
	for _, a := range candidates {
		fmt.Fprintf(&sb, "id:%s | %s | %s | %s | %s\n", a.ID, a.Source,
			textutil.Truncate(a.Title, 120), textutil.Truncate(a.Summary, 200),
			a.Published.Format("Jan 2"))
	}

	text, err := c.client.Complete(ctx, ai.Request{
		System:    rankingSystemPrompt,
		User:      sb.String(),
		MaxTokens: 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("ranking oracle: %w", err)
	}

	var resp rankingResponse
	if err := ai.DecodeJSON(text, &resp); err != nil {
		return nil, fmt.Errorf("ranking oracle: %w", err)
	}

	byID := make(map[string]feed.Article, len(candidates))
	for _, a := range candidates {
		byID[a.ID] = a
	}

	// Subset contract: drop fabricated ids, cap at maxCount even when
	// the oracle over-returns.
	var selected []feed.Article
	for _, id := range resp.SelectedIDs {
		a, ok := byID[id]
		if !ok {
			c.log.Warnw("ranking returned unknown id", "id", id)
			continue
		}
		selected = append(selected, a)
		if len(selected) == maxCount {
			break
		}
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("ranking oracle selected no valid articles")
	}
	if len(selected) < minSelectionWarn {
		c.log.Warnw("ranking selected fewer stories than expected", "count", len(selected))
	}
	return selected, nil
}
