// Package script turns the curated article list into a spoken-word
// podcast script via the text-generation oracle.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Vicking28/daily-ai-news/internal/ai"
	"github.com/Vicking28/daily-ai-news/internal/feed"
)

// ErrNoArticles means the curated list was empty; the oracle is never
// called in that case.
var ErrNoArticles = errors.New("no articles to script")

// Timezone the episode date is rendered in.
const timezone = "Europe/Budapest"

const (
	openingTemplate = "Welcome to Daily AI News, your artificial intelligence briefing for %s."
	closingSentence = "That's a wrap for today's AI news."
)

// Generator builds the generation prompt and validates the result.
type Generator struct {
	client ai.Client
	log    *zap.SugaredLogger
	loc    *time.Location
	now    func() time.Time
}

func New(client ai.Client, log *zap.SugaredLogger) (*Generator, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %s: %w", timezone, err)
	}
	return &Generator{client: client, log: log, loc: loc, now: time.Now}, nil
}

// EpisodeDate is the current time in the podcast timezone.
func (g *Generator) EpisodeDate() time.Time {
	return g.now().In(g.loc)
}

// DateLabel is the episode date, month and day only, in the podcast
// timezone.
func (g *Generator) DateLabel() string {
	return g.EpisodeDate().Format("January 2")
}

// Generate produces the episode script. Empty input and empty oracle
// output are both fatal. The fixed opening sentence is enforced on the
// result, not just requested in the prompt.
func (g *Generator) Generate(ctx context.Context, articles []feed.Article) (string, error) {
	if len(articles) == 0 {
		return "", ErrNoArticles
	}

	dateLabel := g.DateLabel()
	opening := fmt.Sprintf(openingTemplate, dateLabel)

	text, err := g.client.Complete(ctx, ai.Request{
		System:      systemPrompt,
		User:        buildPrompt(articles, opening),
		MaxTokens:   4096,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("script oracle: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("script oracle returned no content")
	}
	if !strings.HasPrefix(text, opening) {
		g.log.Warnw("script missing templated opening, prepending", "date", dateLabel)
		text = opening + " " + text
	}

	g.log.Infow("script generated", "words", len(strings.Fields(text)), "stories", len(articles))
	return text, nil
}

const systemPrompt = `You are the writer of a daily AI news podcast. Write a natural spoken-word script, plain text only: no headings, no markdown, no stage directions, no host names. The script is read aloud by a single voice exactly as written.

Hard requirements:
- Open with the exact opening sentence provided, verbatim, as the first sentence.
- Cover each story in flowing prose, connecting them with natural transitions.
- Never cover the same event twice, even if two articles describe it.
- Target 800 to 1000 words total, about five to seven minutes of speech.
- Close with the exact wrap-up sentence provided, followed by a one- or two-sentence recap of the day's highlights.`

func buildPrompt(articles []feed.Article, opening string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Opening sentence (use verbatim):\n%s\n\n", opening)
	fmt.Fprintf(&sb, "Wrap-up sentence (use verbatim before the recap):\n%s\n\n", closingSentence)
	fmt.Fprintf(&sb, "Today's %d stories:\n\n", len(articles))
	for i, a := range articles {
		fmt.Fprintf(&sb, "%d. %s (%s)\n%s\n\n", i+1, a.Title, a.Source, a.Summary)
	}
	return sb.String()
}
