// Package feed fetches RSS/Atom sources and normalizes their entries
// into Articles with stable content-derived identifiers.
package feed

import (
	"context"
	"crypto/sha1"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/Vicking28/daily-ai-news/internal/textutil"
)

const (
	summaryMaxLen = 500
	fetchTimeout  = 30 * time.Second
)

// Article is one normalized feed entry. Created once per fetch cycle,
// immutable afterwards, never persisted across runs.
type Article struct {
	ID        string
	Source    string
	Title     string
	Link      string
	Published time.Time
	Summary   string
}

// Fetcher retrieves the articles of a single feed source.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]Article, error)
}

// RSSFetcher parses feeds with gofeed.
type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser()}
}

func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]Article, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", feedURL, err)
	}

	source := SourceName(feedURL)
	now := time.Now()
	articles := make([]Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		// Missing or unparseable dates fall back to "now", which sorts
		// such entries near the top. Known edge case, left as-is.
		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}
		desc = textutil.Truncate(textutil.StripHTML(desc), summaryMaxLen)

		articles = append(articles, Article{
			ID:        ArticleID(item.Link, item.Title, source),
			Source:    source,
			Title:     strings.TrimSpace(item.Title),
			Link:      item.Link,
			Published: pub,
			Summary:   desc,
		})
	}
	return articles, nil
}

// ArticleID derives the deterministic id: SHA-1 of the link truncated to
// 16 hex chars, or SHA-1 of title+source when the entry has no link.
func ArticleID(link, title, source string) string {
	input := link
	if input == "" {
		input = title + source
	}
	h := sha1.Sum([]byte(input))
	return fmt.Sprintf("%x", h[:8])
}

// SourceName derives a clean source label from a feed URL's host:
// "https://news.mit.edu/rss" -> "mit", "https://www.openai.com/blog/rss" -> "openai".
func SourceName(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Hostname() == "" {
		return feedURL
	}
	host := strings.ToLower(u.Hostname())

	for changed := true; changed; {
		changed = false
		for _, p := range []string{"www.", "news.", "blog.", "research."} {
			if strings.HasPrefix(host, p) && len(host) > len(p) {
				host = host[len(p):]
				changed = true
			}
		}
	}
	for _, s := range []string{".com", ".org", ".net", ".io", ".ai", ".co", ".dev", ".edu", ".tech", ".news"} {
		if strings.HasSuffix(host, s) && len(host) > len(s) {
			host = host[:len(host)-len(s)]
			break
		}
	}
	return host
}

// FetchAll fans out one fetch per source and waits for all of them.
// A failing source contributes zero articles and is logged; it never
// aborts the batch. The union is sorted by publication date descending.
func FetchAll(ctx context.Context, fetcher Fetcher, feedURLs []string, log *zap.SugaredLogger) []Article {
	var (
		mu       sync.Mutex
		articles []Article
		wg       sync.WaitGroup
	)

	for _, feedURL := range feedURLs {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			fetched, err := fetcher.Fetch(ctx, u)
			if err != nil {
				log.Warnw("feed fetch failed", "feed", u, "error", err)
				return
			}
			mu.Lock()
			articles = append(articles, fetched...)
			mu.Unlock()
		}(feedURL)
	}
	wg.Wait()

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Published.After(articles[j].Published)
	})
	return articles
}
