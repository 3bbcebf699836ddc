// Package feed provides functionality to fetch and parse RSS/Atom feeds.
package feed

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/tesso57/newsreel/internal/domain/news"
	"github.com/tesso57/newsreel/internal/infrastructure/web"
)

const (
	feedAcceptHeader = "application/atom+xml, application/rss+xml, application/feed+json, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5"

	// DefaultTimeout bounds a single feed fetch.
	DefaultTimeout = 6 * time.Second
)

// ParserFunc is exposed for testing.
// It allows mocking the feed parsing logic.
var ParserFunc = defaultParser

func defaultParser(ctx context.Context, url string) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = web.DefaultUserAgent
	fp.Client = &http.Client{Transport: web.NewTransport(http.DefaultTransport, web.DefaultUserAgent, feedAcceptHeader)}
	return fp.ParseURLWithContext(url, ctx)
}

// Fetcher fetches and decodes feeds.
type Fetcher struct {
	Timeout time.Duration
}

// NewFetcher creates a Fetcher with the given per-feed timeout.
func NewFetcher(timeout time.Duration) Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return Fetcher{Timeout: timeout}
}

// Fetch implements usecase.FeedFetcher.
func (f Fetcher) Fetch(ctx context.Context, url string) (news.Feed, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return FetchWithContext(ctx, url)
}

// FetchWithContext parses the feed at url and maps its entries.
func FetchWithContext(ctx context.Context, url string) (news.Feed, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return news.Feed{}, errors.New("feed url is empty")
	}
	parsed, err := ParserFunc(ctx, url)
	if err != nil {
		return news.Feed{}, err
	}
	if parsed == nil {
		return news.Feed{}, errors.New("feed parser returned no feed")
	}

	out := news.Feed{
		Title:   strings.TrimSpace(parsed.Title),
		URL:     url,
		Entries: make([]news.RawEntry, 0, len(parsed.Items)),
	}
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		out.Entries = append(out.Entries, toEntry(item))
	}
	return out, nil
}

func toEntry(item *gofeed.Item) news.RawEntry {
	summary := item.Description
	if strings.TrimSpace(summary) == "" {
		summary = item.Content
	}
	entry := news.RawEntry{
		Title:           item.Title,
		Link:            strings.TrimSpace(item.Link),
		Summary:         summary,
		Published:       item.Published,
		PublishedParsed: item.PublishedParsed,
		Updated:         item.Updated,
		UpdatedParsed:   item.UpdatedParsed,
	}
	if item.Custom != nil {
		entry.PubDate = item.Custom["pubDate"]
		if entry.PubDate == "" {
			entry.PubDate = item.Custom["pubdate"]
		}
	}
	return entry
}
