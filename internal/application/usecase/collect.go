// Package usecase contains application-level services.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tesso57/newsreel/internal/domain/news"
	"github.com/tesso57/newsreel/internal/domain/subscription"
	"golang.org/x/time/rate"
)

// FeedPoliteDelay is the minimum gap between two feed fetches.
const FeedPoliteDelay = 120 * time.Millisecond

// ErrInvalidCollectOptions is returned for a non-positive cap or window.
var ErrInvalidCollectOptions = errors.New("invalid collect options")

var (
	htmlTag       = regexp.MustCompile(`<[^>]+>`)
	discardLogger = log.New(io.Discard)
)

// FeedFetcher fetches and parses one feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (news.Feed, error)
}

// TimestampResolver finds the publish time of an article page.
type TimestampResolver interface {
	Resolve(ctx context.Context, url string) (time.Time, bool)
}

// CollectOptions controls one collection pass.
type CollectOptions struct {
	MaxPerTopic              int
	Window                   time.Duration
	ResolveMissingTimestamps bool
}

// CollectReport counts what happened during a pass.
type CollectReport struct {
	FeedsFetched       int
	FeedsFailed        int
	SkippedNoTitle     int
	SkippedDuplicate   int
	SkippedNoTimestamp int
	SkippedOutOfWindow int
	ResolvedFromPage   int
	EmptyTopics        []string
}

// CollectResult is the outcome of Collect.
type CollectResult struct {
	Items  []news.ResolvedItem
	Report CollectReport
}

// Collector turns topic feed lists into fresh, deduplicated items.
type Collector struct {
	Feeds    FeedFetcher
	Resolver TimestampResolver
	// Pacer spaces out feed fetches. Nil disables the delay.
	Pacer  *rate.Limiter
	Now    func() time.Time
	Logger *log.Logger
}

// NewCollector constructs a Collector with the default polite delay between feeds.
func NewCollector(feeds FeedFetcher, resolver TimestampResolver, logger *log.Logger) *Collector {
	return new(Collector{
		Feeds:    feeds,
		Resolver: resolver,
		Pacer:    rate.NewLimiter(rate.Every(FeedPoliteDelay), 1),
		Now:      time.Now,
		Logger:   logger,
	})
}

// Collect runs one pass over topics in order. Feed and entry failures are
// logged and skipped; only bad options or a cancelled context return an error.
func (c *Collector) Collect(ctx context.Context, topics []subscription.Topic, opts CollectOptions) (CollectResult, error) {
	if opts.MaxPerTopic <= 0 || opts.Window <= 0 {
		return CollectResult{}, fmt.Errorf("%w: max per topic %d, window %s", ErrInvalidCollectOptions, opts.MaxPerTopic, opts.Window)
	}
	if c.Feeds == nil {
		return CollectResult{}, errors.New("feed fetcher is not configured")
	}

	nowIST := c.now().UTC().In(news.IST)
	threshold := nowIST.Add(-opts.Window)
	c.logger().Info("collecting", "topics", len(topics), "now_ist", nowIST.Format(time.RFC3339), "threshold_ist", threshold.Format(time.RFC3339))

	var result CollectResult
	for _, topic := range topics {
		kept, err := c.collectTopic(ctx, topic, opts, nowIST, threshold, &result.Report)
		result.Items = append(result.Items, kept...)
		if err != nil {
			return result, err
		}
		if len(kept) == 0 {
			result.Report.EmptyTopics = append(result.Report.EmptyTopics, topic.Name)
			c.logger().Warn("no fresh items for topic", "topic", topic.Name, "feeds", len(topic.Feeds))
		}
	}
	c.logger().Info("collected", "items", len(result.Items))
	return result, nil
}

func (c *Collector) collectTopic(ctx context.Context, topic subscription.Topic, opts CollectOptions, nowIST, threshold time.Time, report *CollectReport) ([]news.ResolvedItem, error) {
	kept := make([]news.ResolvedItem, 0, opts.MaxPerTopic)
	keptTitles := make(map[string]struct{})

	for _, feedURL := range topic.Feeds {
		if len(kept) >= opts.MaxPerTopic {
			break
		}
		if feedURL == "" {
			continue
		}
		if err := c.pace(ctx); err != nil {
			return kept, err
		}

		feed, err := c.Feeds.Fetch(ctx, feedURL)
		if err != nil {
			report.FeedsFailed++
			c.logger().Warn("feed fetch failed", "topic", topic.Name, "feed", feedURL, "err", err)
			continue
		}
		report.FeedsFetched++
		if len(feed.Entries) == 0 {
			c.logger().Warn("empty feed", "topic", topic.Name, "feed", feedURL)
			continue
		}

		for _, entry := range feed.Entries {
			if len(kept) >= opts.MaxPerTopic {
				break
			}
			title := strings.TrimSpace(entry.Title)
			if title == "" {
				report.SkippedNoTitle++
				continue
			}
			key := news.TitleKey(title)
			// Only kept titles block later copies.
			if _, dup := keptTitles[key]; dup {
				report.SkippedDuplicate++
				continue
			}

			link := strings.TrimSpace(entry.Link)
			ts, ok := EntryTimestamp(entry)
			if !ok && opts.ResolveMissingTimestamps && link != "" && c.Resolver != nil {
				if ts, ok = c.Resolver.Resolve(ctx, link); ok {
					report.ResolvedFromPage++
				}
			}
			if !ok {
				report.SkippedNoTimestamp++
				c.logger().Debug("skip: no timestamp", "title", title, "url", link)
				continue
			}

			ist := ts.In(news.IST)
			if ist.Before(threshold) || ist.After(nowIST) {
				report.SkippedOutOfWindow++
				c.logger().Debug("skip: outside window", "title", title, "news_ist", ist.Format(time.RFC3339))
				continue
			}

			kept = append(kept, news.ResolvedItem{
				Interest: topic.Name,
				Title:    title,
				Excerpt:  StripTags(entry.Summary),
				NewsTime: ts.UTC(),
				URL:      link,
				Source:   itemSource(feed.Title, link, topic.Name),
			})
			keptTitles[key] = struct{}{}
			c.logger().Debug("keep", "topic", topic.Name, "title", title, "news_ist", ist.Format(time.RFC3339))
		}
	}

	slices.SortStableFunc(kept, func(a, b news.ResolvedItem) int {
		return b.NewsTime.Compare(a.NewsTime)
	})
	if len(kept) > opts.MaxPerTopic {
		kept = kept[:opts.MaxPerTopic]
	}
	return kept, nil
}

// EntryTimestamp returns the first feed-native timestamp that parses, in the
// order Published, PublishedParsed, Updated, UpdatedParsed, PubDate.
func EntryTimestamp(e news.RawEntry) (time.Time, bool) {
	candidates := []func() (time.Time, bool){
		func() (time.Time, bool) { return news.ParseTimestamp(e.Published) },
		func() (time.Time, bool) { return parsedTime(e.PublishedParsed) },
		func() (time.Time, bool) { return news.ParseTimestamp(e.Updated) },
		func() (time.Time, bool) { return parsedTime(e.UpdatedParsed) },
		func() (time.Time, bool) { return news.ParseTimestamp(e.PubDate) },
	}
	for _, candidate := range candidates {
		if t, ok := candidate(); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parsedTime(t *time.Time) (time.Time, bool) {
	if t == nil || t.IsZero() {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// StripTags removes markup from a feed summary.
func StripTags(s string) string {
	return strings.TrimSpace(htmlTag.ReplaceAllString(strings.TrimSpace(s), ""))
}

func itemSource(feedTitle, link, topic string) string {
	if title := strings.TrimSpace(feedTitle); title != "" {
		return title
	}
	if u, err := url.Parse(link); err == nil && u.Host != "" {
		return u.Host
	}
	return topic
}

func (c *Collector) pace(ctx context.Context) error {
	if c.Pacer == nil {
		return ctx.Err()
	}
	return c.Pacer.Wait(ctx)
}

func (c *Collector) now() time.Time {
	if c != nil && c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Collector) logger() *log.Logger {
	if c != nil && c.Logger != nil {
		return c.Logger
	}
	return discardLogger
}
