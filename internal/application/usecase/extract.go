package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tesso57/newsreel/internal/domain/news"
	"golang.org/x/time/rate"
)

// ExtractPoliteDelay is the minimum gap between two article fetches.
const ExtractPoliteDelay = 400 * time.Millisecond

// ArticleExtractor fetches and extracts one article.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (news.ExtractedArticle, error)
}

// NewExtractPacer returns the limiter used between article fetches.
func NewExtractPacer() *rate.Limiter {
	return rate.NewLimiter(rate.Every(ExtractPoliteDelay), 1)
}

// ExtractAll extracts urls one at a time in order. Failures are logged and
// skipped; only a cancelled context stops the batch.
func ExtractAll(ctx context.Context, extractor ArticleExtractor, urls []string, pacer *rate.Limiter, logger *log.Logger) ([]news.ExtractedArticle, error) {
	if logger == nil {
		logger = discardLogger
	}
	out := make([]news.ExtractedArticle, 0, len(urls))
	for _, u := range urls {
		if pacer != nil {
			if err := pacer.Wait(ctx); err != nil {
				return out, err
			}
		} else if err := ctx.Err(); err != nil {
			return out, err
		}

		article, err := extractor.Extract(ctx, u)
		if err != nil {
			logger.Warn("extract failed", "url", u, "err", err)
			continue
		}
		logger.Debug("extracted", "url", article.URL, "title", article.Title, "paywalled", article.IsPaywalled)
		out = append(out, article)
	}
	return out, nil
}

// UniqueURLs returns the distinct item URLs in order, at most limit of them.
// limit <= 0 means no limit.
func UniqueURLs(items []news.ResolvedItem, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	urls := make([]string, 0, len(items))
	for _, item := range items {
		u := strings.TrimSpace(item.URL)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
		if limit > 0 && len(urls) >= limit {
			break
		}
	}
	return urls
}
