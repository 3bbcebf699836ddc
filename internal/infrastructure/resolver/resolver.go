// Package resolver recovers publish timestamps for feed entries that lack one
// by fetching the article page.
package resolver

import (
	"bytes"
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/tesso57/newsreel/internal/infrastructure/pagetime"
	"github.com/tesso57/newsreel/internal/infrastructure/web"
)

// PageGetter fetches a page body.
type PageGetter interface {
	Get(ctx context.Context, url string) (web.Page, error)
}

// Resolver implements usecase.TimestampResolver.
type Resolver struct {
	Web    PageGetter
	Logger *log.Logger
}

// New creates a Resolver.
func New(getter PageGetter, logger *log.Logger) *Resolver {
	return &Resolver{Web: getter, Logger: logger}
}

// Resolve fetches url and returns its best-effort publish time in UTC.
// Any failure is reported as not found; nothing is retried.
func (r *Resolver) Resolve(ctx context.Context, url string) (time.Time, bool) {
	if r == nil || r.Web == nil || url == "" {
		return time.Time{}, false
	}
	page, err := r.Web.Get(ctx, url)
	if err != nil {
		r.debug("timestamp fetch failed", "url", url, "err", err)
		return time.Time{}, false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		r.debug("timestamp page parse failed", "url", url, "err", err)
		return time.Time{}, false
	}
	t, ok := pagetime.Published(doc)
	if !ok {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func (r *Resolver) debug(msg string, keyvals ...any) {
	if r.Logger != nil {
		r.Logger.Debug(msg, keyvals...)
	}
}
