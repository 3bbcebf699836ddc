// Package extract pulls the readable body, lead and metadata out of news article pages.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/tesso57/newsreel/internal/domain/news"
	"github.com/tesso57/newsreel/internal/infrastructure/pagetime"
	"github.com/tesso57/newsreel/internal/infrastructure/web"
)

// PageGetter fetches a page body.
type PageGetter interface {
	Get(ctx context.Context, url string) (web.Page, error)
}

// Extractor implements usecase.ArticleExtractor.
type Extractor struct {
	Web        PageGetter
	Strategies []Strategy
	MaxChars   int
	Logger     *log.Logger
}

// New returns an Extractor with the default strategy chain.
func New(getter PageGetter, logger *log.Logger) *Extractor {
	return &Extractor{
		Web:        getter,
		Strategies: DefaultStrategies(),
		MaxChars:   DefaultMaxChars,
		Logger:     logger,
	}
}

// Extract fetches rawURL and builds an ExtractedArticle from it.
// Only a failed fetch is reported as an error.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (news.ExtractedArticle, error) {
	page, err := e.Web.Get(ctx, rawURL)
	if err != nil {
		return news.ExtractedArticle{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	finalURL := page.FinalURL
	if finalURL == "" {
		finalURL = rawURL
	}
	return e.FromHTML(finalURL, bytes.NewReader(page.Body))
}

// FromHTML runs extraction over an already fetched page.
func (e *Extractor) FromHTML(pageURL string, r io.Reader) (news.ExtractedArticle, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return news.ExtractedArticle{}, fmt.Errorf("read page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return news.ExtractedArticle{}, fmt.Errorf("parse page: %w", err)
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}

	page := Page{URL: u, HTML: raw, Doc: doc}
	var cand Candidate
	for _, s := range e.Strategies {
		c, ok := s.Extract(page)
		if !ok || strings.TrimSpace(c.Text) == "" {
			continue
		}
		cand = c
		e.debug("extraction strategy matched", "url", pageURL, "strategy", s.Name)
		break
	}
	if cand.Title == "" {
		cand.Title = pageTitle(doc)
	}

	maxChars := e.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	text := normalizeParagraphs(cleanText(cand.Text), maxChars)
	if text == "" {
		text = metaDescription(doc)
	}

	published := cand.Published
	if published == nil {
		if t, ok := pagetime.Published(doc); ok {
			t = t.UTC()
			published = &t
		}
	}

	return news.ExtractedArticle{
		Title:            truncateTitle(cand.Title),
		URL:              pageURL,
		Source:           strings.ToLower(u.Host),
		PublishedAt:      published,
		Description5Line: leadFromText(text),
		FullText:         text,
		IsPaywalled:      detectPaywall(doc),
	}, nil
}

func (e *Extractor) debug(msg string, keyvals ...any) {
	if e.Logger != nil {
		e.Logger.Debug(msg, keyvals...)
	}
}
