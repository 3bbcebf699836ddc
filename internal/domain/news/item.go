// Package news defines the core news pipeline models.
package news

import (
	"bytes"
	"encoding/json"
	"time"
)

// RawEntry is a feed entry as decoded from a feed, before any filtering.
type RawEntry struct {
	Title           string
	Link            string
	Summary         string
	Published       string
	PublishedParsed *time.Time
	Updated         string
	UpdatedParsed   *time.Time
	PubDate         string
}

// Feed is one fetched and parsed feed document.
type Feed struct {
	Title   string
	URL     string
	Entries []RawEntry
}

// ResolvedItem is a fresh, deduplicated feed entry with a confirmed UTC timestamp.
type ResolvedItem struct {
	Interest string
	Title    string
	Excerpt  string
	NewsTime time.Time
	URL      string
	Source   string
}

type resolvedItemJSON struct {
	Interest string `json:"interest"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	NewsTime string `json:"news_time"`
	URL      string `json:"url"`
	Source   string `json:"source"`
}

// MarshalJSON encodes the item with news_time as an RFC 3339 UTC string.
func (i ResolvedItem) MarshalJSON() ([]byte, error) {
	return marshalRaw(resolvedItemJSON{
		Interest: i.Interest,
		Title:    i.Title,
		Excerpt:  i.Excerpt,
		NewsTime: i.NewsTime.UTC().Format(time.RFC3339),
		URL:      i.URL,
		Source:   i.Source,
	})
}

// ExtractedArticle is the full-text extraction result for one article URL.
type ExtractedArticle struct {
	Title            string
	URL              string
	Source           string
	PublishedAt      *time.Time
	Description5Line string
	FullText         string
	IsPaywalled      bool
}

type extractedArticleJSON struct {
	Title            string  `json:"title"`
	URL              string  `json:"url"`
	Source           string  `json:"source"`
	PublishedAt      *string `json:"published_at"`
	Description5Line string  `json:"description_5line"`
	FullText         string  `json:"full_text"`
	IsPaywalled      bool    `json:"is_paywalled"`
}

// MarshalJSON encodes the article with published_at as an RFC 3339 UTC string or null.
func (a ExtractedArticle) MarshalJSON() ([]byte, error) {
	out := extractedArticleJSON{
		Title:            a.Title,
		URL:              a.URL,
		Source:           a.Source,
		Description5Line: a.Description5Line,
		FullText:         a.FullText,
		IsPaywalled:      a.IsPaywalled,
	}
	if a.PublishedAt != nil {
		s := a.PublishedAt.UTC().Format(time.RFC3339)
		out.PublishedAt = &s
	}
	return marshalRaw(out)
}

// marshalRaw encodes v without HTML escaping. An enclosing encoder still
// escapes unless it was told not to.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
