// Package publish writes a digest as an Atom feed.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/feeds"
	"github.com/tesso57/newsreel/internal/domain/news"
)

// FeedInfo describes the generated feed itself.
type FeedInfo struct {
	Title       string
	Link        string
	Description string
	Author      string
}

func (i FeedInfo) withDefaults() FeedInfo {
	if i.Title == "" {
		i.Title = "newsreel viral posts"
	}
	if i.Description == "" {
		i.Description = "Viral rewrites of the latest Indian news"
	}
	if i.Author == "" {
		i.Author = "newsreel"
	}
	return i
}

// BuildFeed converts the digest's selected posts into feed entries.
func BuildFeed(info FeedInfo, digest news.Digest) *feeds.Feed {
	info = info.withDefaults()
	f := &feeds.Feed{
		Title:       info.Title,
		Link:        &feeds.Link{Href: info.Link},
		Description: info.Description,
		Author:      &feeds.Author{Name: info.Author},
		Created:     digest.GeneratedAt,
		Updated:     digest.GeneratedAt,
		Id:          "urn:newsreel:run:" + digest.RunID,
	}
	for i, p := range digest.Posts {
		created := digest.GeneratedAt
		if p.PublishedAt != nil {
			created = *p.PublishedAt
		}
		id := p.ArticleURL
		if id == "" {
			id = fmt.Sprintf("urn:newsreel:run:%s:%d", digest.RunID, i)
		}
		f.Items = append(f.Items, &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: p.ArticleURL},
			Description: itemSummary(p),
			Author:      &feeds.Author{Name: p.Source},
			Id:          id,
			Created:     created,
			Updated:     digest.GeneratedAt,
		})
	}
	return f
}

func itemSummary(p news.Post) string {
	parts := []string{}
	if p.POV != "" {
		parts = append(parts, p.POV)
	}
	if len(p.Hashtags) > 0 {
		parts = append(parts, strings.Join(p.Hashtags, " "))
	}
	if p.CTA != "" {
		parts = append(parts, p.CTA)
	}
	return strings.Join(parts, "\n")
}

// WriteAtom writes the digest's Atom document to path.
func WriteAtom(path string, info FeedInfo, digest news.Digest) error {
	atom, err := BuildFeed(info, digest).ToAtom()
	if err != nil {
		return fmt.Errorf("build atom: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create feed dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(atom), 0o644); err != nil {
		return fmt.Errorf("write atom: %w", err)
	}
	return nil
}

// AtomWriter publishes digests to a fixed Atom file.
type AtomWriter struct {
	Path string
	Info FeedInfo
}

// Name implements usecase.Publisher.
func (w AtomWriter) Name() string { return "atom" }

// Publish implements usecase.Publisher.
func (w AtomWriter) Publish(_ context.Context, digest news.Digest) error {
	return WriteAtom(w.Path, w.Info, digest)
}
