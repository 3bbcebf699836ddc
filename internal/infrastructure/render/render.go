// Package render turns viral posts into self-contained HTML cards.
package render

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tesso57/newsreel/internal/domain/news"
)

const (
	maxPOVChars  = 180
	maxSlugChars = 60
	timeLayout   = "02 Jan 2006, 03:04 PM IST"
)

//go:embed card.html.tmpl
var cardTemplate string

var (
	cardTmpl = template.Must(template.New("card").Parse(cardTemplate))
	nonSlug  = regexp.MustCompile(`[^a-z0-9]+`)
)

// Renderer renders cards with a fixed brand name and model label.
type Renderer struct {
	Brand string
	Model string
}

// New returns a Renderer.
func New(brand, model string) *Renderer {
	if strings.TrimSpace(brand) == "" {
		brand = "The AI Point"
	}
	return &Renderer{Brand: brand, Model: model}
}

type cardData struct {
	Brand       string
	Theme       news.Theme
	Title       string
	HeadlineCSS string
	POV         string
	Hashtags    string
	CTA         string
	Source      string
	Model       string
	Timestamp   string
}

// Render implements the pipeline's card renderer.
func (r *Renderer) Render(post news.Post, generatedAt time.Time) (news.Card, error) {
	title := strings.TrimSpace(post.Title)
	if title == "" {
		return news.Card{}, errors.New("post has no title")
	}
	category := post.ThemeCategory()
	cta := post.CTA
	if cta == "" {
		cta = news.CTA(category, title)
	}

	var buf bytes.Buffer
	err := cardTmpl.Execute(&buf, cardData{
		Brand:       r.Brand,
		Theme:       news.ThemeFor(category),
		Title:       title,
		HeadlineCSS: HeadlineClass(title),
		POV:         shorten(strings.TrimSpace(post.POV), maxPOVChars),
		Hashtags:    strings.Join(post.Hashtags, " "),
		CTA:         cta,
		Source:      post.Source,
		Model:       r.Model,
		Timestamp:   generatedAt.In(news.IST).Format(timeLayout),
	})
	if err != nil {
		return news.Card{}, fmt.Errorf("render card: %w", err)
	}
	return news.Card{FileName: Slug(title) + ".html", HTML: buf.String()}, nil
}

// HeadlineClass sizes the headline by its length in characters.
func HeadlineClass(title string) string {
	switch n := utf8.RuneCountInString(title); {
	case n < 50:
		return "h-xl"
	case n < 70:
		return "h-lg"
	case n < 90:
		return "h-md"
	default:
		return "h-sm"
	}
}

// Slug builds a file-safe name from a title.
func Slug(title string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(s) > maxSlugChars {
		s = strings.TrimRight(s[:maxSlugChars], "-")
	}
	if s == "" {
		return "post"
	}
	return s
}

// shorten collapses whitespace and cuts at a word boundary, marking the cut with an ellipsis.
func shorten(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit-1])
	if runes[limit-1] != ' ' {
		if i := strings.LastIndex(cut, " "); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// WriteAll writes each card to dir, creating it when missing. Cards sharing a
// file name get a numeric suffix.
func WriteAll(dir string, cards []news.Card) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create card dir: %w", err)
	}
	seen := make(map[string]int, len(cards))
	paths := make([]string, 0, len(cards))
	for _, c := range cards {
		name := c.FileName
		if n := seen[name]; n > 0 {
			ext := filepath.Ext(name)
			name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n+1, ext)
		}
		seen[c.FileName]++
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(c.HTML), 0o644); err != nil {
			return paths, fmt.Errorf("write card %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// CardWriter publishes a digest's cards as files.
type CardWriter struct {
	Dir string
}

// Name implements usecase.Publisher.
func (w CardWriter) Name() string { return "cards" }

// Publish implements usecase.Publisher.
func (w CardWriter) Publish(_ context.Context, digest news.Digest) error {
	_, err := WriteAll(w.Dir, digest.Cards)
	return err
}
