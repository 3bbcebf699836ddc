package extract

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/tesso57/newsreel/internal/infrastructure/pagetime"
)

const (
	minReadableChars = 50
	densestWindow    = 10

	blockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre"
)

// Page is a fetched article page.
type Page struct {
	URL  *url.URL
	HTML []byte
	Doc  *goquery.Document
}

// Candidate is what a strategy pulled out of a page.
type Candidate struct {
	Title     string
	Text      string
	Published *time.Time
}

// Strategy extracts a candidate body from a page. ok is false when the
// strategy found nothing usable.
type Strategy struct {
	Name    string
	Extract func(Page) (Candidate, bool)
}

// DefaultStrategies tries readability first, then the markup heuristics.
func DefaultStrategies() []Strategy {
	return append([]Strategy{{Name: "readability", Extract: fromReadability}}, HeuristicStrategies()...)
}

// HeuristicStrategies are the markup-only strategies in trial order.
func HeuristicStrategies() []Strategy {
	return []Strategy{
		{Name: "article", Extract: fromArticleTag},
		{Name: "itemprop", Extract: fromItemprop},
		{Name: "jsonld", Extract: fromJSONLD},
		{Name: "densest", Extract: fromDensestWindow},
	}
}

func fromReadability(p Page) (Candidate, bool) {
	art, err := readability.FromReader(bytes.NewReader(p.HTML), p.URL)
	if err != nil {
		return Candidate{}, false
	}
	text := readableBlocks(art.Content)
	if text == "" {
		text = strings.TrimSpace(art.TextContent)
	}
	if len([]rune(text)) <= minReadableChars {
		return Candidate{}, false
	}
	c := Candidate{
		Title: strings.TrimSpace(art.Title),
		Text:  text,
	}
	if art.PublishedTime != nil && !art.PublishedTime.IsZero() {
		t := art.PublishedTime.UTC()
		c.Published = &t
	}
	return c, true
}

// readableBlocks joins the outermost text blocks of readability's content
// markup with blank lines so paragraph boundaries survive.
func readableBlocks(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	blocks := doc.Find(blockSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered(blockSelector).Length() == 0
	})
	return strings.Join(paragraphTexts(blocks), "\n\n")
}

func fromArticleTag(p Page) (Candidate, bool) {
	return paragraphsIn(p, p.Doc.Find("article").First())
}

func fromItemprop(p Page) (Candidate, bool) {
	body := p.Doc.Find(`[itemprop="articleBody"]`).First()
	if body.Length() == 0 {
		body = p.Doc.Find(`[name="articleBody"]`).First()
	}
	return paragraphsIn(p, body)
}

func paragraphsIn(p Page, container *goquery.Selection) (Candidate, bool) {
	if container.Length() == 0 {
		return Candidate{}, false
	}
	paras := paragraphTexts(container.Find("p"))
	if len(paras) == 0 {
		return Candidate{}, false
	}
	return Candidate{Title: pageTitle(p.Doc), Text: strings.Join(paras, "\n\n")}, true
}

func fromJSONLD(p Page) (Candidate, bool) {
	title := pageTitle(p.Doc)
	var body string
	pagetime.LDPayloads(p.Doc, func(payload any) bool {
		obj, ok := payload.(map[string]any)
		if !ok {
			return true
		}
		if headline, ok := obj["headline"].(string); ok && title == "" {
			title = strings.TrimSpace(headline)
		}
		if b, ok := obj["articleBody"].(string); ok && strings.TrimSpace(b) != "" {
			body = b
			return false
		}
		return true
	})
	if body == "" {
		return Candidate{}, false
	}
	return Candidate{Title: title, Text: body}, true
}

// fromDensestWindow picks the run of up to ten consecutive paragraphs with the
// longest joined text.
func fromDensestWindow(p Page) (Candidate, bool) {
	paras := paragraphTexts(p.Doc.Find("p"))
	if len(paras) == 0 {
		return Candidate{}, false
	}
	best := ""
	for i := range paras {
		end := min(i+densestWindow, len(paras))
		joined := strings.Join(paras[i:end], "\n\n")
		if len(joined) > len(best) {
			best = joined
		}
	}
	return Candidate{Title: pageTitle(p.Doc), Text: best}, true
}

func paragraphTexts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := nodeText(s); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// pageTitle prefers og:title, then meta name=title, then <title>.
func pageTitle(doc *goquery.Document) string {
	if tag := doc.Find(`meta[property="og:title"]`).First(); tag.Length() > 0 {
		if v := strings.TrimSpace(tag.AttrOr("content", "")); v != "" {
			return v
		}
	}
	if tag := doc.Find(`meta[name="title"]`).First(); tag.Length() > 0 {
		if v := strings.TrimSpace(tag.AttrOr("content", "")); v != "" {
			return v
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func metaDescription(doc *goquery.Document) string {
	if v := strings.TrimSpace(doc.Find(`meta[property="og:description"]`).First().AttrOr("content", "")); v != "" {
		return v
	}
	return strings.TrimSpace(doc.Find(`meta[name="description"]`).First().AttrOr("content", ""))
}
