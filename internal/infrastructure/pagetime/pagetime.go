// Package pagetime finds the publish time of an article page from its markup.
package pagetime

import (
	"encoding/json"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tesso57/newsreel/internal/domain/news"
)

var (
	metaKeys       = []string{"article:published_time", "article:published", "og:updated_time", "og:published_time"}
	ldObjectKeys   = []string{"datePublished", "dateModified", "published", "uploadDate"}
	ldListItemKeys = []string{"datePublished", "dateModified"}
)

// Published runs the meta tag, <time> element and JSON-LD cascade over doc.
// The first candidate that parses wins; later candidates are not considered.
func Published(doc *goquery.Document) (time.Time, bool) {
	if doc == nil {
		return time.Time{}, false
	}
	if t, ok := fromMeta(doc); ok {
		return t, true
	}
	if t, ok := fromTimeElement(doc); ok {
		return t, true
	}
	return fromJSONLD(doc)
}

func fromMeta(doc *goquery.Document) (time.Time, bool) {
	for _, key := range metaKeys {
		tag := MetaTag(doc, key)
		if tag == nil {
			continue
		}
		content, _ := tag.Attr("content")
		if t, ok := news.ParseTimestamp(content); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// MetaTag returns the first <meta> whose property (or, failing that, name) equals key.
func MetaTag(doc *goquery.Document, key string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("property"); ok && v == key {
			found = s
			return false
		}
		return true
	})
	if found != nil {
		return found
	}
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("name"); ok && v == key {
			found = s
			return false
		}
		return true
	})
	return found
}

func fromTimeElement(doc *goquery.Document) (time.Time, bool) {
	el := doc.Find("time").First()
	if el.Length() == 0 {
		return time.Time{}, false
	}
	val, ok := el.Attr("datetime")
	if !ok || val == "" {
		val = el.Text()
	}
	return news.ParseTimestamp(val)
}

func fromJSONLD(doc *goquery.Document) (time.Time, bool) {
	var result time.Time
	var found bool
	LDPayloads(doc, func(payload any) bool {
		switch p := payload.(type) {
		case map[string]any:
			if t, ok := firstTime(p, ldObjectKeys); ok {
				result, found = t, true
				return false
			}
		case []any:
			for _, el := range p {
				obj, ok := el.(map[string]any)
				if !ok {
					continue
				}
				if t, ok := firstTime(obj, ldListItemKeys); ok {
					result, found = t, true
					return false
				}
			}
		}
		return true
	})
	return result, found
}

func firstTime(obj map[string]any, keys []string) (time.Time, bool) {
	for _, key := range keys {
		s, ok := obj[key].(string)
		if !ok || s == "" {
			continue
		}
		if t, ok := news.ParseTimestamp(s); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// LDPayloads decodes each application/ld+json script block in document order and calls fn
// until it returns false. Blocks that are not valid JSON are skipped.
func LDPayloads(doc *goquery.Document, fn func(payload any) bool) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := s.Text()
		if raw == "" {
			raw = "{}"
		}
		var payload any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return true
		}
		return fn(payload)
	})
}
