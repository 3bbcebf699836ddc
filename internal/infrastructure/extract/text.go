package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultMaxChars caps the extracted body.
	DefaultMaxChars = 30000

	signatureChars  = 300
	leadSentences   = 5
	leadFallbackLen = 500
	paywallBlocks   = 30
	maxTitleChars   = 300
)

var (
	carriageReturn = regexp.MustCompile(`\r`)
	blankLineRun   = regexp.MustCompile(`\n\s*\n+`)
	spaceRun       = regexp.MustCompile(`[ \t]+`)
	sentenceEnd    = regexp.MustCompile(`[.?!]\s+`)
)

// Reading a footer or call-to-action paragraph ends the article body.
var stopMarkers = []string{
	"related stories", "also read", "read more", "you may like",
	"join our", "subscribe to", "follow us on", "advertisement", "download the app",
	"team india sponsor", "go beyond the boundary", "subscribe now",
}

var paywallSigns = []string{
	"subscribe to read", "subscribe to continue", "sign in to continue", "you are reading a premium article",
}

func cleanText(s string) string {
	if s == "" {
		return ""
	}
	s = carriageReturn.ReplaceAllString(s, " ")
	s = blankLineRun.ReplaceAllString(s, "\n\n")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// normalizeParagraphs drops repeated paragraphs, cuts everything from the first
// boilerplate paragraph on and caps the result at maxChars on a line boundary.
func normalizeParagraphs(raw string, maxChars int) string {
	if raw == "" {
		return ""
	}
	seen := make(map[string]struct{})
	kept := make([]string, 0)
	for _, p := range blankLineRun.Split(raw, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := paragraphSignature(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if hasStopMarker(p) {
			break
		}
		kept = append(kept, p)
	}

	final := strings.TrimSpace(strings.Join(kept, "\n\n"))
	if maxChars > 0 {
		runes := []rune(final)
		if len(runes) > maxChars {
			final = string(runes[:maxChars])
			if idx := strings.LastIndex(final, "\n"); idx >= 0 {
				final = final[:idx]
			}
		}
	}
	return final
}

func paragraphSignature(p string) string {
	runes := []rune(p)
	if len(runes) > signatureChars {
		runes = runes[:signatureChars]
	}
	return strings.ToLower(strings.Join(strings.Fields(string(runes)), " "))
}

func hasStopMarker(p string) bool {
	low := strings.ToLower(p)
	for _, m := range stopMarkers {
		if strings.Contains(low, m) {
			return true
		}
	}
	return false
}

// leadFromText returns the first few sentences of text.
func leadFromText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	sentences := splitSentences(text)
	if len(sentences) > leadSentences {
		sentences = sentences[:leadSentences]
	}
	lead := strings.TrimSpace(strings.Join(sentences, " "))
	if lead != "" {
		return lead
	}
	runes := []rune(text)
	if len(runes) > leadFallbackLen {
		return string(runes[:leadFallbackLen]) + "..."
	}
	return text
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		// keep the punctuation, drop the whitespace
		out = append(out, text[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func detectPaywall(doc *goquery.Document) bool {
	blocks := doc.Find("div, p, section")
	if blocks.Length() > paywallBlocks {
		blocks = blocks.Slice(0, paywallBlocks)
	}
	parts := make([]string, 0, blocks.Length())
	blocks.Each(func(_ int, s *goquery.Selection) {
		if t := nodeText(s); t != "" {
			parts = append(parts, t)
		}
	})
	text := strings.ToLower(strings.Join(parts, " "))
	for _, sig := range paywallSigns {
		if strings.Contains(text, sig) {
			return true
		}
	}
	return false
}

// nodeText is the element's text with whitespace runs collapsed.
func nodeText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func truncateTitle(title string) string {
	runes := []rune(strings.TrimSpace(title))
	if len(runes) > maxTitleChars {
		return string(runes[:maxTitleChars])
	}
	return string(runes)
}
