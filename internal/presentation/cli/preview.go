// Package cli renders pipeline results for the terminal.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/tesso57/newsreel/internal/application/usecase"
	"github.com/tesso57/newsreel/internal/domain/news"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 100

var (
	topicStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	linkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Underline(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	scoreStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("192"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

// SingleLine collapses whitespace into single spaces.
func SingleLine(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(text), " ")
}

// Truncate trims a string to the given width with an ellipsis.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(text, width, "...")
}

// Items lists collected items grouped under their topic headers.
func Items(items []news.ResolvedItem, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if len(items) == 0 {
		return metaStyle.Render("no fresh items")
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("📰 %d fresh items", len(items))))
	b.WriteString("\n")
	current := ""
	for _, it := range items {
		if it.Interest != current {
			current = it.Interest
			b.WriteString(topicStyle.Render("# "+current) + "\n")
		}
		b.WriteString("  " + titleStyle.Render(Truncate(SingleLine(it.Title), width-2)) + "\n")
		meta := fmt.Sprintf("%s · %s", it.Source, it.NewsTime.In(ist).Format("02 Jan 15:04 IST"))
		b.WriteString("  " + metaStyle.Render(Truncate(meta, width-2)) + "\n")
		if it.Excerpt != "" {
			b.WriteString("  " + Truncate(SingleLine(it.Excerpt), width-2) + "\n")
		}
		b.WriteString("  " + linkStyle.Render(Truncate(it.URL, width-2)) + "\n")
	}
	return b.String()
}

// Report summarises what collection skipped.
func Report(r usecase.CollectReport) string {
	line := fmt.Sprintf("feeds ok %d, failed %d · skipped: no title %d, duplicate %d, no timestamp %d, out of window %d · resolved from page %d",
		r.FeedsFetched, r.FeedsFailed, r.SkippedNoTitle, r.SkippedDuplicate, r.SkippedNoTimestamp, r.SkippedOutOfWindow, r.ResolvedFromPage)
	out := metaStyle.Render(line)
	if len(r.EmptyTopics) > 0 {
		out += "\n" + warnStyle.Render("no items for: "+strings.Join(r.EmptyTopics, ", "))
	}
	return out
}

// Articles lists extracted articles with their lead paragraph.
func Articles(articles []news.ExtractedArticle, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var b strings.Builder
	for i, a := range articles {
		if i > 0 {
			b.WriteString("\n")
		}
		title := Truncate(SingleLine(a.Title), width)
		if a.IsPaywalled {
			title += " " + warnStyle.Render("[paywall]")
		}
		b.WriteString(titleStyle.Render(title) + "\n")
		meta := a.Source
		if a.PublishedAt != nil {
			meta += " · " + a.PublishedAt.In(ist).Format("02 Jan 15:04 IST")
		}
		meta += fmt.Sprintf(" · %d chars", len([]rune(a.FullText)))
		b.WriteString(metaStyle.Render(meta) + "\n")
		for line := range strings.SplitSeq(a.Description5Line, ". ") {
			if line = strings.TrimSpace(line); line != "" {
				b.WriteString("  " + Truncate(line, width-2) + "\n")
			}
		}
	}
	return b.String()
}

// Posts lists selected posts with their scores.
func Posts(posts []news.Post, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var b strings.Builder
	for _, p := range posts {
		theme := news.ThemeFor(p.ThemeCategory())
		head := fmt.Sprintf("%s %s", scoreStyle.Render(fmt.Sprintf("%3d", p.ViralScore)), theme.Icon)
		b.WriteString(head + " " + titleStyle.Render(Truncate(SingleLine(p.Title), width-8)) + "\n")
		if p.POV != "" {
			b.WriteString("      " + Truncate(SingleLine(p.POV), width-6) + "\n")
		}
		if len(p.Hashtags) > 0 {
			b.WriteString("      " + metaStyle.Render(strings.Join(p.Hashtags, " ")) + "\n")
		}
	}
	return b.String()
}
