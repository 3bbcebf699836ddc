package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/tesso57/newsreel/internal/application/usecase"
	"github.com/tesso57/newsreel/internal/domain/news"
)

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "a b c", SingleLine(" a\n b\t c "))
	assert.Empty(t, SingleLine(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hello w...", Truncate("hello world again", 10))
	assert.Empty(t, Truncate("hello", 0))
}

func TestItems(t *testing.T) {
	at := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	out := ansi.Strip(Items([]news.ResolvedItem{
		{Interest: "cricket", Title: "Kohli  dropped", Source: "ESPN", NewsTime: at, URL: "https://news/kohli"},
		{Interest: "cricket", Title: "Pitch report", Source: "ESPN", NewsTime: at, URL: "https://news/pitch"},
		{Interest: "tech", Title: "New phone", Excerpt: "A phone\nlaunched", Source: "Gadgets", NewsTime: at, URL: "https://news/phone"},
	}, 80))

	assert.Contains(t, out, "3 fresh items")
	assert.Equal(t, 1, strings.Count(out, "# cricket"))
	assert.Contains(t, out, "# tech")
	assert.Contains(t, out, "Kohli dropped")
	assert.Contains(t, out, "ESPN · 01 Jun 11:30 IST")
	assert.Contains(t, out, "A phone launched")

	assert.Contains(t, ansi.Strip(Items(nil, 0)), "no fresh items")
}

func TestReport(t *testing.T) {
	out := ansi.Strip(Report(usecase.CollectReport{FeedsFetched: 2, SkippedDuplicate: 1, EmptyTopics: []string{"fitness"}}))
	assert.Contains(t, out, "feeds ok 2")
	assert.Contains(t, out, "duplicate 1")
	assert.Contains(t, out, "no items for: fitness")
}

func TestArticlesAndPosts(t *testing.T) {
	articles := ansi.Strip(Articles([]news.ExtractedArticle{
		{Title: "RBI hikes rates", Source: "example.com", IsPaywalled: true, Description5Line: "Rates up. Loans costlier.", FullText: "abc"},
	}, 80))
	assert.Contains(t, articles, "RBI hikes rates [paywall]")
	assert.Contains(t, articles, "example.com · 3 chars")
	assert.Contains(t, articles, "  Loans costlier.")

	posts := ansi.Strip(Posts([]news.Post{
		{Title: "EMIs set to rise", POV: "Borrowers pay more", Hashtags: []string{"#RBI"}, Category: "economy", ViralScore: 75},
	}, 80))
	assert.Contains(t, posts, "75 💹 EMIs set to rise")
	assert.Contains(t, posts, "#RBI")
}
