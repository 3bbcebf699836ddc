package news

import (
	"strings"
	"time"
)

// Post is the social-media rewrite of one extracted article.
type Post struct {
	Title          string
	POV            string
	Hashtags       []string
	Source         string
	IsValidNews    bool
	Category       string
	ViralityScore  int
	EngagementHook string

	// ViralScore is the 0-100 keyword score computed locally.
	ViralScore int
	CTA        string

	ArticleURL   string
	ArticleTitle string
	Description  string
	PublishedAt  *time.Time
}

// Card is a rendered HTML card for one post.
type Card struct {
	FileName string
	HTML     string
}

// Digest is the outcome of one pipeline run.
type Digest struct {
	RunID       string
	GeneratedAt time.Time
	Model       string
	Items       []ResolvedItem
	Articles    []ExtractedArticle
	Posts       []Post
	Cards       []Card
}

// ThemeCategory is the category used for the card theme and CTA. The LLM
// category wins when it has a theme; otherwise it is detected from the text.
func (p Post) ThemeCategory() string {
	c := strings.ToLower(strings.TrimSpace(p.Category))
	if _, ok := themes[c]; ok && c != CategoryDefault {
		return c
	}
	return DetectCategory(p.Title + " " + p.ArticleTitle + " " + p.POV)
}
