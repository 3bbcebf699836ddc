package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tesso57/newsreel/internal/domain/news"
)

const (
	maxRewriteLeadChars = 1200
	maxRewriteBodyChars = 4000
	maxHashtags         = 5
)

// TextGenerator abstracts plain prompt -> text completion.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Rewriter turns extracted articles into social-media posts via an LLM.
type Rewriter struct {
	Client TextGenerator
	// Model is credited in the post source line when the LLM omits it.
	Model  string
	Logger *log.Logger
}

// NewRewriter constructs a Rewriter.
func NewRewriter(client TextGenerator, model string, logger *log.Logger) *Rewriter {
	return new(Rewriter{Client: client, Model: model, Logger: logger})
}

// Rewrite asks the LLM for one post. The returned post may be marked invalid.
func (r *Rewriter) Rewrite(ctx context.Context, article news.ExtractedArticle) (news.Post, error) {
	if r == nil || r.Client == nil {
		return news.Post{}, errors.New("ai client is not configured")
	}
	raw, err := r.Client.Generate(ctx, buildRewritePrompt(article))
	if err != nil {
		return news.Post{}, err
	}
	post, err := parseRewriteOutput(raw)
	if err != nil {
		return news.Post{}, err
	}

	post.ArticleURL = article.URL
	post.ArticleTitle = article.Title
	post.Description = article.Description5Line
	post.PublishedAt = article.PublishedAt
	if post.Title == "" {
		post.Title = article.Title
	}
	if post.Source == "" {
		post.Source = strings.TrimSpace(strings.Join([]string{article.Source, r.Model}, " "))
	}
	if post.Category == "" {
		post.Category = news.DetectCategory(article.Title + " " + article.Description5Line)
	}
	return post, nil
}

// RewriteAll rewrites each article in order. Failed and invalid posts are
// logged and dropped; only a cancelled context stops the batch.
func (r *Rewriter) RewriteAll(ctx context.Context, articles []news.ExtractedArticle) ([]news.Post, error) {
	posts := make([]news.Post, 0, len(articles))
	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return posts, err
		}
		post, err := r.Rewrite(ctx, article)
		if err != nil {
			r.logger().Warn("rewrite failed", "url", article.URL, "err", err)
			continue
		}
		if !post.IsValidNews {
			r.logger().Info("dropped: not valid news", "url", article.URL, "title", article.Title)
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *Rewriter) logger() *log.Logger {
	if r != nil && r.Logger != nil {
		return r.Logger
	}
	return discardLogger
}

func buildRewritePrompt(article news.ExtractedArticle) string {
	limited := struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Source      string `json:"source"`
		PublishedAt string `json:"published_at,omitempty"`
		Lead        string `json:"description_5line"`
		FullText    string `json:"full_text"`
	}{
		Title:    strings.TrimSpace(article.Title),
		URL:      strings.TrimSpace(article.URL),
		Source:   strings.TrimSpace(article.Source),
		Lead:     limitText(strings.TrimSpace(article.Description5Line), maxRewriteLeadChars),
		FullText: limitText(strings.TrimSpace(article.FullText), maxRewriteBodyChars),
	}
	if article.PublishedAt != nil {
		limited.PublishedAt = article.PublishedAt.UTC().Format(time.RFC3339)
	}
	payload, _ := json.Marshal(limited)

	return strings.Join([]string{
		"You are the lead content strategist for a fast-growing Indian news page that turns verified news into viral, fact-based social posts.",
		"Rewrite the article below into one post.",
		`Return ONLY valid JSON without markdown: {"title":"...","pov":"...","hashtags":["#..."],"source":"...","is_valid_news":true,"category":"...","virality_score":7,"engagement_hook":"..."}`,
		"Rules:",
		"- title: hook + key detail + impact, at most 20 words, 1-2 emojis, never name TV channels or outlets.",
		"- pov: 45-50 words on why Indians should care now, who gains or loses, with concrete numbers; cite only verifiable sources in [brackets].",
		"- hashtags: 4-5 tags mixing trending and niche, including one branded tag.",
		"- source: primary source plus the model used.",
		"- is_valid_news: false for ads, listicles, horoscopes, opinion pieces or pages without real news.",
		"- category: one of breaking, politics, tech, economy, sports, trending.",
		"- virality_score: integer 1 to 10.",
		"- engagement_hook: one discussion-starter question.",
		"- stay factual and balanced; no sensationalism without facts.",
		"Article JSON:",
		string(payload),
	}, "\n")
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("virality_score %q: %w", s, err)
	}
	*f = flexInt(v)
	return nil
}

// flexBool accepts a JSON boolean or "true"/"false" strings.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.ToLower(strings.Trim(strings.TrimSpace(string(data)), `"`))
	v, err := strconv.ParseBool(s)
	if err != nil {
		*f = false
		return nil
	}
	*f = flexBool(v)
	return nil
}

func parseRewriteOutput(raw string) (news.Post, error) {
	type payload struct {
		Title          string   `json:"title"`
		POV            string   `json:"pov"`
		Hashtags       []string `json:"hashtags"`
		Source         string   `json:"source"`
		IsValidNews    flexBool `json:"is_valid_news"`
		Category       string   `json:"category"`
		ViralityScore  flexInt  `json:"virality_score"`
		EngagementHook string   `json:"engagement_hook"`
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return news.Post{}, errors.New("ai client returned empty output")
	}

	tryDecode := func(data string) (news.Post, error) {
		var out payload
		if err := json.Unmarshal([]byte(data), &out); err != nil {
			return news.Post{}, err
		}
		return news.Post{
			Title:          strings.TrimSpace(out.Title),
			POV:            strings.TrimSpace(out.POV),
			Hashtags:       normalizeHashtags(out.Hashtags),
			Source:         strings.TrimSpace(out.Source),
			IsValidNews:    bool(out.IsValidNews),
			Category:       strings.ToLower(strings.TrimSpace(out.Category)),
			ViralityScore:  min(max(int(out.ViralityScore), 0), 10),
			EngagementHook: strings.TrimSpace(out.EngagementHook),
		}, nil
	}

	post, err := tryDecode(text)
	if err == nil {
		return post, nil
	}
	jsonObject := extractJSONObject(text)
	if jsonObject == "" {
		return news.Post{}, fmt.Errorf("failed to parse ai output as JSON: %w", err)
	}
	post, decodeErr := tryDecode(jsonObject)
	if decodeErr != nil {
		return news.Post{}, fmt.Errorf("failed to parse ai output as JSON: %w", decodeErr)
	}
	return post, nil
}

// extractJSONObject returns the outermost {...} span, which also drops
// markdown fences around it.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}

func normalizeHashtags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.Join(strings.Fields(tag), "")
		t = strings.TrimLeft(t, "#")
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, "#"+t)
		if len(normalized) == maxHashtags {
			break
		}
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}

func limitText(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
