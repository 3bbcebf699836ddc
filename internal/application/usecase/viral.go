package usecase

import (
	"regexp"
	"slices"
	"strings"

	"github.com/tesso57/newsreel/internal/domain/news"
)

// DefaultMinViralScore is the selection threshold for ViralScore.
const DefaultMinViralScore = 60

const titleOverlapLimit = 3

type scoreRule struct {
	points int
	terms  []string
}

var viralRules = []scoreRule{
	// controversy
	{30, []string{"controversy", "scandal", "outrage", "backlash", "slams", "row", "protest", "clash", "accused", "arrested", "fraud", "probe", "banned", "sacked", "dropped", "resigns", "boycott"}},
	// emotion
	{25, []string{"shock", "shocking", "tragic", "heartbreaking", "pride", "proud", "celebrates", "angry", "fury", "emotional", "tears", "historic", "stunning", "viral video", "hilarious"}},
	// famous names
	{20, []string{"modi", "kohli", "virat", "rohit", "dhoni", "shah rukh", "srk", "salman", "bcci", "rahul gandhi", "amit shah", "ambani", "adani", "bollywood", "ipl"}},
	// shareability
	{10, []string{"viral", "trending", "fans", "netizens", "internet", "social media", "reacts", "reaction"}},
}

var (
	moneyCue = regexp.MustCompile(`[₹$]\s*\d|\d[\d,.]*\s*(%|percent|crore|lakh|billion|million|trillion)`)

	routineTerms   = []string{"meeting", "committee", "statement", "announces", "announcement", "review", "scheduled", "conference", "held talks", "memorandum"}
	technicalTerms = []string{"regulatory", "framework", "algorithm", "infrastructure", "compliance", "protocol", "amendment", "quarterly", "methodology", "specification"}

	wordRun     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	longWordRun = regexp.MustCompile(`[\p{L}\p{N}_]{4,}`)
)

// ViralScore rates a post 0-100 for social-media potential from keyword cues
// in its headline, analysis and lead plus the LLM's own 1-10 virality score.
func ViralScore(p news.Post) int {
	text := strings.ToLower(strings.Join([]string{p.Title, p.ArticleTitle, p.POV, p.Description}, " "))
	words := " " + strings.Join(wordRun.FindAllString(text, -1), " ") + " "

	score := 0
	for _, rule := range viralRules {
		if hasAnyTerm(words, rule.terms) {
			score += rule.points
		}
	}
	if moneyCue.MatchString(text) {
		score += 15
	}
	score += min(max(p.ViralityScore, 0), 10) * 2
	if hasAnyTerm(words, routineTerms) {
		score -= 30
	}
	if hasAnyTerm(words, technicalTerms) {
		score -= 20
	}
	return min(max(score, 0), 100)
}

// hasAnyTerm matches whole words or word sequences against the
// space-padded word list.
func hasAnyTerm(words string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(words, " "+term+" ") {
			return true
		}
	}
	return false
}

// DedupByTitleOverlap drops a post whose article headline shares three or more
// distinct words of four or more letters with an earlier kept post.
func DedupByTitleOverlap(posts []news.Post) []news.Post {
	unique := make([]news.Post, 0, len(posts))
	var seen []map[string]struct{}
	for _, p := range posts {
		title := p.ArticleTitle
		if strings.TrimSpace(title) == "" {
			title = p.Title
		}
		words := make(map[string]struct{})
		for _, w := range longWordRun.FindAllString(strings.ToLower(title), -1) {
			words[w] = struct{}{}
		}

		duplicate := slices.ContainsFunc(seen, func(prev map[string]struct{}) bool {
			overlap := 0
			for w := range words {
				if _, ok := prev[w]; ok {
					overlap++
				}
			}
			return overlap >= titleOverlapLimit
		})
		if duplicate {
			continue
		}
		unique = append(unique, p)
		seen = append(seen, words)
	}
	return unique
}

// SelectViral scores posts, keeps those at or above minScore, orders them by
// score and removes near-duplicate headlines. maxPosts <= 0 keeps all.
func SelectViral(posts []news.Post, minScore, maxPosts int) []news.Post {
	scored := make([]news.Post, 0, len(posts))
	for _, p := range posts {
		p.ViralScore = ViralScore(p)
		if p.ViralScore < minScore {
			continue
		}
		p.CTA = news.CTA(p.ThemeCategory(), p.Title)
		scored = append(scored, p)
	}
	slices.SortStableFunc(scored, func(a, b news.Post) int {
		return b.ViralScore - a.ViralScore
	})
	selected := DedupByTitleOverlap(scored)
	if maxPosts > 0 && len(selected) > maxPosts {
		selected = selected[:maxPosts]
	}
	return selected
}
