package news

import (
	"crypto/md5" //nolint:gosec
	"encoding/binary"
	"strings"
)

// Categories used for card theming, most specific first.
const (
	CategoryDisaster = "disaster"
	CategoryBreaking = "breaking"
	CategoryEconomy  = "economy"
	CategoryCricket  = "cricket"
	CategoryTech     = "tech"
	CategoryPolitics = "politics"
	CategoryDefault  = "default"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryDisaster, []string{"flood", "earthquake", "cyclone", "disaster", "crash"}},
	{CategoryBreaking, []string{"breaking", "urgent", "just in", "developing"}},
	{CategoryEconomy, []string{"rupee", "inflation", "budget", "economy", "gdp", "stock", "sensex"}},
	{CategoryCricket, []string{"ipl", "cricket", "world cup", "t20", "odi", "bcci"}},
	{CategoryTech, []string{"ai ", "tech", "startup", "google", "apple", "meta", "openai"}},
	{CategoryPolitics, []string{"election", "minister", "bjp", "congress", "parliament", "vote"}},
}

// DetectCategory picks a card category from free text by keyword.
func DetectCategory(text string) string {
	t := strings.ToLower(text)
	for _, c := range categoryKeywords {
		for _, k := range c.keywords {
			if strings.Contains(t, k) {
				return c.category
			}
		}
	}
	return CategoryDefault
}

// Theme is the colour scheme for one category.
type Theme struct {
	Brand      string
	Accent     string
	BrandDark  string
	AccentDark string
	Icon       string
	Title      string
	Gradient   [3]string
}

var themes = map[string]Theme{
	CategoryBreaking: {"#ff3b30", "#ff8a80", "#d32f2f", "#ff5722", "🚨", "Breaking", [3]string{"#ff3b30", "#ff8a80", "#d32f2f"}},
	CategoryEconomy:  {"#22c55e", "#16a34a", "#059669", "#047857", "💹", "Economy", [3]string{"#22c55e", "#16a34a", "#059669"}},
	CategoryCricket:  {"#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a", "🏏", "Cricket", [3]string{"#2563eb", "#1d4ed8", "#1e40af"}},
	CategoryTech:     {"#a855f7", "#7e22ce", "#7c3aed", "#6b21a8", "🤖", "Tech", [3]string{"#a855f7", "#7e22ce", "#7c3aed"}},
	CategoryPolitics: {"#f59e0b", "#d97706", "#f97316", "#ea580c", "🗳️", "Politics", [3]string{"#f59e0b", "#d97706", "#f97316"}},
	CategoryDisaster: {"#ef4444", "#b91c1c", "#dc2626", "#991b1b", "⚠️", "Alert", [3]string{"#ef4444", "#b91c1c", "#dc2626"}},
	CategoryDefault:  {"#00d4ff", "#22c1c3", "#0066cc", "#1a9a9e", "✨", "Trending", [3]string{"#00d4ff", "#22c1c3", "#0066cc"}},
}

// ThemeFor returns the theme for a category, falling back to the default theme.
func ThemeFor(category string) Theme {
	if t, ok := themes[strings.ToLower(strings.TrimSpace(category))]; ok {
		return t
	}
	return themes[CategoryDefault]
}

var ctaOptions = map[string][]string{
	CategoryTech:     {"🤖 Game changer or hype?", "🚀 Excited or worried?"},
	CategoryEconomy:  {"📊 What's your take?", "💰 Share your thoughts"},
	CategoryCricket:  {"🏏 Who's your MOTM?", "🎯 Your prediction?"},
	CategoryPolitics: {"🗳️ Agree or disagree?", "📊 Good move or not?"},
	CategoryDisaster: {"🙏 Stay safe everyone", "❤️ Thoughts and prayers"},
	CategoryBreaking: {"⚡ Your instant reaction?", "🔥 What's your view?"},
	CategoryDefault:  {"💭 What's your POV?", "🎯 Share your thoughts"},
}

// CTA returns a call-to-action line for the category, chosen deterministically from the title.
func CTA(category, title string) string {
	opts, ok := ctaOptions[category]
	if !ok {
		opts = ctaOptions[CategoryDefault]
	}
	sum := md5.Sum([]byte(title)) //nolint:gosec
	seed := binary.BigEndian.Uint32(sum[:4])
	return opts[int(seed%uint32(len(opts)))]
}
