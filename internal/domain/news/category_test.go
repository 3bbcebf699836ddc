package news

import "testing"

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Cyclone hits coast, flights cancelled", CategoryDisaster},
		{"BREAKING: Supreme Court verdict", CategoryBreaking},
		{"Sensex closes higher as rupee firms", CategoryEconomy},
		{"India win T20 series", CategoryCricket},
		{"OpenAI launches new model", CategoryTech},
		{"Minister resigns ahead of vote", CategoryPolitics},
		{"Monsoon festival celebrated", CategoryDefault},
	}
	for _, tt := range tests {
		if got := DetectCategory(tt.text); got != tt.want {
			t.Errorf("DetectCategory(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestThemeFor(t *testing.T) {
	if got := ThemeFor("Cricket").Title; got != "Cricket" {
		t.Fatalf("ThemeFor(Cricket).Title = %q", got)
	}
	if got := ThemeFor("unknown").Title; got != "Trending" {
		t.Fatalf("ThemeFor(unknown) should fall back to default, got %q", got)
	}
}

func TestCTA_Deterministic(t *testing.T) {
	a := CTA(CategoryTech, "Some headline")
	b := CTA(CategoryTech, "Some headline")
	if a != b {
		t.Fatalf("CTA not deterministic: %q vs %q", a, b)
	}
	found := false
	for _, opt := range ctaOptions[CategoryTech] {
		if opt == a {
			found = true
		}
	}
	if !found {
		t.Fatalf("CTA %q not among tech options", a)
	}
	if got := CTA("nope", "x"); got != ctaOptions[CategoryDefault][0] && got != ctaOptions[CategoryDefault][1] {
		t.Fatalf("unknown category should use default options, got %q", got)
	}
}

func TestPost_ThemeCategory(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want string
	}{
		{"llm category with theme", Post{Category: "Politics", Title: "IPL final tonight"}, CategoryPolitics},
		{"llm category without theme", Post{Category: "sports", Title: "IPL final tonight"}, CategoryCricket},
		{"default is re-detected", Post{Category: "default", ArticleTitle: "Sensex jumps 800 points"}, CategoryEconomy},
		{"nothing matches", Post{Title: "A quiet day"}, CategoryDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.ThemeCategory(); got != tt.want {
				t.Fatalf("ThemeCategory() = %q, want %q", got, tt.want)
			}
		})
	}
}
