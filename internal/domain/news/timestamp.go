package news

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// IST is the fixed +05:30 zone the freshness window is anchored to.
var IST = time.FixedZone("IST", 5*60*60+30*60)

var timestampLabel = regexp.MustCompile(`(?i)^\s*(last\s+updated|updated|published|posted|first\s+published)\s*(on|at)?\s*:?\s*`)

// ParseTimestamp parses a free-form date string. Values without a zone are taken as UTC.
// The result is always in UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t.UTC(), true
	}
	// "Updated: Jan 2, 2024 10:00" and friends
	stripped := strings.TrimSpace(timestampLabel.ReplaceAllString(s, ""))
	if stripped != "" && stripped != s {
		if t, err := dateparse.ParseIn(stripped, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// TitleKey is the dedup key for a headline: lowercased with whitespace collapsed.
func TitleKey(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
