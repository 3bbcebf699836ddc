package news

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{name: "rfc3339 zulu", in: "2024-01-01T10:00:00Z", want: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), ok: true},
		{name: "offset converted to utc", in: "2024-01-01T15:30:00+05:30", want: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), ok: true},
		{name: "rfc1123z", in: "Mon, 01 Jan 2024 10:00:00 +0000", want: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), ok: true},
		{name: "naive assumed utc", in: "2024-01-02 08:15:00", want: time.Date(2024, 1, 2, 8, 15, 0, 0, time.UTC), ok: true},
		{name: "date only", in: "2024-01-02", want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "labelled", in: "Updated: 2024-01-02 08:15:00", want: time.Date(2024, 1, 2, 8, 15, 0, 0, time.UTC), ok: true},
		{name: "empty", in: "   ", ok: false},
		{name: "garbage", in: "not a date at all", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseTimestamp(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if !ok {
				return
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Fatalf("ParseTimestamp(%q) location = %v, want UTC", tt.in, got.Location())
			}
		})
	}
}

func TestTitleKey(t *testing.T) {
	if got, want := TitleKey("RBI Hikes Rates"), TitleKey("rbi   hikes  rates"); got != want {
		t.Fatalf("TitleKey mismatch: %q vs %q", got, want)
	}
	if got := TitleKey("  Tabs\tand\nNewlines "); got != "tabs and newlines" {
		t.Fatalf("TitleKey = %q", got)
	}
}

func TestIST(t *testing.T) {
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, IST).Zone()
	if offset != 19800 {
		t.Fatalf("IST offset = %d, want 19800", offset)
	}
}

func TestResolvedItemJSON(t *testing.T) {
	item := ResolvedItem{
		Interest: "tech",
		Title:    "Title",
		NewsTime: time.Date(2024, 1, 1, 15, 30, 0, 0, IST),
		URL:      "https://example.com/a",
		Source:   "Example",
	}
	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"news_time":"2024-01-01T10:00:00Z"`) {
		t.Fatalf("news_time not normalized to UTC: %s", data)
	}
	if !strings.Contains(string(data), `"interest":"tech"`) {
		t.Fatalf("interest missing: %s", data)
	}
}

func TestExtractedArticleJSON_NullPublishedAt(t *testing.T) {
	data, err := json.Marshal(ExtractedArticle{Title: "t"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"published_at":null`) {
		t.Fatalf("expected null published_at: %s", data)
	}

	ts := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	data, err = json.Marshal(ExtractedArticle{Title: "t", PublishedAt: &ts, IsPaywalled: true})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"published_at":"2024-03-04T05:06:07Z"`) {
		t.Fatalf("published_at not encoded: %s", data)
	}
	if !strings.Contains(string(data), `"is_paywalled":true`) {
		t.Fatalf("is_paywalled not encoded: %s", data)
	}
}

func TestMarshalJSON_NoHTMLEscaping(t *testing.T) {
	data, err := ResolvedItem{Title: "A & B <c>"}.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"title":"A & B <c>"`) {
		t.Fatalf("title escaped: %s", data)
	}
	if strings.HasSuffix(string(data), "\n") {
		t.Fatalf("trailing newline: %q", data)
	}

	data, err = ExtractedArticle{FullText: "x & y"}.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"full_text":"x & y"`) {
		t.Fatalf("full_text escaped: %s", data)
	}
}
