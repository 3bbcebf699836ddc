package feed

import (
	"context"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

func TestAtomParsing(t *testing.T) {
	atomContent := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="en-IN">
  <id>tag:example.com,2024:tech</id>
  <link type="text/html" rel="alternate" href="https://example.com/tech"/>
  <title>Example Tech</title>
  <updated>2026-01-15T18:32:04Z</updated>
  <entry>
    <id>tag:example.com,2024:1</id>
    <updated>2026-01-15T18:32:04Z</updated>
    <link rel="alternate" type="text/html" href="https://example.com/tech/1"/>
    <title>Chip plant announced in Gujarat</title>
    <content type="html">&lt;p&gt;Body &lt;b&gt;text&lt;/b&gt;&lt;/p&gt;</content>
  </entry>
</feed>`

	originalParser := ParserFunc
	defer func() { ParserFunc = originalParser }()

	ParserFunc = func(_ context.Context, _ string) (*gofeed.Feed, error) {
		return gofeed.NewParser().ParseString(atomContent)
	}

	feed, err := NewFetcher(time.Second).Fetch(context.Background(), "https://example.com/tech.atom")
	if err != nil {
		t.Fatalf("Failed to fetch atom feed: %v", err)
	}

	if feed.Title != "Example Tech" {
		t.Errorf("Expected title 'Example Tech', got '%s'", feed.Title)
	}
	if len(feed.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(feed.Entries))
	}

	entry := feed.Entries[0]
	if entry.Title != "Chip plant announced in Gujarat" {
		t.Errorf("unexpected entry title %q", entry.Title)
	}
	expected := time.Date(2026, 1, 15, 18, 32, 4, 0, time.UTC)
	if entry.UpdatedParsed == nil || !entry.UpdatedParsed.Equal(expected) {
		t.Errorf("Expected updated %v, got %v", expected, entry.UpdatedParsed)
	}
	if entry.Summary == "" {
		t.Error("Expected summary to fall back to content")
	}
}
