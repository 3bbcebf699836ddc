package settings

import (
	"testing"
	"time"
)

func TestSettings_TopicList(t *testing.T) {
	cfg := Settings{Topics: map[string]any{
		"tech":    []any{"https://example.com/a.xml", " https://example.com/b.xml "},
		"cricket": "https://example.com/c.xml",
	}}

	got := cfg.TopicList()
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].Name != "cricket" || got[1].Name != "tech" {
		t.Fatalf("topics not sorted: %q, %q", got[0].Name, got[1].Name)
	}
	if len(got[1].Feeds) != 2 || got[1].Feeds[1] != "https://example.com/b.xml" {
		t.Fatalf("tech feeds = %v", got[1].Feeds)
	}
}

func TestDefaultTopics_FreshCopy(t *testing.T) {
	a := DefaultTopics()
	delete(a, "tech")
	b := DefaultTopics()
	if _, ok := b["tech"]; !ok {
		t.Fatal("DefaultTopics shares state between calls")
	}
	if len(b) != 4 {
		t.Fatalf("len(DefaultTopics()) = %d, want 4", len(b))
	}
}

func TestSettings_Window(t *testing.T) {
	cfg := Settings{Collect: CollectConfig{HoursWindow: 8}}
	if got := cfg.Window(); got != 8*time.Hour {
		t.Fatalf("Window() = %v, want 8h", got)
	}
}

func TestSeconds(t *testing.T) {
	if got := Seconds(0, time.Minute); got != time.Minute {
		t.Fatalf("Seconds(0) = %v", got)
	}
	if got := Seconds(6, time.Minute); got != 6*time.Second {
		t.Fatalf("Seconds(6) = %v", got)
	}
}
