package pagetime

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestPublished(t *testing.T) {
	tests := []struct {
		name string
		html string
		want time.Time
		ok   bool
	}{
		{
			name: "meta beats time element",
			html: `<html><head><meta property="article:published_time" content="2024-01-01T10:00:00Z"></head>
<body><time datetime="2024-01-02">Jan 2</time></body></html>`,
			want: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "meta priority order",
			html: `<head><meta property="og:updated_time" content="2024-02-02T00:00:00Z">
<meta property="article:published" content="2024-02-01T00:00:00Z"></head>`,
			want: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "meta matched by name",
			html: `<head><meta name="article:published_time" content="2024-03-01 08:00:00"></head>`,
			want: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "unparseable meta falls through to next key",
			html: `<head><meta property="article:published_time" content="soon">
<meta property="og:published_time" content="2024-03-02T00:00:00+05:30"></head>`,
			want: time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "time text when no datetime",
			html: `<body><time>2024-04-01 12:00:00</time><time datetime="2020-01-01">x</time></body>`,
			want: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "json-ld object key order",
			html: `<script type="application/ld+json">{"dateModified":"2024-05-02T00:00:00Z","datePublished":"2024-05-01T00:00:00Z"}</script>`,
			want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "json-ld upload date",
			html: `<script type="application/ld+json">{"uploadDate":"2024-05-03T00:00:00Z"}</script>`,
			want: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "json-ld list after malformed block",
			html: `<script type="application/ld+json">{oops</script>
<script type="application/ld+json">[{"@type":"Org"},{"dateModified":"2024-06-01T00:00:00Z"}]</script>`,
			want: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "nothing found",
			html: `<html><body><p>No dates here</p></body></html>`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Published(mustDoc(t, tt.html))
			if ok != tt.ok {
				t.Fatalf("Published ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Fatalf("Published = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPublished_NilDocument(t *testing.T) {
	if _, ok := Published(nil); ok {
		t.Fatal("expected not found for nil document")
	}
}

func TestMetaTag_PropertyPreferredOverName(t *testing.T) {
	doc := mustDoc(t, `<head><meta name="og:title" content="by name"><meta property="og:title" content="by property"></head>`)
	tag := MetaTag(doc, "og:title")
	if tag == nil {
		t.Fatal("expected tag")
	}
	if v, _ := tag.Attr("content"); v != "by property" {
		t.Fatalf("content = %q, want by property", v)
	}
}
