package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tesso57/newsreel/internal/infrastructure/web"
)

func TestResolve(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/meta", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><meta property="article:published_time" content="2024-01-01T10:00:00Z"></head>
<body><time datetime="2024-01-02">Jan 2</time></body></html>`))
	})
	mux.HandleFunc("/ld", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<script type="application/ld+json">{"datePublished":"2024-01-05T09:00:00+05:30"}</script>`))
	})
	mux.HandleFunc("/none", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<p>nothing</p>`))
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	r := New(web.NewClient(time.Second, ""), nil)
	ctx := context.Background()

	got, ok := r.Resolve(ctx, server.URL+"/meta")
	if !ok || !got.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("meta: got %v, %v", got, ok)
	}

	got, ok = r.Resolve(ctx, server.URL+"/ld")
	if !ok || !got.Equal(time.Date(2024, 1, 5, 3, 30, 0, 0, time.UTC)) {
		t.Fatalf("json-ld: got %v, %v", got, ok)
	}
	if got.Location() != time.UTC {
		t.Fatalf("json-ld: location = %v, want UTC", got.Location())
	}

	if _, ok := r.Resolve(ctx, server.URL+"/none"); ok {
		t.Fatal("none: expected not found")
	}
	if _, ok := r.Resolve(ctx, server.URL+"/gone"); ok {
		t.Fatal("gone: expected not found on non-2xx")
	}
	if _, ok := r.Resolve(ctx, "http://127.0.0.1:1/unreachable"); ok {
		t.Fatal("unreachable: expected not found")
	}
}

func TestResolve_NilSafe(t *testing.T) {
	var r *Resolver
	if _, ok := r.Resolve(context.Background(), "https://example.com"); ok {
		t.Fatal("expected not found on nil resolver")
	}
}
