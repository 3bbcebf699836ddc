package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientGet_HeadersAndRedirect(t *testing.T) {
	var gotUA, gotAccept string
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("<html>ok</html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(time.Second, "")
	page, err := c.Get(context.Background(), server.URL+"/old")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(page.Body) != "<html>ok</html>" {
		t.Fatalf("body = %q", page.Body)
	}
	if page.FinalURL != server.URL+"/new" {
		t.Fatalf("FinalURL = %q, want %q", page.FinalURL, server.URL+"/new")
	}
	if gotUA != DefaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}
	if gotAccept == "" {
		t.Fatal("Accept header missing")
	}
}

func TestClientGet_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewClient(time.Second, "test/1.0").Get(context.Background(), server.URL)
	var statusErr StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusForbidden {
		t.Fatalf("Code = %d, want 403", statusErr.Code)
	}
}

func TestClientGet_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	_, err := NewClient(20*time.Millisecond, "").Get(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestClientGet_EmptyURL(t *testing.T) {
	if _, err := NewClient(0, "").Get(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty url")
	}
}
