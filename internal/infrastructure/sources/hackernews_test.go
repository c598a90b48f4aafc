package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"KeepUpDaily/internal/scanner"
)

func TestHackerNewsScan(t *testing.T) {
	t.Parallel()

	items := map[string]any{
		"/topstories.json": []int64{1, 2, 3, 4},
		"/item/1.json": map[string]any{
			"id": 1, "type": "story", "title": "Show HN: tiny digest engine",
			"url": "https://example.com/engine", "by": "pg", "score": 321, "descendants": 45,
		},
		"/item/2.json": map[string]any{
			"id": 2, "type": "job", "title": "Hiring Go engineers",
		},
		"/item/3.json": map[string]any{
			"id": 3, "type": "story", "title": "Ask HN: what are you reading?",
		},
		"/item/4.json": map[string]any{
			"id": 4, "type": "story", "title": "Dropped by limit",
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, ok := items[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode %s: %v", r.URL.Path, err)
		}
	}))
	defer srv.Close()

	s := NewHackerNewsScanner(srv.Client(), nil)
	s.baseURL = srv.URL

	articles, err := s.Scan(context.Background(), scanner.Request{MaxItems: 3})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 stories (job filtered, 4th beyond limit), got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "Show HN: tiny digest engine" || first.URL != "https://example.com/engine" {
		t.Fatalf("unexpected first story: %+v", first)
	}
	if first.Author != "pg" || first.Score != 321 || first.CommentsCount != 45 {
		t.Fatalf("metadata not carried over: %+v", first)
	}
	if first.Source != "hackernews" {
		t.Fatalf("unexpected source %q", first.Source)
	}

	second := articles[1]
	if second.URL != "https://news.ycombinator.com/item?id=3" {
		t.Fatalf("url-less story must link the discussion page, got %q", second.URL)
	}
}

func TestHackerNewsScanSkipsFailingItems(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/topstories.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("[10, 11]"))
		case "/item/10.json":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/item/11.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id": 11, "type": "story", "title": "Survivor", "url": "https://example.com/ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s := NewHackerNewsScanner(srv.Client(), nil)
	s.baseURL = srv.URL

	articles, err := s.Scan(context.Background(), scanner.Request{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "Survivor" {
		t.Fatalf("expected the surviving story only, got %+v", articles)
	}
}
