package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"KeepUpDaily/internal/scanner"
)

const trendingFixture = `<!DOCTYPE html>
<html><body>
<article class="Box-row">
  <h2 class="h3"><a href="/gopher/daily">gopher / daily</a></h2>
  <p class="col-9">A digest pipeline for busy developers.</p>
  <span itemprop="programmingLanguage">Go</span>
  <span class="d-inline-block float-sm-right">1,532 stars today</span>
</article>
<article class="Box-row">
  <h2 class="h3"><a href="/acme/quiet">acme / quiet</a></h2>
</article>
<article class="Box-row">
  <h2 class="h3"><a href="">broken</a></h2>
</article>
</body></html>`

func TestGitHubTrendingScan(t *testing.T) {
	t.Parallel()

	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.String())
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(trendingFixture)); err != nil {
			t.Errorf("write fixture: %v", err)
		}
	}))
	defer srv.Close()

	s := NewGitHubTrendingScanner(srv.Client(), nil)
	s.baseURL = srv.URL

	articles, err := s.Scan(context.Background(), scanner.Request{Options: map[string]string{}})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(requested) != 1 || requested[0] != "/?since=daily" {
		t.Fatalf("expected one all-languages page request, got %v", requested)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 repos (row without href skipped), got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "gopher/daily" {
		t.Fatalf("unexpected title %q", first.Title)
	}
	if first.URL != "https://github.com/gopher/daily" {
		t.Fatalf("unexpected url %q", first.URL)
	}
	if first.Description != "A digest pipeline for busy developers." {
		t.Fatalf("unexpected description %q", first.Description)
	}
	if len(first.Tags) != 1 || first.Tags[0] != "go" {
		t.Fatalf("expected lowercased language tag, got %v", first.Tags)
	}
	if first.Score != 1532 {
		t.Fatalf("expected 1532 stars today, got %d", first.Score)
	}
	if first.Source != "github_trending" {
		t.Fatalf("unexpected source %q", first.Source)
	}

	second := articles[1]
	if second.Score != 0 || second.Description != "" {
		t.Fatalf("sparse row must keep zero values, got %+v", second)
	}
}

func TestGitHubTrendingScanPerLanguage(t *testing.T) {
	t.Parallel()

	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.String())
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(trendingFixture))
	}))
	defer srv.Close()

	s := NewGitHubTrendingScanner(srv.Client(), nil)
	s.baseURL = srv.URL

	articles, err := s.Scan(context.Background(), scanner.Request{
		Options: map[string]string{"languages": ",go, rust"},
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	want := []string{"/?since=daily", "/go?since=daily", "/rust?since=daily"}
	if len(requested) != len(want) {
		t.Fatalf("expected %d page requests, got %v", len(want), requested)
	}
	for i, url := range want {
		if requested[i] != url {
			t.Fatalf("request %d: expected %s, got %s", i, url, requested[i])
		}
	}

	// Same rows on every page, so duplicates must collapse.
	if len(articles) != 2 {
		t.Fatalf("expected deduplicated repos, got %d", len(articles))
	}
}

func TestDigitsIn(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"1,532 stars today": 1532,
		"89 stars today":    89,
		"no digits":         0,
		"":                  0,
	}
	for in, want := range cases {
		if got := digitsIn(in); got != want {
			t.Fatalf("digitsIn(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestTrendingLanguages(t *testing.T) {
	t.Parallel()

	if got := trendingLanguages(""); len(got) != 1 || got[0] != "" {
		t.Fatalf("empty option must select the all-languages page, got %v", got)
	}
	got := trendingLanguages(",go, python")
	want := []string{"", "go", "python"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
