package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"KeepUpDaily/internal/domain"
)

type stubSource struct {
	articles []domain.Article
	err      error
}

func (s *stubSource) FetchDaily(ctx context.Context, day time.Time) ([]domain.Article, error) {
	return s.articles, s.err
}

type stubCategorizer struct{ calls int }

func (s *stubCategorizer) CategorizeAll(articles []domain.Article) []domain.Article {
	s.calls++
	for i := range articles {
		articles[i].Category = "general"
	}
	return articles
}

type stubComposer struct {
	got     []domain.Article
	entries []domain.DigestEntry
}

func (s *stubComposer) CreateDigest(ctx context.Context, articles []domain.Article) []domain.DigestEntry {
	s.got = articles
	return s.entries
}

type stubStore struct {
	savedDate    string
	savedCount   int
	savedDigest  int
	indexUpdated bool
	cleanedUp    bool
	saveErr      error
}

func (s *stubStore) SaveDaily(date string, articles []domain.Article, digest []domain.DigestEntry) (string, error) {
	s.savedDate = date
	s.savedCount = len(articles)
	s.savedDigest = len(digest)
	return date + ".json", s.saveErr
}

func (s *stubStore) UpdateIndex() error {
	s.indexUpdated = true
	return nil
}

func (s *stubStore) CleanupOld() (int, error) {
	s.cleanedUp = true
	return 0, nil
}

type stubArchive struct {
	run      *domain.RunSummary
	articles int
	runErr   error
}

func (s *stubArchive) SaveRun(ctx context.Context, run domain.RunSummary) error {
	s.run = &run
	return s.runErr
}

func (s *stubArchive) SaveArticles(ctx context.Context, date string, articles []domain.Article) error {
	s.articles = len(articles)
	return nil
}

type stubNotifier struct {
	message string
	err     error
}

func (s *stubNotifier) PublishDigest(ctx context.Context, digest string) error {
	s.message = digest
	return s.err
}

func scoredArticle(title, url, source string, score int) domain.Article {
	a := domain.NewArticle(title, url, source)
	a.Score = score
	return a
}

func TestProcessDayFullRun(t *testing.T) {
	t.Parallel()

	source := &stubSource{articles: []domain.Article{
		scoredArticle("low", "https://example.com/low", "devto", 5),
		scoredArticle("dup", "https://example.com/Story/", "hackernews", 50),
		scoredArticle("dup again", "https://example.com/story", "lobsters", 80),
		scoredArticle("high", "https://example.com/high", "hackernews", 900),
	}}
	cats := &stubCategorizer{}
	composer := &stubComposer{entries: []domain.DigestEntry{
		{TitleEN: "Headline", Emoji: "📌", Sources: []domain.SourceRef{{URL: "https://example.com/high"}}},
	}}
	store := &stubStore{}
	archive := &stubArchive{}
	notifier := &stubNotifier{}

	p := NewPipeline(PipelineDeps{
		Source:      source,
		Categorizer: cats,
		Composer:    composer,
		Store:       store,
		Archive:     archive,
		Notifier:    notifier,
	})

	day := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	if err := p.ProcessDay(context.Background(), day); err != nil {
		t.Fatalf("process day: %v", err)
	}

	if len(composer.got) != 3 {
		t.Fatalf("expected URL dedup to leave 3 articles, got %d", len(composer.got))
	}
	if composer.got[0].Title != "high" || composer.got[1].Title != "dup" {
		t.Fatalf("articles must reach the composer sorted by score, got %q then %q",
			composer.got[0].Title, composer.got[1].Title)
	}
	if cats.calls != 1 {
		t.Fatalf("expected one categorization pass, got %d", cats.calls)
	}

	if store.savedDate != "2026-08-28" {
		t.Fatalf("unexpected saved date %q", store.savedDate)
	}
	if store.savedCount != 3 || store.savedDigest != 1 {
		t.Fatalf("unexpected persisted counts: %+v", store)
	}
	if !store.indexUpdated || !store.cleanedUp {
		t.Fatal("index update and cleanup must both run")
	}

	if archive.run == nil {
		t.Fatal("run summary must be archived")
	}
	if archive.run.ArticleCount != 3 || archive.run.DigestCount != 1 {
		t.Fatalf("unexpected run summary: %+v", archive.run)
	}
	if archive.articles != 3 {
		t.Fatalf("expected 3 archived articles, got %d", archive.articles)
	}

	if !strings.Contains(notifier.message, "2026-08-28") {
		t.Fatalf("message must carry the run date: %q", notifier.message)
	}
	if !strings.Contains(notifier.message, "📌 Headline") {
		t.Fatalf("message must list digest entries: %q", notifier.message)
	}
	if !strings.Contains(notifier.message, "https://example.com/high") {
		t.Fatalf("message must list source links: %q", notifier.message)
	}
}

func TestProcessDayFetchFailure(t *testing.T) {
	t.Parallel()

	p := NewPipeline(PipelineDeps{
		Source: &stubSource{err: fmt.Errorf("network down")},
		Store:  &stubStore{},
	})

	if err := p.ProcessDay(context.Background(), time.Now()); err == nil {
		t.Fatal("expected fetch failure to abort the run")
	}
}

func TestProcessDayStoreFailure(t *testing.T) {
	t.Parallel()

	p := NewPipeline(PipelineDeps{
		Source: &stubSource{articles: []domain.Article{
			scoredArticle("one", "https://example.com/1", "devto", 1),
		}},
		Store: &stubStore{saveErr: fmt.Errorf("disk full")},
	})

	if err := p.ProcessDay(context.Background(), time.Now()); err == nil {
		t.Fatal("expected persistence failure to abort the run")
	}
}

func TestProcessDayArchiveFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	archive := &stubArchive{runErr: fmt.Errorf("database gone")}
	p := NewPipeline(PipelineDeps{
		Source: &stubSource{articles: []domain.Article{
			scoredArticle("one", "https://example.com/1", "devto", 1),
		}},
		Store:   &stubStore{},
		Archive: archive,
	})

	if err := p.ProcessDay(context.Background(), time.Now()); err != nil {
		t.Fatalf("archive failure must not abort the run: %v", err)
	}
	if archive.articles != 0 {
		t.Fatal("articles must not be archived after a failed run insert")
	}
}

func TestProcessDaySkipsNotifyWithoutEntries(t *testing.T) {
	t.Parallel()

	notifier := &stubNotifier{}
	p := NewPipeline(PipelineDeps{
		Source: &stubSource{articles: []domain.Article{
			scoredArticle("one", "https://example.com/1", "devto", 1),
		}},
		Composer: &stubComposer{entries: []domain.DigestEntry{}},
		Store:    &stubStore{},
		Notifier: notifier,
	})

	if err := p.ProcessDay(context.Background(), time.Now()); err != nil {
		t.Fatalf("process day: %v", err)
	}
	if notifier.message != "" {
		t.Fatalf("empty digest must not be published, got %q", notifier.message)
	}
}

func TestDedupeByURL(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "a", URL: "https://Example.com/x/"},
		{Title: "b", URL: "https://example.com/x"},
		{Title: "c", URL: "https://example.com/y"},
	}

	unique := dedupeByURL(articles)
	if len(unique) != 2 {
		t.Fatalf("expected 2 unique articles, got %d", len(unique))
	}
	if unique[0].Title != "a" || unique[1].Title != "c" {
		t.Fatalf("first occurrence must win: %q, %q", unique[0].Title, unique[1].Title)
	}
}
