package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"KeepUpDaily/internal/domain"
)

func TestFileStoreSaveDaily(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewFileStore(dir, 0, nil)

	articles := []domain.Article{
		domain.NewArticle("One", "https://example.com/1", "hackernews"),
		domain.NewArticle("Two", "https://example.com/2", "devto"),
	}
	digest := []domain.DigestEntry{{TitleEN: "Entry", Category: "general", Emoji: "📌"}}

	path, err := store.SaveDaily("2026-08-28", articles, digest)
	if err != nil {
		t.Fatalf("save daily: %v", err)
	}
	if filepath.Base(path) != "2026-08-28.json" {
		t.Fatalf("unexpected file name %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}

	var payload dailyPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode saved file: %v", err)
	}
	if payload.Date != "2026-08-28" {
		t.Fatalf("unexpected date %q", payload.Date)
	}
	if payload.RawArticleCount != 2 || payload.DigestCount != 1 {
		t.Fatalf("counts not recorded: %+v", payload)
	}
	if len(payload.Sources) != 2 || payload.Sources[0] != "devto" || payload.Sources[1] != "hackernews" {
		t.Fatalf("expected sorted source names, got %v", payload.Sources)
	}
	if payload.GeneratedAt == "" {
		t.Fatal("generated_at must be set")
	}
}

func TestFileStoreSaveDailyNilSlices(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir(), 0, nil)

	path, err := store.SaveDaily("2026-08-28", nil, nil)
	if err != nil {
		t.Fatalf("save daily: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode saved file: %v", err)
	}
	for _, key := range []string{"digest", "articles"} {
		if string(raw[key]) == "null" {
			t.Fatalf("%s must serialize as an empty array, got null", key)
		}
	}
}

func TestFileStoreUpdateIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewFileStore(dir, 0, nil)

	for _, date := range []string{"2026-08-26", "2026-08-28", "2026-08-27"} {
		if _, err := store.SaveDaily(date, nil, nil); err != nil {
			t.Fatalf("save %s: %v", date, err)
		}
	}

	if err := store.UpdateIndex(); err != nil {
		t.Fatalf("update index: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "index.json"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}

	var index indexPayload
	if err := json.Unmarshal(data, &index); err != nil {
		t.Fatalf("decode index: %v", err)
	}
	want := []string{"2026-08-28", "2026-08-27", "2026-08-26"}
	if index.TotalDays != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), index.TotalDays)
	}
	for i, date := range want {
		if index.AvailableDates[i] != date {
			t.Fatalf("index position %d: expected %s, got %s", i, date, index.AvailableDates[i])
		}
	}
}

func TestFileStoreCleanupOld(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewFileStore(dir, 7, nil)

	for _, date := range []string{"2000-01-01", "2000-01-02", "2999-12-31"} {
		if _, err := store.SaveDaily(date, nil, nil); err != nil {
			t.Fatalf("save %s: %v", date, err)
		}
	}
	if err := store.UpdateIndex(); err != nil {
		t.Fatalf("update index: %v", err)
	}

	removed, err := store.CleanupOld()
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 files removed, got %d", removed)
	}

	if _, err := os.Stat(filepath.Join(dir, "2999-12-31.json")); err != nil {
		t.Fatalf("recent file must survive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "index.json")); err != nil {
		t.Fatalf("index must survive cleanup: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "2000-01-01.json")); !os.IsNotExist(err) {
		t.Fatalf("expired file must be removed, stat err = %v", err)
	}
}

func TestFileStoreCleanupDisabled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewFileStore(dir, 0, nil)

	if _, err := store.SaveDaily("2000-01-01", nil, nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	removed, err := store.CleanupOld()
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 0 {
		t.Fatalf("retention 0 must keep everything, removed %d", removed)
	}
}
