package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/ports"
)

const indexFileName = "index.json"

// FileStore persists run output as one JSON file per day plus an index of
// available dates, and enforces the retention window.
type FileStore struct {
	dir           string
	retentionDays int
	logger        *slog.Logger
}

var _ ports.DigestStore = (*FileStore)(nil)

// NewFileStore wires the data directory and retention policy.
func NewFileStore(dir string, retentionDays int, logger *slog.Logger) *FileStore {
	return &FileStore{dir: dir, retentionDays: retentionDays, logger: logger}
}

type dailyPayload struct {
	Date            string               `json:"date"`
	GeneratedAt     string               `json:"generated_at"`
	Digest          []domain.DigestEntry `json:"digest"`
	DigestCount     int                  `json:"digest_count"`
	RawArticleCount int                  `json:"raw_article_count"`
	Sources         []string             `json:"sources"`
	Articles        []domain.Article     `json:"articles"`
}

type indexPayload struct {
	UpdatedAt      string   `json:"updated_at"`
	AvailableDates []string `json:"available_dates"`
	TotalDays      int      `json:"total_days"`
}

// SaveDaily writes the digest plus raw articles to <dir>/<date>.json and
// returns the file path.
func (s *FileStore) SaveDaily(date string, articles []domain.Article, digest []domain.DigestEntry) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	if digest == nil {
		digest = []domain.DigestEntry{}
	}
	if articles == nil {
		articles = []domain.Article{}
	}

	payload := dailyPayload{
		Date:            date,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Digest:          digest,
		DigestCount:     len(digest),
		RawArticleCount: len(articles),
		Sources:         sourceNames(articles),
		Articles:        articles,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal daily payload: %w", err)
	}

	path := filepath.Join(s.dir, date+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	if s.logger != nil {
		s.logger.Info("daily data saved",
			"digest_entries", len(digest), "articles", len(articles), "path", path)
	}
	return path, nil
}

// UpdateIndex regenerates index.json with the list of available dates,
// newest first.
func (s *FileStore) UpdateIndex() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	dates, err := s.availableDates()
	if err != nil {
		return err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	index := indexPayload{
		UpdatedAt:      time.Now().UTC().Format(time.RFC3339),
		AvailableDates: dates,
		TotalDays:      len(dates),
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	path := filepath.Join(s.dir, indexFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if s.logger != nil {
		s.logger.Info("index updated", "dates", len(dates))
	}
	return nil
}

// CleanupOld deletes dated files older than the retention window and returns
// the count removed. index.json is never removed.
func (s *FileStore) CleanupOld() (int, error) {
	if s.retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays).Format("2006-01-02")

	dates, err := s.availableDates()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, date := range dates {
		if date >= cutoff {
			continue
		}
		path := filepath.Join(s.dir, date+".json")
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
		removed++
		if s.logger != nil {
			s.logger.Info("old data removed", "file", date+".json")
		}
	}

	return removed, nil
}

func (s *FileStore) availableDates() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var dates []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || name == indexFileName {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, ".json"))
	}
	return dates, nil
}

func sourceNames(articles []domain.Article) []string {
	set := map[string]struct{}{}
	for _, a := range articles {
		set[a.Source] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
