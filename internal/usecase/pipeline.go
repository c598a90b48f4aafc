package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
// Archive and Notifier are optional; everything else is required.
type PipelineDeps struct {
	Source      ports.ArticleSource
	Categorizer ports.Categorizer
	Composer    ports.DigestComposer
	Store       ports.DigestStore
	Archive     ports.ArchiveRepository
	Notifier    ports.Notifier
	Logger      *slog.Logger
}

// Pipeline implements the daily scrape-categorize-digest workflow.
type Pipeline struct {
	source      ports.ArticleSource
	categorizer ports.Categorizer
	composer    ports.DigestComposer
	store       ports.DigestStore
	archive     ports.ArchiveRepository
	notifier    ports.Notifier
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:      deps.Source,
		categorizer: deps.Categorizer,
		composer:    deps.Composer,
		store:       deps.Store,
		archive:     deps.Archive,
		notifier:    deps.Notifier,
		logger:      deps.Logger,
	}
}

// ProcessDay orchestrates one full run: fetch, dedup, categorize, sort,
// digest, persist, archive, notify.
func (p *Pipeline) ProcessDay(ctx context.Context, day time.Time) error {
	if p.source == nil {
		return nil
	}

	articles, err := p.source.FetchDaily(ctx, day)
	if err != nil {
		return fmt.Errorf("fetch daily: %w", err)
	}

	before := len(articles)
	articles = dedupeByURL(articles)
	p.info("deduplicated", "before", before, "after", len(articles))

	if p.categorizer != nil {
		articles = p.categorizer.CategorizeAll(articles)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Score > articles[j].Score
	})

	var entries []domain.DigestEntry
	if p.composer != nil {
		entries = p.composer.CreateDigest(ctx, articles)
	}

	date := day.UTC().Format("2006-01-02")

	if p.store != nil {
		if _, err := p.store.SaveDaily(date, articles, entries); err != nil {
			return fmt.Errorf("save daily data: %w", err)
		}
		if err := p.store.UpdateIndex(); err != nil {
			return fmt.Errorf("update index: %w", err)
		}
		removed, err := p.store.CleanupOld()
		if err != nil {
			return fmt.Errorf("cleanup old data: %w", err)
		}
		if removed > 0 {
			p.info("old data cleaned up", "removed", removed)
		}
	}

	// The archive is best effort: a database hiccup must not fail a run
	// whose digest is already on disk.
	if p.archive != nil {
		run := domain.RunSummary{
			Date:         date,
			ArticleCount: len(articles),
			DigestCount:  len(entries),
			Sources:      sourceNames(articles),
			GeneratedAt:  time.Now().UTC(),
		}
		if err := p.archive.SaveRun(ctx, run); err != nil {
			p.warn("archive run failed", "error", err)
		} else if err := p.archive.SaveArticles(ctx, date, articles); err != nil {
			p.warn("archive articles failed", "error", err)
		}
	}

	p.info("run complete", "date", date, "articles", len(articles), "digest_entries", len(entries))

	if p.notifier == nil || len(entries) == 0 {
		return nil
	}

	if err := p.notifier.PublishDigest(ctx, buildDigestMessage(date, entries)); err != nil {
		return fmt.Errorf("publish digest: %w", err)
	}
	return nil
}

// dedupeByURL keeps the first occurrence of each URL, compared
// case-insensitively and ignoring trailing slashes.
func dedupeByURL(articles []domain.Article) []domain.Article {
	seen := map[string]struct{}{}
	unique := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		key := strings.ToLower(strings.TrimRight(a.URL, "/"))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, a)
	}
	return unique
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

func buildDigestMessage(date string, entries []domain.DigestEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Keep Up Daily %s\n\n", date)
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s %s\n", entry.Emoji, entry.TitleEN)
		for _, src := range entry.Sources {
			fmt.Fprintf(&b, "%s\n", src.URL)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
