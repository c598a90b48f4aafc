package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/ports"
)

// PostgresRepository records run history for audit. It never feeds back into
// a run: cross-run dedup stays out of scope.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArchiveRepository = (*PostgresRepository)(nil)

// Open connects to Postgres with the pq driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// EnsureSchema creates the archive tables when they are missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}

	const schema = `
        CREATE TABLE IF NOT EXISTS daily_runs (
            run_date      TEXT PRIMARY KEY,
            article_count INTEGER NOT NULL,
            digest_count  INTEGER NOT NULL,
            sources       TEXT[] NOT NULL,
            generated_at  TIMESTAMPTZ NOT NULL
        );
        CREATE TABLE IF NOT EXISTS archived_articles (
            url            TEXT PRIMARY KEY,
            run_date       TEXT NOT NULL,
            title          TEXT NOT NULL,
            source         TEXT NOT NULL,
            category       TEXT NOT NULL,
            author         TEXT NOT NULL DEFAULT '',
            tags           TEXT[] NOT NULL DEFAULT '{}',
            score          INTEGER NOT NULL DEFAULT 0,
            comments_count INTEGER NOT NULL DEFAULT 0,
            published_at   TEXT NOT NULL DEFAULT ''
        );`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun upserts the run summary keyed by date.
func (r *PostgresRepository) SaveRun(ctx context.Context, run domain.RunSummary) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("daily_runs").
		Columns("run_date", "article_count", "digest_count", "sources", "generated_at").
		Values(run.Date, run.ArticleCount, run.DigestCount, pq.Array(run.Sources), run.GeneratedAt).
		Suffix(`ON CONFLICT (run_date) DO UPDATE
                SET article_count = EXCLUDED.article_count,
                    digest_count = EXCLUDED.digest_count,
                    sources = EXCLUDED.sources,
                    generated_at = EXCLUDED.generated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build run upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert run %s: %w", run.Date, err)
	}
	return nil
}

// SaveArticles upserts the article snapshots keyed by URL.
func (r *PostgresRepository) SaveArticles(ctx context.Context, date string, articles []domain.Article) error {
	if r.db == nil || len(articles) == 0 {
		return nil
	}

	for _, a := range articles {
		query, args, err := r.builder.
			Insert("archived_articles").
			Columns("url", "run_date", "title", "source", "category",
				"author", "tags", "score", "comments_count", "published_at").
			Values(a.URL, date, a.Title, a.Source, a.Category,
				a.Author, pq.Array(a.Tags), a.Score, a.CommentsCount, a.PublishedAt).
			Suffix(`ON CONFLICT (url) DO UPDATE
                    SET run_date = EXCLUDED.run_date,
                        title = EXCLUDED.title,
                        category = EXCLUDED.category,
                        score = EXCLUDED.score,
                        comments_count = EXCLUDED.comments_count`).
			ToSql()
		if err != nil {
			return fmt.Errorf("build article upsert: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert article %s: %w", a.URL, err)
		}
	}
	return nil
}
