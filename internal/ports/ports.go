package ports

import (
	"context"
	"time"

	"KeepUpDaily/internal/domain"
)

// ArticleSource pulls fresh articles from all configured feeds.
type ArticleSource interface {
	FetchDaily(ctx context.Context, day time.Time) ([]domain.Article, error)
}

// Categorizer assigns a taxonomy category to every article in place.
type Categorizer interface {
	CategorizeAll(articles []domain.Article) []domain.Article
}

// DigestComposer turns the day's articles into digest entries. It never
// fails: every generative-path error degrades to the deterministic fallback.
type DigestComposer interface {
	CreateDigest(ctx context.Context, articles []domain.Article) []domain.DigestEntry
}

// ChatClient sends one chat-completion request and returns the assistant
// message content verbatim.
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// DigestStore persists the run output as daily JSON data files.
type DigestStore interface {
	SaveDaily(date string, articles []domain.Article, digest []domain.DigestEntry) (string, error)
	UpdateIndex() error
	CleanupOld() (int, error)
}

// ArchiveRepository records run history in a database for audit. It never
// filters future runs: cross-run dedup is out of scope.
type ArchiveRepository interface {
	SaveRun(ctx context.Context, run domain.RunSummary) error
	SaveArticles(ctx context.Context, date string, articles []domain.Article) error
}

// Notifier pushes the digest headline summary to an outbound channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
