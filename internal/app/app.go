package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"KeepUpDaily/internal/categorizer"
	"KeepUpDaily/internal/config"
	"KeepUpDaily/internal/digest"
	"KeepUpDaily/internal/infrastructure/llm"
	"KeepUpDaily/internal/infrastructure/scheduler"
	"KeepUpDaily/internal/infrastructure/sources"
	"KeepUpDaily/internal/infrastructure/storage"
	"KeepUpDaily/internal/infrastructure/telegram"
	"KeepUpDaily/internal/logging"
	"KeepUpDaily/internal/ports"
	"KeepUpDaily/internal/scanner"
	"KeepUpDaily/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	closers  []func() error
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := scanner.NewRegistry()
	registry.Register(sources.NewHackerNewsScanner(nil, baseLogger.With("component", "scanner.hackernews")))
	registry.Register(sources.NewDevtoScanner(nil, baseLogger.With("component", "scanner.devto")))
	registry.Register(sources.NewLobstersScanner(nil, baseLogger.With("component", "scanner.lobsters")))
	registry.Register(sources.NewRedditScanner(nil, baseLogger.With("component", "scanner.reddit")))
	registry.Register(sources.NewGitHubTrendingScanner(nil, baseLogger.With("component", "scanner.github_trending")))
	registry.Register(sources.NewHashnodeScanner(nil, baseLogger.With("component", "scanner.hashnode")))
	registry.Register(sources.NewRSSScanner(baseLogger.With("component", "scanner.rss")))

	source := sources.NewStrategySource(registry, cfg.Sources, baseLogger.With("component", "source"))

	var chatClient ports.ChatClient
	if cfg.AI.APIKey != "" {
		chatClient = llm.NewChatClient(cfg.AI)
	}

	composer := digest.NewComposer(chatClient, cfg.AI, cfg.Taxonomy, baseLogger.With("component", "digest"))
	cats := categorizer.New(cfg.Taxonomy, baseLogger.With("component", "categorizer"))
	store := storage.NewFileStore(cfg.Storage.DataDir, cfg.Storage.RetentionDays, baseLogger.With("component", "storage"))

	application := &Application{cfg: cfg, logger: baseLogger}

	var archive ports.ArchiveRepository
	if cfg.Database.DSN != "" {
		db, err := storage.Open(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open archive database: %w", err)
		}
		application.closers = append(application.closers, db.Close)

		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			return nil, fmt.Errorf("prepare archive schema: %w", err)
		}
		archive = repo
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	application.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:      source,
		Categorizer: cats,
		Composer:    composer,
		Store:       store,
		Archive:     archive,
		Notifier:    notifier,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	return application, nil
}

// Run executes one pipeline run, or keeps a daily schedule when configured
// as a daemon.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}
	defer a.close()

	if !a.cfg.Scheduler.Daemon {
		return a.pipeline.ProcessDay(ctx, time.Now())
	}

	sched := usecase.NewScheduler(scheduler.NewDailyScheduler(), a.pipeline)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return sched.Stop(context.Background())
}

func (a *Application) close() {
	for _, closer := range a.closers {
		if err := closer(); err != nil && a.logger != nil {
			a.logger.Error("close resource", "error", err)
		}
	}
}
