package sources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"KeepUpDaily/internal/config"
	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/ports"
	"KeepUpDaily/internal/scanner"
)

// StrategySource implements ports.ArticleSource via registered scanner
// strategies. One source failing never aborts the run; the remaining sources
// still contribute.
type StrategySource struct {
	registry *scanner.Registry
	sources  []config.SourceConfig
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined sources.
func NewStrategySource(reg *scanner.Registry, sources []config.SourceConfig, logger *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  sources,
		logger:   logger,
	}
}

// FetchDaily iterates over configured sources and executes their scanners.
func (s *StrategySource) FetchDaily(ctx context.Context, day time.Time) ([]domain.Article, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.log(slog.LevelDebug, "fetch daily", "sources", len(s.sources), "day", day.Format("2006-01-02"))

	var aggregated []domain.Article
	for _, src := range s.sources {
		strategy, err := s.registry.Resolve(src.Scanner)
		if err != nil {
			s.log(slog.LevelError, "source skipped", "source", src.Name, "error", err)
			continue
		}

		req := scanner.Request{
			Day:        day,
			SourceName: src.Name,
			MaxItems:   src.MaxItems,
			Options:    src.Options,
			Feeds:      toScannerFeeds(src.Feeds),
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			s.log(slog.LevelError, "source failed", "source", src.Name, "error", err)
			continue
		}

		for i := range results {
			if results[i].Source == "" {
				results[i].Source = src.Name
			}
		}

		s.log(slog.LevelInfo, "source fetched", "source", src.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.log(slog.LevelInfo, "all sources done", "total_articles", len(aggregated))
	return aggregated, nil
}

func toScannerFeeds(cfg []config.FeedConfig) []scanner.Feed {
	feeds := make([]scanner.Feed, 0, len(cfg))
	for _, feed := range cfg {
		feeds = append(feeds, scanner.Feed{Name: feed.Name, URL: feed.URL})
	}
	return feeds
}

func (s *StrategySource) log(level slog.Level, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Log(context.Background(), level, msg, args...)
	}
}
