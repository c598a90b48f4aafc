package sources

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/scanner"
)

const rssDescriptionMaxLen = 300

// RSSScanner is a generic RSS/Atom strategy for feeds without a dedicated
// scanner. Feed endpoints come from the source config.
type RSSScanner struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

// NewRSSScanner builds the gofeed-backed strategy.
func NewRSSScanner(logger *slog.Logger) *RSSScanner {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &RSSScanner{parser: parser, logger: logger}
}

// Name identifies the strategy inside the registry.
func (r *RSSScanner) Name() string {
	return "rss"
}

// Scan fetches every configured feed. A failing feed is logged and skipped.
func (r *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	var articles []domain.Article

	for _, feedCfg := range req.Feeds {
		feed, err := r.parser.ParseURLWithContext(feedCfg.URL, ctx)
		if err != nil {
			if r.logger != nil {
				r.logger.Error("feed failed", "feed", feedCfg.Name, "url", feedCfg.URL, "error", err)
			}
			continue
		}

		source := feedCfg.Name
		if source == "" {
			source = req.SourceName
		}

		items := feed.Items
		if req.MaxItems > 0 && len(items) > req.MaxItems {
			items = items[:req.MaxItems]
		}

		for _, item := range items {
			if item == nil || item.Title == "" || item.Link == "" {
				continue
			}

			a := domain.NewArticle(item.Title, item.Link, source)
			a.Description = truncate(item.Description, rssDescriptionMaxLen)
			a.Author = feedItemAuthor(item)
			if len(item.Categories) > 0 {
				a.Tags = item.Categories
			}
			if item.PublishedParsed != nil {
				a.PublishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
			} else {
				a.PublishedAt = item.Published
			}
			articles = append(articles, a)
		}
	}

	return articles, nil
}

func feedItemAuthor(item *gofeed.Item) string {
	for _, author := range item.Authors {
		if author != nil && author.Name != "" {
			return author.Name
		}
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}
