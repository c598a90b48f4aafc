package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/scanner"
)

const (
	hackerNewsAPI          = "https://hacker-news.firebaseio.com/v0"
	hackerNewsDefaultLimit = 30
	hackerNewsItemDelay    = 50 * time.Millisecond
)

// HackerNewsScanner pulls top stories from the official Firebase API.
type HackerNewsScanner struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewHackerNewsScanner wires an HTTP client; a nil client gets a bounded default.
func NewHackerNewsScanner(client *http.Client, logger *slog.Logger) *HackerNewsScanner {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &HackerNewsScanner{client: client, baseURL: hackerNewsAPI, logger: logger}
}

// Name identifies the strategy inside the registry.
func (h *HackerNewsScanner) Name() string {
	return "hackernews"
}

type hackerNewsItem struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	By          string `json:"by"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
}

// Scan fetches the top-story id list and resolves each story. Individual
// story failures are logged and skipped.
func (h *HackerNewsScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	limit := req.MaxItems
	if limit <= 0 {
		limit = hackerNewsDefaultLimit
	}

	var storyIDs []int64
	if err := getJSON(ctx, h.client, h.baseURL+"/topstories.json", &storyIDs); err != nil {
		return nil, fmt.Errorf("top stories: %w", err)
	}
	if len(storyIDs) > limit {
		storyIDs = storyIDs[:limit]
	}

	articles := make([]domain.Article, 0, len(storyIDs))
	for _, id := range storyIDs {
		var item hackerNewsItem
		if err := getJSON(ctx, h.client, fmt.Sprintf("%s/item/%d.json", h.baseURL, id), &item); err != nil {
			if h.logger != nil {
				h.logger.Warn("story fetch failed", "id", id, "error", err)
			}
			continue
		}
		if item.Type != "story" || item.Title == "" {
			continue
		}

		url := item.URL
		if url == "" {
			url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
		}

		a := domain.NewArticle(item.Title, url, "hackernews")
		a.Author = item.By
		a.Score = item.Score
		a.CommentsCount = item.Descendants
		articles = append(articles, a)

		time.Sleep(hackerNewsItemDelay)
	}

	return articles, nil
}
