package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/scanner"
)

const (
	devtoAPI          = "https://dev.to/api"
	devtoDefaultLimit = 30
)

// DevtoScanner reads the public Dev.to REST API, top articles of the day.
type DevtoScanner struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewDevtoScanner wires an HTTP client; a nil client gets a bounded default.
func NewDevtoScanner(client *http.Client, logger *slog.Logger) *DevtoScanner {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &DevtoScanner{client: client, baseURL: devtoAPI, logger: logger}
}

// Name identifies the strategy inside the registry.
func (d *DevtoScanner) Name() string {
	return "devto"
}

type devtoArticle struct {
	Title                string   `json:"title"`
	URL                  string   `json:"url"`
	Description          string   `json:"description"`
	TagList              []string `json:"tag_list"`
	PublicReactionsCount int      `json:"public_reactions_count"`
	CommentsCount        int      `json:"comments_count"`
	ReadingTimeMinutes   int      `json:"reading_time_minutes"`
	PublishedAt          string   `json:"published_at"`
	User                 struct {
		Username string `json:"username"`
	} `json:"user"`
}

// Scan fetches today's top articles.
func (d *DevtoScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	limit := req.MaxItems
	if limit <= 0 {
		limit = devtoDefaultLimit
	}

	url := fmt.Sprintf("%s/articles?top=1&per_page=%d", d.baseURL, limit)
	var items []devtoArticle
	if err := getJSON(ctx, d.client, url, &items); err != nil {
		return nil, fmt.Errorf("devto articles: %w", err)
	}
	if len(items) > limit {
		items = items[:limit]
	}

	articles := make([]domain.Article, 0, len(items))
	for _, item := range items {
		if item.Title == "" || item.URL == "" {
			continue
		}

		a := domain.NewArticle(item.Title, item.URL, "devto")
		a.Description = item.Description
		a.Author = item.User.Username
		for _, tag := range item.TagList {
			if tag != "" {
				a.Tags = append(a.Tags, tag)
			}
		}
		a.Score = item.PublicReactionsCount
		a.CommentsCount = item.CommentsCount
		a.ReadingTimeMin = item.ReadingTimeMinutes
		a.PublishedAt = item.PublishedAt
		articles = append(articles, a)
	}

	return articles, nil
}
