package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/scanner"
)

const (
	lobstersAPI          = "https://lobste.rs"
	lobstersDefaultLimit = 25
)

// LobstersScanner reads the public hottest.json endpoint.
type LobstersScanner struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewLobstersScanner wires an HTTP client; a nil client gets a bounded default.
func NewLobstersScanner(client *http.Client, logger *slog.Logger) *LobstersScanner {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &LobstersScanner{client: client, baseURL: lobstersAPI, logger: logger}
}

// Name identifies the strategy inside the registry.
func (l *LobstersScanner) Name() string {
	return "lobsters"
}

type lobstersStory struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	CommentsURL string   `json:"comments_url"`
	Description string   `json:"description"`
	Score       int      `json:"score"`
	CommentCount int     `json:"comment_count"`
	Tags        []string `json:"tags"`
	// The API has shipped both a bare username string and an expanded user
	// object here; keep it raw and probe both shapes.
	SubmitterUser json.RawMessage `json:"submitter_user"`
	CreatedAt     string          `json:"created_at"`
}

func (s lobstersStory) author() string {
	var username string
	if json.Unmarshal(s.SubmitterUser, &username) == nil {
		return username
	}
	var user struct {
		Username string `json:"username"`
	}
	if json.Unmarshal(s.SubmitterUser, &user) == nil {
		return user.Username
	}
	return ""
}

// Scan fetches the hottest stories.
func (l *LobstersScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	limit := req.MaxItems
	if limit <= 0 {
		limit = lobstersDefaultLimit
	}

	var stories []lobstersStory
	if err := getJSON(ctx, l.client, l.baseURL+"/hottest.json", &stories); err != nil {
		return nil, fmt.Errorf("lobsters hottest: %w", err)
	}
	if len(stories) > limit {
		stories = stories[:limit]
	}

	articles := make([]domain.Article, 0, len(stories))
	for _, story := range stories {
		url := story.URL
		if url == "" {
			url = story.CommentsURL
		}
		if story.Title == "" || url == "" {
			continue
		}

		a := domain.NewArticle(story.Title, url, "lobsters")
		a.Description = story.Description
		a.Author = story.author()
		if len(story.Tags) > 0 {
			a.Tags = story.Tags
		}
		a.Score = story.Score
		a.CommentsCount = story.CommentCount
		a.PublishedAt = story.CreatedAt
		articles = append(articles, a)
	}

	return articles, nil
}
