package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/scanner"
)

const (
	redditAPI             = "https://www.reddit.com"
	redditDefaultPerSub   = 10
	redditRequestDelay    = 250 * time.Millisecond
	redditSelftextMaxLen  = 300
	redditDefaultSubreddit = "programming"
)

// RedditScanner reads the public per-subreddit hot.json endpoints.
type RedditScanner struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewRedditScanner wires an HTTP client; a nil client gets a bounded default.
func NewRedditScanner(client *http.Client, logger *slog.Logger) *RedditScanner {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &RedditScanner{client: client, baseURL: redditAPI, logger: logger}
}

// Name identifies the strategy inside the registry.
func (r *RedditScanner) Name() string {
	return "reddit"
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Permalink   string `json:"permalink"`
	Selftext    string `json:"selftext"`
	Author      string `json:"author"`
	Stickied    bool   `json:"stickied"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
}

// Scan walks the configured subreddits. A failing subreddit is logged and
// skipped so the rest still contribute.
func (r *RedditScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	maxPerSub := req.MaxItems
	if maxPerSub <= 0 {
		maxPerSub = redditDefaultPerSub
	}

	subreddits := splitOption(req.Options["subreddits"])
	if len(subreddits) == 0 {
		subreddits = []string{redditDefaultSubreddit}
	}

	var articles []domain.Article
	seen := map[string]struct{}{}

	for _, sub := range subreddits {
		url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d&t=day", r.baseURL, sub, maxPerSub)
		var listing redditListing
		if err := getJSON(ctx, r.client, url, &listing); err != nil {
			if r.logger != nil {
				r.logger.Error("subreddit failed", "subreddit", sub, "error", err)
			}
			continue
		}

		for _, child := range listing.Data.Children {
			post := child.Data
			if post.Stickied {
				continue
			}

			permalink := "https://www.reddit.com" + post.Permalink
			target := post.URL
			if target == "" || strings.HasPrefix(target, "/r/") {
				target = permalink
			}

			if _, ok := seen[target]; ok {
				continue
			}
			seen[target] = struct{}{}

			if post.Title == "" || target == "" {
				continue
			}

			desc := post.Selftext
			if len([]rune(desc)) > redditSelftextMaxLen {
				desc = truncate(desc, redditSelftextMaxLen) + "..."
			}

			a := domain.NewArticle(post.Title, target, "reddit")
			a.Description = desc
			a.Author = post.Author
			a.Tags = []string{"r/" + sub}
			a.Score = post.Score
			a.CommentsCount = post.NumComments
			articles = append(articles, a)
		}

		time.Sleep(redditRequestDelay)
	}

	return articles, nil
}

func splitOption(value string) []string {
	var parts []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
