package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/scanner"
)

const (
	hashnodeGQL          = "https://gql.hashnode.com"
	hashnodeDefaultLimit = 20
	hashnodeBriefMaxLen  = 300
)

// Hashnode restricts or reshapes this endpoint from time to time; the
// scanner fails gracefully and the other sources still provide data.
const hashnodeFeedQuery = `
query FetchFeed($first: Int!) {
  feed(first: $first, filter: { type: BEST }) {
    edges {
      node {
        title
        brief
        url
        author { username }
        readTimeInMinutes
        reactionCount
        responseCount
        publishedAt
        tags { name }
      }
    }
  }
}
`

// HashnodeScanner reads the public GraphQL best feed.
type HashnodeScanner struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewHashnodeScanner wires an HTTP client; a nil client gets a bounded default.
func NewHashnodeScanner(client *http.Client, logger *slog.Logger) *HashnodeScanner {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &HashnodeScanner{client: client, baseURL: hashnodeGQL, logger: logger}
}

// Name identifies the strategy inside the registry.
func (h *HashnodeScanner) Name() string {
	return "hashnode"
}

type hashnodeFeed struct {
	Data struct {
		Feed struct {
			Edges []struct {
				Node struct {
					Title             string `json:"title"`
					Brief             string `json:"brief"`
					URL               string `json:"url"`
					ReadTimeInMinutes int    `json:"readTimeInMinutes"`
					ReactionCount     int    `json:"reactionCount"`
					ResponseCount     int    `json:"responseCount"`
					PublishedAt       string `json:"publishedAt"`
					Author            struct {
						Username string `json:"username"`
					} `json:"author"`
					Tags []struct {
						Name string `json:"name"`
					} `json:"tags"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"feed"`
	} `json:"data"`
}

// Scan posts the feed query and normalizes the returned nodes.
func (h *HashnodeScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	limit := req.MaxItems
	if limit <= 0 {
		limit = hashnodeDefaultLimit
	}

	body, err := json.Marshal(map[string]any{
		"query":     hashnodeFeedQuery,
		"variables": map[string]any{"first": limit},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("hashnode feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hashnode returned %s", resp.Status)
	}

	var feed hashnodeFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	edges := feed.Data.Feed.Edges
	articles := make([]domain.Article, 0, len(edges))
	for _, edge := range edges {
		node := edge.Node
		if node.Title == "" || node.URL == "" {
			continue
		}

		a := domain.NewArticle(node.Title, node.URL, "hashnode")
		a.Description = truncate(node.Brief, hashnodeBriefMaxLen)
		a.Author = node.Author.Username
		for _, tag := range node.Tags {
			if tag.Name != "" {
				a.Tags = append(a.Tags, tag.Name)
			}
		}
		a.Score = node.ReactionCount
		a.CommentsCount = node.ResponseCount
		a.ReadingTimeMin = node.ReadTimeInMinutes
		a.PublishedAt = node.PublishedAt
		articles = append(articles, a)
	}

	return articles, nil
}
