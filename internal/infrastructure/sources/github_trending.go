package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/scanner"
)

const githubTrendingURL = "https://github.com/trending"

// GitHubTrendingScanner scrapes the trending page, optionally once per
// configured language. An empty language entry means the all-languages page.
type GitHubTrendingScanner struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewGitHubTrendingScanner wires an HTTP client; a nil client gets a bounded default.
func NewGitHubTrendingScanner(client *http.Client, logger *slog.Logger) *GitHubTrendingScanner {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &GitHubTrendingScanner{client: client, baseURL: githubTrendingURL, logger: logger}
}

// Name identifies the strategy inside the registry.
func (g *GitHubTrendingScanner) Name() string {
	return "github_trending"
}

// Scan fetches each language page and extracts repository rows. A failing
// language page is logged and skipped.
func (g *GitHubTrendingScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	languages := trendingLanguages(req.Options["languages"])

	var articles []domain.Article
	seen := map[string]struct{}{}

	for _, lang := range languages {
		pageURL := g.baseURL
		if lang != "" {
			pageURL = g.baseURL + "/" + lang
		}
		pageURL += "?since=daily"

		doc, err := g.fetchDocument(ctx, pageURL)
		if err != nil {
			if g.logger != nil {
				g.logger.Error("trending page failed", "language", lang, "error", err)
			}
			continue
		}

		doc.Find("article.Box-row").Each(func(i int, repo *goquery.Selection) {
			article, ok := parseTrendingRepo(repo)
			if !ok {
				return
			}
			if _, dup := seen[article.URL]; dup {
				return
			}
			seen[article.URL] = struct{}{}
			articles = append(articles, article)
		})
	}

	return articles, nil
}

func (g *GitHubTrendingScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func parseTrendingRepo(repo *goquery.Selection) (domain.Article, bool) {
	link := repo.Find("h2 a").First()
	path, exists := link.Attr("href")
	path = strings.TrimSpace(path)
	if !exists || path == "" {
		return domain.Article{}, false
	}

	repoName := strings.Trim(path, "/")
	repoURL := "https://github.com" + path

	description := strings.TrimSpace(repo.Find("p").First().Text())
	progLang := strings.TrimSpace(repo.Find("[itemprop='programmingLanguage']").First().Text())

	starsToday := 0
	if el := repo.Find("span.d-inline-block.float-sm-right").First(); el.Length() > 0 {
		starsToday = digitsIn(el.Text())
	}

	a := domain.NewArticle(repoName, repoURL, "github_trending")
	a.Description = description
	if progLang != "" {
		a.Tags = []string{strings.ToLower(progLang)}
	}
	a.Score = starsToday
	return a, true
}

func digitsIn(s string) int {
	n := 0
	found := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			found = true
		}
	}
	if !found {
		return 0
	}
	return n
}

// trendingLanguages keeps empty entries: "" selects the all-languages page.
func trendingLanguages(value string) []string {
	if value == "" {
		return []string{""}
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
