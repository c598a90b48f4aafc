package domain

import "time"

// CategoryGeneral is the catch-all category every article starts in.
const CategoryGeneral = "general"

// Article is the normalized content record produced by every source scanner.
// Score semantics vary per source (upvotes, reactions, stars-today) but are
// always non-negative and "more is better" within a source.
type Article struct {
	Title          string   `json:"title"`
	URL            string   `json:"url"`
	Source         string   `json:"source"`
	Description    string   `json:"description"`
	Author         string   `json:"author"`
	Tags           []string `json:"tags"`
	Category       string   `json:"category"`
	Score          int      `json:"score"`
	CommentsCount  int      `json:"comments_count"`
	ReadingTimeMin int      `json:"reading_time_min"`
	PublishedAt    string   `json:"published_at"`
	FetchedAt      string   `json:"fetched_at"`
	Language       string   `json:"language"`
}

// NewArticle returns an Article with identity fields set and defaults applied.
func NewArticle(title, url, source string) Article {
	return Article{
		Title:     title,
		URL:       url,
		Source:    source,
		Tags:      []string{},
		Category:  CategoryGeneral,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
		Language:  "en",
	}
}

// SourceRef is a lightweight back-reference from a digest entry to the
// article that informed it.
type SourceRef struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// DigestEntry is one synthesized, bilingual narrative unit of the daily digest.
type DigestEntry struct {
	TitleEN  string      `json:"title_en"`
	TitlePT  string      `json:"title_pt"`
	BodyEN   string      `json:"body_en"`
	BodyPT   string      `json:"body_pt"`
	Category string      `json:"category"`
	Emoji    string      `json:"emoji"`
	Sources  []SourceRef `json:"sources"`
}

// RunSummary captures the outcome of one pipeline run for the archive.
type RunSummary struct {
	Date         string
	ArticleCount int
	DigestCount  int
	Sources      []string
	GeneratedAt  time.Time
}
