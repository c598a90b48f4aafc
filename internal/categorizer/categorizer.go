package categorizer

import (
	"log/slog"
	"regexp"
	"strings"

	"KeepUpDaily/internal/config"
	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/ports"
)

// Short keywords are matched as whole words only; anything longer is a
// plain substring. A bare substring match for "go" would fire inside
// "algorithm", hence the split.
const shortKeywordLen = 3

const (
	wordMatchPoints      = 2
	substringMatchPoints = 1
)

// Categorizer scores articles against the configured taxonomy.
type Categorizer struct {
	taxonomy config.TaxonomyConfig
	wordExpr map[string]*regexp.Regexp
	logger   *slog.Logger
}

var _ ports.Categorizer = (*Categorizer)(nil)

// New compiles word-boundary patterns for all short keywords up front so
// scoring itself is allocation-free.
func New(taxonomy config.TaxonomyConfig, logger *slog.Logger) *Categorizer {
	wordExpr := make(map[string]*regexp.Regexp)
	for _, cat := range taxonomy.Categories {
		for _, kw := range cat.Keywords {
			lower := strings.ToLower(kw)
			if len(lower) > shortKeywordLen {
				continue
			}
			if _, ok := wordExpr[lower]; ok {
				continue
			}
			wordExpr[lower] = regexp.MustCompile(`\b` + regexp.QuoteMeta(lower) + `\b`)
		}
	}

	return &Categorizer{taxonomy: taxonomy, wordExpr: wordExpr, logger: logger}
}

// Categorize returns the best-matching category key for the article. Ties go
// to the category that appears first in taxonomy order; a zero score yields
// the default category.
func (c *Categorizer) Categorize(article domain.Article) string {
	text := searchText(article)

	bestCat := c.taxonomy.Default
	bestScore := 0

	for _, cat := range c.taxonomy.Categories {
		score := 0
		for _, kw := range cat.Keywords {
			lower := strings.ToLower(kw)
			if len(lower) <= shortKeywordLen {
				if expr, ok := c.wordExpr[lower]; ok && expr.MatchString(text) {
					score += wordMatchPoints
				}
				continue
			}
			if strings.Contains(text, lower) {
				score += substringMatchPoints
			}
		}

		if score > bestScore {
			bestScore = score
			bestCat = cat.Key
		}
	}

	return bestCat
}

// CategorizeAll categorizes every article in place and returns the same
// slice. Re-running recomputes identically: scoring never reads the category
// field.
func (c *Categorizer) CategorizeAll(articles []domain.Article) []domain.Article {
	for i := range articles {
		articles[i].Category = c.Categorize(articles[i])
	}

	dist := make(map[string]int)
	for i := range articles {
		dist[articles[i].Category]++
	}
	if c.logger != nil {
		c.logger.Info("category distribution", "distribution", dist)
	}

	return articles
}

func searchText(article domain.Article) string {
	parts := []string{
		article.Title,
		article.Description,
		strings.Join(article.Tags, " "),
	}
	return strings.ToLower(strings.Join(parts, " "))
}
