package digest

import (
	"context"
	"fmt"
	"log/slog"

	"KeepUpDaily/internal/config"
	"KeepUpDaily/internal/domain"
	"KeepUpDaily/internal/ports"
)

const (
	maxCondensedDescLen = 500
	maxCondensedTags    = 6
)

// Composer produces the ordered list of digest entries for a run. It prefers
// the generative path and degrades to the deterministic fallback on any
// failure, so a run with at least one article always yields a digest.
type Composer struct {
	client   ports.ChatClient
	cfg      config.AIConfig
	taxonomy config.TaxonomyConfig
	logger   *slog.Logger
}

var _ ports.DigestComposer = (*Composer)(nil)

// NewComposer wires the chat client (nil when no credential is configured)
// with the digest policy and the taxonomy tables.
func NewComposer(client ports.ChatClient, cfg config.AIConfig, taxonomy config.TaxonomyConfig, logger *slog.Logger) *Composer {
	return &Composer{client: client, cfg: cfg, taxonomy: taxonomy, logger: logger}
}

// CreateDigest never returns an error: a missing credential, a disabled
// feature, a transport failure, or an unusable response all route to the
// fallback synthesizer, with the triggering condition logged for diagnostics.
func (c *Composer) CreateDigest(ctx context.Context, articles []domain.Article) []domain.DigestEntry {
	if len(articles) == 0 {
		return []domain.DigestEntry{}
	}

	if c.client == nil || c.cfg.Disabled {
		c.warn("ai digest disabled or no token configured, using fallback digest")
		return c.Fallback(articles)
	}

	entries, err := c.generate(ctx, articles)
	if err != nil {
		c.warn("ai digest failed, falling back", "error", err)
		return c.Fallback(articles)
	}
	if len(entries) == 0 {
		c.warn("ai returned no usable entries, falling back")
		return c.Fallback(articles)
	}

	c.info("ai digest complete", "entries", len(entries), "articles", len(articles))
	return entries
}

func (c *Composer) generate(ctx context.Context, articles []domain.Article) ([]domain.DigestEntry, error) {
	condensed := condense(articles)

	prompt, err := buildPrompt(condensed, articles, c.taxonomy.Keys(), c.cfg.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	raw, err := c.client.Complete(ctx, c.systemPrompt(), prompt)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	c.info("ai response received", "chars", len(raw))

	parsed, err := parseEntries(raw)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return c.enrich(parsed, articles), nil
}

// condensedArticle is the compact, size-bounded view of an article embedded
// in the prompt. The id doubles as the positional back-reference for
// source_ids in the response.
type condensedArticle struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Source   string   `json:"source"`
	Category string   `json:"category"`
	Desc     string   `json:"desc"`
	Score    int      `json:"score"`
	Tags     []string `json:"tags"`
	Comments int      `json:"comments"`
	Author   string   `json:"author"`
}

func condense(articles []domain.Article) []condensedArticle {
	condensed := make([]condensedArticle, 0, len(articles))
	for idx, a := range articles {
		tags := a.Tags
		if len(tags) > maxCondensedTags {
			tags = tags[:maxCondensedTags]
		}
		condensed = append(condensed, condensedArticle{
			ID:       idx,
			Title:    a.Title,
			Source:   a.Source,
			Category: a.Category,
			Desc:     truncateRunes(a.Description, maxCondensedDescLen),
			Score:    a.Score,
			Tags:     tags,
			Comments: a.CommentsCount,
			Author:   a.Author,
		})
	}
	return condensed
}

// enrich coerces the untyped parsed entries into DigestEntry values.
// References that are not integers or are out of range are dropped, never
// the whole entry; missing bilingual fields default to empty strings.
func (c *Composer) enrich(parsed []map[string]any, articles []domain.Article) []domain.DigestEntry {
	entries := make([]domain.DigestEntry, 0, len(parsed))
	for _, m := range parsed {
		category := stringField(m, "category")
		if category == "" {
			category = c.taxonomy.Default
		}

		sources := []domain.SourceRef{}
		for _, v := range sliceField(m, "source_ids") {
			id, ok := intValue(v)
			if !ok || id < 0 || id >= len(articles) {
				continue
			}
			a := articles[id]
			sources = append(sources, domain.SourceRef{Title: a.Title, URL: a.URL, Source: a.Source})
		}

		entries = append(entries, domain.DigestEntry{
			TitleEN:  stringField(m, "title_en"),
			TitlePT:  stringField(m, "title_pt"),
			BodyEN:   stringField(m, "body_en"),
			BodyPT:   stringField(m, "body_pt"),
			Category: category,
			Emoji:    emojiFor(category),
			Sources:  sources,
		})
	}
	return entries
}

func (c *Composer) systemPrompt() string {
	if c.cfg.SystemPrompt != "" {
		return c.cfg.SystemPrompt
	}
	return defaultSystemPrompt
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func (c *Composer) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *Composer) info(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}
