package digest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"KeepUpDaily/internal/domain"
)

const defaultFallbackPerCategory = 5

// Fallback builds digest entries directly from article metadata, with no
// external calls. Deterministic for a given input order: categories render in
// taxonomy order, articles within a category by score descending with stable
// ties. A non-empty input always yields a non-empty result.
func (c *Composer) Fallback(articles []domain.Article) []domain.DigestEntry {
	byCat := make(map[string][]domain.Article)
	for _, a := range articles {
		byCat[a.Category] = append(byCat[a.Category], a)
	}

	for cat := range byCat {
		group := byCat[cat]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})
	}

	perCat := c.cfg.FallbackPerCategory
	if perCat <= 0 {
		perCat = defaultFallbackPerCategory
	}

	// Top N per category for diversity; no global cap across categories.
	var picks []domain.Article
	for _, key := range c.taxonomy.Keys() {
		group := byCat[key]
		if len(group) > perCat {
			group = group[:perCat]
		}
		picks = append(picks, group...)
	}

	entries := make([]domain.DigestEntry, 0, len(picks))
	for _, a := range picks {
		entries = append(entries, fallbackEntry(a))
	}

	if c.logger != nil {
		c.logger.Info("fallback digest built", "entries", len(entries), "articles", len(articles))
	}
	return entries
}

func fallbackEntry(a domain.Article) domain.DigestEntry {
	labels := labelsFor(a.Category)
	title := strings.TrimSpace(a.Title)

	return domain.DigestEntry{
		TitleEN:  title,
		TitlePT:  title,
		BodyEN:   fallbackBody(a, title, labels.EN, englishPhrases),
		BodyPT:   fallbackBody(a, title, labels.PT, portuguesePhrases),
		Category: a.Category,
		Emoji:    emojiFor(a.Category),
		Sources: []domain.SourceRef{
			{Title: a.Title, URL: a.URL, Source: a.Source},
		},
	}
}

// phrases holds the language-specific connectives of the fallback template.
// EN and PT bodies are not translations of each other, but both convey the
// same facts in the same order.
type phrases struct {
	placeholder string
	tagsLabel   string
	authorLabel string
	points      string
	comments    string
	buzzPrefix  string
	closing     string
}

var englishPhrases = phrases{
	placeholder: "**%s** caught attention in the %s space today.",
	tagsLabel:   "Tags: %s",
	authorLabel: "Author: **%s**",
	points:      "**%s** points",
	comments:    "**%d** comments",
	buzzPrefix:  "Community buzz: ",
	closing:     "Check the original source below for the full story.",
}

var portuguesePhrases = phrases{
	placeholder: "**%s** chamou atenção no mundo de %s hoje.",
	tagsLabel:   "Tags: %s",
	authorLabel: "Autor: **%s**",
	points:      "**%s** pontos",
	comments:    "**%d** comentários",
	buzzPrefix:  "Repercussão: ",
	closing:     "Confira a fonte original abaixo para a matéria completa.",
}

func fallbackBody(a domain.Article, title, label string, p phrases) string {
	var parts []string

	desc := strings.TrimSpace(a.Description)
	if desc != "" {
		parts = append(parts, desc)
	} else {
		parts = append(parts, fmt.Sprintf(p.placeholder, title, strings.ToLower(label)))
	}

	var context []string
	if tags := backtickTags(a.Tags, maxCondensedTags); tags != "" {
		context = append(context, fmt.Sprintf(p.tagsLabel, tags))
	}
	if a.Author != "" {
		context = append(context, fmt.Sprintf(p.authorLabel, a.Author))
	}
	if len(context) > 0 {
		parts = append(parts, strings.Join(context, " · "))
	}

	var signals []string
	if a.Score > 0 {
		signals = append(signals, fmt.Sprintf(p.points, formatThousands(a.Score)))
	}
	if a.CommentsCount > 0 {
		signals = append(signals, fmt.Sprintf(p.comments, a.CommentsCount))
	}
	signals = append(signals, fmt.Sprintf("via **%s**", sourceLabel(a.Source)))

	parts = append(parts, p.buzzPrefix+strings.Join(signals, ", ")+". "+p.closing)

	return strings.Join(parts, "\n\n")
}

func backtickTags(tags []string, max int) string {
	if len(tags) == 0 {
		return ""
	}
	if len(tags) > max {
		tags = tags[:max]
	}
	quoted := make([]string, 0, len(tags))
	for _, t := range tags {
		quoted = append(quoted, "`"+t+"`")
	}
	return strings.Join(quoted, ", ")
}

func sourceLabel(source string) string {
	return titleCase(strings.ReplaceAll(source, "_", " "))
}

func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
