package digest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"KeepUpDaily/internal/domain"
)

const defaultSystemPrompt = "You are a senior developer and tech journalist writing a " +
	"daily newsletter. Your readers are professional developers who want to LEARN " +
	"from each entry: they should finish feeling they understand a topic deeply " +
	"enough to discuss it at work, without reading the original source. Every entry " +
	"is a self-contained mini-article with real technical depth: architecture, APIs, " +
	"benchmarks, trade-offs. Write in both English and Brazilian Portuguese. " +
	"Respond ONLY with valid JSON."

const digestPromptTemplate = `You have %d tech articles scraped today from Dev.to, Hacker News, GitHub Trending, Reddit, Lobsters, and Hashnode.

Category breakdown: %s

**Your mission:** Create a rich daily developer digest. You decide how many entries to write - produce one entry for every genuinely interesting or educational topic you find (typically 15-25, up to %d). Quality is paramount: a reader should be able to read ONLY your entry and feel they understand the topic without needing to click through to the original.

This is a **developer newsletter people look forward to every morning**. Each entry is a COMPLETE mini-article: after reading it, the developer should have learned something concrete they can use or discuss, not just be aware something exists.

## WHAT MAKES A GREAT ENTRY

Each entry must be SELF-CONTAINED and EDUCATIONAL. The reader should NOT need the original article. Think of it like a knowledgeable colleague summarizing an article for you at the coffee machine, but with real depth.

**Structure for each entry body (300-400 words per language):**

**Lead paragraph:** What is this about and why should a developer care RIGHT NOW? Open with impact: a concrete fact, a surprising number, or a real problem being solved.

**Technical deep-dive (1-2 paragraphs):** This is the core. Explain HOW it works:
- Architecture decisions, algorithms, data structures used
- Key APIs, function signatures, configuration patterns
- Performance characteristics: latency, throughput, memory, benchmarks
- Trade-offs and design choices: what did they optimize for and what did they sacrifice?
- For projects: what language, what dependencies, what is the build/run story?
- For discussions: what is the core argument, what evidence supports it?

**Practical angle:** When would YOU use this? What real problem does it solve? How does it compare to existing tools? Is it production-ready or experimental? What are the gotchas?

**Takeaway:** One punchy line - the key insight the reader should remember.

## WRITING RULES

- **Merge** related articles (e.g., 3 articles about the same GitHub repo become 1 entry)
- **Specific beats vague**: "Uses HNSW indexing with 4-bit quantization" beats "fast vector search"
- Include concrete details: library names, version numbers, API endpoints, benchmarks
- Use **bold** for key technical terms, project names, and numbers
- Use inline-code formatting for function names, CLI commands, config keys
- Bullet lists (- item) for features, comparisons, pros and cons
- Separate paragraphs with blank lines
- Be opinionated: "the clever part is...", "this matters because..."
- Vary sentence length: short punchy lines mixed with longer explanations
- Cover DIVERSE categories: at least 5 different categories across all entries
- Write both English and Brazilian Portuguese versions (not a translation: adapt naturally to each language's style)

For EACH entry provide:
1. title_en / title_pt - specific headline hinting at the insight
2. body_en / body_pt - self-contained mini-article (300-400 words each)
3. category - one of: %s
4. source_ids - array of article IDs that informed the entry

Articles:
%s

Respond with ONLY a JSON array (no fences, no commentary):
[{"title_en":"...","title_pt":"...","body_en":"...","body_pt":"...","category":"...","source_ids":[0,3,7]}]`

func buildPrompt(condensed []condensedArticle, articles []domain.Article, categories []string, maxEntries int) (string, error) {
	payload, err := json.Marshal(condensed)
	if err != nil {
		return "", fmt.Errorf("marshal condensed articles: %w", err)
	}

	return fmt.Sprintf(digestPromptTemplate,
		len(condensed),
		categoryBreakdown(articles),
		maxEntries,
		strings.Join(categories, ", "),
		string(payload),
	), nil
}

func categoryBreakdown(articles []domain.Article) string {
	counts := make(map[string]int)
	for _, a := range articles {
		counts[a.Category]++
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", key, counts[key]))
	}
	return strings.Join(parts, ", ")
}
