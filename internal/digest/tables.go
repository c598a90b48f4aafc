package digest

import (
	"strings"
	"unicode"
)

// Fixed display tables, loaded once and never mutated. Categories missing
// from these maps render with the default glyph and a title-cased key.

const defaultEmoji = "📌"

var categoryEmoji = map[string]string{
	"ai":         "🤖",
	"web":        "🌐",
	"devops":     "☁️",
	"languages":  "💻",
	"frameworks": "🧩",
	"security":   "🔒",
	"career":     "🚀",
	"general":    "📌",
}

type labelPair struct {
	EN string
	PT string
}

var categoryLabels = map[string]labelPair{
	"ai":         {"AI & Machine Learning", "IA & Machine Learning"},
	"web":        {"Web Development", "Desenvolvimento Web"},
	"devops":     {"DevOps & Cloud", "DevOps & Nuvem"},
	"languages":  {"Programming Languages", "Linguagens de Programação"},
	"frameworks": {"Frameworks & Tools", "Frameworks & Ferramentas"},
	"security":   {"Security", "Segurança"},
	"career":     {"Career & Community", "Carreira & Comunidade"},
	"general":    {"General Tech", "Tecnologia em Geral"},
}

func emojiFor(category string) string {
	if emoji, ok := categoryEmoji[category]; ok {
		return emoji
	}
	return defaultEmoji
}

func labelsFor(category string) labelPair {
	if labels, ok := categoryLabels[category]; ok {
		return labels
	}
	title := titleCase(category)
	return labelPair{EN: title, PT: title}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
