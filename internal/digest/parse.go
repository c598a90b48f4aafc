package digest

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var (
	fenceOpenExpr  = regexp.MustCompile("^```(?:json)?[ \t]*\n?")
	fenceCloseExpr = regexp.MustCompile("\n?```[ \t]*$")
)

// parseEntries extracts a JSON array of loosely-typed entries from model
// output. Models wrap arrays in markdown fences or append prose after the
// closing bracket; both are tolerated. Anything else must be strict JSON.
func parseEntries(text string) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "```") {
		trimmed = fenceOpenExpr.ReplaceAllString(trimmed, "")
		trimmed = fenceCloseExpr.ReplaceAllString(trimmed, "")
	}

	if end := strings.LastIndex(trimmed, "]"); end != -1 {
		trimmed = trimmed[:end+1]
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		return nil, fmt.Errorf("decode entry array: %w", err)
	}
	return entries, nil
}

// Coercion helpers for the untyped entry maps. External data never flows
// past this boundary untyped.

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func sliceField(m map[string]any, key string) []any {
	s, _ := m[key].([]any)
	return s
}

func intValue(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
