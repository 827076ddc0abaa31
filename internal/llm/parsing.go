package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Models wrap JSON in markdown fences, bury it in prose, or emit it bare.
// ParseJSONResponse tries each shape in turn and never fails: callers always
// get a usable map.

var (
	fencedObjectRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	fencedArrayRe  = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")
)

// ParseJSONResponse extracts a JSON object from raw model output. Extraction
// strategies, in order: a fenced object block, a fenced array block, the
// substring between the first '{' and last '}' (outermost bounds, so nested
// braces survive), the same for '['..']', and finally the whole trimmed text.
// The first strategy that parses into an object wins; a candidate that parses
// into anything other than an object is rejected and the next strategy is
// tried. If nothing parses, def is returned unmodified.
func ParseJSONResponse(content string, def map[string]any) map[string]any {
	if def == nil {
		def = map[string]any{}
	}
	if strings.TrimSpace(content) == "" {
		return def
	}

	for _, candidate := range extractCandidates(content) {
		if m, ok := parseObject(candidate); ok {
			return m
		}
	}
	return def
}

// extractCandidates returns the candidate JSON substrings in strategy order.
func extractCandidates(content string) []string {
	var out []string

	if m := fencedObjectRe.FindStringSubmatch(content); m != nil {
		out = append(out, m[1])
	}
	if m := fencedArrayRe.FindStringSubmatch(content); m != nil {
		out = append(out, m[1])
	}

	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start != -1 && end > start {
		out = append(out, content[start:end+1])
	}
	if start, end := strings.Index(content, "["), strings.LastIndex(content, "]"); start != -1 && end > start {
		out = append(out, content[start:end+1])
	}

	out = append(out, strings.TrimSpace(content))
	return out
}

// parseObject parses s as JSON and reports whether it is an object.
func parseObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
