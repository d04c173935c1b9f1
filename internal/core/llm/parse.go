package llm

import (
	"encoding/json"
	"strings"
)

// ParseStructured extracts a key/value payload from raw model output and
// merges it over the caller's defaults. The defaults double as the schema:
// parsed values replace defaults for declared keys, missing keys keep their
// default, undeclared keys are ignored. Malformed input of any kind resolves
// to the defaults unchanged; this function never fails.
func ParseStructured(text string, defaults map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults))
	for k, v := range defaults {
		merged[k] = v
	}

	if strings.TrimSpace(text) == "" {
		return merged
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &parsed); err != nil {
		return merged
	}

	for k := range defaults {
		if v, ok := parsed[k]; ok {
			merged[k] = v
		}
	}

	return merged
}

// ExtractJSON isolates a JSON object or array from model output that may
// wrap it in markdown fences or surrounding prose. Returns the input
// unchanged when no payload can be isolated.
func ExtractJSON(text string) string {
	text = stripMarkdownFences(text)

	// Look for a JSON object
	if payload, ok := isolate(text, '{', '}'); ok {
		return payload
	}

	// Look for a JSON array
	if payload, ok := isolate(text, '[', ']'); ok {
		return payload
	}

	return text
}

func isolate(text string, opening, closing byte) (string, bool) {
	start := strings.IndexByte(text, opening)
	end := strings.LastIndexByte(text, closing)

	if start == -1 || end == -1 || end <= start {
		return "", false
	}

	payload := text[start : end+1]
	if !json.Valid([]byte(payload)) {
		return "", false
	}

	return payload, true
}

func stripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	return strings.TrimSpace(text)
}
