package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?i)```(?:json)?\\s*")

// ExtractJSON strips markdown code fences and returns the first complete
// JSON object in text.
func ExtractJSON(text string) (json.RawMessage, bool) {
	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))

	for start := strings.IndexByte(cleaned, '{'); start >= 0; {
		var raw json.RawMessage
		dec := json.NewDecoder(strings.NewReader(cleaned[start:]))
		if err := dec.Decode(&raw); err == nil && len(raw) > 0 && raw[0] == '{' {
			return raw, true
		}
		next := strings.IndexByte(cleaned[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

// DecodeJSON extracts the first JSON object from text into dest.
func DecodeJSON(text string, dest interface{}) bool {
	raw, ok := ExtractJSON(text)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}
