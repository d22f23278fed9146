package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFences removes a markdown fence wrapper from a model reply.
// Replies arrive either bare, fenced as ```json ... ```, or fenced with a
// plain ``` pair.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "```json") {
		parts := strings.SplitN(s, "```json", 2)
		s = parts[1]
		s = strings.SplitN(s, "```", 2)[0]
		return strings.TrimSpace(s)
	}
	if strings.Contains(s, "```") {
		parts := strings.Split(s, "```")
		if len(parts) >= 2 {
			s = parts[1]
		}
		return strings.TrimSpace(s)
	}
	return s
}

// ExtractJSONObject pulls the first balanced top-level JSON object out of a
// reply and unmarshals it into v. Models often prepend or append prose
// around the object they were asked for.
func ExtractJSONObject(reply string, v any) error {
	raw, err := ExtractJSONObjectBytes(reply)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// ExtractJSONObjectBytes returns the raw bytes of the first balanced
// top-level JSON object in a reply, so callers can both unmarshal and
// validate the same object.
func ExtractJSONObjectBytes(reply string) ([]byte, error) {
	cleaned := StripCodeFences(reply)

	if strings.HasPrefix(cleaned, "{") && json.Valid([]byte(cleaned)) {
		return []byte(cleaned), nil
	}

	start := strings.Index(cleaned, "{")
	if start < 0 {
		return nil, fmt.Errorf("no JSON object in reply")
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return []byte(cleaned[start : i+1]), nil
				}
			}
		}
	}
	return nil, fmt.Errorf("unbalanced JSON object in reply")
}
