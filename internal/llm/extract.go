package llm

import "strings"

// StripFences removes a surrounding markdown code fence from a model reply.
// Providers asked for raw JSON still wrap it in ```json blocks often enough
// that every reply goes through this.
func StripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	if i := strings.LastIndex(t, "```"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// ExtractJSON returns the first-{-to-last-} substring of text, or "" when
// no braced object is present.
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}
