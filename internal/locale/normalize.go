package locale

import "strings"

// NormalizeTag normalizes a language tag to lowercase and "-" separators.
// Accept-Language style lists ("en-US,en;q=0.9") are reduced to their first entry.
// Returns an empty string when the value is blank or contains invalid characters.
func NormalizeTag(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.IndexAny(trimmed, ",;"); idx >= 0 {
		trimmed = strings.TrimSpace(trimmed[:idx])
	}
	if trimmed == "" {
		return ""
	}

	trimmed = strings.ReplaceAll(trimmed, "_", "-")
	parts := strings.Split(trimmed, "-")
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !isAlphaLower(part) {
			return ""
		}
		normalized = append(normalized, part)
	}

	if len(normalized) == 0 {
		return ""
	}
	return strings.Join(normalized, "-")
}

// NormalizeCode returns the primary language subtag (for example, "en" from "en-US").
func NormalizeCode(raw string) string {
	tag := NormalizeTag(raw)
	if tag == "" {
		return ""
	}
	primary, _, _ := strings.Cut(tag, "-")
	return primary
}

// FromAcceptLanguage picks the first supported locale from an Accept-Language
// header value, ignoring quality weights beyond their listed order.
func FromAcceptLanguage(header string) (Locale, bool) {
	for _, entry := range strings.Split(header, ",") {
		if l, ok := Parse(entry); ok {
			return l, true
		}
	}
	return "", false
}

func isAlphaLower(value string) bool {
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
