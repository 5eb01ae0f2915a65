package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"horse.fit/polyglot/internal/locale"
)

const (
	outputFormatTable = "table"
	outputFormatJSON  = "json"
)

func parseOutputFormat(raw, defaultFormat string) (string, error) {
	format := strings.TrimSpace(strings.ToLower(raw))
	if format == "" {
		format = strings.TrimSpace(strings.ToLower(defaultFormat))
	}
	switch format {
	case outputFormatTable, outputFormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("--format must be table or json")
	}
}

// parseLocalesFlag accepts a comma-separated list of locale codes, or "all"
// for every non-source locale.
func parseLocalesFlag(raw string) ([]locale.Locale, error) {
	trimmed := strings.TrimSpace(strings.ToLower(raw))
	if trimmed == "" {
		return nil, fmt.Errorf("at least one locale is required")
	}
	if trimmed == "all" {
		out := make([]locale.Locale, 0, len(locale.All()))
		for _, loc := range locale.All() {
			if !locale.IsSource(loc) {
				out = append(out, loc)
			}
		}
		return out, nil
	}

	seen := make(map[locale.Locale]struct{})
	out := make([]locale.Locale, 0, 4)
	for _, part := range strings.Split(trimmed, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		loc, ok := locale.Parse(part)
		if !ok {
			return nil, fmt.Errorf("unsupported locale %q", strings.TrimSpace(part))
		}
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}
		out = append(out, loc)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one locale is required")
	}
	return out, nil
}

func truncateForTable(value string, maxLen int) string {
	trimmed := strings.TrimSpace(value)
	if maxLen <= 0 {
		return trimmed
	}
	if utf8.RuneCountInString(trimmed) <= maxLen {
		return trimmed
	}

	runes := []rune(trimmed)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func formatUTCTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func writeTable(headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(writer, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(writer, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return writer.Flush()
}
