package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/polyglot/internal/cli"
)

type translateResultRow struct {
	Locale string `json:"locale"`
	Status string `json:"status"`
	Origin string `json:"origin,omitempty"`
	Title  string `json:"title,omitempty"`
	Error  string `json:"error,omitempty"`
}

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Minute, "Command timeout")
	lang := fs.String("lang", "", "Target locales, comma separated, or \"all\"")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		printTranslateUsage()
		return 2
	}
	slug := strings.TrimSpace(fs.Arg(0))
	if slug == "" {
		fmt.Fprintln(os.Stderr, "translate argument must not be empty")
		return 2
	}

	locales, err := parseLocalesFlag(*lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --lang: %v\n", err)
		return 2
	}
	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	cfg, logger, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rt, err := buildRuntime(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.Close()

	results, err := rt.articles.Warm(ctx, slug, locales)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translate failed: %v\n", err)
		return 1
	}

	failed := 0
	rows := make([]translateResultRow, 0, len(results))
	for _, result := range results {
		row := translateResultRow{
			Locale: result.Locale.String(),
			Status: "ok",
			Origin: result.Origin,
			Title:  result.Title,
		}
		if result.Err != nil {
			failed++
			row.Status = "failed"
			row.Error = result.Err.Error()
		}
		rows = append(rows, row)
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{"slug": slug, "results": rows}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write JSON: %v\n", err)
			return 1
		}
	} else {
		tableRows := make([][]string, 0, len(rows))
		for _, row := range rows {
			detail := truncateForTable(row.Title, 60)
			if row.Error != "" {
				detail = truncateForTable(row.Error, 80)
			}
			tableRows = append(tableRows, []string{row.Locale, row.Status, row.Origin, detail})
		}
		if err := writeTable([]string{"LOCALE", "STATUS", "ORIGIN", "DETAIL"}, tableRows); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write table: %v\n", err)
			return 1
		}
	}

	logger.Info().
		Str("slug", slug).
		Int("locales", len(locales)).
		Int("failed", failed).
		Msg("translate finished")
	if failed > 0 {
		return 1
	}
	return 0
}

func printTranslateUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  polyglot translate <slug> --lang ja[,ko,...] [--format table|json]")
	fmt.Fprintln(os.Stderr, "  polyglot translate <slug> --lang all")
}
