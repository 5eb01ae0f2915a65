package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/polyglot/internal/articles"
	"horse.fit/polyglot/internal/cli"
	"horse.fit/polyglot/internal/locale"
)

func runArticles(args []string) int {
	fs := flag.NewFlagSet("articles", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	lang := fs.String("lang", locale.Default.String(), "Preferred locale")
	category := fs.String("category", "", "Filter by category")
	featured := fs.Bool("featured", false, "Only featured articles")
	limit := fs.Int("limit", articles.DefaultListLimit, "Maximum articles to return")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "articles does not accept positional arguments")
		return 2
	}
	if *limit <= 0 {
		fmt.Fprintln(os.Stderr, "--limit must be > 0")
		return 2
	}
	loc, ok := locale.Parse(*lang)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unsupported --lang %q\n", *lang)
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

	var items []articles.Article
	if *featured {
		items, err = rt.articles.Featured(ctx, loc, *limit)
	} else {
		items, err = rt.articles.List(ctx, loc, articles.ListOptions{Category: *category, Limit: *limit})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list articles: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{"locale": loc, "items": items}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write JSON: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Slug,
			item.Category,
			item.Locale.String(),
			item.EstimatedReadTime,
			formatUTCTimestamp(item.CreatedAt),
			truncateForTable(item.Title, 80),
		})
	}
	if err := writeTable([]string{"SLUG", "CATEGORY", "LOCALE", "READ", "CREATED_AT", "TITLE"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write table: %v\n", err)
		return 1
	}
	return 0
}
