// Package content turns stored article HTML into plain text, word counts,
// excerpts and reading-time labels.
package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// WordsPerMinute is the reading speed behind EstimateReadTime.
const WordsPerMinute = 200

var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// blockTags break words apart; every other element is inline and joins its
// text to the neighbouring text unchanged.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// PlainText strips markup from body and returns its visible text. Block
// elements are separated by a space; inline markup such as <b> is removed
// without splitting the surrounding word.
func PlainText(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		// The tokenizer only fails on reader errors; fall back to the raw text.
		return strings.Join(strings.Fields(body), " ")
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		block := false
		if n.Type == html.ElementNode {
			tag := strings.ToLower(n.Data)
			if skippedTags[tag] {
				return
			}
			block = blockTags[tag]
		}
		if block {
			b.WriteByte(' ')
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte(' ')
		}
	}
	for _, n := range doc.Selection.Nodes {
		walk(n)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// WordCount counts whitespace-delimited tokens in the visible text of body.
func WordCount(body string) int {
	return len(strings.Fields(PlainText(body)))
}

// ReadMinutes is ceil(words / WordsPerMinute), never less than one.
func ReadMinutes(words int) int {
	if words <= 0 {
		return 1
	}
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// EstimateReadTime returns the "N min read" label for an HTML body.
func EstimateReadTime(body string) string {
	return FormatReadTime(ReadMinutes(WordCount(body)))
}

func FormatReadTime(minutes int) string {
	return fmt.Sprintf("%d min read", minutes)
}

// Excerpt returns the first maxChars runes of the visible text, cut back to a
// word boundary when one exists and suffixed with an ellipsis.
func Excerpt(body string, maxChars int) string {
	text := PlainText(body)
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:maxChars])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
