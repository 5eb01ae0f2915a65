package reader

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"
)

const (
	DefaultFetchTimeout  = 12 * time.Second
	DefaultBodyByteLimit = 2 * 1024 * 1024

	defaultUserAgent = "polyglot-importer/1.0"
)

// FetchOptions controls HTTP behavior for article import.
type FetchOptions struct {
	Timeout        time.Duration
	BodyByteLimit  int64
	UserAgent      string
	AcceptLanguage string
	HTTPClient     *http.Client
}

// Article is the readable content pulled from a remote page.
type Article struct {
	Title    string
	BodyHTML string
	Text     string
	Excerpt  string
}

// FetchArticle retrieves pageURL and extracts its main content.
func FetchArticle(ctx context.Context, pageURL string) (Article, error) {
	return FetchArticleWithOptions(ctx, pageURL, FetchOptions{})
}

func FetchArticleWithOptions(ctx context.Context, pageURL string, opts FetchOptions) (Article, error) {
	page := strings.TrimSpace(pageURL)
	if page == "" {
		return Article{}, fmt.Errorf("import URL is required")
	}
	parsedURL, err := url.Parse(page)
	if err != nil || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return Article{}, fmt.Errorf("import URL must be an absolute http(s) URL")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	bodyLimit := opts.BodyByteLimit
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyByteLimit
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, page, nil)
	if err != nil {
		return Article{}, fmt.Errorf("build request: %w", err)
	}

	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	acceptLanguage := strings.TrimSpace(opts.AcceptLanguage)
	if acceptLanguage == "" {
		acceptLanguage = "en-US,en;q=0.8,th;q=0.7"
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", acceptLanguage)

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Article{}, fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Article{}, fmt.Errorf("fetch status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, bodyLimit))
	if err != nil {
		return Article{}, fmt.Errorf("read body: %w", err)
	}

	contentType := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Type")))
	if strings.HasPrefix(contentType, "text/plain") {
		text := CleanText(string(body))
		if text == "" {
			return Article{}, fmt.Errorf("import extracted empty content")
		}
		return Article{BodyHTML: ParagraphsHTML(text), Text: text}, nil
	}

	parsed, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return Article{}, fmt.Errorf("readability parse: %w", err)
	}

	var renderedText bytes.Buffer
	if err := parsed.RenderText(&renderedText); err != nil {
		return Article{}, fmt.Errorf("render readability text: %w", err)
	}
	text := CleanText(renderedText.String())
	if text == "" {
		return Article{}, fmt.Errorf("import extracted empty content")
	}

	var renderedHTML bytes.Buffer
	if err := parsed.RenderHTML(&renderedHTML); err != nil {
		return Article{}, fmt.Errorf("render readability html: %w", err)
	}
	bodyHTML := strings.TrimSpace(renderedHTML.String())
	if bodyHTML == "" {
		bodyHTML = ParagraphsHTML(text)
	}

	return Article{
		Title:    strings.TrimSpace(parsed.Title()),
		BodyHTML: bodyHTML,
		Text:     text,
		Excerpt:  CleanText(parsed.Excerpt()),
	}, nil
}

// CleanText normalizes line endings and collapses extra in-line whitespace.
func CleanText(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.Join(strings.Fields(strings.TrimSpace(line)), " ")
		if clean == "" {
			continue
		}
		paragraphs = append(paragraphs, clean)
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
}

// ParagraphsHTML wraps each blank-line separated paragraph in <p>.
func ParagraphsHTML(text string) string {
	var b strings.Builder
	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(paragraph))
		b.WriteString("</p>")
	}
	return b.String()
}
