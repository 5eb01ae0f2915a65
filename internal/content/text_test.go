package content

import (
	"strings"
	"testing"
)

func words(n int) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestEstimateReadTime(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "six hundred words", body: "<p>" + words(600) + "</p>", want: "3 min read"},
		{name: "one short of a minute", body: "<p>" + words(199) + "</p>", want: "1 min read"},
		{name: "six hundred plain words", body: words(600), want: "3 min read"},
		{name: "one ninety nine plain words", body: words(199), want: "1 min read"},
		{name: "exactly one minute", body: words(200), want: "1 min read"},
		{name: "one over a minute", body: words(201), want: "2 min read"},
		{name: "empty body", body: "", want: "1 min read"},
		{name: "markup only", body: "<div><img src=\"a.png\"/></div>", want: "1 min read"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := EstimateReadTime(tc.body); got != tc.want {
				t.Fatalf("EstimateReadTime() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPlainTextSeparatesBlocksAndDropsScripts(t *testing.T) {
	t.Parallel()

	body := `<h1>Bangkok</h1><p>Rain <strong>expected</strong> today.</p><script>var x = "hidden";</script><style>p{}</style>`
	got := PlainText(body)
	want := "Bangkok Rain expected today."
	if got != want {
		t.Fatalf("PlainText() = %q, want %q", got, want)
	}
	if WordCount(body) != 4 {
		t.Fatalf("WordCount() = %d, want 4", WordCount(body))
	}
}

func TestWordCountKeepsInlineMarkupInsideWords(t *testing.T) {
	t.Parallel()

	body := "<p>" + strings.Repeat("multi<b>lingual</b> ", 200) + "</p>"
	if got := WordCount(body); got != 200 {
		t.Fatalf("WordCount() = %d, want 200", got)
	}
	if got := EstimateReadTime(body); got != "1 min read" {
		t.Fatalf("EstimateReadTime() = %q, want %q", got, "1 min read")
	}
	if got := PlainText("<p>first</p><p>second<br>third</p><ul><li>a</li><li>b</li></ul>"); got != "first second third a b" {
		t.Fatalf("PlainText() = %q", got)
	}
}

func TestReadMinutes(t *testing.T) {
	t.Parallel()

	if ReadMinutes(0) != 1 || ReadMinutes(-5) != 1 {
		t.Fatalf("expected minimum of one minute")
	}
	if ReadMinutes(401) != 3 {
		t.Fatalf("ReadMinutes(401) = %d, want 3", ReadMinutes(401))
	}
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	body := "<p>The central bank held rates steady on Wednesday, citing inflation.</p>"
	if got := Excerpt(body, 0); got != "The central bank held rates steady on Wednesday, citing inflation." {
		t.Fatalf("unexpected full excerpt: %q", got)
	}
	if got := Excerpt(body, 24); got != "The central bank held…" {
		t.Fatalf("unexpected truncated excerpt: %q", got)
	}
	if got := Excerpt("<p>short</p>", 24); got != "short" {
		t.Fatalf("unexpected short excerpt: %q", got)
	}
}
