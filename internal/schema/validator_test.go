package payloadschema

import (
	"strings"
	"testing"
)

func TestValidateTranslatedArticle_Valid(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"title":"東京の雨",
		"content":"<p>本文</p>",
		"excerpt":"概要",
		"seoTitle":"東京の雨 | ニュース",
		"seoDesc":"東京で大雨",
		"notes":"ignored"
	}`)

	article, err := ValidateTranslatedArticle(raw)
	if err != nil {
		t.Fatalf("expected valid output, got %v", err)
	}
	if article.Title != "東京の雨" || article.SEODesc != "東京で大雨" {
		t.Fatalf("unexpected decoded article: %+v", article)
	}
}

func TestValidateTranslatedArticle_MissingField(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"title":"t","content":"c","excerpt":"e","seoTitle":"s"}`)
	if _, err := ValidateTranslatedArticle(raw); err == nil {
		t.Fatalf("expected missing seoDesc to fail")
	}
}

func TestValidateTranslatedArticle_BlankField(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"title":"   ","content":"c","excerpt":"e","seoTitle":"s","seoDesc":"d"}`)
	if _, err := ValidateTranslatedArticle(raw); err == nil {
		t.Fatalf("expected whitespace-only title to fail")
	}
}

func TestValidateTranslatedArticle_TrailingContent(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"title":"t","content":"c","excerpt":"e","seoTitle":"s","seoDesc":"d"} extra`)
	_, err := ValidateTranslatedArticle(raw)
	if err == nil {
		t.Fatalf("expected trailing content to fail")
	}
	if !strings.Contains(err.Error(), "trailing content") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateArticleDraft_Valid(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"slug":"bangkok-floods-2025",
		"category":"politics",
		"image":"https://cdn.example/floods.jpg",
		"published":true,
		"translations":[
			{"locale":"en","title":"Bangkok floods","content":"<p>Water rising.</p>"},
			{"locale":"th","title":"น้ำท่วมกรุงเทพ","content":"<p>น้ำขึ้น</p>"}
		]
	}`)

	draft, err := ValidateArticleDraft(raw)
	if err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
	if len(draft.Translations) != 2 || draft.Translations[1].Locale != "th" {
		t.Fatalf("unexpected translations: %+v", draft.Translations)
	}
	if !draft.Published || draft.Featured {
		t.Fatalf("unexpected flags: %+v", draft)
	}
}

func TestValidateArticleDraft_Rejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"non-source locale": `{"slug":"a","category":"sports","translations":[{"locale":"ja","title":"t","content":"c"}]}`,
		"bad slug":          `{"slug":"Not A Slug","category":"sports","translations":[{"locale":"en","title":"t","content":"c"}]}`,
		"no content":        `{"slug":"a","category":"sports"}`,
		"duplicate locale":  `{"slug":"a","category":"sports","translations":[{"locale":"en","title":"t","content":"c"},{"locale":"en","title":"u","content":"d"}]}`,
		"import collides":   `{"slug":"a","category":"sports","import_url":"https://example.com/a","translations":[{"locale":"en","title":"t","content":"c"}]}`,
		"unknown field":     `{"slug":"a","category":"sports","views":10,"translations":[{"locale":"en","title":"t","content":"c"}]}`,
	}

	for name, raw := range cases {
		name, raw := name, raw
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := ValidateArticleDraft([]byte(raw)); err == nil {
				t.Fatalf("expected %s to be rejected", name)
			}
		})
	}
}

func TestValidateArticleDraft_ImportOnly(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"slug":"imported","category":"technology","import_url":"https://example.com/post","import_locale":"th"}`)
	draft, err := ValidateArticleDraft(raw)
	if err != nil {
		t.Fatalf("expected import-only draft to be valid, got %v", err)
	}
	if draft.ImportLocale != "th" {
		t.Fatalf("unexpected import locale: %q", draft.ImportLocale)
	}
}
