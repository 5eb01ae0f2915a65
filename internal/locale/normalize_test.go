package locale

import "testing"

func TestNormalizeTag(t *testing.T) {
	t.Parallel()

	if got := NormalizeTag(" EN_us "); got != "en-us" {
		t.Fatalf("unexpected normalized tag: %q", got)
	}
	if got := NormalizeTag("zh-Hans"); got != "zh-hans" {
		t.Fatalf("unexpected normalized tag: %q", got)
	}
	if got := NormalizeTag("en--US"); got != "en-us" {
		t.Fatalf("unexpected collapsed tag: %q", got)
	}
	if got := NormalizeTag("th-TH,th;q=0.9"); got != "th-th" {
		t.Fatalf("unexpected tag from header list: %q", got)
	}
	if got := NormalizeTag("en_123"); got != "" {
		t.Fatalf("expected invalid tag to normalize to empty string, got %q", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	if got := NormalizeCode(" EN-us "); got != "en" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode("ja_JP"); got != "ja" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode(" "); got != "" {
		t.Fatalf("expected empty code for blank input, got %q", got)
	}
}

func TestFromAcceptLanguage(t *testing.T) {
	t.Parallel()

	if got, ok := FromAcceptLanguage("nl-NL, ko-KR;q=0.8, en;q=0.5"); !ok || got != Korean {
		t.Fatalf("unexpected locale: %q ok=%t", got, ok)
	}
	if _, ok := FromAcceptLanguage("nl, sv"); ok {
		t.Fatalf("expected no supported locale")
	}
}
