package translation

import (
	"fmt"
	"strings"

	"horse.fit/polyglot/internal/locale"
)

const editorSystemPrompt = `You are an elite multilingual editor working for a prestigious news agency renowned for sophisticated, formal and objective journalism.

Guidelines:
1. Maintain a sophisticated, formal and objective tone throughout
2. Use proper journalistic language appropriate for high-end news publications
3. Preserve the original meaning, facts and intent precisely
4. Adapt cultural references appropriately while maintaining sophistication
5. Ensure SEO metadata is compelling yet maintains editorial standards
6. Never add opinions or commentary
7. Use proper grammar, punctuation and style conventions for the target language

Your output must be a JSON object with the following structure:
{
  "title": "Translated title",
  "content": "Full translated article content with HTML formatting preserved",
  "excerpt": "Brief engaging summary (150-200 characters)",
  "seoTitle": "SEO-optimized title (50-60 characters)",
  "seoDesc": "SEO meta description (150-160 characters)"
}`

// promptLanguageName renders a locale the way the model prompt names it,
// for example "Thai (ไทย)".
func promptLanguageName(l locale.Locale) string {
	english := locale.EnglishName(l)
	native := locale.NativeName(l)
	if native == "" || native == english {
		return english
	}
	return fmt.Sprintf("%s (%s)", english, native)
}

func buildTranslationPrompt(src SourceContent, target locale.Locale) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following news article from %s to %s with the highest editorial standards. ",
		promptLanguageName(src.Locale), promptLanguageName(target))
	b.WriteString("Return ONLY valid JSON, no additional text or markdown formatting.\n\n")
	b.WriteString("Article to translate:\n")
	fmt.Fprintf(&b, "Title: %s\n", src.Title)
	fmt.Fprintf(&b, "Excerpt: %s\n", src.Excerpt)
	fmt.Fprintf(&b, "Content: %s\n\n", src.BodyHTML)
	b.WriteString("Remember:\n")
	b.WriteString("- Preserve all HTML tags in the content\n")
	b.WriteString("- Maintain a formal, objective tone\n")
	b.WriteString("- Create compelling SEO metadata\n")
	b.WriteString("- Output valid JSON only")
	return b.String()
}

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag.
func stripCodeFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if newline := strings.IndexByte(text, '\n'); newline >= 0 {
		firstLine := strings.TrimSpace(text[:newline])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{[") {
			text = text[newline+1:]
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
