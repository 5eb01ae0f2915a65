package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"horse.fit/polyglot/internal/locale"
)

// minLetters below which detection is not attempted.
const minLetters = 20

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

var supported = []lingua.Language{
	lingua.Thai,
	lingua.English,
	lingua.Chinese,
	lingua.Japanese,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Korean,
	lingua.Russian,
	lingua.Portuguese,
	lingua.Arabic,
}

// Detect returns the site locale the text is written in. ok is false when
// the sample is too short or the detector is not confident.
func Detect(text string) (locale.Locale, bool) {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return "", false
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < minLetters {
		return "", false
	}

	language, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return "", false
	}

	return locale.Parse(strings.ToLower(language.IsoCode639_1().String()))
}

// Matches reports whether text is plausibly written in want. Undetectable
// samples are given the benefit of the doubt.
func Matches(text string, want locale.Locale) bool {
	got, ok := Detect(text)
	if !ok {
		return true
	}
	return got == want
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(supported...).
			WithMinimumRelativeDistance(0.1).
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
