// Package locale holds the fixed catalogue of supported site locales.
package locale

import "sort"

// Locale is a supported two-letter language code.
type Locale string

const (
	Thai       Locale = "th"
	English    Locale = "en"
	Chinese    Locale = "zh"
	Japanese   Locale = "ja"
	Spanish    Locale = "es"
	French     Locale = "fr"
	German     Locale = "de"
	Korean     Locale = "ko"
	Russian    Locale = "ru"
	Portuguese Locale = "pt"
	Arabic     Locale = "ar"
)

// Default is served when no usable locale was requested.
const Default = English

// catalogue order is the site's display order.
var catalogue = []Locale{
	Thai,
	English,
	Chinese,
	Japanese,
	Spanish,
	French,
	German,
	Korean,
	Russian,
	Portuguese,
	Arabic,
}

// sources are the authored locales, in lookup priority order.
var sources = []Locale{English, Thai}

type names struct {
	native  string
	english string
}

var localeNames = map[Locale]names{
	Thai:       {native: "ไทย", english: "Thai"},
	English:    {native: "English", english: "English"},
	Chinese:    {native: "中文", english: "Chinese"},
	Japanese:   {native: "日本語", english: "Japanese"},
	Spanish:    {native: "Español", english: "Spanish"},
	French:     {native: "Français", english: "French"},
	German:     {native: "Deutsch", english: "German"},
	Korean:     {native: "한국어", english: "Korean"},
	Russian:    {native: "Русский", english: "Russian"},
	Portuguese: {native: "Português", english: "Portuguese"},
	Arabic:     {native: "العربية", english: "Arabic"},
}

// Option describes one locale for language switchers.
type Option struct {
	Code   Locale `json:"code"`
	Label  string `json:"label"`
	Native string `json:"native"`
	RTL    bool   `json:"rtl,omitempty"`
}

func (l Locale) String() string {
	return string(l)
}

// All returns every supported locale in catalogue order.
func All() []Locale {
	out := make([]Locale, len(catalogue))
	copy(out, catalogue)
	return out
}

// Sources returns the authored source locales in lookup priority order.
func Sources() []Locale {
	out := make([]Locale, len(sources))
	copy(out, sources)
	return out
}

func IsSupported(l Locale) bool {
	_, ok := localeNames[l]
	return ok
}

func IsSource(l Locale) bool {
	for _, src := range sources {
		if src == l {
			return true
		}
	}
	return false
}

// IsRTL reports whether the locale is written right-to-left.
func IsRTL(l Locale) bool {
	return l == Arabic
}

// Parse normalizes raw (for example "EN-us" or "ja_JP") and reports whether
// it names a supported locale.
func Parse(raw string) (Locale, bool) {
	code := Locale(NormalizeCode(raw))
	if code == "" || !IsSupported(code) {
		return "", false
	}
	return code, true
}

// GetOrDefault parses raw and falls back to Default when it is not supported.
func GetOrDefault(raw string) Locale {
	if l, ok := Parse(raw); ok {
		return l
	}
	return Default
}

// EnglishName returns the English display name, or the upper-cased code for
// unknown locales.
func EnglishName(l Locale) string {
	if n, ok := localeNames[l]; ok {
		return n.english
	}
	return upper(string(l))
}

func NativeName(l Locale) string {
	if n, ok := localeNames[l]; ok {
		return n.native
	}
	return upper(string(l))
}

func Options() []Option {
	options := make([]Option, 0, len(catalogue))
	for _, code := range catalogue {
		n := localeNames[code]
		options = append(options, Option{
			Code:   code,
			Label:  n.english,
			Native: n.native,
			RTL:    IsRTL(code),
		})
	}
	return options
}

// SortByCode orders locales by their code, which is the deterministic
// tie-break order used for "any available" fallbacks.
func SortByCode(locales []Locale) {
	sort.Slice(locales, func(i, j int) bool { return locales[i] < locales[j] })
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
