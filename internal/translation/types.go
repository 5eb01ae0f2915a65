package translation

import (
	"time"

	"horse.fit/polyglot/internal/locale"
)

// Origin records how a translation row came to exist.
type Origin string

const (
	// OriginAuthored rows are written by editors for source locales.
	OriginAuthored Origin = "authored"
	// OriginGenerated rows are produced by the engine on first request.
	OriginGenerated Origin = "generated"
)

// Translation is one persisted localisation of an article. At most one row
// exists per (ArticleID, Locale).
type Translation struct {
	ArticleID         int64         `json:"article_id"`
	Locale            locale.Locale `json:"locale"`
	TranslationUUID   string        `json:"translation_uuid"`
	Title             string        `json:"title"`
	BodyHTML          string        `json:"body_html"`
	Excerpt           string        `json:"excerpt"`
	SEOTitle          string        `json:"seo_title"`
	SEODescription    string        `json:"seo_description"`
	EstimatedReadTime string        `json:"estimated_read_time"`
	Origin            Origin        `json:"origin"`
	SourceLocale      locale.Locale `json:"source_locale,omitempty"`
	ProviderName      string        `json:"provider_name,omitempty"`
	ModelName         string        `json:"model_name,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// SourceContent is the slice of a source translation sent to the engine.
type SourceContent struct {
	Locale   locale.Locale
	Title    string
	Excerpt  string
	BodyHTML string
}

// TranslatedContent is the engine's validated output for one target locale.
type TranslatedContent struct {
	Title          string
	BodyHTML       string
	Excerpt        string
	SEOTitle       string
	SEODescription string
	ProviderName   string
	ModelName      string
}

func sourceFrom(t Translation) SourceContent {
	return SourceContent{
		Locale:   t.Locale,
		Title:    t.Title,
		Excerpt:  t.Excerpt,
		BodyHTML: t.BodyHTML,
	}
}
