package articles

import (
	"errors"
	"strings"
	"time"

	"horse.fit/polyglot/internal/db"
	"horse.fit/polyglot/internal/locale"
	"horse.fit/polyglot/internal/translation"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidDraft    = errors.New("invalid article draft")
	ErrSlugTaken       = db.ErrSlugTaken
)

const (
	DefaultListLimit     = 20
	DefaultFeaturedLimit = 6
	MaxListLimit         = 100
	DefaultConcurrency   = 4

	excerptChars = 200
)

var categories = []string{"politics", "business", "technology", "culture", "sports"}

// Categories returns the site's fixed category slugs.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

func IsCategory(raw string) bool {
	value := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range categories {
		if c == value {
			return true
		}
	}
	return false
}

// Article is an article rendered in one locale.
type Article struct {
	ID                int64         `json:"id"`
	UUID              string        `json:"uuid"`
	Slug              string        `json:"slug"`
	Category          string        `json:"category"`
	Image             string        `json:"image,omitempty"`
	Featured          bool          `json:"featured"`
	ViewCount         int64         `json:"view_count"`
	AuthorRef         string        `json:"author_ref,omitempty"`
	Locale            locale.Locale `json:"locale"`
	RequestedLocale   locale.Locale `json:"requested_locale"`
	Dir               string        `json:"dir"`
	Title             string        `json:"title"`
	BodyHTML          string        `json:"body_html,omitempty"`
	Excerpt           string        `json:"excerpt"`
	SEOTitle          string        `json:"seo_title"`
	SEODescription    string        `json:"seo_description"`
	EstimatedReadTime string        `json:"estimated_read_time"`
	Origin            string        `json:"origin"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func render(row db.ArticleRow, t translation.Translation, requested locale.Locale) Article {
	dir := "ltr"
	if locale.IsRTL(t.Locale) {
		dir = "rtl"
	}
	return Article{
		ID:                row.ArticleID,
		UUID:              row.ArticleUUID,
		Slug:              row.Slug,
		Category:          row.Category,
		Image:             deref(row.Image),
		Featured:          row.Featured,
		ViewCount:         row.ViewCount,
		AuthorRef:         deref(row.AuthorRef),
		Locale:            t.Locale,
		RequestedLocale:   requested,
		Dir:               dir,
		Title:             t.Title,
		BodyHTML:          t.BodyHTML,
		Excerpt:           t.Excerpt,
		SEOTitle:          t.SEOTitle,
		SEODescription:    t.SEODescription,
		EstimatedReadTime: t.EstimatedReadTime,
		Origin:            string(t.Origin),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
