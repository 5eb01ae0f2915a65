package db

import "time"

// Article maps news.articles.
type Article struct {
	ArticleID   int64     `gorm:"column:article_id;primaryKey;autoIncrement"`
	ArticleUUID string    `gorm:"column:article_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	Slug        string    `gorm:"column:slug;type:text;not null;uniqueIndex:ux_articles_slug"`
	Category    string    `gorm:"column:category;type:text;not null;index:ix_articles_category"`
	Image       *string   `gorm:"column:image;type:text"`
	Published   bool      `gorm:"column:published;type:boolean;not null;default:false"`
	Featured    bool      `gorm:"column:featured;type:boolean;not null;default:false"`
	ViewCount   int64     `gorm:"column:view_count;type:bigint;not null;default:0"`
	AuthorRef   *string   `gorm:"column:author_ref;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (Article) TableName() string { return "news.articles" }

// ArticleTranslation maps news.article_translations. The unique index on
// (article_id, locale) is what makes lazy generation race-safe.
type ArticleTranslation struct {
	ArticleTranslationID int64     `gorm:"column:article_translation_id;primaryKey;autoIncrement"`
	TranslationUUID      string    `gorm:"column:translation_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	ArticleID            int64     `gorm:"column:article_id;type:bigint;not null;uniqueIndex:ux_article_translations_article_locale,priority:1"`
	Locale               string    `gorm:"column:locale;type:text;not null;uniqueIndex:ux_article_translations_article_locale,priority:2"`
	Title                string    `gorm:"column:title;type:text;not null"`
	BodyHTML             string    `gorm:"column:body_html;type:text;not null;default:''"`
	Excerpt              string    `gorm:"column:excerpt;type:text;not null;default:''"`
	SEOTitle             string    `gorm:"column:seo_title;type:text;not null;default:''"`
	SEODescription       string    `gorm:"column:seo_description;type:text;not null;default:''"`
	EstimatedReadTime    string    `gorm:"column:estimated_read_time;type:text;not null;default:'1 min read'"`
	Origin               string    `gorm:"column:origin;type:text;not null;default:authored"`
	SourceLocale         *string   `gorm:"column:source_locale;type:text"`
	ProviderName         *string   `gorm:"column:provider_name;type:text"`
	ModelName            *string   `gorm:"column:model_name;type:text"`
	CreatedAt            time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (ArticleTranslation) TableName() string { return "news.article_translations" }

func autoMigrateModels() []any {
	return []any{
		&Article{},
		&ArticleTranslation{},
	}
}
