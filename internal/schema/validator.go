package payloadschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	translatedArticleSchemaName = "translated_article.schema.json"
	articleDraftSchemaName      = "article_draft.schema.json"
)

//go:embed translated_article.schema.json
var translatedArticleSchemaJSON string

//go:embed article_draft.schema.json
var articleDraftSchemaJSON string

// TranslatedArticle is the structured output expected from the translation model.
type TranslatedArticle struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Excerpt  string `json:"excerpt"`
	SEOTitle string `json:"seoTitle"`
	SEODesc  string `json:"seoDesc"`
}

// ArticleDraft is the admin payload that creates an article.
type ArticleDraft struct {
	Slug         string             `json:"slug"`
	Category     string             `json:"category"`
	Image        string             `json:"image,omitempty"`
	Published    bool               `json:"published"`
	Featured     bool               `json:"featured"`
	AuthorRef    string             `json:"author_ref,omitempty"`
	ImportURL    string             `json:"import_url,omitempty"`
	ImportLocale string             `json:"import_locale,omitempty"`
	Translations []DraftTranslation `json:"translations,omitempty"`
}

type DraftTranslation struct {
	Locale         string `json:"locale"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	Excerpt        string `json:"excerpt,omitempty"`
	SEOTitle       string `json:"seo_title,omitempty"`
	SEODescription string `json:"seo_description,omitempty"`
}

type compiled struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

var schemas = map[string]*compiled{
	translatedArticleSchemaName: {},
	articleDraftSchemaName:      {},
}

var schemaSources = map[string]string{
	translatedArticleSchemaName: translatedArticleSchemaJSON,
	articleDraftSchemaName:      articleDraftSchemaJSON,
}

// ValidateTranslatedArticle validates raw model output against the translated
// article schema and decodes it.
func ValidateTranslatedArticle(raw []byte) (*TranslatedArticle, error) {
	var article TranslatedArticle
	if err := validateInto(translatedArticleSchemaName, raw, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// ValidateArticleDraft validates an admin article payload, including the
// rules the schema cannot express.
func ValidateArticleDraft(raw []byte) (*ArticleDraft, error) {
	var draft ArticleDraft
	if err := validateInto(articleDraftSchemaName, raw, &draft); err != nil {
		return nil, err
	}
	if err := validateDraftSemantics(&draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func validateInto(name string, raw []byte, out any) error {
	value, err := decodeStrictJSON(raw)
	if err != nil {
		return fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema(name)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("normalize payload JSON: %w", err)
	}
	if err := json.Unmarshal(normalized, out); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}

func loadSchema(name string) (*jsonschema.Schema, error) {
	entry, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	entry.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource(name, strings.NewReader(schemaSources[name])); err != nil {
			entry.err = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile(name)
		if err != nil {
			entry.err = fmt.Errorf("compile schema: %w", err)
			return
		}
		entry.schema = schema
	})

	if entry.err != nil {
		return nil, entry.err
	}
	if entry.schema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return entry.schema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateDraftSemantics(draft *ArticleDraft) error {
	if draft == nil {
		return fmt.Errorf("payload is nil")
	}

	if len(draft.Translations) == 0 && strings.TrimSpace(draft.ImportURL) == "" {
		return fmt.Errorf("at least one source translation or import_url is required")
	}

	seen := make(map[string]struct{}, len(draft.Translations))
	for i, tr := range draft.Translations {
		if _, dup := seen[tr.Locale]; dup {
			return fmt.Errorf("translations[%d]: duplicate locale %q", i, tr.Locale)
		}
		seen[tr.Locale] = struct{}{}
		if strings.TrimSpace(tr.Title) == "" {
			return fmt.Errorf("translations[%d]: title must not be empty", i)
		}
		if strings.TrimSpace(tr.Content) == "" {
			return fmt.Errorf("translations[%d]: content must not be empty", i)
		}
	}

	if strings.TrimSpace(draft.ImportURL) != "" {
		importLocale := draft.ImportLocale
		if importLocale == "" {
			importLocale = "en"
		}
		if _, dup := seen[importLocale]; dup {
			return fmt.Errorf("import_url would duplicate the %q translation", importLocale)
		}
	}
	return nil
}
