package translation

import (
	"context"

	"horse.fit/polyglot/internal/locale"
)

// Store persists translations. InsertIfAbsent is the only concurrency
// primitive the resolver relies on: it must be a single atomic conditional
// insert keyed on (ArticleID, Locale).
type Store interface {
	// Get returns ErrNotFound when no row exists.
	Get(ctx context.Context, articleID int64, loc locale.Locale) (Translation, error)
	// GetAll returns every row for the article ordered by locale code.
	GetAll(ctx context.Context, articleID int64) ([]Translation, error)
	// InsertIfAbsent stores t unless a row for the same key exists. When it
	// does, the existing row is returned with inserted=false.
	InsertIfAbsent(ctx context.Context, t Translation) (stored Translation, inserted bool, err error)
	// IncrementViewCount is best-effort; callers log and drop failures.
	IncrementViewCount(ctx context.Context, articleID int64) error
}
