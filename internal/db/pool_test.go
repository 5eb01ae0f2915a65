package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockPool(t *testing.T) (*Pool, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}

	pool, err := NewPoolFromGORM(gdb)
	if err != nil {
		t.Fatalf("NewPoolFromGORM() error = %v", err)
	}
	return pool, mock
}

func TestResolveGormLogLevel(t *testing.T) {
	t.Parallel()

	if got := resolveGormLogLevel("debug", "production"); got != logger.Info {
		t.Fatalf("debug level = %v", got)
	}
	if got := resolveGormLogLevel("error", "local"); got != logger.Error {
		t.Fatalf("error level = %v", got)
	}
	if got := resolveGormLogLevel("bogus", "local"); got != logger.Warn {
		t.Fatalf("unknown level in local = %v", got)
	}
	if got := resolveGormLogLevel("bogus", "production"); got != logger.Error {
		t.Fatalf("unknown level in production = %v", got)
	}
}

func TestNewPoolFromGORMRejectsNil(t *testing.T) {
	t.Parallel()

	if _, err := NewPoolFromGORM(nil); err == nil {
		t.Fatalf("expected error for nil gorm handle")
	}
	var nilPool *Pool
	if err := nilPool.Close(); err != nil {
		t.Fatalf("Close() on nil pool = %v", err)
	}
}

func TestPoolInTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	pool, mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE news.articles SET featured = true`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	ctx := context.Background()
	boom := errors.New("boom")
	var affected int64
	err := pool.InTx(ctx, func(q Querier) error {
		var err error
		affected, err = q.Exec(ctx, `UPDATE news.articles SET featured = true WHERE article_id = $1`, int64(5))
		if err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error to be returned, got %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUninitializedPoolReportsUnavailable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := &Pool{}
	if err := pool.Ping(ctx); !errors.Is(err, errPoolUnavailable) {
		t.Fatalf("Ping() = %v", err)
	}
	if err := pool.InTx(ctx, func(Querier) error { return nil }); !errors.Is(err, errPoolUnavailable) {
		t.Fatalf("InTx() = %v", err)
	}
	var id int64
	if err := pool.QueryRow(ctx, "SELECT 1").Scan(&id); !errors.Is(err, errPoolUnavailable) {
		t.Fatalf("QueryRow().Scan() = %v", err)
	}
	if _, err := pool.GetArticleTranslation(ctx, 1, "en"); !errors.Is(err, errPoolUnavailable) {
		t.Fatalf("GetArticleTranslation() = %v", err)
	}
}
