package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"horse.fit/polyglot/internal/config"
	"horse.fit/polyglot/internal/globaltime"
)

var (
	ErrNoRows          = sql.ErrNoRows
	errPoolUnavailable = errors.New("database pool is not initialized")
)

// Querier runs the package's hand-written SQL against the pool or against
// the transaction opened by Pool.InTx. Placeholders are $n.
type Querier interface {
	QueryRow(ctx context.Context, query string, args ...any) rowScanner
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

type gormQuerier struct {
	gdb *gorm.DB
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }

func (q gormQuerier) QueryRow(ctx context.Context, query string, args ...any) rowScanner {
	if q.gdb == nil {
		return errRow{err: errPoolUnavailable}
	}
	return q.gdb.WithContext(ctx).Raw(query, args...).Row()
}

func (q gormQuerier) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if q.gdb == nil {
		return nil, errPoolUnavailable
	}
	return q.gdb.WithContext(ctx).Raw(query, args...).Rows()
}

// Exec returns the number of affected rows.
func (q gormQuerier) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if q.gdb == nil {
		return 0, errPoolUnavailable
	}
	res := q.gdb.WithContext(ctx).Exec(query, args...)
	return res.RowsAffected, res.Error
}

// Pool owns the Postgres connection behind the article and translation
// tables. Article queries use raw SQL through Querier; simple translation
// reads go through the gorm models.
type Pool struct {
	gormQuerier
	sqlDB *sql.DB
}

var _ Querier = (*Pool)(nil)

func NewPool(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:  logger.Default.LogMode(resolveGormLogLevel(cfg.LogLevel, cfg.Environment)),
		NowFunc: globaltime.UTC,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	pool, err := NewPoolFromGORM(gdb)
	if err != nil {
		return nil, err
	}
	applyConnLimits(pool.sqlDB, cfg.DBMinConns, cfg.DBMaxConns)

	if err := pool.Ping(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := pool.autoMigrate(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("auto-migrate schema: %w", err)
	}
	return pool, nil
}

// NewPoolFromGORM wraps an already-open gorm handle without running
// migrations. Tests use it with go-sqlmock.
func NewPoolFromGORM(gdb *gorm.DB) (*Pool, error) {
	if gdb == nil {
		return nil, fmt.Errorf("gorm db is nil")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get gorm sql db: %w", err)
	}
	return &Pool{gormQuerier: gormQuerier{gdb: gdb}, sqlDB: sqlDB}, nil
}

func applyConnLimits(sqlDB *sql.DB, minConns, maxConns int32) {
	maxOpen := int(maxConns)
	if maxOpen <= 0 {
		maxOpen = 8
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(max(1, min(int(minConns), maxOpen)))
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
}

func (p *Pool) Ping(ctx context.Context) error {
	if p == nil || p.sqlDB == nil {
		return errPoolUnavailable
	}
	return p.sqlDB.PingContext(ctx)
}

// InTx runs fn inside one transaction. It commits when fn returns nil and
// rolls back otherwise, returning fn's error unchanged.
func (p *Pool) InTx(ctx context.Context, fn func(q Querier) error) error {
	if p == nil || p.gdb == nil {
		return errPoolUnavailable
	}
	return p.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(gormQuerier{gdb: tx})
	})
}

// models scopes a gorm session to ctx for model-based reads.
func (p *Pool) models(ctx context.Context) (*gorm.DB, error) {
	if p == nil || p.gdb == nil {
		return nil, errPoolUnavailable
	}
	return p.gdb.WithContext(ctx), nil
}

func (p *Pool) Close() error {
	if p == nil || p.sqlDB == nil {
		return nil
	}
	return p.sqlDB.Close()
}

func IsNoRows(err error) bool {
	return errors.Is(err, ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound)
}

func resolveGormLogLevel(appLogLevel, environment string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(appLogLevel)) {
	case "trace", "debug":
		return logger.Info
	case "warn", "warning", "info", "":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	}
	if strings.EqualFold(strings.TrimSpace(environment), "local") {
		return logger.Warn
	}
	return logger.Error
}
