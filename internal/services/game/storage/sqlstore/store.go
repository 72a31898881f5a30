// Package sqlstore implements the game stores on database/sql, with sqlite
// for single-process use and postgres for shared deployments.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/louisbranch/garoball/internal/platform/storage/sqlmigrate"
	"github.com/louisbranch/garoball/internal/services/game/storage"
	"github.com/louisbranch/garoball/internal/services/game/storage/sqlstore/migrations"
)

// Dialect names a supported database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect parses a driver name. Empty input means sqlite.
func ParseDialect(value string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", value)
	}
}

func (d Dialect) driver() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Dialect) placeholder() sq.PlaceholderFormat {
	if d == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// Store implements storage.Store.
type Store struct {
	db      *sql.DB
	dialect Dialect
	sb      sq.StatementBuilderType
	txm     *manager.Manager
	getter  *trmsql.CtxGetter
	now     func() time.Time
}

var _ storage.Store = (*Store)(nil)

// Open connects to dsn and applies migrations. For sqlite dsn is a file
// path; for postgres it is a connection string.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("storage dsn is required")
	}
	if dialect == DialectSQLite {
		dsn = filepath.Clean(dsn) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open(dialect.driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", dialect, err)
	}
	s, err := New(ctx, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and applies migrations.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("sql db is required")
	}
	m := sqlmigrate.Migrator{DB: db, Placeholder: dialect.placeholder()}
	if err := m.Apply(ctx, migrations.FS, string(dialect)); err != nil {
		return nil, fmt.Errorf("migrate %s db: %w", dialect, err)
	}
	txm, err := manager.New(trmsql.NewDefaultFactory(db))
	if err != nil {
		return nil, fmt.Errorf("create tx manager: %w", err)
	}
	return &Store{
		db:      db,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(dialect.placeholder()),
		txm:     txm,
		getter:  trmsql.DefaultCtxGetter,
		now:     time.Now,
	}, nil
}

// Close closes the database. It is nil-safe.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WithTx runs fn in a transaction. Store calls made with the context fn
// receives join it; nested calls reuse the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.txm.Do(ctx, fn)
}

// conn returns the transaction in ctx, or the database.
func (s *Store) conn(ctx context.Context) trmsql.Tr {
	return s.getter.DefaultTrOrDB(ctx, s.db)
}

func (s *Store) exec(ctx context.Context, q sq.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.conn(ctx).ExecContext(ctx, query, args...)
}

func (s *Store) queryRow(ctx context.Context, q sq.Sqlizer) (*sql.Row, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.conn(ctx).QueryRowContext(ctx, query, args...), nil
}

func (s *Store) query(ctx context.Context, q sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.conn(ctx).QueryContext(ctx, query, args...)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}
