// Package sqlmigrate applies embedded SQL migrations to sqlite or postgres,
// recording each file once in a bookkeeping table.
package sqlmigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	migrationTable = "schema_migrations"
	upMarker       = "-- +migrate Up"
	downMarker     = "-- +migrate Down"
)

// Migrator applies migrations through DB. Placeholder selects the bind
// syntax of the driver: sq.Question for sqlite, sq.Dollar for postgres.
type Migrator struct {
	DB          *sql.DB
	Placeholder sq.PlaceholderFormat
	// Now stamps applied rows. Defaults to time.Now.
	Now func() time.Time
}

// Apply executes every .sql file under root in name order, skipping files
// already recorded. Each file runs in its own transaction with its record.
func (m Migrator) Apply(ctx context.Context, migrations fs.FS, root string) error {
	if m.DB == nil {
		return errors.New("sql db is required")
	}
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	entries, err := fs.ReadDir(migrations, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	slices.Sort(files)

	if _, err := m.DB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at BIGINT NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		key := file
		if root != "." {
			key = path.Join(root, file)
		}
		if err := m.applyFile(ctx, migrations, key); err != nil {
			return err
		}
	}
	return nil
}

func (m Migrator) applyFile(ctx context.Context, migrations fs.FS, key string) error {
	applied, err := m.applied(ctx, key)
	if err != nil {
		return fmt.Errorf("check migration %s: %w", key, err)
	}
	if applied {
		return nil
	}
	content, err := fs.ReadFile(migrations, key)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", key, err)
	}
	up := UpSection(string(content))
	if strings.TrimSpace(up) == "" {
		return nil
	}

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, up); err != nil && !IsAlreadyExists(err) {
		_ = tx.Rollback()
		return fmt.Errorf("exec migration %s: %w", key, err)
	}
	_, err = m.builder().Insert(migrationTable).
		Columns("name", "applied_at").
		Values(key, m.now().UTC().UnixMilli()).
		Suffix("ON CONFLICT (name) DO NOTHING").
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", key, err)
	}
	return nil
}

func (m Migrator) applied(ctx context.Context, key string) (bool, error) {
	var found int
	err := m.builder().Select("1").From(migrationTable).
		Where(sq.Eq{"name": key}).
		RunWith(m.DB).
		QueryRowContext(ctx).
		Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (m Migrator) builder() sq.StatementBuilderType {
	ph := m.Placeholder
	if ph == nil {
		ph = sq.Question
	}
	return sq.StatementBuilder.PlaceholderFormat(ph)
}

func (m Migrator) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// UpSection returns the SQL between the Up and Down markers, or the whole
// content when there is no Up marker.
func UpSection(content string) string {
	up := strings.Index(content, upMarker)
	if up == -1 {
		return content
	}
	body := content[up+len(upMarker):]
	if down := strings.Index(body, downMarker); down != -1 {
		body = body[:down]
	}
	return body
}

// IsAlreadyExists reports whether err is DDL that already took effect.
func IsAlreadyExists(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate column")
}
