package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Migrations use the dbmate file format so `mage dbup` and the server apply
// the same files and share the schema_migrations table.
//
//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	upMarker   = "-- migrate:up"
	downMarker = "-- migrate:down"
)

func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(128) PRIMARY KEY)`); err != nil {
		return err
	}
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		version := strings.SplitN(strings.TrimPrefix(name, "migrations/"), "_", 2)[0]
		var applied int
		if err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM schema_migrations WHERE version=?`, version).Scan(&applied); err != nil {
			return err
		}
		if applied > 0 {
			continue
		}
		raw, err := migrationFS.ReadFile(name)
		if err != nil {
			return err
		}
		up, err := upSection(string(raw))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, up); err != nil {
			tx.Rollback()
			return fmt.Errorf("%s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func upSection(src string) (string, error) {
	start := strings.Index(src, upMarker)
	if start < 0 {
		return "", fmt.Errorf("missing %q", upMarker)
	}
	up := src[start+len(upMarker):]
	if end := strings.Index(up, downMarker); end >= 0 {
		up = up[:end]
	}
	return strings.TrimSpace(up), nil
}
