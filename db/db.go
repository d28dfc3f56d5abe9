// Package db embeds the SQL schema for both supported dialects and applies it
// with goose.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

//go:embed migrations
var migrations embed.FS

// MigrationsFS returns the migration directory for dialect.
func MigrationsFS(dialect string) (fs.FS, error) {
	switch dialect {
	case DialectPostgres, DialectSQLite:
		return fs.Sub(migrations, "migrations/"+dialect)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func NewProvider(dialect string, sqlDB *sql.DB) (*goose.Provider, error) {
	fsys, err := MigrationsFS(dialect)
	if err != nil {
		return nil, err
	}
	gooseDialect := goose.DialectPostgres
	if dialect == DialectSQLite {
		gooseDialect = goose.DialectSQLite3
	}
	return goose.NewProvider(gooseDialect, sqlDB, fsys)
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, sqlDB *sql.DB, dialect string) error {
	p, err := NewProvider(dialect, sqlDB)
	if err != nil {
		return err
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("apply %s migrations: %w", dialect, err)
	}
	return nil
}
