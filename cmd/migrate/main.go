package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"passcritic/db"
	"passcritic/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
		dialect = flag.String("dialect", "", "Database dialect: postgres, sqlite (defaults to DB_DRIVER)")
	)
	flag.Parse()

	config.LoadEnvFiles()

	d := *dialect
	if d == "" {
		d = config.GetEnv("DB_DRIVER", db.DialectPostgres)
	}

	if *command == "create" {
		if *name == "" {
			log.Fatal("Name is required for 'create' command")
		}
		dir := filepath.Join(migrationsDir(), d)
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			log.Fatalf("Failed to create migration: %v", err)
		}
		fmt.Printf("Migration created: %s\n", *name)
		return
	}

	ctx := context.Background()
	sqlDB, closeDB, err := openDB(ctx, d, config.GetEnv("DB_DSN", defaultDSN(d)))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB()

	provider, err := db.NewProvider(d, sqlDB)
	if err != nil {
		log.Fatalf("Failed to load migrations: %v", err)
	}

	switch *command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Printf("Migrations applied successfully (%d)\n", len(results))
	case "down":
		if _, err := provider.Down(ctx); err != nil {
			log.Fatalf("Failed to rollback migrations: %v", err)
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			log.Fatalf("Failed to check migration status: %v", err)
		}
		for _, s := range statuses {
			applied := "pending"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%-40s %s\n", filepath.Base(s.Source.Path), applied)
		}
	default:
		log.Fatalf("Unknown command: %s. Use: up, down, status, create", *command)
	}
}

func openDB(ctx context.Context, dialect, dsn string) (*sql.DB, func(), error) {
	switch dialect {
	case db.DialectPostgres:
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		sqlDB := stdlib.OpenDBFromPool(pool)
		return sqlDB, func() { _ = sqlDB.Close(); pool.Close() }, nil
	case db.DialectSQLite:
		sqlDB, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, nil, err
		}
		return sqlDB, func() { _ = sqlDB.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}
