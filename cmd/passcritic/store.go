package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"passcritic/db"
	"passcritic/internal/catalog"
	"passcritic/internal/config"
	"passcritic/internal/ingest"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// openStore returns nil repositories when persistence is disabled.
func openStore(ctx context.Context, cfg config.Config, migrate bool) (catalog.Store, ingest.RunRepository, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := openPostgres(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if migrate {
			sqlDB := stdlib.OpenDBFromPool(pool)
			err := db.Migrate(ctx, sqlDB, db.DialectPostgres)
			_ = sqlDB.Close()
			if err != nil {
				pool.Close()
				return nil, nil, nil, err
			}
		}
		return catalog.NewPostgresRepo(pool), ingest.NewPostgresRepo(pool), pool.Close, nil

	case config.DriverSQLite:
		sqlDB, err := sql.Open("sqlite", cfg.DBDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.DBDSN, err)
		}
		// One writer at a time avoids SQLITE_BUSY under concurrent lookups.
		sqlDB.SetMaxOpenConns(1)
		if migrate {
			if err := db.Migrate(ctx, sqlDB, db.DialectSQLite); err != nil {
				_ = sqlDB.Close()
				return nil, nil, nil, err
			}
		}
		closeFn := func() { _ = sqlDB.Close() }
		return catalog.NewSQLiteRepo(sqlDB), ingest.NewSQLiteRepo(sqlDB), closeFn, nil

	default:
		return nil, nil, func() {}, nil
	}
}

func openPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
