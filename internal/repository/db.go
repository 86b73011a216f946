package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "modernc.org/sqlite"             // sqlite driver
)

type Config struct {
	// DSN selects the backend: postgres:// / postgresql:// for a shared
	// Postgres, anything else (e.g. file:pomatch.db) is a local SQLite file.
	DSN         string
	DialTimeout time.Duration
}

// Open connects to the run store and ensures the schema exists.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := "sqlite"
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		driver = "pgx"
	}
	logger.Info("opening run store", "driver", driver)

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := migrate(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("run store ready")
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB, driver string) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS match_run (
	id              TEXT PRIMARY KEY,
	status          TEXT NOT NULL,
	policy          TEXT NOT NULL,
	threshold       INTEGER NOT NULL,
	is_match        INTEGER NOT NULL,
	points          INTEGER NOT NULL,
	po_path         TEXT NOT NULL,
	invoice_path    TEXT NOT NULL,
	po_fields       TEXT NOT NULL,
	invoice_fields  TEXT NOT NULL,
	comparison      TEXT NOT NULL,
	started_at      TIMESTAMP NOT NULL,
	duration_ms     INTEGER NOT NULL
)`)
	return err
}

// rebind converts ? placeholders to the $N form Postgres expects. SQLite
// accepts ? natively.
func rebind(driver, query string) string {
	if driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DriverName reports which registered driver a DSN maps to.
func DriverName(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "sqlite"
}
