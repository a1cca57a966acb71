// Package database owns the PostgreSQL pool backing the blog, category,
// and user stores. Connect returns a verified *sql.DB over the pgx stdlib
// driver; Migrate brings the content schema up to date from the embedded
// goose migrations.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var embedMigrations embed.FS

// Connect opens a PostgreSQL pool for the given DSN and pings it so a bad
// DSN fails at startup rather than on the first query.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("postgres connected")
	return db, nil
}

// Migrate applies any pending goose migrations. The SQL files are embedded
// in the binary, so deployments carry their schema with them. The content
// schema's integrity rules live here: the unique slug indexes and the
// RESTRICT foreign key from blogs to categories.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("schema migrations applied")
	return nil
}
