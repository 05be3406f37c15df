package migrate

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// DefaultDir is the migrations directory relative to the process
// working directory, matching the repo layout.
const DefaultDir = "db/migrations"

// Run applies all pending migrations from DefaultDir. Called once at
// startup, before the store's connection pool is opened.
func Run(dsn string) error {
	return UpDir(dsn, DefaultDir)
}

// UpDir applies all pending goose migrations found in dir. It opens
// and closes a short-lived handle of its own so the caller's pool is
// untouched.
func UpDir(dsn, dir string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
