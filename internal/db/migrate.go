package db

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrate brings the schema up to date. goose tracks applied versions
// in its own table, so boot-time migration is idempotent.
func Migrate(dbURL string) error {
	sqldb, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer sqldb.Close()

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(sqldb, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
