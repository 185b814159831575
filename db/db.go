package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/carreras/config"
	"github.com/padraicbc/carreras/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order, then the uniqueness
// indexes. Name-like fields are unique on their lowercased value so that a
// create racing past the handler's existence check still cannot insert a
// case-variant duplicate. The index DDL is portable across PostgreSQL and
// the SQLite databases used in tests.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Category)(nil),
		(*models.Location)(nil),
		(*models.Race)(nil),
		(*models.Modality)(nil),
		(*models.Instance)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS categories_name_no_dupes ON categories (lower(name))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS locations_city_no_dupes ON locations (lower(city))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS races_name_no_dupes ON races (lower(name))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS modalities_no_dupes ON modalities (race_id, distance)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	return nil
}
