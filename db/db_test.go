package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	bundb "github.com/padraicbc/carreras/db"
	"github.com/padraicbc/carreras/models"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, bundb.CreateTables(context.Background(), db))
	return db
}

func TestCreateTablesIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, bundb.CreateTables(context.Background(), db))
}

func TestCaseInsensitiveUniqueness(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.NewInsert().Model(&models.Category{Name: "Road Running"}).Exec(ctx)
	require.NoError(t, err)

	// A case-variant duplicate must be refused at the storage layer, not
	// just by the handler's pre-insert lookup.
	_, err = db.NewInsert().Model(&models.Category{Name: "ROAD RUNNING"}).Exec(ctx)
	assert.Error(t, err)

	_, err = db.NewInsert().Model(&models.Category{Name: "Trail Running"}).Exec(ctx)
	assert.NoError(t, err)
}

func TestModalityUniquePerRaceAndDistance(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	cat := &models.Category{Name: "Road Running"}
	_, err := db.NewInsert().Model(cat).Exec(ctx)
	require.NoError(t, err)

	loc := &models.Location{City: "Valencia", Community: "Comunidad Valenciana"}
	_, err = db.NewInsert().Model(loc).Exec(ctx)
	require.NoError(t, err)

	race := &models.Race{Name: "Maratón de Valencia", CategoryID: cat.CategoryID}
	_, err = db.NewInsert().Model(race).Exec(ctx)
	require.NoError(t, err)

	mod := &models.Modality{
		RaceID:          race.RaceID,
		StartLocationID: loc.LocationID,
		EndLocationID:   loc.LocationID,
		Distance:        42.195,
		Track:           "City circuit.",
	}
	_, err = db.NewInsert().Model(mod).Exec(ctx)
	require.NoError(t, err)

	dupe := &models.Modality{
		RaceID:          race.RaceID,
		StartLocationID: loc.LocationID,
		EndLocationID:   loc.LocationID,
		Distance:        42.195,
		Track:           "Same race, same distance.",
	}
	_, err = db.NewInsert().Model(dupe).Exec(ctx)
	assert.Error(t, err)

	// The same distance under another race is fine.
	other := &models.Race{Name: "Maratón de Sevilla", CategoryID: cat.CategoryID}
	_, err = db.NewInsert().Model(other).Exec(ctx)
	require.NoError(t, err)

	mod2 := &models.Modality{
		RaceID:          other.RaceID,
		StartLocationID: loc.LocationID,
		EndLocationID:   loc.LocationID,
		Distance:        42.195,
		Track:           "Flat.",
	}
	_, err = db.NewInsert().Model(mod2).Exec(ctx)
	assert.NoError(t, err)
}
