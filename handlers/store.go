package handlers

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// findByID fetches one row of T by primary key with the given relations
// populated, returning nil, nil when the id does not exist.
func findByID[T any](ctx context.Context, db bun.IDB, pkCol string, id int64, relations ...string) (*T, error) {
	m := new(T)
	q := db.NewSelect().Model(m).Where("?TableAlias.? = ?", bun.Ident(pkCol), id)
	for _, rel := range relations {
		q = q.Relation(rel)
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatKm(d float64) string {
	return formatFloat(d) + " km"
}

func formatMeters(e float64) string {
	return formatFloat(e) + " m"
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64) + " €"
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

// formatDateInput renders a time for the datetime-local form input.
func formatDateInput(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02T15:04")
}
