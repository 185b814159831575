package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/carreras/models"
)

// elevate passes the step-up check for this browser's session so the gated
// routes run directly.
func (b *browser) elevate() {
	b.t.Helper()
	rec := b.post("/confirm-password", url.Values{
		"password": {testPassword},
		"returnTo": {"/catalog"},
	})
	require.Equal(b.t, http.StatusTemporaryRedirect, rec.Code)
}

func TestDeleteBlockedByDependents(t *testing.T) {
	a := newApp(t)
	cat, loc, race, mod, _ := seedCatalog(t, a.db)
	b := a.browser(t)
	b.elevate()

	cases := []struct {
		name    string
		path    string
		model   interface{}
		blocker string
		title   string
	}{
		{"category blocked by race", cat.URL() + "/delete", (*models.Category)(nil), race.Name, "Races in this category"},
		{"race blocked by modality", race.URL() + "/delete", (*models.Race)(nil), "105 km", "Modalities of this race"},
		{"modality blocked by instance", mod.URL() + "/delete", (*models.Modality)(nil), "04/07/2026", "Instances of this modality"},
		{"location blocked by modality", loc.URL() + "/delete", (*models.Location)(nil), "105 km", "Modalities starting or ending here"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := b.get(tc.path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.title)
			assert.Contains(t, rec.Body.String(), tc.blocker)

			// Submitting anyway refuses and re-lists the blockers.
			rec = b.post(tc.path, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.blocker)

			n, err := a.db.NewSelect().Model(tc.model).Count(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, n, "record must survive a blocked delete")
		})
	}
}

func TestDeleteCascadeBottomUp(t *testing.T) {
	a := newApp(t)
	cat, loc, race, mod, inst := seedCatalog(t, a.db)
	b := a.browser(t)
	b.elevate()

	// Leaf first: the instance has no dependents of its own.
	rec := b.get(inst.URL() + "/delete")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Do you really want to delete this record?")

	rec = b.post(inst.URL()+"/delete", nil)
	assert.Equal(t, "/catalog/instances", redirectsTo(t, rec, http.StatusSeeOther))

	// Each freed parent now deletes cleanly in turn.
	for _, tc := range []struct {
		path string
		list string
	}{
		{mod.URL() + "/delete", "/catalog/modalities"},
		{race.URL() + "/delete", "/catalog/races"},
		{loc.URL() + "/delete", "/catalog/locations"},
		{cat.URL() + "/delete", "/catalog/categories"},
	} {
		rec := b.post(tc.path, nil)
		assert.Equal(t, tc.list, redirectsTo(t, rec, http.StatusSeeOther))
	}

	for _, model := range []interface{}{
		(*models.Category)(nil),
		(*models.Location)(nil),
		(*models.Race)(nil),
		(*models.Modality)(nil),
		(*models.Instance)(nil),
	} {
		n, err := a.db.NewSelect().Model(model).Count(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	}
}

func TestDeleteMissingTargetRedirectsToList(t *testing.T) {
	b := newApp(t).browser(t)

	rec := b.get("/catalog/race/123/delete")
	assert.Equal(t, "/catalog/races", redirectsTo(t, rec, http.StatusSeeOther))

	rec = b.post("/catalog/race/123/delete", nil)
	assert.Equal(t, "/catalog/races", redirectsTo(t, rec, http.StatusSeeOther))
}
