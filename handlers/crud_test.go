package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/carreras/models"
)

func TestCategoryLifecycle(t *testing.T) {
	a := newApp(t)
	b := a.browser(t)

	rec := b.get("/catalog/category/create")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Create Category")

	rec = b.post("/catalog/category/create", url.Values{
		"name":        {"  Road Running  "},
		"description": {"Races on paved roads."},
	})
	detail := redirectsTo(t, rec, http.StatusSeeOther)

	rec = b.get(detail)
	require.Equal(t, http.StatusOK, rec.Code)
	// Whitespace trimmed on the way in.
	assert.Contains(t, rec.Body.String(), "Category: Road Running")
	assert.Contains(t, rec.Body.String(), "Races on paved roads.")

	t.Run("case-variant duplicate redirects to the existing record", func(t *testing.T) {
		rec := b.post("/catalog/category/create", url.Values{
			"name": {"ROAD RUNNING"},
		})
		assert.Equal(t, detail, redirectsTo(t, rec, http.StatusSeeOther))

		n, err := a.db.NewSelect().Model((*models.Category)(nil)).Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("update rewrites the record in place", func(t *testing.T) {
		rec := b.get(detail + "/update")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Road Running")

		rec = b.post(detail+"/update", url.Values{
			"name":        {"Road Racing"},
			"description": {"Renamed."},
		})
		assert.Equal(t, detail, redirectsTo(t, rec, http.StatusSeeOther))

		rec = b.get(detail)
		assert.Contains(t, rec.Body.String(), "Category: Road Racing")
	})

	t.Run("blank name re-renders the form with a message", func(t *testing.T) {
		rec := b.post("/catalog/category/create", url.Values{
			"name": {"   "},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Category name required")
	})
}

func TestUpdateMissingTargetRedirectsToList(t *testing.T) {
	b := newApp(t).browser(t)

	rec := b.get("/catalog/category/42/update")
	assert.Equal(t, "/catalog/categories", redirectsTo(t, rec, http.StatusSeeOther))

	rec = b.post("/catalog/category/42/update", url.Values{"name": {"Ghost"}})
	assert.Equal(t, "/catalog/categories", redirectsTo(t, rec, http.StatusSeeOther))
}

func TestLocationCommunityValidation(t *testing.T) {
	b := newApp(t).browser(t)

	rec := b.post("/catalog/location/create", url.Values{
		"city":      {"Springfield"},
		"community": {"Ohio"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Community must be one of the listed communities")

	rec = b.post("/catalog/location/create", url.Values{
		"city":      {"Granada"},
		"community": {"Andalucía"},
	})
	redirectsTo(t, rec, http.StatusSeeOther)
}

func TestRaceCreateResolvesCategory(t *testing.T) {
	a := newApp(t)
	cat, _, _, _, _ := seedCatalog(t, a.db)
	b := a.browser(t)

	t.Run("dangling category id never reaches a write", func(t *testing.T) {
		rec := b.post("/catalog/race/create", url.Values{
			"name":     {"Phantom Race"},
			"category": {"999"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Category not found")
	})

	t.Run("valid reference inserts", func(t *testing.T) {
		rec := b.post("/catalog/race/create", url.Values{
			"name":     {"Zegama Aizkorri"},
			"category": {strconv.FormatInt(cat.CategoryID, 10)},
		})
		detail := redirectsTo(t, rec, http.StatusSeeOther)

		rec = b.get(detail)
		assert.Contains(t, rec.Body.String(), "Zegama Aizkorri")
	})
}

func TestModalityDuplicateRedirect(t *testing.T) {
	a := newApp(t)
	_, loc, race, mod, _ := seedCatalog(t, a.db)
	b := a.browser(t)

	form := url.Values{
		"race":           {strconv.FormatInt(race.RaceID, 10)},
		"start_location": {strconv.FormatInt(loc.LocationID, 10)},
		"end_location":   {strconv.FormatInt(loc.LocationID, 10)},
		"distance":       {"105"},
		"elevation":      {"6000"},
		"track":          {"Same race and distance as the seeded one."},
	}
	rec := b.post("/catalog/modality/create", form)
	assert.Equal(t, mod.URL(), redirectsTo(t, rec, http.StatusSeeOther))

	t.Run("different distance inserts", func(t *testing.T) {
		form.Set("distance", "60")
		rec := b.post("/catalog/modality/create", form)
		target := redirectsTo(t, rec, http.StatusSeeOther)
		assert.NotEqual(t, mod.URL(), target)
	})
}

func TestInstanceFormValidation(t *testing.T) {
	a := newApp(t)
	_, _, _, mod, _ := seedCatalog(t, a.db)
	b := a.browser(t)

	rec := b.post("/catalog/instance/create", url.Values{
		"modality": {""},
		"date":     {"not-a-date"},
		"price":    {"-5"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Modality required")
	assert.Contains(t, body, "Date must be a valid date")
	assert.Contains(t, body, "Price must be zero or positive")

	t.Run("date-only input is accepted", func(t *testing.T) {
		rec := b.post("/catalog/instance/create", url.Values{
			"modality": {strconv.FormatInt(mod.ModalityID, 10)},
			"date":     {"2026-09-12"},
			"price":    {"40"},
		})
		detail := redirectsTo(t, rec, http.StatusSeeOther)

		rec = b.get(detail)
		assert.Contains(t, rec.Body.String(), "12/09/2026")
		assert.Contains(t, rec.Body.String(), "40.00 €")
	})
}

func TestListsAreSorted(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	for _, name := range []string{"trail running", "Obstacle Course", "Road Running"} {
		_, err := a.db.NewInsert().Model(&models.Category{Name: name}).Exec(ctx)
		require.NoError(t, err)
	}

	rec := a.browser(t).get("/catalog/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	obstacle := strings.Index(body, "Obstacle Course")
	road := strings.Index(body, "Road Running")
	trail := strings.Index(body, "trail running")
	require.NotEqual(t, -1, obstacle)
	require.NotEqual(t, -1, road)
	require.NotEqual(t, -1, trail)

	// Ordered by name regardless of case.
	assert.Less(t, obstacle, road)
	assert.Less(t, road, trail)
}
