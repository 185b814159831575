package handlers_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	bundb "github.com/padraicbc/carreras/db"
	"github.com/padraicbc/carreras/handlers"
	mw "github.com/padraicbc/carreras/middleware"
	"github.com/padraicbc/carreras/models"
	"github.com/padraicbc/carreras/session"
	"github.com/padraicbc/carreras/web"
)

const testPassword = "opensesame"

type app struct {
	e     *echo.Echo
	db    *bun.DB
	store *session.Store
}

// newApp wires the full route surface against an in-memory database, the
// same way main does against PostgreSQL.
func newApp(t *testing.T) *app {
	t.Helper()

	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })
	require.NoError(t, bundb.CreateTables(context.Background(), db))

	store := session.NewStore(time.Hour)
	h := handlers.New(db, store, handlers.Options{Password: testPassword})

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = h.ErrorHandler
	e.Use(mw.Session(store, []byte("0123456789abcdef0123456789abcdef")))
	h.Register(e, mw.RequireConfirmed(store))

	return &app{e: e, db: db, store: store}
}

// browser drives the app like a cookie-keeping client.
type browser struct {
	t       *testing.T
	app     *app
	cookies map[string]*http.Cookie
}

func (a *app) browser(t *testing.T) *browser {
	return &browser{t: t, app: a, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return b.do(req)
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	b.app.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		b.cookies[ck.Name] = ck
	}
	return rec
}

// redirectsTo asserts a redirect with the given status and returns its target.
func redirectsTo(t *testing.T, rec *httptest.ResponseRecorder, code int) string {
	t.Helper()
	require.Equal(t, code, rec.Code, rec.Body.String())
	loc := rec.Header().Get(echo.HeaderLocation)
	require.NotEmpty(t, loc)
	return loc
}

// seedCatalog inserts one record of each entity, linked together.
func seedCatalog(t *testing.T, db *bun.DB) (*models.Category, *models.Location, *models.Race, *models.Modality, *models.Instance) {
	t.Helper()
	ctx := context.Background()

	cat := &models.Category{Name: "Trail Running", Description: "Off-road races."}
	_, err := db.NewInsert().Model(cat).Exec(ctx)
	require.NoError(t, err)

	loc := &models.Location{City: "Granada", Community: "Andalucía"}
	_, err = db.NewInsert().Model(loc).Exec(ctx)
	require.NoError(t, err)

	race := &models.Race{Name: "Ultra Trail Sierra Nevada", CategoryID: cat.CategoryID}
	_, err = db.NewInsert().Model(race).Exec(ctx)
	require.NoError(t, err)

	mod := &models.Modality{
		RaceID:          race.RaceID,
		StartLocationID: loc.LocationID,
		EndLocationID:   loc.LocationID,
		Distance:        105,
		Elevation:       6260,
		Track:           "From the Alhambra to the Veleta Peak.",
	}
	_, err = db.NewInsert().Model(mod).Exec(ctx)
	require.NoError(t, err)

	inst := &models.Instance{
		ModalityID: mod.ModalityID,
		Date:       time.Date(2026, time.July, 4, 7, 0, 0, 0, time.UTC),
		Price:      95,
	}
	_, err = db.NewInsert().Model(inst).Exec(ctx)
	require.NoError(t, err)

	return cat, loc, race, mod, inst
}

func TestHomeRedirect(t *testing.T) {
	b := newApp(t).browser(t)

	rec := b.get("/")
	assert.Equal(t, "/catalog", redirectsTo(t, rec, http.StatusSeeOther))
}

func TestIndexCounts(t *testing.T) {
	a := newApp(t)
	seedCatalog(t, a.db)

	rec := a.browser(t).get("/catalog")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Race Catalog")
	for _, label := range []string{"Categories", "Locations", "Races", "Modalities", "Instances"} {
		assert.Contains(t, body, "<strong>"+label+":</strong> 1")
	}
}

func TestDetailNotFound(t *testing.T) {
	b := newApp(t).browser(t)

	for _, path := range []string{
		"/catalog/category/99",
		"/catalog/location/99",
		"/catalog/race/99",
		"/catalog/modality/99",
		"/catalog/instance/99",
	} {
		rec := b.get(path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "not found")
	}
}

func TestBadIDIsRejected(t *testing.T) {
	b := newApp(t).browser(t)

	rec := b.get("/catalog/category/banana")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
