package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/carreras/session"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestCookieRoundTrip(t *testing.T) {
	token, err := encodeCookie("some-sid", testKey, time.Hour)
	require.NoError(t, err)

	sid, err := decodeCookie(token, testKey)
	require.NoError(t, err)
	assert.Equal(t, "some-sid", sid)

	t.Run("wrong key rejected", func(t *testing.T) {
		_, err := decodeCookie(token, []byte("another-key-entirely-0123456789a"))
		assert.Error(t, err)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token, err := encodeCookie("some-sid", testKey, -time.Minute)
		require.NoError(t, err)
		_, err = decodeCookie(token, testKey)
		assert.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := decodeCookie("not.a.jwt", testKey)
		assert.Error(t, err)
	})
}

func TestSessionMiddleware(t *testing.T) {
	store := session.NewStore(time.Hour)

	e := echo.New()
	e.Use(Session(store, testKey))
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, SID(c))
	})

	// First request: no cookie, so a session is minted and set.
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	sid := rec.Body.String()
	require.NotEmpty(t, sid)
	assert.True(t, store.Exists(sid))

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	t.Run("cookie maps back to the same session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, sid, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("tampered cookie gets a fresh session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie.Value + "x"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.NotEqual(t, sid, rec.Body.String())
		assert.NotEmpty(t, rec.Result().Cookies())
	})
}

func TestRequireConfirmed(t *testing.T) {
	store := session.NewStore(time.Hour)

	e := echo.New()
	e.Use(Session(store, testKey))
	e.POST("/guarded/:id/update", func(c echo.Context) error {
		return c.String(http.StatusOK, "ran")
	}, RequireConfirmed(store))

	form := url.Values{"city": {"Bilbao"}, "community": {"País Vasco"}}
	req := httptest.NewRequest(http.MethodPost, "/guarded/7/update", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// Unauthenticated: captured and sent to the confirmation page.
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/confirm-password?returnTo="+url.QueryEscape("/guarded/7/update"), rec.Header().Get(echo.HeaderLocation))

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)

	sid, err := decodeCookie(cookie.Value, testKey)
	require.NoError(t, err)

	p := store.TakePending(sid, "/guarded/7/update")
	require.NotNil(t, p)
	assert.Equal(t, http.MethodPost, p.Method)
	assert.Equal(t, "Bilbao", p.Body.Get("city"))

	t.Run("elevated session passes through", func(t *testing.T) {
		store.SetAuthenticated(sid)

		req := httptest.NewRequest(http.MethodPost, "/guarded/7/update", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ran", rec.Body.String())
	})
}
