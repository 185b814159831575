package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/padraicbc/carreras/session"
)

// CookieName is the session cookie set on every caller.
const CookieName = "carreras_session"

const sidKey = "sid"

// Claims carries the server-side session id in a signed cookie, so callers
// cannot mint or swap ids.
type Claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Session ensures every request carries a live server-side session. Missing,
// invalid or expired cookies get a fresh session and cookie.
func Session(store *session.Store, key []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(CookieName); err == nil {
				if id, err := decodeCookie(ck.Value, key); err == nil && store.Exists(id) {
					sid = id
				}
			}

			if sid == "" {
				sid = store.Create()
				token, err := encodeCookie(sid, key, store.TTL())
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
				}
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					Expires:  time.Now().Add(store.TTL()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(sidKey, sid)
			return next(c)
		}
	}
}

// SID returns the session id attached by the Session middleware.
func SID(c echo.Context) string {
	sid, _ := c.Get(sidKey).(string)
	return sid
}

func encodeCookie(sid string, key []byte, ttl time.Duration) (string, error) {
	claims := &Claims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func decodeCookie(token string, key []byte) (string, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		return "", err
	}
	if !tkn.Valid || claims.SID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.SID, nil
}
