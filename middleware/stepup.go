package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/carreras/session"
)

// RequireConfirmed gates a mutating route behind the shared-password check.
//
// An elevated session passes straight through. Otherwise the request's
// method, path and form body are captured on the session and the caller is
// sent to the confirmation page. A correct password sets the session flag
// and replays the request with a method-preserving redirect, so it arrives
// here a second time and passes; the handler then reads the captured body.
func RequireConfirmed(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := SID(c)
			if store.Authenticated(sid) {
				return next(c)
			}

			req := c.Request()
			if err := req.ParseForm(); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}

			target := req.URL.RequestURI()
			store.SetPending(sid, session.PendingAction{
				Method:   req.Method,
				Path:     req.URL.Path,
				Body:     req.PostForm,
				ReturnTo: target,
			})

			zap.L().Info("step-up auth required",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
			)

			return c.Redirect(http.StatusSeeOther, "/confirm-password?returnTo="+url.QueryEscape(target))
		}
	}
}
