package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/padraicbc/carreras/middleware"
)

// PasswordForm renders the step-up confirmation form.
func (h *Handler) PasswordForm(c echo.Context) error {
	return c.Render(http.StatusOK, "password", passwordPage{
		ReturnTo: sanitizeReturnTo(c.QueryParam("returnTo")),
	})
}

// PasswordConfirm checks the submitted shared secret. On a match the session
// is marked authenticated and the caller is redirected with 307 so the
// deferred request keeps its original method. A wrong password re-renders the
// form and leaves the captured request in place for a retry.
func (h *Handler) PasswordConfirm(c echo.Context) error {
	password := c.FormValue("password")
	returnTo := sanitizeReturnTo(c.FormValue("returnTo"))

	if !h.secretMatches(password) {
		return c.Render(http.StatusOK, "password", passwordPage{
			ReturnTo: returnTo,
			Error:    "Incorrect password. Please try again.",
		})
	}

	sid := middleware.SID(c)
	h.sessions.SetAuthenticated(sid)
	zap.L().Info("step-up auth confirmed", zap.String("returnTo", returnTo))

	return c.Redirect(http.StatusTemporaryRedirect, returnTo)
}

func (h *Handler) secretMatches(password string) bool {
	if h.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(h.password), []byte(password)) == 1
}

// sanitizeReturnTo restricts redirect targets to local paths.
func sanitizeReturnTo(returnTo string) string {
	if !strings.HasPrefix(returnTo, "/") || strings.HasPrefix(returnTo, "//") {
		return "/catalog"
	}
	return returnTo
}
