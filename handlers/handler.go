package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/padraicbc/carreras/middleware"
	"github.com/padraicbc/carreras/session"
)

// ImageStore uploads a remote image and returns its served URL.
type ImageStore interface {
	UploadFromURL(ctx context.Context, key, srcURL string) (string, error)
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db           *bun.DB
	sessions     *session.Store
	images       ImageStore // nil when no asset store is configured
	password     string
	passwordHash string
}

// Options configures a Handler beyond its database connection.
type Options struct {
	// Password is the shared step-up secret; PasswordHash is its bcrypt
	// alternative and wins when both are set.
	Password     string
	PasswordHash string
	Images       ImageStore
}

// New creates a Handler with the given database connection and session store.
func New(db *bun.DB, sessions *session.Store, opts Options) *Handler {
	return &Handler{
		db:           db,
		sessions:     sessions,
		images:       opts.Images,
		password:     opts.Password,
		passwordHash: opts.PasswordHash,
	}
}

// formValues returns the request's form body, preferring a body captured by
// the step-up gate for this path. The captured body is consumed exactly once:
// the confirmation redirect replays the confirm form's fields, not the ones
// the caller originally submitted.
func (h *Handler) formValues(c echo.Context) (url.Values, error) {
	if p := h.sessions.TakePending(middleware.SID(c), c.Request().URL.Path); p != nil {
		return p.Body, nil
	}
	if err := c.Request().ParseForm(); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.Request().PostForm, nil
}
