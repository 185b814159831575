package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/carreras/models"
)

// Index renders the catalog home page with per-entity record counts.
func (h *Handler) Index(c echo.Context) error {
	ctx := c.Request().Context()

	entities := []struct {
		label string
		model interface{}
	}{
		{"Categories", (*models.Category)(nil)},
		{"Locations", (*models.Location)(nil)},
		{"Races", (*models.Race)(nil)},
		{"Modalities", (*models.Modality)(nil)},
		{"Instances", (*models.Instance)(nil)},
	}

	counts := make([]pair, len(entities))
	for i, e := range entities {
		n, err := h.db.NewSelect().Model(e.model).Count(ctx)
		if err != nil {
			return err
		}
		counts[i] = pair{Label: e.label, Value: strconv.Itoa(n)}
	}

	return c.Render(http.StatusOK, "index", indexPage{Counts: counts})
}
