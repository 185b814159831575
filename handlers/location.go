package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/carreras/models"
)

func (h *Handler) locationCRUD() crudDescriptor[models.Location] {
	return crudDescriptor[models.Location]{
		slug:          "location",
		plural:        "locations",
		titleCreate:   "Create Location",
		titleUpdate:   "Update Location",
		titleDelete:   "Delete Location",
		blockersTitle: "Modalities starting or ending here",
		find: func(ctx context.Context, id int64) (*models.Location, error) {
			return findByID[models.Location](ctx, h.db, "location_id", id)
		},
		label: func(l *models.Location) string { return l.City },
		url:   func(l *models.Location) string { return l.URL() },
		setID: func(l *models.Location, id int64) { l.LocationID = id },
		parse: h.parseLocationForm,
		form:  h.locationForm,
		duplicate: func(ctx context.Context, draft *models.Location) (string, error) {
			existing := new(models.Location)
			err := h.db.NewSelect().Model(existing).
				Where("lower(city) = lower(?)", draft.City).
				Scan(ctx)
			if errors.Is(err, sql.ErrNoRows) {
				return "", nil
			}
			if err != nil {
				return "", err
			}
			return existing.URL(), nil
		},
		dependents: func(ctx context.Context, id int64) ([]row, error) {
			mods, err := h.modalitiesTouching(ctx, id)
			if err != nil {
				return nil, err
			}
			rows := make([]row, len(mods))
			for i, m := range mods {
				rows[i] = row{URL: m.URL(), Label: m.Label()}
			}
			return rows, nil
		},
	}
}

// modalitiesTouching returns the modalities that start or end at a location,
// with their race populated for display.
func (h *Handler) modalitiesTouching(ctx context.Context, locationID int64) ([]models.Modality, error) {
	var mods []models.Modality
	err := h.db.NewSelect().Model(&mods).
		Relation("Race").
		Where("start_location_id = ? OR end_location_id = ?", locationID, locationID).
		OrderExpr("m.distance ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return mods, nil
}

func (h *Handler) parseLocationForm(_ context.Context, vals url.Values) (*models.Location, []string, error) {
	draft := &models.Location{
		City:      strings.TrimSpace(vals.Get("city")),
		Community: strings.TrimSpace(vals.Get("community")),
	}

	errs := checkStruct(draft)
	if draft.Community != "" && !models.ValidCommunity(draft.Community) {
		errs = append(errs, "Community must be one of the listed communities")
	}
	return draft, errs, nil
}

func (h *Handler) locationForm(_ context.Context, draft *models.Location, action, title string, errs []string) (formPage, error) {
	if draft == nil {
		draft = &models.Location{}
	}

	communities := models.Communities()
	opts := make([]option, len(communities))
	for i, name := range communities {
		opts[i] = option{Value: name, Label: name, Selected: name == draft.Community}
	}

	return formPage{
		Title:  title,
		Action: action,
		Errors: errs,
		Fields: []field{
			{Name: "city", Label: "City", Type: "text", Value: draft.City, Required: true},
			{Name: "community", Label: "Community", Type: "select", Options: opts, Required: true},
		},
	}, nil
}

// LocationList renders all locations sorted by city.
func (h *Handler) LocationList(c echo.Context) error {
	var locs []models.Location
	err := h.db.NewSelect().Model(&locs).
		OrderExpr("lower(city) ASC").
		Scan(c.Request().Context())
	if err != nil {
		return err
	}

	rows := make([]row, len(locs))
	for i, l := range locs {
		rows[i] = row{URL: l.URL(), Label: l.City, Meta: l.Community}
	}

	return c.Render(http.StatusOK, "list", listPage{
		Title:     "Location List",
		Rows:      rows,
		CreateURL: "/catalog/location/create",
	})
}

// LocationDetail renders one location and the modalities that start or end there.
func (h *Handler) LocationDetail(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	loc, err := findByID[models.Location](ctx, h.db, "location_id", id)
	if err != nil {
		return err
	}
	if loc == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Location not found")
	}

	mods, err := h.modalitiesTouching(ctx, id)
	if err != nil {
		return err
	}

	children := &childGroup{
		Title: "Modalities",
		Rows:  make([]row, len(mods)),
		Empty: "No modality starts or ends in this location.",
	}
	for i, m := range mods {
		children.Rows[i] = row{URL: m.URL(), Label: m.Label(), Meta: formatMeters(m.Elevation) + " elevation"}
	}

	return c.Render(http.StatusOK, "detail", detailPage{
		Title: "Location: " + loc.City,
		Fields: []pair{
			{Label: "City", Value: loc.City},
			{Label: "Community", Value: loc.Community},
		},
		Children:  children,
		UpdateURL: loc.URL() + "/update",
		DeleteURL: loc.URL() + "/delete",
	})
}

func (h *Handler) LocationCreateGet(c echo.Context) error {
	return createGet(c, h.locationCRUD())
}

func (h *Handler) LocationCreatePost(c echo.Context) error {
	return createPost(h, c, h.locationCRUD())
}

func (h *Handler) LocationUpdateGet(c echo.Context) error {
	return updateGet(c, h.locationCRUD())
}

func (h *Handler) LocationUpdatePost(c echo.Context) error {
	return updatePost(h, c, h.locationCRUD())
}

func (h *Handler) LocationDeleteGet(c echo.Context) error {
	return deleteFlow(h, c, false, h.locationCRUD())
}

func (h *Handler) LocationDeletePost(c echo.Context) error {
	return deleteFlow(h, c, true, h.locationCRUD())
}
