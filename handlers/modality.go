package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/carreras/models"
)

func (h *Handler) modalityCRUD() crudDescriptor[models.Modality] {
	return crudDescriptor[models.Modality]{
		slug:          "modality",
		plural:        "modalities",
		titleCreate:   "Create Modality",
		titleUpdate:   "Update Modality",
		titleDelete:   "Delete Modality",
		blockersTitle: "Instances of this modality",
		find: func(ctx context.Context, id int64) (*models.Modality, error) {
			return findByID[models.Modality](ctx, h.db, "modality_id", id, "Race", "StartLocation", "EndLocation")
		},
		label: func(m *models.Modality) string { return m.Label() },
		url:   func(m *models.Modality) string { return m.URL() },
		setID: func(m *models.Modality, id int64) { m.ModalityID = id },
		parse: h.parseModalityForm,
		form:  h.modalityForm,
		duplicate: func(ctx context.Context, draft *models.Modality) (string, error) {
			existing := new(models.Modality)
			err := h.db.NewSelect().Model(existing).
				Where("race_id = ? AND distance = ?", draft.RaceID, draft.Distance).
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
			var insts []models.Instance
			err := h.db.NewSelect().Model(&insts).
				Where("modality_id = ?", id).
				OrderExpr("date ASC").
				Scan(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]row, len(insts))
			for i, in := range insts {
				rows[i] = row{URL: in.URL(), Label: formatDate(in.Date), Meta: formatPrice(in.Price)}
			}
			return rows, nil
		},
	}
}

func (h *Handler) parseModalityForm(ctx context.Context, vals url.Values) (*models.Modality, []string, error) {
	draft := &models.Modality{
		Track: strings.TrimSpace(vals.Get("track")),
	}

	errs := checkStruct(draft)
	draft.Distance = parseFloatField(vals, "distance", "Distance", &errs)
	draft.Elevation = parseFloatField(vals, "elevation", "Elevation", &errs)

	raceID, err := lookupRef[models.Race](ctx, h.db, vals.Get("race"), "race_id", "Race", &errs)
	if err != nil {
		return nil, nil, err
	}
	draft.RaceID = raceID

	startID, err := lookupRef[models.Location](ctx, h.db, vals.Get("start_location"), "location_id", "Start location", &errs)
	if err != nil {
		return nil, nil, err
	}
	draft.StartLocationID = startID

	endID, err := lookupRef[models.Location](ctx, h.db, vals.Get("end_location"), "location_id", "End location", &errs)
	if err != nil {
		return nil, nil, err
	}
	draft.EndLocationID = endID

	return draft, errs, nil
}

func (h *Handler) modalityForm(ctx context.Context, draft *models.Modality, action, title string, errs []string) (formPage, error) {
	if draft == nil {
		draft = &models.Modality{}
	}

	var races []models.Race
	err := h.db.NewSelect().Model(&races).
		OrderExpr("lower(name) ASC").
		Scan(ctx)
	if err != nil {
		return formPage{}, err
	}

	var locs []models.Location
	err = h.db.NewSelect().Model(&locs).
		OrderExpr("lower(city) ASC").
		Scan(ctx)
	if err != nil {
		return formPage{}, err
	}

	raceOpts := make([]option, len(races))
	for i, r := range races {
		raceOpts[i] = option{
			Value:    strconv.FormatInt(r.RaceID, 10),
			Label:    r.Name,
			Selected: r.RaceID == draft.RaceID,
		}
	}
	locationOpts := func(selected int64) []option {
		opts := make([]option, len(locs))
		for i, l := range locs {
			opts[i] = option{
				Value:    strconv.FormatInt(l.LocationID, 10),
				Label:    l.City,
				Selected: l.LocationID == selected,
			}
		}
		return opts
	}

	distance := ""
	if draft.Distance != 0 {
		distance = formatFloat(draft.Distance)
	}
	elevation := ""
	if draft.Elevation != 0 {
		elevation = formatFloat(draft.Elevation)
	}

	return formPage{
		Title:  title,
		Action: action,
		Errors: errs,
		Fields: []field{
			{Name: "race", Label: "Race", Type: "select", Options: raceOpts, Required: true},
			{Name: "start_location", Label: "Start location", Type: "select", Options: locationOpts(draft.StartLocationID), Required: true},
			{Name: "end_location", Label: "End location", Type: "select", Options: locationOpts(draft.EndLocationID), Required: true},
			{Name: "distance", Label: "Distance (km)", Type: "number", Value: distance, Required: true},
			{Name: "elevation", Label: "Elevation (m)", Type: "number", Value: elevation, Required: true},
			{Name: "track", Label: "Track", Type: "textarea", Value: draft.Track, Required: true},
		},
	}, nil
}

// ModalityList renders all modalities with their race, sorted by race name
// and distance.
func (h *Handler) ModalityList(c echo.Context) error {
	var mods []models.Modality
	err := h.db.NewSelect().Model(&mods).
		Relation("Race").
		OrderExpr("lower(race.name) ASC, m.distance ASC").
		Scan(c.Request().Context())
	if err != nil {
		return err
	}

	rows := make([]row, len(mods))
	for i, m := range mods {
		rows[i] = row{URL: m.URL(), Label: m.Label(), Meta: formatMeters(m.Elevation) + " elevation"}
	}

	return c.Render(http.StatusOK, "list", listPage{
		Title:     "Modality List",
		Rows:      rows,
		CreateURL: "/catalog/modality/create",
	})
}

// ModalityDetail renders one modality with its race, locations and instances.
func (h *Handler) ModalityDetail(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	m, err := findByID[models.Modality](ctx, h.db, "modality_id", id, "Race", "StartLocation", "EndLocation")
	if err != nil {
		return err
	}
	if m == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Modality not found")
	}

	var insts []models.Instance
	err = h.db.NewSelect().Model(&insts).
		Where("modality_id = ?", id).
		OrderExpr("date ASC").
		Scan(ctx)
	if err != nil {
		return err
	}

	race, start, end := "", "", ""
	if m.Race != nil {
		race = m.Race.Name
	}
	if m.StartLocation != nil {
		start = m.StartLocation.City
	}
	if m.EndLocation != nil {
		end = m.EndLocation.City
	}

	children := &childGroup{
		Title: "Instances",
		Rows:  make([]row, len(insts)),
		Empty: "This modality has no instances.",
	}
	for i, in := range insts {
		children.Rows[i] = row{URL: in.URL(), Label: formatDate(in.Date), Meta: formatPrice(in.Price)}
	}

	return c.Render(http.StatusOK, "detail", detailPage{
		Title: "Modality: " + m.Label(),
		Fields: []pair{
			{Label: "Race", Value: race},
			{Label: "Start location", Value: start},
			{Label: "End location", Value: end},
			{Label: "Distance", Value: formatKm(m.Distance)},
			{Label: "Elevation", Value: formatMeters(m.Elevation)},
			{Label: "Track", Value: m.Track},
		},
		Children:  children,
		UpdateURL: m.URL() + "/update",
		DeleteURL: m.URL() + "/delete",
	})
}

func (h *Handler) ModalityCreateGet(c echo.Context) error {
	return createGet(c, h.modalityCRUD())
}

func (h *Handler) ModalityCreatePost(c echo.Context) error {
	return createPost(h, c, h.modalityCRUD())
}

func (h *Handler) ModalityUpdateGet(c echo.Context) error {
	return updateGet(c, h.modalityCRUD())
}

func (h *Handler) ModalityUpdatePost(c echo.Context) error {
	return updatePost(h, c, h.modalityCRUD())
}

func (h *Handler) ModalityDeleteGet(c echo.Context) error {
	return deleteFlow(h, c, false, h.modalityCRUD())
}

func (h *Handler) ModalityDeletePost(c echo.Context) error {
	return deleteFlow(h, c, true, h.modalityCRUD())
}
