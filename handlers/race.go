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
	"go.uber.org/zap"

	"github.com/padraicbc/carreras/models"
)

func (h *Handler) raceCRUD() crudDescriptor[models.Race] {
	return crudDescriptor[models.Race]{
		slug:          "race",
		plural:        "races",
		titleCreate:   "Create Race",
		titleUpdate:   "Update Race",
		titleDelete:   "Delete Race",
		blockersTitle: "Modalities of this race",
		find: func(ctx context.Context, id int64) (*models.Race, error) {
			return findByID[models.Race](ctx, h.db, "race_id", id, "Category")
		},
		label: func(r *models.Race) string { return r.Name },
		url:   func(r *models.Race) string { return r.URL() },
		setID: func(r *models.Race, id int64) { r.RaceID = id },
		parse: h.parseRaceForm,
		form:  h.raceForm,
		duplicate: func(ctx context.Context, draft *models.Race) (string, error) {
			existing := new(models.Race)
			err := h.db.NewSelect().Model(existing).
				Where("lower(name) = lower(?)", draft.Name).
				Scan(ctx)
			if errors.Is(err, sql.ErrNoRows) {
				return "", nil
			}
			if err != nil {
				return "", err
			}
			return existing.URL(), nil
		},
		beforeSave: h.uploadRaceImage,
		dependents: func(ctx context.Context, id int64) ([]row, error) {
			var mods []models.Modality
			err := h.db.NewSelect().Model(&mods).
				Where("race_id = ?", id).
				OrderExpr("distance ASC").
				Scan(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]row, len(mods))
			for i, m := range mods {
				rows[i] = row{URL: m.URL(), Label: formatKm(m.Distance)}
			}
			return rows, nil
		},
	}
}

func (h *Handler) parseRaceForm(ctx context.Context, vals url.Values) (*models.Race, []string, error) {
	draft := &models.Race{
		Name:        strings.TrimSpace(vals.Get("name")),
		Description: strings.TrimSpace(vals.Get("description")),
		ImageURL:    strings.TrimSpace(vals.Get("image_url")),
	}

	errs := checkStruct(draft)

	catID, err := lookupRef[models.Category](ctx, h.db, vals.Get("category"), "category_id", "Category", &errs)
	if err != nil {
		return nil, nil, err
	}
	draft.CategoryID = catID

	return draft, errs, nil
}

func (h *Handler) raceForm(ctx context.Context, draft *models.Race, action, title string, errs []string) (formPage, error) {
	if draft == nil {
		draft = &models.Race{}
	}

	var cats []models.Category
	err := h.db.NewSelect().Model(&cats).
		OrderExpr("lower(name) ASC").
		Scan(ctx)
	if err != nil {
		return formPage{}, err
	}

	opts := make([]option, len(cats))
	for i, cat := range cats {
		opts[i] = option{
			Value:    strconv.FormatInt(cat.CategoryID, 10),
			Label:    cat.Name,
			Selected: cat.CategoryID == draft.CategoryID,
		}
	}

	return formPage{
		Title:  title,
		Action: action,
		Errors: errs,
		Fields: []field{
			{Name: "name", Label: "Name", Type: "text", Value: draft.Name, Required: true},
			{Name: "category", Label: "Category", Type: "select", Options: opts, Required: true},
			{Name: "description", Label: "Description", Type: "textarea", Value: draft.Description},
			{Name: "image_url", Label: "Image URL", Type: "text", Value: draft.ImageURL},
		},
	}, nil
}

// uploadRaceImage mirrors a submitted image URL into the configured asset
// store and swaps the draft's URL for the stored one. With no store
// configured, or on upload failure, the submitted URL is kept as-is.
func (h *Handler) uploadRaceImage(ctx context.Context, draft *models.Race) error {
	if h.images == nil || draft.ImageURL == "" {
		return nil
	}

	uploaded, err := h.images.UploadFromURL(ctx, "races/"+slugify(draft.Name), draft.ImageURL)
	if err != nil {
		zap.L().Warn("race image upload failed",
			zap.String("race", draft.Name),
			zap.Error(err),
		)
		return nil
	}

	draft.ImageURL = uploaded
	return nil
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// RaceList renders all races sorted by name, with their category.
func (h *Handler) RaceList(c echo.Context) error {
	var races []models.Race
	err := h.db.NewSelect().Model(&races).
		Relation("Category").
		OrderExpr("lower(rc.name) ASC").
		Scan(c.Request().Context())
	if err != nil {
		return err
	}

	rows := make([]row, len(races))
	for i, r := range races {
		meta := ""
		if r.Category != nil {
			meta = r.Category.Name
		}
		rows[i] = row{URL: r.URL(), Label: r.Name, Meta: meta}
	}

	return c.Render(http.StatusOK, "list", listPage{
		Title:     "Race List",
		Rows:      rows,
		CreateURL: "/catalog/race/create",
	})
}

// RaceDetail renders one race, its category and its modalities.
func (h *Handler) RaceDetail(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	race, err := findByID[models.Race](ctx, h.db, "race_id", id, "Category")
	if err != nil {
		return err
	}
	if race == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Race not found")
	}

	var mods []models.Modality
	err = h.db.NewSelect().Model(&mods).
		Where("race_id = ?", id).
		OrderExpr("distance ASC").
		Scan(ctx)
	if err != nil {
		return err
	}

	category := ""
	if race.Category != nil {
		category = race.Category.Name
	}

	children := &childGroup{
		Title: "Modalities",
		Rows:  make([]row, len(mods)),
		Empty: "This race has no modalities.",
	}
	for i, m := range mods {
		children.Rows[i] = row{
			URL:   m.URL(),
			Label: formatKm(m.Distance),
			Meta:  formatMeters(m.Elevation) + " elevation",
		}
	}

	return c.Render(http.StatusOK, "detail", detailPage{
		Title: "Race: " + race.Name,
		Fields: []pair{
			{Label: "Name", Value: race.Name},
			{Label: "Category", Value: category},
			{Label: "Description", Value: race.Description},
		},
		ImageURL:  race.ImageURL,
		Children:  children,
		UpdateURL: race.URL() + "/update",
		DeleteURL: race.URL() + "/delete",
	})
}

func (h *Handler) RaceCreateGet(c echo.Context) error {
	return createGet(c, h.raceCRUD())
}

func (h *Handler) RaceCreatePost(c echo.Context) error {
	return createPost(h, c, h.raceCRUD())
}

func (h *Handler) RaceUpdateGet(c echo.Context) error {
	return updateGet(c, h.raceCRUD())
}

func (h *Handler) RaceUpdatePost(c echo.Context) error {
	return updatePost(h, c, h.raceCRUD())
}

func (h *Handler) RaceDeleteGet(c echo.Context) error {
	return deleteFlow(h, c, false, h.raceCRUD())
}

func (h *Handler) RaceDeletePost(c echo.Context) error {
	return deleteFlow(h, c, true, h.raceCRUD())
}
