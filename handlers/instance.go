package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/carreras/models"
)

func (h *Handler) instanceCRUD() crudDescriptor[models.Instance] {
	return crudDescriptor[models.Instance]{
		slug:        "instance",
		plural:      "instances",
		titleCreate: "Create Instance",
		titleUpdate: "Update Instance",
		titleDelete: "Delete Instance",
		find: func(ctx context.Context, id int64) (*models.Instance, error) {
			return findByID[models.Instance](ctx, h.db, "instance_id", id, "Modality", "Modality.Race")
		},
		label: func(in *models.Instance) string { return instanceLabel(in) },
		url:   func(in *models.Instance) string { return in.URL() },
		setID: func(in *models.Instance, id int64) { in.InstanceID = id },
		parse: h.parseInstanceForm,
		form:  h.instanceForm,
		// Instances have no uniqueness key and nothing references them.
		dependents: func(context.Context, int64) ([]row, error) {
			return nil, nil
		},
	}
}

func instanceLabel(in *models.Instance) string {
	label := formatDate(in.Date)
	if in.Modality != nil {
		label = in.Modality.Label() + " – " + label
	}
	return label
}

func (h *Handler) parseInstanceForm(ctx context.Context, vals url.Values) (*models.Instance, []string, error) {
	draft := &models.Instance{}

	var errs []string
	draft.Date = parseDateField(vals, "date", "Date", &errs)
	draft.Price = parseFloatField(vals, "price", "Price", &errs)
	if draft.Price < 0 {
		errs = append(errs, "Price must be zero or positive")
	}

	modalityID, err := lookupRef[models.Modality](ctx, h.db, vals.Get("modality"), "modality_id", "Modality", &errs)
	if err != nil {
		return nil, nil, err
	}
	draft.ModalityID = modalityID

	return draft, errs, nil
}

func (h *Handler) instanceForm(ctx context.Context, draft *models.Instance, action, title string, errs []string) (formPage, error) {
	if draft == nil {
		draft = &models.Instance{}
	}

	var mods []models.Modality
	err := h.db.NewSelect().Model(&mods).
		Relation("Race").
		OrderExpr("m.race_id ASC, m.distance ASC").
		Scan(ctx)
	if err != nil {
		return formPage{}, err
	}

	opts := make([]option, len(mods))
	for i, m := range mods {
		opts[i] = option{
			Value:    strconv.FormatInt(m.ModalityID, 10),
			Label:    m.Label(),
			Selected: m.ModalityID == draft.ModalityID,
		}
	}

	price := ""
	if draft.Price != 0 {
		price = formatFloat(draft.Price)
	}

	return formPage{
		Title:  title,
		Action: action,
		Errors: errs,
		Fields: []field{
			{Name: "modality", Label: "Modality", Type: "select", Options: opts, Required: true},
			{Name: "date", Label: "Date", Type: "datetime-local", Value: formatDateInput(draft.Date), Required: true},
			{Name: "price", Label: "Price (€)", Type: "number", Value: price, Required: true},
		},
	}, nil
}

// InstanceList renders all instances sorted by date, each with its modality
// and race.
func (h *Handler) InstanceList(c echo.Context) error {
	var insts []models.Instance
	err := h.db.NewSelect().Model(&insts).
		Relation("Modality").
		Relation("Modality.Race").
		OrderExpr("i.date ASC").
		Scan(c.Request().Context())
	if err != nil {
		return err
	}

	rows := make([]row, len(insts))
	for i, in := range insts {
		rows[i] = row{URL: in.URL(), Label: instanceLabel(&in), Meta: formatPrice(in.Price)}
	}

	return c.Render(http.StatusOK, "list", listPage{
		Title:     "Instance List",
		Rows:      rows,
		CreateURL: "/catalog/instance/create",
	})
}

// InstanceDetail renders one instance with its modality and race.
func (h *Handler) InstanceDetail(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	in, err := findByID[models.Instance](ctx, h.db, "instance_id", id, "Modality", "Modality.Race")
	if err != nil {
		return err
	}
	if in == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Instance not found")
	}

	modality := ""
	if in.Modality != nil {
		modality = in.Modality.Label()
	}

	return c.Render(http.StatusOK, "detail", detailPage{
		Title: "Instance: " + formatDate(in.Date),
		Fields: []pair{
			{Label: "Modality", Value: modality},
			{Label: "Date", Value: formatDate(in.Date)},
			{Label: "Price", Value: formatPrice(in.Price)},
		},
		UpdateURL: in.URL() + "/update",
		DeleteURL: in.URL() + "/delete",
	})
}

func (h *Handler) InstanceCreateGet(c echo.Context) error {
	return createGet(c, h.instanceCRUD())
}

func (h *Handler) InstanceCreatePost(c echo.Context) error {
	return createPost(h, c, h.instanceCRUD())
}

func (h *Handler) InstanceUpdateGet(c echo.Context) error {
	return updateGet(c, h.instanceCRUD())
}

func (h *Handler) InstanceUpdatePost(c echo.Context) error {
	return updatePost(h, c, h.instanceCRUD())
}

func (h *Handler) InstanceDeleteGet(c echo.Context) error {
	return deleteFlow(h, c, false, h.instanceCRUD())
}

func (h *Handler) InstanceDeletePost(c echo.Context) error {
	return deleteFlow(h, c, true, h.instanceCRUD())
}
