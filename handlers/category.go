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

func (h *Handler) categoryCRUD() crudDescriptor[models.Category] {
	return crudDescriptor[models.Category]{
		slug:          "category",
		plural:        "categories",
		titleCreate:   "Create Category",
		titleUpdate:   "Update Category",
		titleDelete:   "Delete Category",
		blockersTitle: "Races in this category",
		find: func(ctx context.Context, id int64) (*models.Category, error) {
			return findByID[models.Category](ctx, h.db, "category_id", id)
		},
		label: func(cat *models.Category) string { return cat.Name },
		url:   func(cat *models.Category) string { return cat.URL() },
		setID: func(cat *models.Category, id int64) { cat.CategoryID = id },
		parse: h.parseCategoryForm,
		form:  h.categoryForm,
		duplicate: func(ctx context.Context, draft *models.Category) (string, error) {
			existing := new(models.Category)
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
		dependents: func(ctx context.Context, id int64) ([]row, error) {
			var races []models.Race
			err := h.db.NewSelect().Model(&races).
				Where("category_id = ?", id).
				OrderExpr("name ASC").
				Scan(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]row, len(races))
			for i, r := range races {
				rows[i] = row{URL: r.URL(), Label: r.Name}
			}
			return rows, nil
		},
	}
}

func (h *Handler) parseCategoryForm(_ context.Context, vals url.Values) (*models.Category, []string, error) {
	draft := &models.Category{
		Name:        strings.TrimSpace(vals.Get("name")),
		Description: strings.TrimSpace(vals.Get("description")),
	}
	return draft, checkStruct(draft), nil
}

func (h *Handler) categoryForm(_ context.Context, draft *models.Category, action, title string, errs []string) (formPage, error) {
	if draft == nil {
		draft = &models.Category{}
	}
	return formPage{
		Title:  title,
		Action: action,
		Errors: errs,
		Fields: []field{
			{Name: "name", Label: "Name", Type: "text", Value: draft.Name, Required: true},
			{Name: "description", Label: "Description", Type: "textarea", Value: draft.Description},
		},
	}, nil
}

// CategoryList renders all categories sorted by name.
func (h *Handler) CategoryList(c echo.Context) error {
	var cats []models.Category
	err := h.db.NewSelect().Model(&cats).
		OrderExpr("lower(name) ASC").
		Scan(c.Request().Context())
	if err != nil {
		return err
	}

	rows := make([]row, len(cats))
	for i, cat := range cats {
		rows[i] = row{URL: cat.URL(), Label: cat.Name}
	}

	return c.Render(http.StatusOK, "list", listPage{
		Title:     "Category List",
		Rows:      rows,
		CreateURL: "/catalog/category/create",
	})
}

// CategoryDetail renders one category and the races in it.
func (h *Handler) CategoryDetail(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	cat, err := findByID[models.Category](ctx, h.db, "category_id", id)
	if err != nil {
		return err
	}
	if cat == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}

	var races []models.Race
	err = h.db.NewSelect().Model(&races).
		Where("category_id = ?", id).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return err
	}

	children := &childGroup{
		Title: "Races",
		Rows:  make([]row, len(races)),
		Empty: "This category has no races.",
	}
	for i, r := range races {
		children.Rows[i] = row{URL: r.URL(), Label: r.Name, Meta: r.Description}
	}

	return c.Render(http.StatusOK, "detail", detailPage{
		Title: "Category: " + cat.Name,
		Fields: []pair{
			{Label: "Name", Value: cat.Name},
			{Label: "Description", Value: cat.Description},
		},
		Children:  children,
		UpdateURL: cat.URL() + "/update",
		DeleteURL: cat.URL() + "/delete",
	})
}

func (h *Handler) CategoryCreateGet(c echo.Context) error {
	return createGet(c, h.categoryCRUD())
}

func (h *Handler) CategoryCreatePost(c echo.Context) error {
	return createPost(h, c, h.categoryCRUD())
}

func (h *Handler) CategoryUpdateGet(c echo.Context) error {
	return updateGet(c, h.categoryCRUD())
}

func (h *Handler) CategoryUpdatePost(c echo.Context) error {
	return updatePost(h, c, h.categoryCRUD())
}

func (h *Handler) CategoryDeleteGet(c echo.Context) error {
	return deleteFlow(h, c, false, h.categoryCRUD())
}

func (h *Handler) CategoryDeletePost(c echo.Context) error {
	return deleteFlow(h, c, true, h.categoryCRUD())
}
