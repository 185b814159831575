package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

// crudDescriptor parameterizes the shared create/update/delete flows over one
// entity: its paths and titles, how to fetch and label it, how to parse and
// re-render its form, its duplicate lookup and its delete blockers. The five
// entities share identical control flow and differ only in these hooks.
type crudDescriptor[T any] struct {
	slug   string // path segment, e.g. "race"
	plural string // list segment, e.g. "races"

	titleCreate string
	titleUpdate string
	titleDelete string

	// find returns nil, nil when the id does not exist.
	find  func(ctx context.Context, id int64) (*T, error)
	label func(*T) string
	url   func(*T) string
	setID func(*T, int64)

	// parse builds a sanitized draft from form input, returning field
	// messages for anything invalid. Reference fields resolve against the
	// store so a dangling id never reaches a write.
	parse func(ctx context.Context, vals url.Values) (*T, []string, error)
	// form rebuilds the form view (with choice lists) around a draft.
	form func(ctx context.Context, draft *T, action, title string, errs []string) (formPage, error)
	// duplicate returns the URL of an equivalent existing record, or "".
	// Nil when the entity has no uniqueness key.
	duplicate func(ctx context.Context, draft *T) (string, error)
	// beforeSave runs after validation on create and update. Nil to skip.
	beforeSave func(ctx context.Context, draft *T) error

	// dependents lists the child records blocking deletion.
	dependents    func(ctx context.Context, id int64) ([]row, error)
	blockersTitle string
}

func (d *crudDescriptor[T]) listURL() string {
	return "/catalog/" + d.plural
}

func (d *crudDescriptor[T]) createURL() string {
	return "/catalog/" + d.slug + "/create"
}

func (d *crudDescriptor[T]) updateURL(id int64) string {
	return "/catalog/" + d.slug + "/" + strconv.FormatInt(id, 10) + "/update"
}

func (d *crudDescriptor[T]) deleteURL(id int64) string {
	return "/catalog/" + d.slug + "/" + strconv.FormatInt(id, 10) + "/delete"
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// createGet renders a blank create form.
func createGet[T any](c echo.Context, d crudDescriptor[T]) error {
	page, err := d.form(c.Request().Context(), nil, d.createURL(), d.titleCreate, nil)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "form", page)
}

// createPost validates the submitted draft and inserts it. A draft equal to
// an existing record under the uniqueness key redirects to that record
// instead of inserting.
func createPost[T any](h *Handler, c echo.Context, d crudDescriptor[T]) error {
	ctx := c.Request().Context()

	vals, err := h.formValues(c)
	if err != nil {
		return err
	}

	draft, errs, err := d.parse(ctx, vals)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		page, err := d.form(ctx, draft, d.createURL(), d.titleCreate, errs)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "form", page)
	}

	if d.duplicate != nil {
		existing, err := d.duplicate(ctx, draft)
		if err != nil {
			return err
		}
		if existing != "" {
			return c.Redirect(http.StatusSeeOther, existing)
		}
	}

	if d.beforeSave != nil {
		if err := d.beforeSave(ctx, draft); err != nil {
			return err
		}
	}

	if _, err := h.db.NewInsert().Model(draft).Exec(ctx); err != nil {
		return err
	}

	return c.Redirect(http.StatusSeeOther, d.url(draft))
}

// updateGet renders the form pre-filled with the stored record. A missing
// record redirects to the list: the thing being edited is already gone.
func updateGet[T any](c echo.Context, d crudDescriptor[T]) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	target, err := d.find(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return c.Redirect(http.StatusSeeOther, d.listURL())
	}

	page, err := d.form(ctx, target, d.updateURL(id), d.titleUpdate, nil)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "form", page)
}

// updatePost validates the submitted draft and writes it over the stored
// record, preserving the id.
func updatePost[T any](h *Handler, c echo.Context, d crudDescriptor[T]) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	vals, err := h.formValues(c)
	if err != nil {
		return err
	}

	target, err := d.find(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return c.Redirect(http.StatusSeeOther, d.listURL())
	}

	draft, errs, err := d.parse(ctx, vals)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		page, err := d.form(ctx, draft, d.updateURL(id), d.titleUpdate, errs)
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "form", page)
	}

	if d.beforeSave != nil {
		if err := d.beforeSave(ctx, draft); err != nil {
			return err
		}
	}

	d.setID(draft, id)
	if _, err := h.db.NewUpdate().Model(draft).WherePK().Exec(ctx); err != nil {
		return err
	}

	return c.Redirect(http.StatusSeeOther, d.url(draft))
}

// deleteFlow is the two-step delete protocol. The GET step renders a
// confirmation with the current blockers. The POST step re-fetches both the
// target and the blockers rather than trusting the confirm-time snapshot,
// deletes only when no dependents remain, and otherwise re-renders the
// confirmation. A target already gone redirects to the list either way.
func deleteFlow[T any](h *Handler, c echo.Context, execute bool, d crudDescriptor[T]) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if execute {
		// Consume any replayed body; the delete form carries no fields.
		if _, err := h.formValues(c); err != nil {
			return err
		}
	}

	target, err := d.find(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return c.Redirect(http.StatusSeeOther, d.listURL())
	}

	blockers, err := d.dependents(ctx, id)
	if err != nil {
		return err
	}

	if execute && len(blockers) == 0 {
		if _, err := h.db.NewDelete().Model(target).WherePK().Exec(ctx); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, d.listURL())
	}

	return c.Render(http.StatusOK, "delete", deletePage{
		Title:         d.titleDelete,
		Entity:        row{URL: d.url(target), Label: d.label(target)},
		Blockers:      blockers,
		BlockersTitle: d.blockersTitle,
		Action:        d.deleteURL(id),
		ListURL:       d.listURL(),
	})
}
