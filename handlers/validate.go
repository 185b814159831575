package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/uptrace/bun"
)

var validate = validator.New()

// fieldLabels maps validator struct fields to the wording shown on forms.
// Namespaced entries win over the plain field name.
var fieldLabels = map[string]string{
	"Category.Name": "Category name",
	"Race.Name":     "Race name",
	"City":          "City name",
	"Community":     "Community",
	"Description":   "Description",
	"ImageURL":      "Image URL",
	"Track":         "Track",
}

// checkStruct validates a draft against its field tags and returns
// human-readable messages in field order.
func checkStruct(draft interface{}) []string {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{"Invalid input"}
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.StructNamespace()]
	if !ok {
		if label, ok = fieldLabels[fe.Field()]; !ok {
			label = fe.Field()
		}
	}

	switch fe.Tag() {
	case "required":
		return label + " required"
	case "max":
		return fmt.Sprintf("%s too long (max %s characters)", label, fe.Param())
	}
	return label + " is invalid"
}

// parseFloatField trims and coerces a numeric form field, recording a
// message when it is missing or not a number.
func parseFloatField(vals url.Values, key, label string, errs *[]string) float64 {
	raw := strings.TrimSpace(vals.Get(key))
	if raw == "" {
		*errs = append(*errs, label+" required")
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, label+" must be a number")
		return 0
	}
	return f
}

// dateFormats accepted from the form, most specific first.
var dateFormats = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDateField trims and coerces a date form field.
func parseDateField(vals url.Values, key, label string, errs *[]string) time.Time {
	raw := strings.TrimSpace(vals.Get(key))
	if raw == "" {
		*errs = append(*errs, label+" required")
		return time.Time{}
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	*errs = append(*errs, label+" must be a valid date")
	return time.Time{}
}

// lookupRef resolves a submitted reference id to an existing row of T,
// recording a message when it is missing, malformed or dangling. A database
// failure is returned as an error and surfaces on the generic error path.
func lookupRef[T any](ctx context.Context, db bun.IDB, raw, pkCol, label string, errs *[]string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*errs = append(*errs, label+" required")
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		*errs = append(*errs, label+" is invalid")
		return 0, nil
	}

	exists, err := db.NewSelect().Model((*T)(nil)).Where("? = ?", bun.Ident(pkCol), id).Exists(ctx)
	if err != nil {
		return 0, err
	}
	if !exists {
		*errs = append(*errs, label+" not found")
		return 0, nil
	}
	return id, nil
}
