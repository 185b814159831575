package models

import (
	"fmt"

	"github.com/uptrace/bun"
)

// Category groups races by discipline (road running, trail running, ...).
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	CategoryID  int64  `bun:"category_id,pk,autoincrement" json:"categoryID"`
	Name        string `bun:"name,notnull" json:"name" validate:"required,max=100"`
	Description string `bun:"description" json:"description,omitempty" validate:"max=1000"`
}

// URL returns the canonical catalog path for the category.
func (c *Category) URL() string {
	return fmt.Sprintf("/catalog/category/%d", c.CategoryID)
}
