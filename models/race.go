package models

import (
	"fmt"

	"github.com/uptrace/bun"
)

// Race is a named running event belonging to a category.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:rc"`

	RaceID      int64  `bun:"race_id,pk,autoincrement" json:"raceID"`
	Name        string `bun:"name,notnull" json:"name" validate:"required,max=200"`
	CategoryID  int64  `bun:"category_id,notnull" json:"categoryID"`
	Description string `bun:"description" json:"description,omitempty" validate:"max=1000"`
	ImageURL    string `bun:"image_url" json:"imageURL,omitempty" validate:"max=1000"`

	Category *Category `bun:"rel:belongs-to,join:category_id=category_id" json:"-"`
}

// URL returns the canonical catalog path for the race.
func (r *Race) URL() string {
	return fmt.Sprintf("/catalog/race/%d", r.RaceID)
}
