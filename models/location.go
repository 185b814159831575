package models

import (
	"fmt"

	"github.com/uptrace/bun"
)

// Location is a city a modality starts or ends in.
type Location struct {
	bun.BaseModel `bun:"table:locations,alias:l"`

	LocationID int64  `bun:"location_id,pk,autoincrement" json:"locationID"`
	City       string `bun:"city,notnull" json:"city" validate:"required,max=100"`
	Community  string `bun:"community,notnull" json:"community" validate:"required"`
}

// URL returns the canonical catalog path for the location.
func (l *Location) URL() string {
	return fmt.Sprintf("/catalog/location/%d", l.LocationID)
}

// communities are the Spanish autonomous communities and cities a location
// may belong to.
var communities = []string{
	"Andalucía",
	"Aragón",
	"Asturias",
	"Islas Baleares",
	"Islas Canarias",
	"Cantabria",
	"Castilla y Leon",
	"Castilla-La Mancha",
	"Cataluña",
	"Comunidad Valenciana",
	"Extremadura",
	"Galicia",
	"Comunidad de Madrid",
	"Región de Murcia",
	"Comunidad Foral de Navarra",
	"País Vasco",
	"La Rioja",
	"Ceuta",
	"Melilla",
}

// Communities returns the allowed community names in display order.
func Communities() []string {
	out := make([]string, len(communities))
	copy(out, communities)
	return out
}

// ValidCommunity reports whether name is one of the allowed communities.
func ValidCommunity(name string) bool {
	for _, c := range communities {
		if c == name {
			return true
		}
	}
	return false
}
