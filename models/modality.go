package models

import (
	"fmt"
	"strconv"

	"github.com/uptrace/bun"
)

// Modality is a route variant of a race: distance, elevation and track
// between a start and end location.
type Modality struct {
	bun.BaseModel `bun:"table:modalities,alias:m"`

	ModalityID      int64   `bun:"modality_id,pk,autoincrement" json:"modalityID"`
	RaceID          int64   `bun:"race_id,notnull" json:"raceID"`
	StartLocationID int64   `bun:"start_location_id,notnull" json:"startLocationID"`
	EndLocationID   int64   `bun:"end_location_id,notnull" json:"endLocationID"`
	Distance        float64 `bun:"distance,notnull" json:"distance"`
	Elevation       float64 `bun:"elevation,notnull" json:"elevation"`
	Track           string  `bun:"track,notnull" json:"track" validate:"required,max=10000"`

	Race          *Race     `bun:"rel:belongs-to,join:race_id=race_id" json:"-"`
	StartLocation *Location `bun:"rel:belongs-to,join:start_location_id=location_id" json:"-"`
	EndLocation   *Location `bun:"rel:belongs-to,join:end_location_id=location_id" json:"-"`
}

// URL returns the canonical catalog path for the modality.
func (m *Modality) URL() string {
	return fmt.Sprintf("/catalog/modality/%d", m.ModalityID)
}

// Label is a short display name: the race name, when loaded, plus the distance.
func (m *Modality) Label() string {
	km := strconv.FormatFloat(m.Distance, 'f', -1, 64) + " km"
	if m.Race != nil {
		return m.Race.Name + " – " + km
	}
	return km
}
