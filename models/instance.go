package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Instance is one dated, priced edition of a modality.
type Instance struct {
	bun.BaseModel `bun:"table:instances,alias:i"`

	InstanceID int64     `bun:"instance_id,pk,autoincrement" json:"instanceID"`
	ModalityID int64     `bun:"modality_id,notnull" json:"modalityID"`
	Date       time.Time `bun:"date,notnull" json:"date"`
	Price      float64   `bun:"price,notnull" json:"price"`

	Modality *Modality `bun:"rel:belongs-to,join:modality_id=modality_id" json:"-"`
}

// URL returns the canonical catalog path for the instance.
func (i *Instance) URL() string {
	return fmt.Sprintf("/catalog/instance/%d", i.InstanceID)
}
