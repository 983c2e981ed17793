package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID           uuid.UUID
	Name         string
	IsPerishable bool
	CreatedAt    time.Time
}

// SupplyCategories are the administrative (non-recipe) categories shown on
// the supplies board: cleaning, stationery and utensils/equipment.
var SupplyCategories = []string{"Limpieza", "Papelería/administracion", "Utensilios_Equi_Men"}
