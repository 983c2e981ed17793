package batches

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Batch is one intake event. Created once, never mutated.
type Batch struct {
	ID                uuid.UUID
	MaterialID        uuid.UUID
	QuantityPurchased float64 // purchase units
	TotalCost         float64
	NetCost           float64
	TaxAmount         float64
	ExpirationDate    *time.Time
	CreatedAt         time.Time
}

// ExpiresIn expresses expiry as "N days/months/years from now", the quick
// entry used at the intake form.
type ExpiresIn struct {
	Value int
	Unit  string // dias | meses | años
}

func (e ExpiresIn) Date(now time.Time) (time.Time, error) {
	if e.Value <= 0 {
		return time.Time{}, fmt.Errorf("expiry value must be positive")
	}
	switch e.Unit {
	case "dias":
		return now.AddDate(0, 0, e.Value), nil
	case "meses":
		return now.AddDate(0, e.Value, 0), nil
	case "años":
		return now.AddDate(e.Value, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown expiry unit %q", e.Unit)
	}
}

type IntakeInput struct {
	MaterialID        uuid.UUID
	Barcode           string // alternative lookup when MaterialID is zero
	QuantityPurchased float64
	TotalCost         float64
	ExpirationDate    *time.Time
	ExpiresIn         *ExpiresIn
}

func (in *IntakeInput) Validate() error {
	if in.QuantityPurchased <= 0 {
		return fmt.Errorf("purchased quantity must be positive")
	}
	if in.TotalCost < 0 {
		return fmt.Errorf("total cost must not be negative")
	}
	if in.MaterialID == uuid.Nil && in.Barcode == "" {
		return fmt.Errorf("material id or barcode is required")
	}
	return nil
}
