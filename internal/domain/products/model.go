package products

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBasePrice is used when a product is created without a price.
const DefaultBasePrice = 15.00

type SaleProduct struct {
	ID        uuid.UUID
	Name      string
	BasePrice float64
	CreatedAt time.Time
}

// RecipeLine links a sale product to one material and the usage-unit
// quantity consumed per unit sold.
type RecipeLine struct {
	SaleProductID  uuid.UUID
	MaterialID     uuid.UUID
	MaterialName   string
	UsageUnit      string
	QuantityNeeded float64
}

type CreateInput struct {
	Name      string
	BasePrice float64
	Lines     []LineInput
}

type LineInput struct {
	MaterialID     uuid.UUID
	QuantityNeeded float64
}

func (in *CreateInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if in.BasePrice < 0 {
		return fmt.Errorf("base price must not be negative")
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("recipe needs at least one ingredient")
	}
	for i, ln := range in.Lines {
		if ln.MaterialID == uuid.Nil {
			return fmt.Errorf("line %d: material is required", i+1)
		}
		if ln.QuantityNeeded <= 0 {
			return fmt.Errorf("line %d: quantity must be positive", i+1)
		}
	}
	return nil
}
