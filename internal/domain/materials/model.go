package materials

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaxRate is the IGV rate applied to taxable purchases.
const TaxRate = 0.18

type Material struct {
	ID               uuid.UUID
	Name             string
	Barcode          *string
	CategoryID       *uuid.UUID
	CategoryName     string // joined from categories, for display
	IsPerishable     bool
	ImageURL         *string
	PurchaseUnit     string
	UsageUnit        string
	ConversionFactor float64 // usage units per one purchase unit
	IsTaxable        bool
	TotalCost        float64
	NetCost          float64
	TaxAmount        float64
	CurrentStock     float64 // usage units, running sum of the ledger
	MinStockAlert    float64
	OrderQuantity    float64
	CreatedAt        time.Time
}

type StockStatus string

const (
	StatusOut StockStatus = "agotado"
	StatusLow StockStatus = "bajo"
	StatusOK  StockStatus = "ok"
)

func (m *Material) Status() StockStatus {
	switch {
	case m.CurrentStock <= 0:
		return StatusOut
	case m.CurrentStock <= m.MinStockAlert:
		return StatusLow
	default:
		return StatusOK
	}
}

// SplitTax decomposes a gross purchase price into net cost and tax.
func SplitTax(total float64, taxable bool) (net, tax float64) {
	if !taxable {
		return total, 0
	}
	net = total / (1 + TaxRate)
	return net, total - net
}

type UpsertInput struct {
	Name             string
	Barcode          *string
	CategoryID       *uuid.UUID
	ImageURL         *string
	PurchaseUnit     string
	UsageUnit        string
	ConversionFactor float64
	IsTaxable        bool
	TotalCost        float64
	MinStockAlert    float64
	OrderQuantity    float64
}

func (in *UpsertInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if in.ConversionFactor <= 0 {
		return fmt.Errorf("conversion factor must be positive")
	}
	if in.TotalCost < 0 {
		return fmt.Errorf("total cost must not be negative")
	}
	if in.MinStockAlert < 0 || in.OrderQuantity < 0 {
		return fmt.Errorf("alert thresholds must not be negative")
	}
	if in.Barcode != nil && strings.TrimSpace(*in.Barcode) == "" {
		return fmt.Errorf("barcode must not be blank")
	}
	return nil
}
