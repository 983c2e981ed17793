package stock

import (
	"time"

	"github.com/google/uuid"
)

type MoveType string

const (
	MoveSale     MoveType = "venta"
	MoveWaste    MoveType = "merma"
	MovePurchase MoveType = "compra"
	MoveAdjust   MoveType = "ajuste"
)

// Movement is one immutable ledger entry. Negative quantity is consumption,
// positive is intake. Rows are appended by Apply and never updated or deleted.
type Movement struct {
	ID          uuid.UUID
	MaterialID  uuid.UUID
	Quantity    float64 // signed, usage units
	Type        MoveType
	Description string
	CreatedAt   time.Time
}

// ApplyInput describes one quantity change against a material.
type ApplyInput struct {
	MaterialID  uuid.UUID
	Delta       float64 // signed, usage units
	Type        MoveType
	Description string

	// GuardNonNegative aborts the whole mutation when the resulting stock
	// would go below zero. Manual adjustments set it; purchases don't.
	GuardNonNegative bool
}

// Applied is the post-update row image of the material, returned from the
// same statement that moved the stock.
type Applied struct {
	MovementID    uuid.UUID
	MaterialID    uuid.UUID
	MaterialName  string
	NewQuantity   float64
	UsageUnit     string
	PurchaseUnit  string
	MinStockAlert float64
	OrderQuantity float64
}

func (a Applied) LowStock() bool { return a.NewQuantity <= a.MinStockAlert }

// Alert carries everything the notification message needs.
type Alert struct {
	MaterialName  string
	CurrentStock  float64
	UsageUnit     string
	MinStockAlert float64
	OrderQuantity float64
	PurchaseUnit  string
}

func (a Applied) Alert() Alert {
	return Alert{
		MaterialName:  a.MaterialName,
		CurrentStock:  a.NewQuantity,
		UsageUnit:     a.UsageUnit,
		MinStockAlert: a.MinStockAlert,
		OrderQuantity: a.OrderQuantity,
		PurchaseUnit:  a.PurchaseUnit,
	}
}
