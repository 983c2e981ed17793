package batches

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcondori/cafe-inventory/internal/domain/materials"
	"github.com/rcondori/cafe-inventory/internal/domain/stock"
)

type BatchStore interface {
	Insert(ctx context.Context, b Batch) (*Batch, error)
}

type MaterialSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*materials.Material, error)
	GetByBarcode(ctx context.Context, barcode string) (*materials.Material, error)
}

type StockApplier interface {
	Apply(ctx context.Context, in stock.ApplyInput) (stock.Applied, error)
}

type Service struct {
	batches   BatchStore
	materials MaterialSource
	stock     StockApplier
	now       func() time.Time
}

func NewService(batches BatchStore, mats MaterialSource, applier StockApplier) *Service {
	return &Service{batches: batches, materials: mats, stock: applier, now: time.Now}
}

type IntakeResult struct {
	Batch   *Batch
	Applied stock.Applied
	Delta   float64 // usage units added to stock
}

// Intake registers one purchase: the immutable batch row with its tax split,
// then a purchase movement of quantity_purchased × conversion_factor usage
// units. The batch row is independent of the ledger; a movement failure
// leaves the batch recorded, mirroring the intake form's behavior.
func (s *Service) Intake(ctx context.Context, in IntakeInput) (*IntakeResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var (
		m   *materials.Material
		err error
	)
	if in.MaterialID != uuid.Nil {
		m, err = s.materials.GetByID(ctx, in.MaterialID)
	} else {
		m, err = s.materials.GetByBarcode(ctx, in.Barcode)
	}
	if err != nil {
		return nil, err
	}

	exp := in.ExpirationDate
	if exp == nil && in.ExpiresIn != nil {
		d, err := in.ExpiresIn.Date(s.now())
		if err != nil {
			return nil, err
		}
		exp = &d
	}

	net, tax := materials.SplitTax(in.TotalCost, m.IsTaxable)
	b, err := s.batches.Insert(ctx, Batch{
		MaterialID:        m.ID,
		QuantityPurchased: in.QuantityPurchased,
		TotalCost:         in.TotalCost,
		NetCost:           net,
		TaxAmount:         tax,
		ExpirationDate:    exp,
	})
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}

	delta := in.QuantityPurchased * m.ConversionFactor
	applied, err := s.stock.Apply(ctx, stock.ApplyInput{
		MaterialID:  m.ID,
		Delta:       delta,
		Type:        stock.MovePurchase,
		Description: fmt.Sprintf("Ingreso de lote: %s", m.Name),
	})
	if err != nil {
		return nil, fmt.Errorf("apply intake movement: %w", err)
	}

	return &IntakeResult{Batch: b, Applied: applied, Delta: delta}, nil
}
