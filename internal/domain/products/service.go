package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rcondori/cafe-inventory/internal/domain/stock"
)

var ErrEmptyRecipe = errors.New("product has no recipe lines")

type RecipeSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SaleProduct, error)
	Recipe(ctx context.Context, productID uuid.UUID) ([]RecipeLine, error)
}

type StockApplier interface {
	Apply(ctx context.Context, in stock.ApplyInput) (stock.Applied, error)
}

type Service struct {
	products RecipeSource
	stock    StockApplier
}

func NewService(products RecipeSource, applier StockApplier) *Service {
	return &Service{products: products, stock: applier}
}

// PartialSaleError reports a sale that stopped mid-recipe. Lines already
// applied stay applied; the ledger keeps their movements.
type PartialSaleError struct {
	Product      string
	LinesApplied int
	LinesTotal   int
	FailedLine   RecipeLine
	Err          error
}

func (e *PartialSaleError) Error() string {
	return fmt.Sprintf("sale of %q failed at %s (%d of %d lines applied): %v",
		e.Product, e.FailedLine.MaterialName, e.LinesApplied, e.LinesTotal, e.Err)
}

func (e *PartialSaleError) Unwrap() error { return e.Err }

type SaleResult struct {
	Product *SaleProduct
	Applied []stock.Applied
}

// SimulateSale consumes one unit of the product: every recipe line becomes
// its own atomic sale movement, processed sequentially. A failing line stops
// the loop; earlier lines are not compensated, and the returned error says
// exactly how far the sale got.
func (s *Service) SimulateSale(ctx context.Context, productID uuid.UUID) (*SaleResult, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	lines, err := s.products.Recipe(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyRecipe
	}

	res := &SaleResult{Product: p}
	for i, ln := range lines {
		a, err := s.stock.Apply(ctx, stock.ApplyInput{
			MaterialID:  ln.MaterialID,
			Delta:       -ln.QuantityNeeded,
			Type:        stock.MoveSale,
			Description: fmt.Sprintf("Simulación Venta: %s", p.Name),
		})
		if err != nil {
			return res, &PartialSaleError{
				Product:      p.Name,
				LinesApplied: i,
				LinesTotal:   len(lines),
				FailedLine:   ln,
				Err:          err,
			}
		}
		res.Applied = append(res.Applied, a)
	}
	return res, nil
}
