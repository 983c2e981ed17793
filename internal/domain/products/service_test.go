package products

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcondori/cafe-inventory/internal/domain/stock"
)

type fakeRecipeSource struct {
	product *SaleProduct
	lines   []RecipeLine
}

func (f *fakeRecipeSource) GetByID(_ context.Context, id uuid.UUID) (*SaleProduct, error) {
	if f.product == nil || f.product.ID != id {
		return nil, ErrNotFound
	}
	return f.product, nil
}

func (f *fakeRecipeSource) Recipe(_ context.Context, _ uuid.UUID) ([]RecipeLine, error) {
	return f.lines, nil
}

// failingApplier applies deltas until failAt (1-based), then errors.
type failingApplier struct {
	applied []stock.ApplyInput
	failAt  int
	err     error
}

func (f *failingApplier) Apply(_ context.Context, in stock.ApplyInput) (stock.Applied, error) {
	if f.failAt > 0 && len(f.applied)+1 == f.failAt {
		return stock.Applied{}, f.err
	}
	f.applied = append(f.applied, in)
	return stock.Applied{MaterialID: in.MaterialID, NewQuantity: 100 + in.Delta}, nil
}

func saleFixture() (*fakeRecipeSource, *failingApplier, *Service, uuid.UUID, uuid.UUID, uuid.UUID) {
	productID := uuid.New()
	matA := uuid.New()
	matB := uuid.New()
	src := &fakeRecipeSource{
		product: &SaleProduct{ID: productID, Name: "Capuccino Gde", BasePrice: 15},
		lines: []RecipeLine{
			{SaleProductID: productID, MaterialID: matA, MaterialName: "Café en grano", UsageUnit: "g", QuantityNeeded: 50},
			{SaleProductID: productID, MaterialID: matB, MaterialName: "Leche fresca", UsageUnit: "ml", QuantityNeeded: 20},
		},
	}
	applier := &failingApplier{}
	return src, applier, NewService(src, applier), productID, matA, matB
}

func TestSimulateSaleConsumesEachLine(t *testing.T) {
	_, applier, svc, productID, matA, matB := saleFixture()

	res, err := svc.SimulateSale(context.Background(), productID)
	require.NoError(t, err)

	require.Len(t, applier.applied, 2)
	assert.Equal(t, matA, applier.applied[0].MaterialID)
	assert.Equal(t, -50.0, applier.applied[0].Delta)
	assert.Equal(t, matB, applier.applied[1].MaterialID)
	assert.Equal(t, -20.0, applier.applied[1].Delta)
	for _, in := range applier.applied {
		assert.Equal(t, stock.MoveSale, in.Type)
		assert.Equal(t, "Simulación Venta: Capuccino Gde", in.Description)
	}
	assert.Len(t, res.Applied, 2)
}

func TestSimulateSalePartialFailureKeepsAppliedLines(t *testing.T) {
	_, applier, svc, productID, matA, _ := saleFixture()
	applier.failAt = 2
	applier.err = errors.New("write rejected")

	res, err := svc.SimulateSale(context.Background(), productID)
	require.Error(t, err)

	var partial *PartialSaleError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.LinesApplied)
	assert.Equal(t, 2, partial.LinesTotal)
	assert.Equal(t, "Leche fresca", partial.FailedLine.MaterialName)
	assert.ErrorIs(t, err, applier.err)

	// First line stays applied, no compensation.
	require.Len(t, applier.applied, 1)
	assert.Equal(t, matA, applier.applied[0].MaterialID)
	assert.Len(t, res.Applied, 1)
}

func TestSimulateSaleEmptyRecipe(t *testing.T) {
	src, applier, svc, productID, _, _ := saleFixture()
	src.lines = nil

	_, err := svc.SimulateSale(context.Background(), productID)
	assert.ErrorIs(t, err, ErrEmptyRecipe)
	assert.Empty(t, applier.applied)
}

func TestSimulateSaleUnknownProduct(t *testing.T) {
	_, _, svc, _, _, _ := saleFixture()

	_, err := svc.SimulateSale(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateInputValidation(t *testing.T) {
	valid := CreateInput{
		Name:  "Latte",
		Lines: []LineInput{{MaterialID: uuid.New(), QuantityNeeded: 30}},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"empty name", func(in *CreateInput) { in.Name = "  " }},
		{"negative price", func(in *CreateInput) { in.BasePrice = -1 }},
		{"no lines", func(in *CreateInput) { in.Lines = nil }},
		{"zero quantity", func(in *CreateInput) { in.Lines[0].QuantityNeeded = 0 }},
		{"missing material", func(in *CreateInput) { in.Lines[0].MaterialID = uuid.Nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			in.Lines = append([]LineInput(nil), valid.Lines...)
			tt.mutate(&in)
			assert.Error(t, in.Validate())
		})
	}
}
