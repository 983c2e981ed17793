package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTax(t *testing.T) {
	net, tax := SplitTax(118.00, true)
	assert.InDelta(t, 100.00, net, 1e-9)
	assert.InDelta(t, 18.00, tax, 1e-9)

	net, tax = SplitTax(59.00, true)
	assert.InDelta(t, 50.00, net, 1e-9)
	assert.InDelta(t, 9.00, tax, 1e-9)

	net, tax = SplitTax(75.00, false)
	assert.Equal(t, 75.00, net)
	assert.Equal(t, 0.00, tax)
}

func TestUpsertInputValidate(t *testing.T) {
	valid := UpsertInput{
		Name:             "Leche fresca",
		PurchaseUnit:     "Caja",
		UsageUnit:        "ml",
		ConversionFactor: 1000,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*UpsertInput)
	}{
		{"empty name", func(in *UpsertInput) { in.Name = " " }},
		{"zero conversion factor", func(in *UpsertInput) { in.ConversionFactor = 0 }},
		{"negative conversion factor", func(in *UpsertInput) { in.ConversionFactor = -2 }},
		{"negative cost", func(in *UpsertInput) { in.TotalCost = -1 }},
		{"negative threshold", func(in *UpsertInput) { in.MinStockAlert = -1 }},
		{"blank barcode", func(in *UpsertInput) { s := ""; in.Barcode = &s }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			assert.Error(t, in.Validate())
		})
	}
}

func TestMaterialStatus(t *testing.T) {
	m := Material{MinStockAlert: 10}

	m.CurrentStock = 0
	assert.Equal(t, StatusOut, m.Status())

	m.CurrentStock = -3
	assert.Equal(t, StatusOut, m.Status())

	m.CurrentStock = 5
	assert.Equal(t, StatusLow, m.Status())

	m.CurrentStock = 10
	assert.Equal(t, StatusLow, m.Status())

	m.CurrentStock = 11
	assert.Equal(t, StatusOK, m.Status())
}
