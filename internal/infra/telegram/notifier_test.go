package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcondori/cafe-inventory/internal/domain/stock"
)

func TestFormatAlert(t *testing.T) {
	msg := FormatAlert(stock.Alert{
		MaterialName:  "Leche fresca",
		CurrentStock:  5,
		UsageUnit:     "ml",
		MinStockAlert: 10,
		OrderQuantity: 2,
		PurchaseUnit:  "Caja",
	})

	assert.Contains(t, msg, "ALERTA DE STOCK BAJO")
	assert.Contains(t, msg, "Insumo: *Leche fresca*")
	assert.Contains(t, msg, "Stock Actual: 5 ml")
	assert.Contains(t, msg, "Nivel de Alerta: 10 ml")
	assert.Contains(t, msg, "PEDIDO SUGERIDO:* 2 Caja")
}
