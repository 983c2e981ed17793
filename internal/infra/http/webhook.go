package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcondori/cafe-inventory/internal/domain/stock"
)

// lowStockRecord is the row image a database webhook posts after a
// raw_materials update.
type lowStockRecord struct {
	Name          string  `json:"name"`
	CurrentStock  float64 `json:"current_stock_usage_units"`
	MinStockAlert float64 `json:"min_stock_alert"`
	UsageUnit     string  `json:"usage_unit"`
	PurchaseUnit  string  `json:"purchase_unit"`
	OrderQuantity float64 `json:"order_quantity"`
}

// lowStockHook forwards a breached threshold to the chat channel. Idempotent
// per invocation: every call with a breached record sends one message; calls
// above the threshold send nothing.
func (h *Handlers) lowStockHook(c *gin.Context) {
	var req struct {
		Record lowStockRecord `json:"record"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec := req.Record

	if h.Notifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"sent": false, "error": "notification channel not configured"})
		return
	}
	if rec.CurrentStock > rec.MinStockAlert {
		c.JSON(http.StatusOK, gin.H{"sent": false, "reason": "stock sufficient"})
		return
	}

	err := h.Notifier.LowStock(c.Request.Context(), stock.Alert{
		MaterialName:  rec.Name,
		CurrentStock:  rec.CurrentStock,
		UsageUnit:     rec.UsageUnit,
		MinStockAlert: rec.MinStockAlert,
		OrderQuantity: rec.OrderQuantity,
		PurchaseUnit:  rec.PurchaseUnit,
	})
	if err != nil {
		// Best-effort channel: log and report, nothing to retry here.
		h.Log.Error("low stock hook send failed", "material", rec.Name, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"sent": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}
