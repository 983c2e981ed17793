package stock

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	movementsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_applied_total",
		Help: "Stock movements applied, by movement type.",
	}, []string{"type"})

	lowStockAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_low_alerts_total",
		Help: "Low-stock alerts fired after a mutation.",
	})
)
