package stock

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Store runs the combined ledger-append + quantity-update atomically.
type Store interface {
	Apply(ctx context.Context, in ApplyInput) (Applied, error)
}

// Notifier delivers a low-stock alert. Implementations are best-effort;
// failures never affect the mutation that triggered them.
type Notifier interface {
	LowStock(ctx context.Context, a Alert) error
}

type Service struct {
	store    Store
	notifier Notifier
	log      *slog.Logger
}

func NewService(store Store, notifier Notifier, log *slog.Logger) *Service {
	return &Service{store: store, notifier: notifier, log: log}
}

// Apply runs one mutation and, after it committed, fires the low-stock hook
// when the new quantity sits at or below the material's alert threshold.
func (s *Service) Apply(ctx context.Context, in ApplyInput) (Applied, error) {
	a, err := s.store.Apply(ctx, in)
	if err != nil {
		return a, err
	}
	movementsApplied.WithLabelValues(string(in.Type)).Inc()

	if a.LowStock() && s.notifier != nil {
		lowStockAlerts.Inc()
		if nerr := s.notifier.LowStock(ctx, a.Alert()); nerr != nil {
			s.log.Error("low stock notification failed",
				"material", a.MaterialName, "err", nerr)
		}
	}
	return a, nil
}

// Adjust is the manual ±N path for supplies. The non-negative guard is
// enforced inside the store's conditional update, so it holds under
// concurrency too.
func (s *Service) Adjust(ctx context.Context, materialID uuid.UUID, delta float64, description string) (Applied, error) {
	if description == "" {
		description = "Gasto manual de suministro"
	}
	return s.Apply(ctx, ApplyInput{
		MaterialID:       materialID,
		Delta:            delta,
		Type:             MoveWaste,
		Description:      description,
		GuardNonNegative: true,
	})
}
