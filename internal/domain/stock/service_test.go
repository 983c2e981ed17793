package stock

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMaterial struct {
	name          string
	qty           float64
	usageUnit     string
	purchaseUnit  string
	minStockAlert float64
	orderQuantity float64
}

// fakeStore mimics the repo contract: one ledger entry and one quantity
// update per Apply, all-or-nothing.
type fakeStore struct {
	materials map[uuid.UUID]*fakeMaterial
	movements []Movement
	failNext  error
}

func (f *fakeStore) Apply(_ context.Context, in ApplyInput) (Applied, error) {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return Applied{}, err
	}
	m, ok := f.materials[in.MaterialID]
	if !ok {
		return Applied{}, ErrNotFound
	}
	if in.GuardNonNegative && m.qty+in.Delta < 0 {
		return Applied{}, ErrInsufficientStock
	}
	f.movements = append(f.movements, Movement{
		ID:          uuid.New(),
		MaterialID:  in.MaterialID,
		Quantity:    in.Delta,
		Type:        in.Type,
		Description: in.Description,
	})
	m.qty += in.Delta
	return Applied{
		MovementID:    f.movements[len(f.movements)-1].ID,
		MaterialID:    in.MaterialID,
		MaterialName:  m.name,
		NewQuantity:   m.qty,
		UsageUnit:     m.usageUnit,
		PurchaseUnit:  m.purchaseUnit,
		MinStockAlert: m.minStockAlert,
		OrderQuantity: m.orderQuantity,
	}, nil
}

type fakeNotifier struct {
	alerts []Alert
	err    error
}

func (f *fakeNotifier) LowStock(_ context.Context, a Alert) error {
	f.alerts = append(f.alerts, a)
	return f.err
}

func newFixture(qty, minAlert float64) (*fakeStore, *fakeNotifier, *Service, uuid.UUID) {
	id := uuid.New()
	store := &fakeStore{materials: map[uuid.UUID]*fakeMaterial{
		id: {name: "Leche fresca", qty: qty, usageUnit: "ml", purchaseUnit: "Caja", minStockAlert: minAlert, orderQuantity: 2},
	}}
	notifier := &fakeNotifier{}
	svc := NewService(store, notifier, slog.Default())
	return store, notifier, svc, id
}

func TestApplyMovesQuantityAndAppendsOneEntry(t *testing.T) {
	store, _, svc, id := newFixture(100, 10)

	a, err := svc.Apply(context.Background(), ApplyInput{
		MaterialID:  id,
		Delta:       -30,
		Type:        MoveSale,
		Description: "Simulación Venta: Capuccino",
	})
	require.NoError(t, err)

	assert.Equal(t, 70.0, a.NewQuantity)
	require.Len(t, store.movements, 1)
	assert.Equal(t, -30.0, store.movements[0].Quantity)
	assert.Equal(t, MoveSale, store.movements[0].Type)
	assert.Equal(t, "Simulación Venta: Capuccino", store.movements[0].Description)
}

func TestApplySequenceSumsDeltas(t *testing.T) {
	store, _, svc, id := newFixture(0, 0)

	deltas := []float64{3000, -50, -20, 500, -1}
	var want float64
	for _, d := range deltas {
		want += d
		_, err := svc.Apply(context.Background(), ApplyInput{MaterialID: id, Delta: d, Type: MoveAdjust})
		require.NoError(t, err)
	}

	assert.Equal(t, want, store.materials[id].qty)
	assert.Len(t, store.movements, len(deltas))
}

func TestAdjustRejectsNegativeResult(t *testing.T) {
	store, _, svc, id := newFixture(5, 0)

	_, err := svc.Adjust(context.Background(), id, -6, "")
	require.ErrorIs(t, err, ErrInsufficientStock)

	// No partial state: quantity and ledger untouched.
	assert.Equal(t, 5.0, store.materials[id].qty)
	assert.Empty(t, store.movements)
}

func TestAdjustAllowsExactDrain(t *testing.T) {
	store, _, svc, id := newFixture(5, 0)

	a, err := svc.Adjust(context.Background(), id, -5, "limpieza")
	require.NoError(t, err)
	assert.Equal(t, 0.0, a.NewQuantity)
	assert.Len(t, store.movements, 1)
	assert.Equal(t, MoveWaste, store.movements[0].Type)
}

func TestLowStockNotification(t *testing.T) {
	tests := []struct {
		name      string
		qty       float64
		minAlert  float64
		delta     float64
		wantAlert bool
	}{
		{"below threshold", 10, 10, -5, true},
		{"above threshold", 16, 10, -5, false},
		{"exactly at threshold", 15, 10, -5, true},
		{"intake above threshold", 1, 10, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, notifier, svc, id := newFixture(tt.qty, tt.minAlert)

			_, err := svc.Apply(context.Background(), ApplyInput{MaterialID: id, Delta: tt.delta, Type: MoveAdjust})
			require.NoError(t, err)

			if tt.wantAlert {
				require.Len(t, notifier.alerts, 1)
				a := notifier.alerts[0]
				assert.Equal(t, "Leche fresca", a.MaterialName)
				assert.Equal(t, tt.qty+tt.delta, a.CurrentStock)
				assert.Equal(t, tt.minAlert, a.MinStockAlert)
				assert.Equal(t, "ml", a.UsageUnit)
				assert.Equal(t, "Caja", a.PurchaseUnit)
			} else {
				assert.Empty(t, notifier.alerts)
			}
		})
	}
}

func TestNotificationFailureDoesNotFailMutation(t *testing.T) {
	store, notifier, svc, id := newFixture(6, 10)
	notifier.err = errors.New("telegram down")

	a, err := svc.Apply(context.Background(), ApplyInput{MaterialID: id, Delta: -1, Type: MoveWaste})
	require.NoError(t, err)
	assert.Equal(t, 5.0, a.NewQuantity)
	assert.Equal(t, 5.0, store.materials[id].qty)
	assert.Len(t, notifier.alerts, 1)
}

func TestApplyUnknownMaterial(t *testing.T) {
	_, _, svc, _ := newFixture(1, 0)

	_, err := svc.Apply(context.Background(), ApplyInput{MaterialID: uuid.New(), Delta: 1, Type: MoveAdjust})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyStoreFailureSurfaces(t *testing.T) {
	store, notifier, svc, id := newFixture(5, 10)
	boom := errors.New("connection reset")
	store.failNext = boom

	_, err := svc.Apply(context.Background(), ApplyInput{MaterialID: id, Delta: -1, Type: MoveSale})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, notifier.alerts)
	assert.Equal(t, 5.0, store.materials[id].qty)
}
