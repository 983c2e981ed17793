package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("material not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Apply appends a ledger entry and moves the cached stock total in one
// transaction. The update is relative, so the row lock serializes concurrent
// writers against the same material and no delta can be lost.
func (r *Repo) Apply(ctx context.Context, in ApplyInput) (Applied, error) {
	var a Applied
	if in.Delta == 0 {
		return a, fmt.Errorf("delta must not be zero")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return a, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
		INSERT INTO stock_movements (raw_material_id, quantity_changed, movement_type, description)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, in.MaterialID, in.Delta, string(in.Type), in.Description).Scan(&a.MovementID); err != nil {
		return a, err
	}

	q := `
		UPDATE raw_materials
		SET current_stock_usage_units = current_stock_usage_units + $2
		WHERE id = $1`
	if in.GuardNonNegative {
		q += ` AND current_stock_usage_units + $2 >= 0`
	}
	q += `
		RETURNING id, name, current_stock_usage_units, usage_unit, purchase_unit,
		          min_stock_alert, order_quantity`

	err = tx.QueryRow(ctx, q, in.MaterialID, in.Delta).Scan(
		&a.MaterialID,
		&a.MaterialName,
		&a.NewQuantity,
		&a.UsageUnit,
		&a.PurchaseUnit,
		&a.MinStockAlert,
		&a.OrderQuantity,
	)
	if err == pgx.ErrNoRows {
		if in.GuardNonNegative {
			if exists, eerr := r.materialExists(ctx, in.MaterialID); eerr == nil && exists {
				return a, ErrInsufficientStock
			}
		}
		return a, ErrNotFound
	}
	if err != nil {
		return a, err
	}

	return a, tx.Commit(ctx)
}

func (r *Repo) materialExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM raw_materials WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

type MovementFilter struct {
	MaterialID *uuid.UUID
	CategoryID *uuid.UUID
	Types      []MoveType
	Since      *int // days back; nil = all history
}

func (r *Repo) ListMovements(ctx context.Context, f MovementFilter) ([]Movement, error) {
	q := `
		SELECT sm.id, sm.raw_material_id, sm.quantity_changed, sm.movement_type, sm.description, sm.created_at
		FROM stock_movements sm
		JOIN raw_materials m ON m.id = sm.raw_material_id
		WHERE TRUE`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.MaterialID != nil {
		q += ` AND sm.raw_material_id = ` + arg(*f.MaterialID)
	}
	if f.CategoryID != nil {
		q += ` AND m.category_id = ` + arg(*f.CategoryID)
	}
	if len(f.Types) > 0 {
		types := make([]string, 0, len(f.Types))
		for _, t := range f.Types {
			types = append(types, string(t))
		}
		q += ` AND sm.movement_type = ANY(` + arg(types) + `)`
	}
	if f.Since != nil {
		q += ` AND sm.created_at >= now() - make_interval(days => ` + arg(*f.Since) + `)`
	}
	q += ` ORDER BY sm.created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var mv Movement
		if err := rows.Scan(&mv.ID, &mv.MaterialID, &mv.Quantity, &mv.Type, &mv.Description, &mv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, mv)
	}
	return out, rows.Err()
}
