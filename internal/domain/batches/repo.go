package batches

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Insert(ctx context.Context, b Batch) (*Batch, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO inventory_batches
			(raw_material_id, quantity_purchased, total_cost, net_cost, tax_amount, expiration_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, raw_material_id, quantity_purchased, total_cost, net_cost, tax_amount, expiration_date, created_at
	`, b.MaterialID, b.QuantityPurchased, b.TotalCost, b.NetCost, b.TaxAmount, b.ExpirationDate)

	var out Batch
	if err := row.Scan(
		&out.ID,
		&out.MaterialID,
		&out.QuantityPurchased,
		&out.TotalCost,
		&out.NetCost,
		&out.TaxAmount,
		&out.ExpirationDate,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) ListByMaterial(ctx context.Context, materialID uuid.UUID) ([]Batch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, raw_material_id, quantity_purchased, total_cost, net_cost, tax_amount, expiration_date, created_at
		FROM inventory_batches
		WHERE raw_material_id = $1
		ORDER BY created_at DESC
	`, materialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(
			&b.ID, &b.MaterialID, &b.QuantityPurchased, &b.TotalCost,
			&b.NetCost, &b.TaxAmount, &b.ExpirationDate, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
