package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("sale product not found")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// CreateWithRecipe inserts the sale product and all its recipe lines in one
// transaction, so a half-configured product can never be sold.
func (r *Repo) CreateWithRecipe(ctx context.Context, in CreateInput) (*SaleProduct, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	price := in.BasePrice
	if price == 0 {
		price = DefaultBasePrice
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var p SaleProduct
	if err := tx.QueryRow(ctx, `
		INSERT INTO sale_products (name, base_price)
		VALUES ($1,$2)
		RETURNING id, name, base_price, created_at
	`, in.Name, price).Scan(&p.ID, &p.Name, &p.BasePrice, &p.CreatedAt); err != nil {
		return nil, err
	}

	for _, ln := range in.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO recipes (sale_product_id, raw_material_id, quantity_needed)
			VALUES ($1,$2,$3)
		`, p.ID, ln.MaterialID, ln.QuantityNeeded); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*SaleProduct, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, base_price, created_at
		FROM sale_products WHERE id = $1
	`, id)
	var p SaleProduct
	if err := row.Scan(&p.ID, &p.Name, &p.BasePrice, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context) ([]SaleProduct, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, base_price, created_at
		FROM sale_products
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaleProduct
	for rows.Next() {
		var p SaleProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.BasePrice, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Recipe(ctx context.Context, productID uuid.UUID) ([]RecipeLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rc.sale_product_id, rc.raw_material_id, m.name, m.usage_unit, rc.quantity_needed
		FROM recipes rc
		JOIN raw_materials m ON m.id = rc.raw_material_id
		WHERE rc.sale_product_id = $1
		ORDER BY m.name
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecipeLine
	for rows.Next() {
		var ln RecipeLine
		if err := rows.Scan(&ln.SaleProductID, &ln.MaterialID, &ln.MaterialName, &ln.UsageUnit, &ln.QuantityNeeded); err != nil {
			return nil, err
		}
		out = append(out, ln)
	}
	return out, rows.Err()
}
