package materials

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcondori/cafe-inventory/internal/domain/catalog"
)

var ErrNotFound = errors.New("material not found")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const materialCols = `
	m.id, m.name, m.barcode, m.category_id, COALESCE(c.name,''), COALESCE(c.is_perishable,FALSE),
	m.image_url, m.purchase_unit, m.usage_unit, m.conversion_factor, m.is_taxable,
	m.total_cost, m.net_cost, m.tax_amount,
	m.current_stock_usage_units, m.min_stock_alert, m.order_quantity, m.created_at`

func scanMaterial(row pgx.Row) (*Material, error) {
	var m Material
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Barcode,
		&m.CategoryID,
		&m.CategoryName,
		&m.IsPerishable,
		&m.ImageURL,
		&m.PurchaseUnit,
		&m.UsageUnit,
		&m.ConversionFactor,
		&m.IsTaxable,
		&m.TotalCost,
		&m.NetCost,
		&m.TaxAmount,
		&m.CurrentStock,
		&m.MinStockAlert,
		&m.OrderQuantity,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert creates a material or, when the barcode already exists, refreshes its
// master data. Stock starts at zero and is never touched here; only the stock
// ledger moves it.
func (r *Repo) Upsert(ctx context.Context, in UpsertInput) (*Material, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	net, tax := SplitTax(in.TotalCost, in.IsTaxable)

	row := r.pool.QueryRow(ctx, `
		INSERT INTO raw_materials
			(name, barcode, category_id, image_url, purchase_unit, usage_unit,
			 conversion_factor, is_taxable, total_cost, net_cost, tax_amount,
			 current_stock_usage_units, min_stock_alert, order_quantity)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,0,$12,$13)
		ON CONFLICT (barcode) DO UPDATE SET
			name=EXCLUDED.name,
			category_id=EXCLUDED.category_id,
			image_url=EXCLUDED.image_url,
			purchase_unit=EXCLUDED.purchase_unit,
			usage_unit=EXCLUDED.usage_unit,
			conversion_factor=EXCLUDED.conversion_factor,
			is_taxable=EXCLUDED.is_taxable,
			total_cost=EXCLUDED.total_cost,
			net_cost=EXCLUDED.net_cost,
			tax_amount=EXCLUDED.tax_amount,
			min_stock_alert=EXCLUDED.min_stock_alert,
			order_quantity=EXCLUDED.order_quantity
		RETURNING id
	`, in.Name, in.Barcode, in.CategoryID, in.ImageURL, in.PurchaseUnit, in.UsageUnit,
		in.ConversionFactor, in.IsTaxable, in.TotalCost, net, tax,
		in.MinStockAlert, in.OrderQuantity)

	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*Material, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+materialCols+`
		FROM raw_materials m
		LEFT JOIN categories c ON c.id = m.category_id
		WHERE m.id = $1
	`, id)
	m, err := scanMaterial(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return m, err
}

func (r *Repo) GetByBarcode(ctx context.Context, barcode string) (*Material, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+materialCols+`
		FROM raw_materials m
		LEFT JOIN categories c ON c.id = m.category_id
		WHERE m.barcode = $1
	`, barcode)
	m, err := scanMaterial(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return m, err
}

type ListFilter struct {
	CategoryID   *uuid.UUID
	SuppliesOnly bool // restrict to the administrative supply categories
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]Material, error) {
	q := `
		SELECT ` + materialCols + `
		FROM raw_materials m
		LEFT JOIN categories c ON c.id = m.category_id
	`
	var args []any
	switch {
	case f.SuppliesOnly:
		q += ` WHERE c.name = ANY($1)`
		args = append(args, catalog.SupplyCategories)
	case f.CategoryID != nil:
		q += ` WHERE m.category_id = $1`
		args = append(args, *f.CategoryID)
	}
	q += ` ORDER BY m.name`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// UpdateAlerts sets the low-stock threshold and the suggested reorder quantity.
func (r *Repo) UpdateAlerts(ctx context.Context, id uuid.UUID, minStockAlert, orderQuantity float64) (*Material, error) {
	if minStockAlert < 0 || orderQuantity < 0 {
		return nil, errors.New("alert thresholds must not be negative")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE raw_materials SET min_stock_alert=$2, order_quantity=$3 WHERE id=$1
	`, id, minStockAlert, orderQuantity)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}
