package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Consumption aggregates negative movements per material inside the filter
// window, ranked by total outflow.
func (r *Repo) Consumption(ctx context.Context, f Filter) ([]ConsumptionRow, error) {
	since, err := f.Period.Since(time.Now())
	if err != nil {
		return nil, err
	}

	q := `
		SELECT m.id, m.name, m.usage_unit, SUM(ABS(sm.quantity_changed)) AS total
		FROM stock_movements sm
		JOIN raw_materials m ON m.id = sm.raw_material_id
		WHERE sm.quantity_changed < 0
		  AND sm.created_at >= $1`
	args := []any{since}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		q += fmt.Sprintf(` AND m.category_id = $%d`, len(args))
	}
	if f.MaterialID != nil {
		args = append(args, *f.MaterialID)
		q += fmt.Sprintf(` AND m.id = $%d`, len(args))
	}
	q += ` GROUP BY m.id, m.name, m.usage_unit`
	if f.Rank == RankBottom {
		q += ` ORDER BY total ASC`
	} else {
		q += ` ORDER BY total DESC`
	}
	args = append(args, f.limit())
	q += fmt.Sprintf(` LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ConsumptionRow
	for rows.Next() {
		var c ConsumptionRow
		if err := rows.Scan(&c.MaterialID, &c.MaterialName, &c.UsageUnit, &c.Total); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
