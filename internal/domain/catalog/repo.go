package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) CreateCategory(ctx context.Context, name string, isPerishable bool) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, is_perishable) VALUES ($1,$2)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, is_perishable, created_at
	`, name, isPerishable)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.IsPerishable, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return r.GetCategoryByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, is_perishable, created_at
		FROM categories WHERE name = $1
	`, name)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.IsPerishable, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, is_perishable, created_at
		FROM categories WHERE id=$1
	`, id)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.IsPerishable, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, is_perishable, created_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.IsPerishable, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateCategory(ctx context.Context, id uuid.UUID, name string, isPerishable bool) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE categories SET name=$2, is_perishable=$3 WHERE id=$1
		RETURNING id, name, is_perishable, created_at
	`, id, name, isPerishable)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.IsPerishable, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
