package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriassist/agriassist-api/internal/domain/entity"
	"github.com/agriassist/agriassist-api/internal/domain/repository"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, price, description, image, category, created_at, updated_at`

func scanProduct(row pgx.Row) (entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProductRepository) collect(ctx context.Context, sql string, args ...any) ([]entity.Product, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// List returns the catalog, optionally narrowed to one category.
func (r *ProductRepository) List(ctx context.Context, category string) ([]entity.Product, error) {
	if category = strings.TrimSpace(category); category != "" {
		return r.collect(ctx, `SELECT `+productColumns+` FROM products WHERE lower(category) = lower($1) ORDER BY name`, category)
	}
	return r.collect(ctx, `SELECT `+productColumns+` FROM products ORDER BY category, name`)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Search is the ILIKE fallback used when no search index is configured.
func (r *ProductRepository) Search(ctx context.Context, q string, limit int) ([]entity.Product, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(q)) + "%"
	return r.collect(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE name ILIKE $1 OR description ILIKE $1 OR category ILIKE $1
		ORDER BY (name ILIKE $1) DESC, name
		LIMIT $2
	`, pattern, limit)
}

func (r *ProductRepository) Upsert(ctx context.Context, p *entity.Product) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, price, description, image, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price, description = EXCLUDED.description,
		    image = EXCLUDED.image, category = EXCLUDED.category, updated_at = now()
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Price, p.Description, p.Image, p.Category)
	return row.Scan(&p.CreatedAt, &p.UpdatedAt)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
