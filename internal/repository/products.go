package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"barpos/internal/domain"
)

type ProductFilter struct {
	Name     string // substring, case-insensitive
	Category string // exact
	Limit    int
	Offset   int
}

type ProductsRepoInterface interface {
	List(ctx context.Context, f ProductFilter) ([]domain.Product, int, error)
	ListInStock(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (domain.Product, error)
	Insert(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id int64) error
	Categories(ctx context.Context) ([]string, error)
	OrderLineRefs(ctx context.Context, id int64) (int, error)
}

type ProductsRepo struct {
	pool *pgxpool.Pool
}

func NewProductsRepo(pool *pgxpool.Pool) *ProductsRepo { return &ProductsRepo{pool: pool} }

func (r *ProductsRepo) List(ctx context.Context, f ProductFilter) ([]domain.Product, int, error) {
	where := "WHERE ($1 = '' OR name ILIKE '%' || $1 || '%') AND ($2 = '' OR category = $2)"

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM products "+where, f.Name, f.Category).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, name, price, category, stock FROM products `+where+`
ORDER BY category, name
LIMIT $3 OFFSET $4
`, f.Name, f.Category, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Stock); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *ProductsRepo) ListInStock(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, price, category, stock FROM products WHERE stock > 0 ORDER BY category, name
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Stock); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductsRepo) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `
SELECT id, name, price, category, stock FROM products WHERE id=$1
`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Stock)
	if err != nil {
		return domain.Product{}, notFoundOr(err, "product")
	}
	return p, nil
}

func (r *ProductsRepo) Insert(ctx context.Context, p *domain.Product) error {
	err := r.pool.QueryRow(ctx, `
INSERT INTO products (name, price, category, stock) VALUES ($1,$2,$3,$4) RETURNING id
`, p.Name, p.Price, p.Category, p.Stock).Scan(&p.ID)
	if err != nil {
		return mapPgError(err, "product name")
	}
	return nil
}

func (r *ProductsRepo) Update(ctx context.Context, p domain.Product) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE products SET name=$2, price=$3, category=$4, stock=$5 WHERE id=$1
`, p.ID, p.Name, p.Price, p.Category, p.Stock)
	if err != nil {
		return mapPgError(err, "product name")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("product")
	}
	return nil
}

func (r *ProductsRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("product")
	}
	return nil
}

func (r *ProductsRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		if c != "" {
			out = append(out, c)
		}
	}
	return out, rows.Err()
}

func (r *ProductsRepo) OrderLineRefs(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE product_id=$1`, id).Scan(&n)
	return n, err
}
