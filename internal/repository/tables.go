package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"barpos/internal/domain"
)

// TableWithTotal pairs a table with the total of its open order (zero if none).
type TableWithTotal struct {
	domain.Table
	OpenOrderID    *int64
	OpenOrderTotal decimal.Decimal
}

type TablesRepoInterface interface {
	List(ctx context.Context, limit, offset int) ([]domain.Table, int, error)
	ListWithOpenTotals(ctx context.Context) ([]TableWithTotal, error)
	GetByID(ctx context.Context, id int64) (domain.Table, error)
	Insert(ctx context.Context, t *domain.Table) error
	Update(ctx context.Context, t domain.Table) error
	Delete(ctx context.Context, id int64) error
	HasOrders(ctx context.Context, id int64) (bool, error)
}

type TablesRepo struct {
	pool *pgxpool.Pool
}

func NewTablesRepo(pool *pgxpool.Pool) *TablesRepo { return &TablesRepo{pool: pool} }

func (r *TablesRepo) List(ctx context.Context, limit, offset int) ([]domain.Table, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tables`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, number, capacity, status FROM tables ORDER BY number LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Capacity, &t.Status); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *TablesRepo) ListWithOpenTotals(ctx context.Context) ([]TableWithTotal, error) {
	rows, err := r.pool.Query(ctx, `
SELECT t.id, t.number, t.capacity, t.status, o.id, COALESCE(o.total_amount, 0)
FROM tables t
LEFT JOIN orders o ON o.table_id = t.id AND o.status = $1
ORDER BY t.number
`, domain.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TableWithTotal
	for rows.Next() {
		var t TableWithTotal
		if err := rows.Scan(&t.ID, &t.Number, &t.Capacity, &t.Status, &t.OpenOrderID, &t.OpenOrderTotal); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TablesRepo) GetByID(ctx context.Context, id int64) (domain.Table, error) {
	var t domain.Table
	err := r.pool.QueryRow(ctx, `
SELECT id, number, capacity, status FROM tables WHERE id=$1
`, id).Scan(&t.ID, &t.Number, &t.Capacity, &t.Status)
	if err != nil {
		return domain.Table{}, notFoundOr(err, "table")
	}
	return t, nil
}

func (r *TablesRepo) Insert(ctx context.Context, t *domain.Table) error {
	err := r.pool.QueryRow(ctx, `
INSERT INTO tables (number, capacity, status) VALUES ($1,$2,$3) RETURNING id
`, t.Number, t.Capacity, t.Status).Scan(&t.ID)
	if err != nil {
		return mapPgError(err, "table number")
	}
	return nil
}

func (r *TablesRepo) Update(ctx context.Context, t domain.Table) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE tables SET number=$2, capacity=$3 WHERE id=$1
`, t.ID, t.Number, t.Capacity)
	if err != nil {
		return mapPgError(err, "table number")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("table")
	}
	return nil
}

func (r *TablesRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tables WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("table")
	}
	return nil
}

func (r *TablesRepo) HasOrders(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE table_id=$1`, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
