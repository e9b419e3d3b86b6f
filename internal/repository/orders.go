package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"barpos/internal/domain"
)

type SalesFilter struct {
	Date   *time.Time // filters on updated_at date, UTC
	Limit  int
	Offset int
}

// SalesTotals aggregates paid revenue, overall and by order type.
type SalesTotals struct {
	Total    decimal.Decimal
	DineIn   decimal.Decimal
	Takeaway decimal.Decimal
}

type TopProduct struct {
	Name     string
	Quantity int
}

type DashboardStats struct {
	SalesToday         SalesTotals
	OpenOrderCount     int
	OccupiedTableCount int
	TopProducts        []TopProduct
}

type OrdersRepoInterface interface {
	GetWithLines(ctx context.Context, id int64) (domain.Order, error)
	ListTakeaway(ctx context.Context) ([]domain.Order, error)
	SalesLog(ctx context.Context, f SalesFilter) ([]domain.Order, int, error)
	SalesTotals(ctx context.Context, date *time.Time) (SalesTotals, error)
	Dashboard(ctx context.Context, today time.Time) (DashboardStats, error)
}

type OrdersRepo struct {
	pool *pgxpool.Pool
}

func NewOrdersRepo(pool *pgxpool.Pool) *OrdersRepo { return &OrdersRepo{pool: pool} }

func (r *OrdersRepo) GetWithLines(ctx context.Context, id int64) (domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `
SELECT id, order_type, status, table_id, customer_name, total_amount, payment_method, created_at, updated_at
FROM orders WHERE id=$1
`, id).Scan(&o.ID, &o.Type, &o.Status, &o.TableID, &o.CustomerName, &o.TotalAmount,
		&o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, notFoundOr(err, "order")
	}

	rows, err := r.pool.Query(ctx, `
SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price, oi.subtotal
FROM order_items oi JOIN products p ON p.id = oi.product_id
WHERE oi.order_id=$1
ORDER BY oi.id
`, id)
	if err != nil {
		return domain.Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return domain.Order{}, err
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

func (r *OrdersRepo) ListTakeaway(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, order_type, status, table_id, customer_name, total_amount, payment_method, created_at, updated_at
FROM orders WHERE order_type=$1
ORDER BY created_at DESC
`, domain.OrderTakeaway)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Type, &o.Status, &o.TableID, &o.CustomerName, &o.TotalAmount,
			&o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrdersRepo) SalesLog(ctx context.Context, f SalesFilter) ([]domain.Order, int, error) {
	where := `WHERE status IN ($1, $2) AND ($3::date IS NULL OR updated_at::date = $3::date)`
	args := []any{domain.StatusPaid, domain.StatusAnnulled, dateArg(f.Date)}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, order_type, status, table_id, customer_name, total_amount, payment_method, created_at, updated_at
FROM orders `+where+`
ORDER BY updated_at DESC
LIMIT $4 OFFSET $5
`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Type, &o.Status, &o.TableID, &o.CustomerName, &o.TotalAmount,
			&o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *OrdersRepo) SalesTotals(ctx context.Context, date *time.Time) (SalesTotals, error) {
	var t SalesTotals
	err := r.pool.QueryRow(ctx, `
SELECT
  COALESCE(SUM(total_amount), 0),
  COALESCE(SUM(total_amount) FILTER (WHERE order_type=$3), 0),
  COALESCE(SUM(total_amount) FILTER (WHERE order_type=$4), 0)
FROM orders
WHERE status=$1 AND ($2::date IS NULL OR updated_at::date = $2::date)
`, domain.StatusPaid, dateArg(date), domain.OrderDineIn, domain.OrderTakeaway).
		Scan(&t.Total, &t.DineIn, &t.Takeaway)
	return t, err
}

func (r *OrdersRepo) Dashboard(ctx context.Context, today time.Time) (DashboardStats, error) {
	var s DashboardStats
	var err error

	if s.SalesToday, err = r.SalesTotals(ctx, &today); err != nil {
		return s, err
	}
	if err = r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM orders WHERE status IN ($1, $2)
`, domain.StatusActive, domain.StatusPending).Scan(&s.OpenOrderCount); err != nil {
		return s, err
	}
	if err = r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM tables WHERE status=$1
`, domain.TableOccupied).Scan(&s.OccupiedTableCount); err != nil {
		return s, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT p.name, SUM(oi.quantity)::int AS sold
FROM order_items oi JOIN products p ON p.id = oi.product_id
GROUP BY p.name
ORDER BY sold DESC
LIMIT 5
`)
	if err != nil {
		return s, err
	}
	defer rows.Close()

	for rows.Next() {
		var tp TopProduct
		if err := rows.Scan(&tp.Name, &tp.Quantity); err != nil {
			return s, err
		}
		s.TopProducts = append(s.TopProducts, tp)
	}
	return s, rows.Err()
}

func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}
