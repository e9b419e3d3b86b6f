package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"barpos/internal/domain"
)

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) ProductForUpdate(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := t.tx.QueryRow(ctx, `
SELECT id, name, price, category, stock FROM products WHERE id=$1 FOR UPDATE
`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Stock)
	if err != nil {
		return domain.Product{}, notFoundOr(err, "product")
	}
	return p, nil
}

func (t *pgTx) SetProductStock(ctx context.Context, id int64, stock int) error {
	_, err := t.tx.Exec(ctx, `UPDATE products SET stock=$2 WHERE id=$1`, id, stock)
	return err
}

func (t *pgTx) OrderForUpdate(ctx context.Context, id int64) (domain.Order, error) {
	var o domain.Order
	err := t.tx.QueryRow(ctx, `
SELECT id, order_type, status, table_id, customer_name, total_amount, payment_method, created_at, updated_at
FROM orders WHERE id=$1 FOR UPDATE
`, id).Scan(&o.ID, &o.Type, &o.Status, &o.TableID, &o.CustomerName, &o.TotalAmount,
		&o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, notFoundOr(err, "order")
	}
	return o, nil
}

func (t *pgTx) OpenOrderForTable(ctx context.Context, tableID int64) (domain.Order, bool, error) {
	var o domain.Order
	err := t.tx.QueryRow(ctx, `
SELECT id, order_type, status, table_id, customer_name, total_amount, payment_method, created_at, updated_at
FROM orders WHERE table_id=$1 AND status=$2 FOR UPDATE
`, tableID, domain.StatusActive).Scan(&o.ID, &o.Type, &o.Status, &o.TableID, &o.CustomerName,
		&o.TotalAmount, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt)
	if err == pgx.ErrNoRows {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, err
	}
	return o, true, nil
}

func (t *pgTx) InsertOrder(ctx context.Context, o *domain.Order) error {
	return t.tx.QueryRow(ctx, `
INSERT INTO orders (order_type, status, table_id, customer_name, total_amount)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, created_at, updated_at
`, o.Type, o.Status, o.TableID, o.CustomerName, o.TotalAmount).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (t *pgTx) SetOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	_, err := t.tx.Exec(ctx, `UPDATE orders SET total_amount=$2, updated_at=NOW() WHERE id=$1`, orderID, total)
	return err
}

func (t *pgTx) SetOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	_, err := t.tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1`, orderID, status)
	return err
}

func (t *pgTx) SetOrderPaid(ctx context.Context, orderID int64, method string) error {
	_, err := t.tx.Exec(ctx, `
UPDATE orders SET status=$2, payment_method=$3, updated_at=NOW() WHERE id=$1
`, orderID, domain.StatusPaid, method)
	return err
}

func (t *pgTx) SetOrderCustomer(ctx context.Context, orderID int64, name string) error {
	_, err := t.tx.Exec(ctx, `UPDATE orders SET customer_name=$2, updated_at=NOW() WHERE id=$1`, orderID, name)
	return err
}

func (t *pgTx) DeleteOrder(ctx context.Context, orderID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID)
	return err
}

func (t *pgTx) OrderLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	rows, err := t.tx.Query(ctx, `
SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price, oi.subtotal
FROM order_items oi JOIN products p ON p.id = oi.product_id
WHERE oi.order_id=$1
ORDER BY oi.id
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (t *pgTx) LineForUpdate(ctx context.Context, lineID int64) (domain.OrderLine, error) {
	var l domain.OrderLine
	err := t.tx.QueryRow(ctx, `
SELECT id, order_id, product_id, quantity, unit_price, subtotal
FROM order_items WHERE id=$1 FOR UPDATE
`, lineID).Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal)
	if err != nil {
		return domain.OrderLine{}, notFoundOr(err, "order item")
	}
	return l, nil
}

func (t *pgTx) FindLine(ctx context.Context, orderID, productID int64) (domain.OrderLine, bool, error) {
	var l domain.OrderLine
	err := t.tx.QueryRow(ctx, `
SELECT id, order_id, product_id, quantity, unit_price, subtotal
FROM order_items WHERE order_id=$1 AND product_id=$2 FOR UPDATE
`, orderID, productID).Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal)
	if err == pgx.ErrNoRows {
		return domain.OrderLine{}, false, nil
	}
	if err != nil {
		return domain.OrderLine{}, false, err
	}
	return l, true, nil
}

func (t *pgTx) InsertLine(ctx context.Context, l *domain.OrderLine) error {
	return t.tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
VALUES ($1,$2,$3,$4,$5)
RETURNING id
`, l.OrderID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal).Scan(&l.ID)
}

func (t *pgTx) UpdateLine(ctx context.Context, lineID int64, quantity int, subtotal decimal.Decimal) error {
	_, err := t.tx.Exec(ctx, `
UPDATE order_items SET quantity=$2, subtotal=$3 WHERE id=$1
`, lineID, quantity, subtotal)
	return err
}

func (t *pgTx) DeleteLine(ctx context.Context, lineID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM order_items WHERE id=$1`, lineID)
	return err
}

func (t *pgTx) TableForUpdate(ctx context.Context, id int64) (domain.Table, error) {
	var tb domain.Table
	err := t.tx.QueryRow(ctx, `
SELECT id, number, capacity, status FROM tables WHERE id=$1 FOR UPDATE
`, id).Scan(&tb.ID, &tb.Number, &tb.Capacity, &tb.Status)
	if err != nil {
		return domain.Table{}, notFoundOr(err, "table")
	}
	return tb, nil
}

func (t *pgTx) SetTableStatus(ctx context.Context, id int64, status domain.TableStatus) error {
	_, err := t.tx.Exec(ctx, `UPDATE tables SET status=$2 WHERE id=$1`, id, status)
	return err
}
