// Package engine holds the order/stock consistency rules: every operation
// runs in a single transaction, takes row locks before checking its
// preconditions, and keeps product stock, line subtotals, order totals and
// table occupancy mutually consistent.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"barpos/internal/common/logger"
	"barpos/internal/domain"
	"barpos/internal/repository"
)

// Publisher delivers lifecycle events after a successful commit.
type Publisher interface {
	Publish(ctx context.Context, ev domain.OrderEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.OrderEvent) error { return nil }

type Engine struct {
	store  repository.TxRunner
	events Publisher
	log    *logger.Logger
}

func New(store repository.TxRunner, events Publisher, log *logger.Logger) *Engine {
	if events == nil {
		events = NopPublisher{}
	}
	return &Engine{store: store, events: events, log: log}
}

// AddItemResult reports the state the caller renders after adding an item.
type AddItemResult struct {
	Line         domain.OrderLine
	OrderTotal   decimal.Decimal
	ProductStock int
}

// RemoveItemResult mirrors AddItemResult for removals.
type RemoveItemResult struct {
	OrderTotal   decimal.Decimal
	ProductStock int
}

// StartDineInOrder opens an active order on an empty table and occupies it.
func (e *Engine) StartDineInOrder(ctx context.Context, tableID int64) (domain.Order, error) {
	var (
		order domain.Order
		table domain.Table
	)
	err := e.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		table, err = tx.TableForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		if table.Status != domain.TableEmpty {
			return domain.Preconditionf("table %d is already occupied", table.Number)
		}
		order = domain.Order{
			Type:        domain.OrderDineIn,
			Status:      domain.StatusActive,
			TableID:     &tableID,
			TotalAmount: decimal.Zero,
		}
		if err := tx.InsertOrder(ctx, &order); err != nil {
			return err
		}
		return tx.SetTableStatus(ctx, tableID, domain.TableOccupied)
	})
	if err != nil {
		return domain.Order{}, err
	}
	e.publish(ctx, domain.OrderEvent{
		Type: domain.EventOrderStarted, OrderID: order.ID, OrderType: order.Type,
		TableNumber: &table.Number, TotalAmount: decimal.Zero,
	})
	return order, nil
}

// StartTakeawayOrder opens a pending order for a named customer.
func (e *Engine) StartTakeawayOrder(ctx context.Context, customerName string) (domain.Order, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return domain.Order{}, domain.Validationf("customer name is required")
	}
	var order domain.Order
	err := e.store.InTx(ctx, func(tx repository.Tx) error {
		order = domain.Order{
			Type:         domain.OrderTakeaway,
			Status:       domain.StatusPending,
			CustomerName: customerName,
			TotalAmount:  decimal.Zero,
		}
		return tx.InsertOrder(ctx, &order)
	})
	if err != nil {
		return domain.Order{}, err
	}
	e.publish(ctx, domain.OrderEvent{
		Type: domain.EventOrderStarted, OrderID: order.ID, OrderType: order.Type,
		CustomerName: customerName, TotalAmount: decimal.Zero,
	})
	return order, nil
}

// AddItem adds quantity of a product to an open order: increments the
// existing line or creates one at the current price, decrements stock and
// recomputes the order total.
func (e *Engine) AddItem(ctx context.Context, orderID, productID int64, quantity int) (AddItemResult, error) {
	if quantity <= 0 {
		return AddItemResult{}, domain.Validationf("quantity must be positive")
	}
	var (
		res   AddItemResult
		order domain.Order
		prod  domain.Product
	)
	err := e.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.Open() {
			return domain.Preconditionf("order #%d is not open for changes", order.ID)
		}
		prod, err = tx.ProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if prod.Stock < quantity {
			return domain.Preconditionf("insufficient stock for %s: %d left", prod.Name, prod.Stock)
		}

		line, exists, err := tx.FindLine(ctx, orderID, productID)
		if err != nil {
			return err
		}
		if exists {
			line.Quantity += quantity
			line.Subtotal = domain.LineSubtotal(line.Quantity, line.UnitPrice)
			if err := tx.UpdateLine(ctx, line.ID, line.Quantity, line.Subtotal); err != nil {
				return err
			}
		} else {
			line = domain.OrderLine{
				OrderID:   orderID,
				ProductID: productID,
				Quantity:  quantity,
				UnitPrice: prod.Price,
			}
			line.Subtotal = domain.LineSubtotal(line.Quantity, line.UnitPrice)
			if err := tx.InsertLine(ctx, &line); err != nil {
				return err
			}
		}
		line.ProductName = prod.Name

		if err := tx.SetProductStock(ctx, productID, prod.Stock-quantity); err != nil {
			return err
		}
		total, err := e.recomputeTotal(ctx, tx, orderID)
		if err != nil {
			return err
		}
		res = AddItemResult{Line: line, OrderTotal: total, ProductStock: prod.Stock - quantity}
		return nil
	})
	if err != nil {
		return AddItemResult{}, err
	}
	e.publish(ctx, domain.OrderEvent{
		Type: domain.EventItemAdded, OrderID: orderID, OrderType: order.Type,
		ProductName: prod.Name, Quantity: quantity, TotalAmount: res.OrderTotal,
	})
	return res, nil
}

// RemoveItem deletes a line from an open order and returns its quantity to
// stock.
func (e *Engine) RemoveItem(ctx context.Context, lineID int64) (RemoveItemResult, error) {
	var (
		res   RemoveItemResult
		order domain.Order
		prod  domain.Product
		line  domain.OrderLine
	)
	err := e.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		line, err = tx.LineForUpdate(ctx, lineID)
		if err != nil {
			return err
		}
		order, err = tx.OrderForUpdate(ctx, line.OrderID)
		if err != nil {
			return err
		}
		if !order.Status.Open() {
			return domain.Preconditionf("cannot remove items from an order that is not open")
		}
		prod, err = tx.ProductForUpdate(ctx, line.ProductID)
		if err != nil {
			return err
		}
		if err := tx.SetProductStock(ctx, prod.ID, prod.Stock+line.Quantity); err != nil {
			return err
		}
		if err := tx.DeleteLine(ctx, lineID); err != nil {
			return err
		}
		total, err := e.recomputeTotal(ctx, tx, line.OrderID)
		if err != nil {
			return err
		}
		res = RemoveItemResult{OrderTotal: total, ProductStock: prod.Stock + line.Quantity}
		return nil
	})
	if err != nil {
		return RemoveItemResult{}, err
	}
	e.publish(ctx, domain.OrderEvent{
		Type: domain.EventItemRemoved, OrderID: order.ID, OrderType: order.Type,
		ProductName: prod.Name, Quantity: line.Quantity, TotalAmount: res.OrderTotal,
	})
	return res, nil
}

// MarkPaid finalizes an open order with at least one line. A dine-in table
// is released immediately.
func (e *Engine) MarkPaid(ctx context.Context, orderID int64, paymentMethod string) error {
	if !domain.ValidPaymentMethod(paymentMethod) {
		return domain.Validationf("unrecognized payment method %q", paymentMethod)
	}
	var (
		order   domain.Order
		tableNo *int
		total   decimal.Decimal
	)
	err := e.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.Open() {
			return domain.Preconditionf("order #%d cannot be marked as paid", order.ID)
		}
		lines, err := tx.OrderLines(ctx, orderID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.Preconditionf("order #%d has no items", order.ID)
		}
		total = domain.OrderTotal(lines)
		if err := tx.SetOrderPaid(ctx, orderID, paymentMethod); err != nil {
			return err
		}
		if order.TableID != nil {
			table, err := tx.TableForUpdate(ctx, *order.TableID)
			if err != nil {
				return err
			}
			tableNo = &table.Number
			if err := tx.SetTableStatus(ctx, table.ID, domain.TableEmpty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.publish(ctx, domain.OrderEvent{
		Type: domain.EventOrderPaid, OrderID: orderID, OrderType: order.Type,
		TableNumber: tableNo, CustomerName: order.CustomerName,
		TotalAmount: total, PaymentMethod: paymentMethod,
	})
	return nil
}

// CancelOrder aborts an open order, returning every line's quantity to stock
// and releasing the table for dine-in.
func (e *Engine) CancelOrder(ctx context.Context, orderID int64) error {
	var order domain.Order
	err := e.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.Open() {
			return domain.Preconditionf("order #%d is already finalized", order.ID)
		}
		if err := e.restoreStock(ctx, tx, orderID); err != nil {
			return err
		}
		if err := tx.SetOrderStatus(ctx, orderID, domain.StatusCancelled); err != nil {
			return err
		}
		if order.TableID != nil {
			table, err := tx.TableForUpdate(ctx, *order.TableID)
			if err != nil {
				return err
			}
			if table.Status == domain.TableOccupied {
				if err := tx.SetTableStatus(ctx, table.ID, domain.TableEmpty); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.publish(ctx, domain.OrderEvent{
		Type: domain.EventOrderCancelled, OrderID: orderID, OrderType: order.Type,
		CustomerName: order.CustomerName, TotalAmount: order.TotalAmount,
	})
	return nil
}

// AnnulSale reverses a paid sale: stock is restored and the order is marked
// annulled. Only valid from the paid state.
func (e *Engine) AnnulSale(ctx context.Context, orderID int64) error {
	var order domain.Order
	err := e.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != domain.StatusPaid {
			return domain.Preconditionf("only paid sales can be annulled")
		}
		if err := e.restoreStock(ctx, tx, orderID); err != nil {
			return err
		}
		return tx.SetOrderStatus(ctx, orderID, domain.StatusAnnulled)
	})
	if err != nil {
		return err
	}
	e.publish(ctx, domain.OrderEvent{
		Type: domain.EventSaleAnnulled, OrderID: orderID, OrderType: order.Type,
		CustomerName: order.CustomerName, TotalAmount: order.TotalAmount,
	})
	return nil
}

// LiberateTable empties a table. It refuses while the table's open order
// still has lines; an empty open order is deleted.
func (e *Engine) LiberateTable(ctx context.Context, tableID int64) error {
	var table domain.Table
	err := e.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		table, err = tx.TableForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		open, exists, err := tx.OpenOrderForTable(ctx, tableID)
		if err != nil {
			return err
		}
		if exists {
			lines, err := tx.OrderLines(ctx, open.ID)
			if err != nil {
				return err
			}
			if len(lines) > 0 {
				return domain.Preconditionf("table %d has an open order with items; cancel or collect it first", table.Number)
			}
			if err := tx.DeleteOrder(ctx, open.ID); err != nil {
				return err
			}
		}
		return tx.SetTableStatus(ctx, tableID, domain.TableEmpty)
	})
	if err != nil {
		return err
	}
	e.publish(ctx, domain.OrderEvent{
		Type: domain.EventTableLiberated, TableNumber: &table.Number, TotalAmount: decimal.Zero,
	})
	return nil
}

// UpdateTakeawayCustomer renames the customer on a pending takeaway order.
func (e *Engine) UpdateTakeawayCustomer(ctx context.Context, orderID int64, customerName string) error {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return domain.Validationf("customer name cannot be empty")
	}
	return e.store.InTx(ctx, func(tx repository.Tx) error {
		order, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Type != domain.OrderTakeaway {
			return domain.NotFound("takeaway order")
		}
		if order.Status != domain.StatusPending {
			return domain.Preconditionf("only pending orders can be edited")
		}
		return tx.SetOrderCustomer(ctx, orderID, customerName)
	})
}

// DeleteProcessedOrder removes a finalized takeaway order from the visible
// history. Stock is untouched; lines go with the order.
func (e *Engine) DeleteProcessedOrder(ctx context.Context, orderID int64) error {
	return e.store.InTx(ctx, func(tx repository.Tx) error {
		order, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Type != domain.OrderTakeaway {
			return domain.NotFound("takeaway order")
		}
		if !order.Status.Processed() {
			return domain.Preconditionf("only processed orders can be deleted")
		}
		return tx.DeleteOrder(ctx, orderID)
	})
}

func (e *Engine) recomputeTotal(ctx context.Context, tx repository.Tx, orderID int64) (decimal.Decimal, error) {
	lines, err := tx.OrderLines(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	total := domain.OrderTotal(lines)
	return total, tx.SetOrderTotal(ctx, orderID, total)
}

func (e *Engine) restoreStock(ctx context.Context, tx repository.Tx, orderID int64) error {
	lines, err := tx.OrderLines(ctx, orderID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		prod, err := tx.ProductForUpdate(ctx, l.ProductID)
		if err != nil {
			return err
		}
		if err := tx.SetProductStock(ctx, prod.ID, prod.Stock+l.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// publish is best-effort: a broker hiccup must not undo a committed sale.
func (e *Engine) publish(ctx context.Context, ev domain.OrderEvent) {
	ev.OccurredAt = time.Now().UTC()
	if err := e.events.Publish(ctx, ev); err != nil && e.log != nil {
		e.log.Error("event_publish_failed", err, map[string]any{"event": ev.Type, "order_id": ev.OrderID})
	}
}
