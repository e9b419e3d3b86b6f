package engine

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"barpos/internal/domain"
	"barpos/internal/repository"
)

// memStore is an in-memory repository.TxRunner. InTx snapshots the maps and
// restores them when the closure fails, so the all-or-nothing contract holds
// in tests too.
type memStore struct {
	products map[int64]domain.Product
	tables   map[int64]domain.Table
	orders   map[int64]domain.Order
	lines    map[int64]domain.OrderLine
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		products: map[int64]domain.Product{},
		tables:   map[int64]domain.Table{},
		orders:   map[int64]domain.Order{},
		lines:    map[int64]domain.OrderLine{},
	}
}

func (s *memStore) addProduct(name string, price int64, stock int) int64 {
	s.nextID++
	s.products[s.nextID] = domain.Product{
		ID: s.nextID, Name: name, Price: decimal.NewFromInt(price), Category: "General", Stock: stock,
	}
	return s.nextID
}

func (s *memStore) addTable(number int) int64 {
	s.nextID++
	s.tables[s.nextID] = domain.Table{ID: s.nextID, Number: number, Capacity: 4, Status: domain.TableEmpty}
	return s.nextID
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	cp.nextID = s.nextID
	for k, v := range s.products {
		cp.products[k] = v
	}
	for k, v := range s.tables {
		cp.tables[k] = v
	}
	for k, v := range s.orders {
		cp.orders[k] = v
	}
	for k, v := range s.lines {
		cp.lines[k] = v
	}
	return cp
}

func (s *memStore) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	snap := s.snapshot()
	if err := fn(&memTx{s: s}); err != nil {
		*s = *snap
		return err
	}
	return nil
}

type memTx struct{ s *memStore }

func (t *memTx) ProductForUpdate(_ context.Context, id int64) (domain.Product, error) {
	p, ok := t.s.products[id]
	if !ok {
		return domain.Product{}, domain.NotFound("product")
	}
	return p, nil
}

func (t *memTx) SetProductStock(_ context.Context, id int64, stock int) error {
	p := t.s.products[id]
	p.Stock = stock
	t.s.products[id] = p
	return nil
}

func (t *memTx) OrderForUpdate(_ context.Context, id int64) (domain.Order, error) {
	o, ok := t.s.orders[id]
	if !ok {
		return domain.Order{}, domain.NotFound("order")
	}
	return o, nil
}

func (t *memTx) OpenOrderForTable(_ context.Context, tableID int64) (domain.Order, bool, error) {
	for _, o := range t.s.orders {
		if o.TableID != nil && *o.TableID == tableID && o.Status == domain.StatusActive {
			return o, true, nil
		}
	}
	return domain.Order{}, false, nil
}

func (t *memTx) InsertOrder(_ context.Context, o *domain.Order) error {
	t.s.nextID++
	o.ID = t.s.nextID
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	t.s.orders[o.ID] = *o
	return nil
}

func (t *memTx) SetOrderTotal(_ context.Context, orderID int64, total decimal.Decimal) error {
	o := t.s.orders[orderID]
	o.TotalAmount = total
	o.UpdatedAt = time.Now().UTC()
	t.s.orders[orderID] = o
	return nil
}

func (t *memTx) SetOrderStatus(_ context.Context, orderID int64, status domain.OrderStatus) error {
	o := t.s.orders[orderID]
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	t.s.orders[orderID] = o
	return nil
}

func (t *memTx) SetOrderPaid(_ context.Context, orderID int64, method string) error {
	o := t.s.orders[orderID]
	o.Status = domain.StatusPaid
	o.PaymentMethod = method
	o.UpdatedAt = time.Now().UTC()
	t.s.orders[orderID] = o
	return nil
}

func (t *memTx) SetOrderCustomer(_ context.Context, orderID int64, name string) error {
	o := t.s.orders[orderID]
	o.CustomerName = name
	o.UpdatedAt = time.Now().UTC()
	t.s.orders[orderID] = o
	return nil
}

func (t *memTx) DeleteOrder(_ context.Context, orderID int64) error {
	delete(t.s.orders, orderID)
	for id, l := range t.s.lines {
		if l.OrderID == orderID {
			delete(t.s.lines, id)
		}
	}
	return nil
}

func (t *memTx) OrderLines(_ context.Context, orderID int64) ([]domain.OrderLine, error) {
	var out []domain.OrderLine
	for _, l := range t.s.lines {
		if l.OrderID == orderID {
			l.ProductName = t.s.products[l.ProductID].Name
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) LineForUpdate(_ context.Context, lineID int64) (domain.OrderLine, error) {
	l, ok := t.s.lines[lineID]
	if !ok {
		return domain.OrderLine{}, domain.NotFound("order item")
	}
	return l, nil
}

func (t *memTx) FindLine(_ context.Context, orderID, productID int64) (domain.OrderLine, bool, error) {
	for _, l := range t.s.lines {
		if l.OrderID == orderID && l.ProductID == productID {
			return l, true, nil
		}
	}
	return domain.OrderLine{}, false, nil
}

func (t *memTx) InsertLine(_ context.Context, l *domain.OrderLine) error {
	t.s.nextID++
	l.ID = t.s.nextID
	t.s.lines[l.ID] = *l
	return nil
}

func (t *memTx) UpdateLine(_ context.Context, lineID int64, quantity int, subtotal decimal.Decimal) error {
	l := t.s.lines[lineID]
	l.Quantity = quantity
	l.Subtotal = subtotal
	t.s.lines[lineID] = l
	return nil
}

func (t *memTx) DeleteLine(_ context.Context, lineID int64) error {
	delete(t.s.lines, lineID)
	return nil
}

func (t *memTx) TableForUpdate(_ context.Context, id int64) (domain.Table, error) {
	tb, ok := t.s.tables[id]
	if !ok {
		return domain.Table{}, domain.NotFound("table")
	}
	return tb, nil
}

func (t *memTx) SetTableStatus(_ context.Context, id int64, status domain.TableStatus) error {
	tb := t.s.tables[id]
	tb.Status = status
	t.s.tables[id] = tb
	return nil
}
