package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lifecycle event types double as routing keys on the events exchange.
const (
	EventOrderStarted   = "order.started"
	EventItemAdded      = "order.item_added"
	EventItemRemoved    = "order.item_removed"
	EventOrderPaid      = "order.paid"
	EventOrderCancelled = "order.cancelled"
	EventSaleAnnulled   = "sale.annulled"
	EventTableLiberated = "table.liberated"
)

type OrderEvent struct {
	Type          string          `json:"type"`
	OrderID       int64           `json:"order_id,omitempty"`
	OrderType     OrderType       `json:"order_type,omitempty"`
	TableNumber   *int            `json:"table_number,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	ProductName   string          `json:"product_name,omitempty"`
	Quantity      int             `json:"quantity,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
