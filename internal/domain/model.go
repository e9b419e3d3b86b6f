package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderDineIn   OrderType = "dine_in"
	OrderTakeaway OrderType = "takeaway"
)

type OrderStatus string

const (
	StatusActive    OrderStatus = "active"  // open dine-in order
	StatusPending   OrderStatus = "pending" // open takeaway order
	StatusPaid      OrderStatus = "paid"
	StatusCancelled OrderStatus = "cancelled"
	StatusAnnulled  OrderStatus = "annulled"
)

// Open reports whether the order still accepts item mutations.
func (s OrderStatus) Open() bool { return s == StatusActive || s == StatusPending }

// Processed reports whether the order has left the open part of the lifecycle.
func (s OrderStatus) Processed() bool {
	return s == StatusPaid || s == StatusCancelled || s == StatusAnnulled
}

type TableStatus string

const (
	TableEmpty    TableStatus = "empty"
	TableOccupied TableStatus = "occupied"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// PaymentMethods are the recognized values for Order.PaymentMethod.
var PaymentMethods = []string{"Efectivo", "Tarjeta", "Transferencia"}

func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

type Product struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	Category string
	Stock    int
}

type Table struct {
	ID       int64
	Number   int
	Capacity int
	Status   TableStatus
}

type Order struct {
	ID            int64
	Type          OrderType
	Status        OrderStatus
	TableID       *int64 // dine-in only
	CustomerName  string // takeaway only
	TotalAmount   decimal.Decimal
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Lines         []OrderLine
}

type OrderLine struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string // denormalized for views; not stored
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// LineSubtotal is the single place subtotal arithmetic lives.
func LineSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// OrderTotal sums the current line subtotals.
func OrderTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
}
