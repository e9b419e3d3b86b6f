package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"barpos/internal/domain"
)

// Tx is the row-level view the consistency engine mutates inside one
// transaction. All *ForUpdate reads take row locks so preconditions stay
// valid until commit.
type Tx interface {
	ProductForUpdate(ctx context.Context, id int64) (domain.Product, error)
	SetProductStock(ctx context.Context, id int64, stock int) error

	OrderForUpdate(ctx context.Context, id int64) (domain.Order, error)
	OpenOrderForTable(ctx context.Context, tableID int64) (domain.Order, bool, error)
	InsertOrder(ctx context.Context, o *domain.Order) error
	SetOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
	SetOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
	SetOrderPaid(ctx context.Context, orderID int64, method string) error
	SetOrderCustomer(ctx context.Context, orderID int64, name string) error
	DeleteOrder(ctx context.Context, orderID int64) error

	OrderLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error)
	LineForUpdate(ctx context.Context, lineID int64) (domain.OrderLine, error)
	FindLine(ctx context.Context, orderID, productID int64) (domain.OrderLine, bool, error)
	InsertLine(ctx context.Context, l *domain.OrderLine) error
	UpdateLine(ctx context.Context, lineID int64, quantity int, subtotal decimal.Decimal) error
	DeleteLine(ctx context.Context, lineID int64) error

	TableForUpdate(ctx context.Context, id int64) (domain.Table, error)
	SetTableStatus(ctx context.Context, id int64, status domain.TableStatus) error
}

// TxRunner runs fn inside one committed-or-rolled-back transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

func (s *Store) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// mapPgError translates unique violations into the domain taxonomy.
func mapPgError(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.Integrityf("%s already exists", what)
	}
	return err
}

func notFoundOr(err error, entity string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound(entity)
	}
	return err
}
