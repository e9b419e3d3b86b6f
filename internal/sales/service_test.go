package sales

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barpos/internal/domain"
	"barpos/internal/repository"
)

type fakeOrdersRepo struct {
	orders     []domain.Order
	lastFilter repository.SalesFilter
}

func (f *fakeOrdersRepo) GetWithLines(_ context.Context, id int64) (domain.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, domain.NotFound("order")
}

func (f *fakeOrdersRepo) ListTakeaway(_ context.Context) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.Type == domain.OrderTakeaway {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrdersRepo) SalesLog(_ context.Context, fl repository.SalesFilter) ([]domain.Order, int, error) {
	f.lastFilter = fl
	var match []domain.Order
	for _, o := range f.orders {
		if o.Status != domain.StatusPaid && o.Status != domain.StatusAnnulled {
			continue
		}
		if fl.Date != nil && !sameDay(o.UpdatedAt, *fl.Date) {
			continue
		}
		match = append(match, o)
	}
	total := len(match)
	if fl.Offset >= len(match) {
		return nil, total, nil
	}
	match = match[fl.Offset:]
	if fl.Limit < len(match) {
		match = match[:fl.Limit]
	}
	return match, total, nil
}

func (f *fakeOrdersRepo) SalesTotals(_ context.Context, date *time.Time) (repository.SalesTotals, error) {
	t := repository.SalesTotals{Total: decimal.Zero, DineIn: decimal.Zero, Takeaway: decimal.Zero}
	for _, o := range f.orders {
		if o.Status != domain.StatusPaid {
			continue
		}
		if date != nil && !sameDay(o.UpdatedAt, *date) {
			continue
		}
		t.Total = t.Total.Add(o.TotalAmount)
		if o.Type == domain.OrderDineIn {
			t.DineIn = t.DineIn.Add(o.TotalAmount)
		} else {
			t.Takeaway = t.Takeaway.Add(o.TotalAmount)
		}
	}
	return t, nil
}

func (f *fakeOrdersRepo) Dashboard(_ context.Context, today time.Time) (repository.DashboardStats, error) {
	totals, _ := f.SalesTotals(context.Background(), &today)
	return repository.DashboardStats{SalesToday: totals}, nil
}

func sameDay(a, b time.Time) bool {
	return a.UTC().Format("2006-01-02") == b.UTC().Format("2006-01-02")
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func fixtureOrders() []domain.Order {
	return []domain.Order{
		{ID: 1, Type: domain.OrderDineIn, Status: domain.StatusPaid, TotalAmount: decimal.NewFromInt(14000), UpdatedAt: day("2026-08-30")},
		{ID: 2, Type: domain.OrderTakeaway, Status: domain.StatusPaid, TotalAmount: decimal.NewFromInt(5000), UpdatedAt: day("2026-08-31")},
		{ID: 3, Type: domain.OrderDineIn, Status: domain.StatusAnnulled, TotalAmount: decimal.NewFromInt(9000), UpdatedAt: day("2026-08-31")},
		{ID: 4, Type: domain.OrderDineIn, Status: domain.StatusActive, TotalAmount: decimal.NewFromInt(777), UpdatedAt: day("2026-08-31")},
	}
}

func TestLogFiltersByDate(t *testing.T) {
	repo := &fakeOrdersRepo{orders: fixtureOrders()}
	svc := NewService(repo)

	page, err := svc.Log(context.Background(), LogRequest{Date: "2026-08-31", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total, "paid and annulled of that day, never open orders")
	assert.True(t, page.Totals.Total.Equal(decimal.NewFromInt(5000)), "annulled sales do not count toward totals")
	assert.True(t, page.Totals.Takeaway.Equal(decimal.NewFromInt(5000)))
	assert.True(t, page.Totals.DineIn.IsZero())
}

func TestLogWithoutDateAggregatesEverything(t *testing.T) {
	repo := &fakeOrdersRepo{orders: fixtureOrders()}
	svc := NewService(repo)

	page, err := svc.Log(context.Background(), LogRequest{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.True(t, page.Totals.Total.Equal(decimal.NewFromInt(19000)))
}

func TestLogRejectsBadDate(t *testing.T) {
	svc := NewService(&fakeOrdersRepo{})
	_, err := svc.Log(context.Background(), LogRequest{Date: "31/08/2026"})
	assert.True(t, domain.IsValidation(err))
}

func TestLogPaginates(t *testing.T) {
	repo := &fakeOrdersRepo{orders: fixtureOrders()}
	svc := NewService(repo)

	_, err := svc.Log(context.Background(), LogRequest{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, DefaultPerPage, repo.lastFilter.Limit)
	assert.Equal(t, DefaultPerPage, repo.lastFilter.Offset)
}
