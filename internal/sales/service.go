// Package sales exposes the reporting reads: the paid/annulled sales log
// and the admin dashboard aggregates.
package sales

import (
	"context"
	"time"

	"barpos/internal/domain"
	"barpos/internal/repository"
)

const DefaultPerPage = 10

type Service struct {
	repo repository.OrdersRepoInterface
}

func NewService(repo repository.OrdersRepoInterface) *Service { return &Service{repo: repo} }

type LogRequest struct {
	Date string // optional YYYY-MM-DD
	Page int
}

type LogPage struct {
	Orders  []domain.Order
	Totals  repository.SalesTotals
	Total   int
	Page    int
	PerPage int
}

func (s *Service) Log(ctx context.Context, req LogRequest) (LogPage, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	var date *time.Time
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return LogPage{}, domain.Validationf("invalid date %q, expected YYYY-MM-DD", req.Date)
		}
		date = &d
	}

	orders, total, err := s.repo.SalesLog(ctx, repository.SalesFilter{
		Date:   date,
		Limit:  DefaultPerPage,
		Offset: (req.Page - 1) * DefaultPerPage,
	})
	if err != nil {
		return LogPage{}, err
	}
	totals, err := s.repo.SalesTotals(ctx, date)
	if err != nil {
		return LogPage{}, err
	}
	return LogPage{Orders: orders, Totals: totals, Total: total, Page: req.Page, PerPage: DefaultPerPage}, nil
}

func (s *Service) ListTakeaway(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListTakeaway(ctx)
}

func (s *Service) Detail(ctx context.Context, orderID int64) (domain.Order, error) {
	return s.repo.GetWithLines(ctx, orderID)
}

func (s *Service) Dashboard(ctx context.Context) (repository.DashboardStats, error) {
	today := time.Now().UTC()
	return s.repo.Dashboard(ctx, today)
}
