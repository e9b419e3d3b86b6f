// Package tables manages the physical table registry.
package tables

import (
	"context"

	"barpos/internal/domain"
	"barpos/internal/repository"
)

const DefaultPerPage = 10

type Service struct {
	repo repository.TablesRepoInterface
}

func NewService(repo repository.TablesRepoInterface) *Service { return &Service{repo: repo} }

type Page struct {
	Tables  []domain.Table
	Total   int
	Page    int
	PerPage int
}

func (s *Service) List(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	items, total, err := s.repo.List(ctx, DefaultPerPage, (page-1)*DefaultPerPage)
	if err != nil {
		return Page{}, err
	}
	return Page{Tables: items, Total: total, Page: page, PerPage: DefaultPerPage}, nil
}

// Floor is the waiter view: every table with its open-order total.
func (s *Service) Floor(ctx context.Context) ([]repository.TableWithTotal, error) {
	return s.repo.ListWithOpenTotals(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Table, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Add(ctx context.Context, number, capacity int) (domain.Table, error) {
	if number <= 0 {
		return domain.Table{}, domain.Validationf("table number must be positive")
	}
	if capacity <= 0 {
		return domain.Table{}, domain.Validationf("table capacity must be positive")
	}
	t := domain.Table{Number: number, Capacity: capacity, Status: domain.TableEmpty}
	if err := s.repo.Insert(ctx, &t); err != nil {
		return domain.Table{}, err
	}
	return t, nil
}

func (s *Service) Edit(ctx context.Context, id int64, number, capacity int) (domain.Table, error) {
	if number <= 0 || capacity <= 0 {
		return domain.Table{}, domain.Validationf("table number and capacity must be positive")
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Table{}, err
	}
	t.Number = number
	t.Capacity = capacity
	if err := s.repo.Update(ctx, t); err != nil {
		return domain.Table{}, err
	}
	return t, nil
}

// Delete refuses while the table is occupied or has any historical orders.
func (s *Service) Delete(ctx context.Context, id int64) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.Status != domain.TableEmpty {
		return domain.Preconditionf("table %d is occupied; liberate it first", t.Number)
	}
	has, err := s.repo.HasOrders(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return domain.Preconditionf("table %d has historical orders and cannot be deleted", t.Number)
	}
	return s.repo.Delete(ctx, id)
}
