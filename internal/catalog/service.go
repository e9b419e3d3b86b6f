// Package catalog manages the product list: CRUD with validation, search,
// pagination, category derivation and the menu grouping used by staff.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"barpos/internal/domain"
	"barpos/internal/repository"
)

const DefaultPerPage = 10

// PreferredCategories is the house display order for the menu; categories
// not listed here are appended alphabetically.
var PreferredCategories = []string{
	"Sandwiches", "Hamburguesas", "Pizzas", "Milanesas al Plato",
	"Tostados & Especiales", "Papas Fritas", "Agregados",
	"Bebidas con Alcohol", "Bebidas sin Alcohol", "Postre", "Otro",
}

type Service struct {
	repo repository.ProductsRepoInterface
}

func NewService(repo repository.ProductsRepoInterface) *Service { return &Service{repo: repo} }

type ListRequest struct {
	SearchName string
	Category   string
	Page       int
}

type Page struct {
	Products []domain.Product
	Total    int
	Page     int
	PerPage  int
}

func (s *Service) List(ctx context.Context, req ListRequest) (Page, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	items, total, err := s.repo.List(ctx, repository.ProductFilter{
		Name:     strings.TrimSpace(req.SearchName),
		Category: strings.TrimSpace(req.Category),
		Limit:    DefaultPerPage,
		Offset:   (req.Page - 1) * DefaultPerPage,
	})
	if err != nil {
		return Page{}, err
	}
	return Page{Products: items, Total: total, Page: req.Page, PerPage: DefaultPerPage}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

type ProductInput struct {
	Name     string
	Price    decimal.Decimal
	Category string
	Stock    int
}

func (in *ProductInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return domain.Validationf("product name is required")
	}
	if in.Category == "" {
		return domain.Validationf("product category is required")
	}
	if in.Price.IsNegative() {
		return domain.Validationf("price cannot be negative")
	}
	if in.Stock < 0 {
		return domain.Validationf("stock cannot be negative")
	}
	return nil
}

func (s *Service) Add(ctx context.Context, in ProductInput) (domain.Product, error) {
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{Name: in.Name, Price: in.Price, Category: in.Category, Stock: in.Stock}
	if err := s.repo.Insert(ctx, &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *Service) Edit(ctx context.Context, id int64, in ProductInput) (domain.Product, error) {
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{ID: id, Name: in.Name, Price: in.Price, Category: in.Category, Stock: in.Stock}
	if err := s.repo.Update(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Delete refuses while any order line references the product, so sale
// history keeps its joins.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	refs, err := s.repo.OrderLineRefs(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.Preconditionf("product is referenced by existing orders and cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// MenuSection is one category block of the staff menu.
type MenuSection struct {
	Category string
	Products []domain.Product
}

// Menu returns in-stock products grouped by category in the preferred
// display order.
func (s *Service) Menu(ctx context.Context) ([]MenuSection, error) {
	products, err := s.repo.ListInStock(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(products, PreferredCategories), nil
}

// GroupByCategory buckets products by category, emitting preferred
// categories first (in order) and the rest alphabetically. Empty buckets
// are omitted.
func GroupByCategory(products []domain.Product, preferred []string) []MenuSection {
	byCat := make(map[string][]domain.Product)
	for _, p := range products {
		byCat[p.Category] = append(byCat[p.Category], p)
	}

	var out []MenuSection
	seen := make(map[string]bool)
	for _, cat := range preferred {
		if prods := byCat[cat]; len(prods) > 0 {
			out = append(out, MenuSection{Category: cat, Products: prods})
		}
		seen[cat] = true
	}

	var rest []string
	for cat := range byCat {
		if !seen[cat] {
			rest = append(rest, cat)
		}
	}
	sort.Strings(rest)
	for _, cat := range rest {
		out = append(out, MenuSection{Category: cat, Products: byCat[cat]})
	}
	return out
}
