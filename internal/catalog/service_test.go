package catalog

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barpos/internal/domain"
	"barpos/internal/repository"
)

type fakeProductsRepo struct {
	products map[int64]domain.Product
	refs     map[int64]int
	nextID   int64
}

func newFakeProductsRepo() *fakeProductsRepo {
	return &fakeProductsRepo{products: map[int64]domain.Product{}, refs: map[int64]int{}}
}

func (f *fakeProductsRepo) sorted() []domain.Product {
	var out []domain.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (f *fakeProductsRepo) List(_ context.Context, fl repository.ProductFilter) ([]domain.Product, int, error) {
	var match []domain.Product
	for _, p := range f.sorted() {
		if fl.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(fl.Name)) {
			continue
		}
		if fl.Category != "" && p.Category != fl.Category {
			continue
		}
		match = append(match, p)
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

func (f *fakeProductsRepo) ListInStock(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.sorted() {
		if p.Stock > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductsRepo) GetByID(_ context.Context, id int64) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, domain.NotFound("product")
	}
	return p, nil
}

func (f *fakeProductsRepo) Insert(_ context.Context, p *domain.Product) error {
	for _, ex := range f.products {
		if ex.Name == p.Name {
			return domain.Integrityf("product name already exists")
		}
	}
	f.nextID++
	p.ID = f.nextID
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductsRepo) Update(_ context.Context, p domain.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return domain.NotFound("product")
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductsRepo) Delete(_ context.Context, id int64) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductsRepo) Categories(_ context.Context) ([]string, error) {
	set := map[string]bool{}
	for _, p := range f.products {
		set[p.Category] = true
	}
	var out []string
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeProductsRepo) OrderLineRefs(_ context.Context, id int64) (int, error) {
	return f.refs[id], nil
}

func price(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestAddProductValidation(t *testing.T) {
	svc := NewService(newFakeProductsRepo())

	cases := []struct {
		name string
		in   ProductInput
	}{
		{"empty name", ProductInput{Name: " ", Price: price(10), Category: "Pizzas"}},
		{"empty category", ProductInput{Name: "Napolitana", Price: price(10)}},
		{"negative price", ProductInput{Name: "Napolitana", Price: price(-1), Category: "Pizzas"}},
		{"negative stock", ProductInput{Name: "Napolitana", Price: price(10), Category: "Pizzas", Stock: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), tc.in)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestAddProductDuplicateName(t *testing.T) {
	svc := NewService(newFakeProductsRepo())
	_, err := svc.Add(context.Background(), ProductInput{Name: "Muzzarella", Price: price(7000), Category: "Pizzas", Stock: 10})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), ProductInput{Name: "Muzzarella", Price: price(8000), Category: "Pizzas", Stock: 5})
	assert.True(t, domain.IsIntegrity(err))
}

func TestDeleteProductGuardedByOrderRefs(t *testing.T) {
	repo := newFakeProductsRepo()
	svc := NewService(repo)
	p, err := svc.Add(context.Background(), ProductInput{Name: "Fugazzeta", Price: price(8000), Category: "Pizzas", Stock: 3})
	require.NoError(t, err)

	repo.refs[p.ID] = 2
	err = svc.Delete(context.Background(), p.ID)
	assert.True(t, domain.IsPrecondition(err))

	repo.refs[p.ID] = 0
	require.NoError(t, svc.Delete(context.Background(), p.ID))

	err = svc.Delete(context.Background(), p.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestListFiltersAndPaginates(t *testing.T) {
	repo := newFakeProductsRepo()
	svc := NewService(repo)
	for i := 0; i < 25; i++ {
		_, err := svc.Add(context.Background(), ProductInput{
			Name: "Cerveza " + string(rune('A'+i)), Price: price(2500), Category: "Bebidas con Alcohol", Stock: 10,
		})
		require.NoError(t, err)
	}

	page, err := svc.List(context.Background(), ListRequest{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Products, 5)

	page, err = svc.List(context.Background(), ListRequest{SearchName: "cerveza a"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestGroupByCategoryPrefersHouseOrder(t *testing.T) {
	products := []domain.Product{
		{Name: "Agua", Category: "Bebidas sin Alcohol", Stock: 5},
		{Name: "Muzzarella", Category: "Pizzas", Stock: 5},
		{Name: "Alfajor", Category: "Zzz Especial", Stock: 5},
		{Name: "Completo", Category: "Sandwiches", Stock: 5},
	}
	sections := GroupByCategory(products, PreferredCategories)

	var cats []string
	for _, s := range sections {
		cats = append(cats, s.Category)
	}
	assert.Equal(t, []string{"Sandwiches", "Pizzas", "Bebidas sin Alcohol", "Zzz Especial"}, cats)
}

func TestMenuOmitsOutOfStock(t *testing.T) {
	repo := newFakeProductsRepo()
	svc := NewService(repo)
	_, err := svc.Add(context.Background(), ProductInput{Name: "Muzzarella", Price: price(7000), Category: "Pizzas", Stock: 1})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), ProductInput{Name: "Calabresa", Price: price(7500), Category: "Pizzas", Stock: 0})
	require.NoError(t, err)

	sections, err := svc.Menu(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Products, 1)
	assert.Equal(t, "Muzzarella", sections[0].Products[0].Name)
}
