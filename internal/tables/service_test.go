package tables

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barpos/internal/domain"
	"barpos/internal/repository"
)

type fakeTablesRepo struct {
	tables    map[int64]domain.Table
	withOrder map[int64]bool
	nextID    int64
}

func newFakeTablesRepo() *fakeTablesRepo {
	return &fakeTablesRepo{tables: map[int64]domain.Table{}, withOrder: map[int64]bool{}}
}

func (f *fakeTablesRepo) List(_ context.Context, limit, offset int) ([]domain.Table, int, error) {
	var out []domain.Table
	for _, t := range f.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeTablesRepo) ListWithOpenTotals(_ context.Context) ([]repository.TableWithTotal, error) {
	var out []repository.TableWithTotal
	for _, t := range f.tables {
		out = append(out, repository.TableWithTotal{Table: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeTablesRepo) GetByID(_ context.Context, id int64) (domain.Table, error) {
	t, ok := f.tables[id]
	if !ok {
		return domain.Table{}, domain.NotFound("table")
	}
	return t, nil
}

func (f *fakeTablesRepo) Insert(_ context.Context, t *domain.Table) error {
	for _, ex := range f.tables {
		if ex.Number == t.Number {
			return domain.Integrityf("table number already exists")
		}
	}
	f.nextID++
	t.ID = f.nextID
	f.tables[t.ID] = *t
	return nil
}

func (f *fakeTablesRepo) Update(_ context.Context, t domain.Table) error {
	for _, ex := range f.tables {
		if ex.Number == t.Number && ex.ID != t.ID {
			return domain.Integrityf("table number already exists")
		}
	}
	f.tables[t.ID] = t
	return nil
}

func (f *fakeTablesRepo) Delete(_ context.Context, id int64) error {
	delete(f.tables, id)
	return nil
}

func (f *fakeTablesRepo) HasOrders(_ context.Context, id int64) (bool, error) {
	return f.withOrder[id], nil
}

func TestAddTableValidation(t *testing.T) {
	svc := NewService(newFakeTablesRepo())

	_, err := svc.Add(context.Background(), 0, 4)
	assert.True(t, domain.IsValidation(err))
	_, err = svc.Add(context.Background(), 1, 0)
	assert.True(t, domain.IsValidation(err))
}

func TestAddTableDuplicateNumber(t *testing.T) {
	svc := NewService(newFakeTablesRepo())
	_, err := svc.Add(context.Background(), 1, 4)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), 1, 2)
	assert.True(t, domain.IsIntegrity(err))
}

func TestEditTableRenumber(t *testing.T) {
	repo := newFakeTablesRepo()
	svc := NewService(repo)
	t1, err := svc.Add(context.Background(), 1, 4)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), 2, 4)
	require.NoError(t, err)

	_, err = svc.Edit(context.Background(), t1.ID, 2, 4)
	assert.True(t, domain.IsIntegrity(err), "renumbering onto another table is refused")

	got, err := svc.Edit(context.Background(), t1.ID, 3, 6)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Number)
	assert.Equal(t, 6, got.Capacity)
}

func TestDeleteTableGuards(t *testing.T) {
	repo := newFakeTablesRepo()
	svc := NewService(repo)
	tb, err := svc.Add(context.Background(), 1, 4)
	require.NoError(t, err)

	occupied := repo.tables[tb.ID]
	occupied.Status = domain.TableOccupied
	repo.tables[tb.ID] = occupied
	err = svc.Delete(context.Background(), tb.ID)
	assert.True(t, domain.IsPrecondition(err), "occupied table cannot be deleted")

	occupied.Status = domain.TableEmpty
	repo.tables[tb.ID] = occupied
	repo.withOrder[tb.ID] = true
	err = svc.Delete(context.Background(), tb.ID)
	assert.True(t, domain.IsPrecondition(err), "table with history cannot be deleted")

	repo.withOrder[tb.ID] = false
	require.NoError(t, svc.Delete(context.Background(), tb.ID))
}
