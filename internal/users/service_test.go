package users

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barpos/internal/domain"
)

type fakeUsersRepo struct {
	users  map[int64]domain.User
	nextID int64
}

func newFakeUsersRepo() *fakeUsersRepo { return &fakeUsersRepo{users: map[int64]domain.User{}} }

func (f *fakeUsersRepo) List(_ context.Context, limit, offset int) ([]domain.User, int, error) {
	var out []domain.User
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
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

func (f *fakeUsersRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.NotFound("user")
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.NotFound("user")
}

func (f *fakeUsersRepo) Insert(_ context.Context, u *domain.User) error {
	for _, ex := range f.users {
		if ex.Username == u.Username {
			return domain.Integrityf("username already exists")
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUsersRepo) Update(_ context.Context, u domain.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return domain.NotFound("user")
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsersRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return domain.NotFound("user")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsersRepo) CountAdmins(_ context.Context) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.Role == domain.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (f *fakeUsersRepo) Count(_ context.Context) (int, error) { return len(f.users), nil }

func TestAddAndVerify(t *testing.T) {
	svc := NewService(newFakeUsersRepo())

	u, err := svc.Add(context.Background(), "ana", "secreto", domain.RoleAdmin)
	require.NoError(t, err)
	assert.NotEqual(t, "secreto", u.PasswordHash, "password must be hashed")

	got, err := svc.Verify(context.Background(), "ana", "secreto")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Verify(context.Background(), "ana", "wrong")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Verify(context.Background(), "nadie", "secreto")
	assert.True(t, domain.IsValidation(err), "unknown user must not be distinguishable")
}

func TestAddValidation(t *testing.T) {
	svc := NewService(newFakeUsersRepo())

	_, err := svc.Add(context.Background(), "", "pw", domain.RoleStaff)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Add(context.Background(), "ana", "", domain.RoleStaff)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Add(context.Background(), "ana", "pw", "superuser")
	assert.True(t, domain.IsValidation(err))
}

func TestDeleteLastAdminRejected(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := NewService(repo)

	admin, err := svc.Add(context.Background(), "ana", "pw", domain.RoleAdmin)
	require.NoError(t, err)
	staff, err := svc.Add(context.Background(), "beto", "pw", domain.RoleStaff)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), admin.ID, staff.ID)
	assert.True(t, domain.IsPrecondition(err), "last admin cannot be deleted")

	admin2, err := svc.Add(context.Background(), "carla", "pw", domain.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), admin.ID, staff.ID), "non-last admin can go")

	_, ok := repo.users[admin.ID]
	assert.False(t, ok)
	_, ok = repo.users[admin2.ID]
	assert.True(t, ok)
}

func TestDeleteSelfRejected(t *testing.T) {
	svc := NewService(newFakeUsersRepo())
	admin, err := svc.Add(context.Background(), "ana", "pw", domain.RoleAdmin)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), admin.ID, admin.ID)
	assert.True(t, domain.IsPrecondition(err))
}

func TestDowngradeLastAdminRejected(t *testing.T) {
	svc := NewService(newFakeUsersRepo())
	admin, err := svc.Add(context.Background(), "ana", "pw", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Edit(context.Background(), admin.ID, "", domain.RoleStaff)
	assert.True(t, domain.IsPrecondition(err))

	_, err = svc.Add(context.Background(), "carla", "pw", domain.RoleAdmin)
	require.NoError(t, err)
	u, err := svc.Edit(context.Background(), admin.ID, "", domain.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, u.Role)
}

func TestEditPasswordRotation(t *testing.T) {
	svc := NewService(newFakeUsersRepo())
	u, err := svc.Add(context.Background(), "ana", "old", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Edit(context.Background(), u.ID, "new", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), "ana", "old")
	assert.Error(t, err)
	_, err = svc.Verify(context.Background(), "ana", "new")
	assert.NoError(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	svc := NewService(newFakeUsersRepo())

	created, err := svc.EnsureAdmin(context.Background(), "admin", "pw")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(context.Background(), "admin", "pw")
	require.NoError(t, err)
	assert.False(t, created, "no-op once any user exists")
}
