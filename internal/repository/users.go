package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"barpos/internal/domain"
)

type UsersRepoInterface interface {
	List(ctx context.Context, limit, offset int) ([]domain.User, int, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	Insert(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u domain.User) error
	Delete(ctx context.Context, id int64) error
	CountAdmins(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo { return &UsersRepo{pool: pool} }

func (r *UsersRepo) List(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, username, password_hash, role FROM users ORDER BY id LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `
SELECT id, username, password_hash, role FROM users WHERE id=$1
`, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	if err != nil {
		return domain.User{}, notFoundOr(err, "user")
	}
	return u, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `
SELECT id, username, password_hash, role FROM users WHERE username=$1
`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	if err != nil {
		return domain.User{}, notFoundOr(err, "user")
	}
	return u, nil
}

func (r *UsersRepo) Insert(ctx context.Context, u *domain.User) error {
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (username, password_hash, role) VALUES ($1,$2,$3) RETURNING id
`, u.Username, u.PasswordHash, u.Role).Scan(&u.ID)
	if err != nil {
		return mapPgError(err, "username")
	}
	return nil
}

func (r *UsersRepo) Update(ctx context.Context, u domain.User) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE users SET password_hash=$2, role=$3 WHERE id=$1
`, u.ID, u.PasswordHash, u.Role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("user")
	}
	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("user")
	}
	return nil
}

func (r *UsersRepo) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role=$1`, domain.RoleAdmin).Scan(&n)
	return n, err
}

func (r *UsersRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
