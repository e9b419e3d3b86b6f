// Package users manages accounts and the guards that keep the system
// administrable: you cannot delete yourself, and the last admin can neither
// be deleted nor downgraded.
package users

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"barpos/internal/domain"
	"barpos/internal/repository"
)

const DefaultPerPage = 10

type Service struct {
	repo repository.UsersRepoInterface
}

func NewService(repo repository.UsersRepoInterface) *Service { return &Service{repo: repo} }

type Page struct {
	Users   []domain.User
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
	return Page{Users: items, Total: total, Page: page, PerPage: DefaultPerPage}, nil
}

func validRole(role string) bool { return role == domain.RoleAdmin || role == domain.RoleStaff }

func (s *Service) Add(ctx context.Context, username, password, role string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || role == "" {
		return domain.User{}, domain.Validationf("username, password and role are required")
	}
	if !validRole(role) {
		return domain.User{}, domain.Validationf("unknown role %q", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{Username: username, PasswordHash: string(hash), Role: role}
	if err := s.repo.Insert(ctx, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Edit updates role and, when password is non-empty, the credential.
// Downgrading the last admin is refused.
func (s *Service) Edit(ctx context.Context, id int64, password, role string) (domain.User, error) {
	if !validRole(role) {
		return domain.User{}, domain.Validationf("unknown role %q", role)
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if u.Role == domain.RoleAdmin && role != domain.RoleAdmin {
		admins, err := s.repo.CountAdmins(ctx)
		if err != nil {
			return domain.User{}, err
		}
		if admins <= 1 {
			return domain.User{}, domain.Preconditionf("cannot downgrade the only administrator")
		}
	}
	u.Role = role
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, err
		}
		u.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Delete removes a user; callerID guards against self-deletion.
func (s *Service) Delete(ctx context.Context, id, callerID int64) error {
	if id == callerID {
		return domain.Preconditionf("you cannot delete your own account")
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == domain.RoleAdmin {
		admins, err := s.repo.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return domain.Preconditionf("cannot delete the only administrator")
		}
	}
	return s.repo.Delete(ctx, id)
}

// Verify checks a credential pair, returning the user on success.
func (s *Service) Verify(ctx context.Context, username, password string) (domain.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.User{}, domain.Validationf("invalid username or password")
		}
		return domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.User{}, domain.Validationf("invalid username or password")
	}
	return u, nil
}

// EnsureAdmin creates the given admin account when no users exist yet.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	_, err = s.Add(ctx, username, password, domain.RoleAdmin)
	return err == nil, err
}
