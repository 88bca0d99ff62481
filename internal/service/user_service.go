package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/repository"
)

// DefaultAdmin is the account recreated at startup when missing.
const DefaultAdmin = "admin"

type UserService struct {
	Users  repository.UserRepository
	Logger *slog.Logger
}

type RegisterInput struct {
	Username string
	Password string
	Role     domain.UserRole
}

// UserView is a user without its password hash.
type UserView struct {
	Username string          `json:"username"`
	Role     domain.UserRole `json:"role"`
}

func (s UserService) List(ctx context.Context, who domain.Identity) ([]UserView, error) {
	if err := Authorize(who, ResourceUsers, ActionRead); err != nil {
		return nil, err
	}
	users, err := s.Users.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, UserView{Username: u.Username, Role: u.Role})
	}
	return out, nil
}

func (s UserService) Register(ctx context.Context, who domain.Identity, in RegisterInput) (*UserView, error) {
	if err := Authorize(who, ResourceUsers, ActionCreate); err != nil {
		return nil, err
	}
	return s.Provision(ctx, in)
}

// Provision creates a user without an authorization check. It backs the
// register endpoint and the CLI.
func (s UserService) Provision(ctx context.Context, in RegisterInput) (*UserView, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.Errorf(domain.ErrValidation, "username and password are required")
	}
	if in.Role == "" {
		in.Role = domain.RoleClient
	}
	if in.Role != domain.RoleAdmin && in.Role != domain.RoleClient {
		return nil, domain.Errorf(domain.ErrValidation, "role must be admin or client")
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	unlock := s.Users.Lock()
	defer unlock()
	users, err := s.Users.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == in.Username {
			return nil, domain.Errorf(domain.ErrConflict, "Username already exists")
		}
	}
	users = append(users, domain.User{Username: in.Username, PasswordHash: hash, Role: in.Role})
	if err := s.Users.SaveAll(ctx, users); err != nil {
		return nil, err
	}
	s.logger().Info("user registered", "username", in.Username, "role", in.Role)
	return &UserView{Username: in.Username, Role: in.Role}, nil
}

func (s UserService) Delete(ctx context.Context, who domain.Identity, username string) error {
	if err := Authorize(who, ResourceUsers, ActionDelete); err != nil {
		return err
	}
	if username == DefaultAdmin {
		return domain.Errorf(domain.ErrForbidden, "the default admin cannot be deleted")
	}
	unlock := s.Users.Lock()
	defer unlock()
	users, err := s.Users.All(ctx)
	if err != nil {
		return err
	}
	kept := users[:0:0]
	for _, u := range users {
		if u.Username != username {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return domain.Errorf(domain.ErrNotFound, "User not found")
	}
	return s.Users.SaveAll(ctx, kept)
}

// SetPassword replaces the password of an existing user.
func (s UserService) SetPassword(ctx context.Context, username, password string) error {
	if password == "" {
		return domain.Errorf(domain.ErrValidation, "password is required")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	unlock := s.Users.Lock()
	defer unlock()
	u, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Errorf(domain.ErrNotFound, "User not found")
	}
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.Users.Upsert(ctx, *u)
}

// EnsureAdmin creates the default admin account when it is missing. It
// reports whether an account was created.
func (s UserService) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	unlock := s.Users.Lock()
	defer unlock()
	_, err := s.Users.GetByUsername(ctx, DefaultAdmin)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	if err := s.Users.Upsert(ctx, domain.User{Username: DefaultAdmin, PasswordHash: hash, Role: domain.RoleAdmin}); err != nil {
		return false, err
	}
	s.logger().Warn("default admin account created", "username", DefaultAdmin)
	return true, nil
}

func (s UserService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
