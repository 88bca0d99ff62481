package repository

import (
	"context"
	"errors"

	"github.com/lsandon/fertiviltro-app/internal/domain"
)

var ErrNotFound = errors.New("record not found")

type UserRepository struct {
	Collection[domain.User]
}

func NewUserRepository(s *Store) UserRepository {
	return UserRepository{Collection[domain.User]{Store: s, Name: CollectionUsers}}
}

func (r UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	users, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexUser(users, username); i >= 0 {
		return &users[i], nil
	}
	return nil, ErrNotFound
}

// Upsert stores u, replacing any user with the same username. The caller must
// hold the users lock.
func (r UserRepository) Upsert(ctx context.Context, u domain.User) error {
	users, err := r.All(ctx)
	if err != nil {
		return err
	}
	if i := indexUser(users, u.Username); i >= 0 {
		users[i] = u
	} else {
		users = append(users, u)
	}
	return r.SaveAll(ctx, users)
}

func indexUser(users []domain.User, username string) int {
	for i, u := range users {
		if u.Username == username {
			return i
		}
	}
	return -1
}
