package repository

import (
	"context"

	"github.com/lsandon/fertiviltro-app/internal/domain"
)

// Collection is the typed view of one stored collection.
type Collection[T any] struct {
	Store *Store
	Name  string
}

func (c Collection[T]) All(ctx context.Context) ([]T, error) {
	return loadAll[T](ctx, c.Store, c.Name)
}

func (c Collection[T]) SaveAll(ctx context.Context, rows []T) error {
	return saveAll(ctx, c.Store, c.Name, rows)
}

// Lock takes the write lock of this collection only.
func (c Collection[T]) Lock() func() {
	return c.Store.Lock(c.Name)
}

// AllocateID returns a fresh id for a new row of c. Ids of deleted rows are
// never issued again. The caller must hold the collection lock.
func AllocateID[T Record](ctx context.Context, c Collection[T], rows []T) (int64, error) {
	return c.Store.allocate(ctx, c.Name, NextID(rows))
}

type ClientRepository struct {
	Collection[domain.Client]
}

func NewClientRepository(s *Store) ClientRepository {
	return ClientRepository{Collection[domain.Client]{Store: s, Name: CollectionClients}}
}

// FindByName returns the first client whose nombre equals name exactly.
func (r ClientRepository) FindByName(ctx context.Context, name string) (*domain.Client, error) {
	clients, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].Name == name {
			return &clients[i], nil
		}
	}
	return nil, ErrNotFound
}

type ProcessRepository struct {
	Collection[domain.Process]
}

func NewProcessRepository(s *Store) ProcessRepository {
	return ProcessRepository{Collection[domain.Process]{Store: s, Name: CollectionProcesses}}
}

type ClaimRepository struct {
	Collection[domain.Claim]
}

func NewClaimRepository(s *Store) ClaimRepository {
	return ClaimRepository{Collection[domain.Claim]{Store: s, Name: CollectionClaims}}
}

type DonorRepository struct {
	Collection[domain.Donor]
}

func NewDonorRepository(s *Store) DonorRepository {
	return DonorRepository{Collection[domain.Donor]{Store: s, Name: CollectionDonors}}
}

type RecipientRepository struct {
	Collection[domain.Recipient]
}

func NewRecipientRepository(s *Store) RecipientRepository {
	return RecipientRepository{Collection[domain.Recipient]{Store: s, Name: CollectionRecipients}}
}
