package service

import (
	"context"

	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/repository"
)

const (
	msgDonorNotFound     = "Donadora no encontrada"
	msgRecipientNotFound = "Receptora no encontrada"
)

// DonorService manages donor cows. Donors are not removed when their client
// is deleted.
type DonorService struct {
	Donors  repository.DonorRepository
	Clients repository.ClientRepository
}

type DonorView struct {
	domain.Donor
	ClientName string `json:"cliente_nombre"`
}

type DonorInput struct {
	ClientID int64
	Code     string
	Breed    string
	Age      int64
	History  string
}

func (s DonorService) List(ctx context.Context, who domain.Identity, filter *int64) ([]DonorView, error) {
	scope, clients, err := Scoper{Clients: s.Clients}.Resolve(ctx, who, ResourceDonors, filter)
	if err != nil {
		return nil, err
	}
	donors, err := s.Donors.All(ctx)
	if err != nil {
		return nil, err
	}
	visible := ScopeRows(donors, scope)
	sortByIDDesc(visible)
	out := make([]DonorView, 0, len(visible))
	for _, d := range visible {
		out = append(out, DonorView{Donor: d, ClientName: clientName(clients, d.ClientID)})
	}
	return out, nil
}

func (s DonorService) Get(ctx context.Context, who domain.Identity, id int64) (*DonorView, error) {
	scope, clients, err := Scoper{Clients: s.Clients}.Resolve(ctx, who, ResourceDonors, nil)
	if err != nil {
		return nil, err
	}
	donors, err := s.Donors.All(ctx)
	if err != nil {
		return nil, err
	}
	d, err := findVisible(donors, id, scope, msgDonorNotFound)
	if err != nil {
		return nil, err
	}
	return &DonorView{Donor: d, ClientName: clientName(clients, d.ClientID)}, nil
}

func (s DonorService) Create(ctx context.Context, who domain.Identity, in DonorInput) (*domain.Donor, error) {
	if err := Authorize(who, ResourceDonors, ActionCreate); err != nil {
		return nil, err
	}
	if in.ClientID <= 0 || in.Code == "" || in.Breed == "" || in.Age <= 0 {
		return nil, domain.Errorf(domain.ErrValidation, "Por favor, complete todos los campos obligatorios para la donadora.")
	}
	if err := requireClient(ctx, s.Clients, in.ClientID); err != nil {
		return nil, err
	}
	unlock := s.Donors.Lock()
	defer unlock()
	donors, err := s.Donors.All(ctx)
	if err != nil {
		return nil, err
	}
	id, err := repository.AllocateID(ctx, s.Donors.Collection, donors)
	if err != nil {
		return nil, err
	}
	d := domain.Donor{
		ID:       id,
		ClientID: in.ClientID,
		Code:     in.Code,
		Breed:    in.Breed,
		Age:      in.Age,
		History:  in.History,
	}
	donors = append(donors, d)
	if err := s.Donors.SaveAll(ctx, donors); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s DonorService) Update(ctx context.Context, who domain.Identity, id int64, in DonorInput) (*domain.Donor, error) {
	if err := Authorize(who, ResourceDonors, ActionUpdate); err != nil {
		return nil, err
	}
	if err := requireClient(ctx, s.Clients, in.ClientID); err != nil {
		return nil, err
	}
	unlock := s.Donors.Lock()
	defer unlock()
	donors, err := s.Donors.All(ctx)
	if err != nil {
		return nil, err
	}
	i := repository.IndexByID(donors, id)
	if i < 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "%s", msgDonorNotFound)
	}
	d := donors[i]
	d.ClientID = mergeInt(d.ClientID, in.ClientID)
	d.Code = mergeString(d.Code, in.Code)
	d.Breed = mergeString(d.Breed, in.Breed)
	d.Age = mergeInt(d.Age, in.Age)
	d.History = mergeString(d.History, in.History)
	donors[i] = d
	if err := s.Donors.SaveAll(ctx, donors); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s DonorService) Delete(ctx context.Context, who domain.Identity, id int64) error {
	if err := Authorize(who, ResourceDonors, ActionDelete); err != nil {
		return err
	}
	unlock := s.Donors.Lock()
	defer unlock()
	donors, err := s.Donors.All(ctx)
	if err != nil {
		return err
	}
	donors, ok := repository.RemoveByID(donors, id)
	if !ok {
		return domain.Errorf(domain.ErrNotFound, "%s", msgDonorNotFound)
	}
	return s.Donors.SaveAll(ctx, donors)
}

// RecipientService manages recipient cows. Like donors they survive the
// deletion of their client.
type RecipientService struct {
	Recipients repository.RecipientRepository
	Clients    repository.ClientRepository
}

type RecipientView struct {
	domain.Recipient
	ClientName string `json:"cliente_nombre"`
}

type RecipientInput struct {
	ClientID int64
	Code     string
	Notes    string
}

func (s RecipientService) List(ctx context.Context, who domain.Identity, filter *int64) ([]RecipientView, error) {
	scope, clients, err := Scoper{Clients: s.Clients}.Resolve(ctx, who, ResourceRecipients, filter)
	if err != nil {
		return nil, err
	}
	recipients, err := s.Recipients.All(ctx)
	if err != nil {
		return nil, err
	}
	visible := ScopeRows(recipients, scope)
	sortByIDDesc(visible)
	out := make([]RecipientView, 0, len(visible))
	for _, r := range visible {
		out = append(out, RecipientView{Recipient: r, ClientName: clientName(clients, r.ClientID)})
	}
	return out, nil
}

func (s RecipientService) Get(ctx context.Context, who domain.Identity, id int64) (*RecipientView, error) {
	scope, clients, err := Scoper{Clients: s.Clients}.Resolve(ctx, who, ResourceRecipients, nil)
	if err != nil {
		return nil, err
	}
	recipients, err := s.Recipients.All(ctx)
	if err != nil {
		return nil, err
	}
	r, err := findVisible(recipients, id, scope, msgRecipientNotFound)
	if err != nil {
		return nil, err
	}
	return &RecipientView{Recipient: r, ClientName: clientName(clients, r.ClientID)}, nil
}

func (s RecipientService) Create(ctx context.Context, who domain.Identity, in RecipientInput) (*domain.Recipient, error) {
	if err := Authorize(who, ResourceRecipients, ActionCreate); err != nil {
		return nil, err
	}
	if in.ClientID <= 0 || in.Code == "" {
		return nil, domain.Errorf(domain.ErrValidation, "Por favor, complete todos los campos obligatorios para la receptora.")
	}
	if err := requireClient(ctx, s.Clients, in.ClientID); err != nil {
		return nil, err
	}
	unlock := s.Recipients.Lock()
	defer unlock()
	recipients, err := s.Recipients.All(ctx)
	if err != nil {
		return nil, err
	}
	id, err := repository.AllocateID(ctx, s.Recipients.Collection, recipients)
	if err != nil {
		return nil, err
	}
	r := domain.Recipient{
		ID:       id,
		ClientID: in.ClientID,
		Code:     in.Code,
		Notes:    in.Notes,
	}
	recipients = append(recipients, r)
	if err := s.Recipients.SaveAll(ctx, recipients); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s RecipientService) Update(ctx context.Context, who domain.Identity, id int64, in RecipientInput) (*domain.Recipient, error) {
	if err := Authorize(who, ResourceRecipients, ActionUpdate); err != nil {
		return nil, err
	}
	if err := requireClient(ctx, s.Clients, in.ClientID); err != nil {
		return nil, err
	}
	unlock := s.Recipients.Lock()
	defer unlock()
	recipients, err := s.Recipients.All(ctx)
	if err != nil {
		return nil, err
	}
	i := repository.IndexByID(recipients, id)
	if i < 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "%s", msgRecipientNotFound)
	}
	r := recipients[i]
	r.ClientID = mergeInt(r.ClientID, in.ClientID)
	r.Code = mergeString(r.Code, in.Code)
	r.Notes = mergeString(r.Notes, in.Notes)
	recipients[i] = r
	if err := s.Recipients.SaveAll(ctx, recipients); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s RecipientService) Delete(ctx context.Context, who domain.Identity, id int64) error {
	if err := Authorize(who, ResourceRecipients, ActionDelete); err != nil {
		return err
	}
	unlock := s.Recipients.Lock()
	defer unlock()
	recipients, err := s.Recipients.All(ctx)
	if err != nil {
		return err
	}
	recipients, ok := repository.RemoveByID(recipients, id)
	if !ok {
		return domain.Errorf(domain.ErrNotFound, "%s", msgRecipientNotFound)
	}
	return s.Recipients.SaveAll(ctx, recipients)
}
