package service

import (
	"context"
	"log/slog"

	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/repository"
)

const (
	msgClientNotFound  = "Cliente no encontrado"
	msgClientNameTaken = "Ya existe un cliente con ese nombre"
	defaultClientType  = "Individual"
)

type ClientService struct {
	Clients   repository.ClientRepository
	Processes repository.ProcessRepository
	Claims    repository.ClaimRepository
	Logger    *slog.Logger
}

type ClientInput struct {
	Name                string
	Email               string
	Phone               string
	Region              string
	Municipality        string
	Farm                string
	ClientType          string
	DesiredEmbryos      int64
	AvailableRecipients int64
	Notes               string
}

func (s ClientService) scoper() Scoper { return Scoper{Clients: s.Clients} }

func (s ClientService) List(ctx context.Context, who domain.Identity, filter *int64) ([]domain.Client, error) {
	scope, clients, err := s.scoper().Resolve(ctx, who, ResourceClients, filter)
	if err != nil {
		return nil, err
	}
	out := ScopeRows(clients, scope)
	sortByIDDesc(out)
	return out, nil
}

func (s ClientService) Get(ctx context.Context, who domain.Identity, id int64) (*domain.Client, error) {
	scope, clients, err := s.scoper().Resolve(ctx, who, ResourceClients, nil)
	if err != nil {
		return nil, err
	}
	c, err := findVisible(clients, id, scope, msgClientNotFound)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s ClientService) Create(ctx context.Context, who domain.Identity, in ClientInput) (*domain.Client, error) {
	if err := Authorize(who, ResourceClients, ActionCreate); err != nil {
		return nil, err
	}
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Region == "" || in.Municipality == "" {
		return nil, domain.Errorf(domain.ErrValidation, "Por favor, complete todos los campos obligatorios.")
	}
	if in.ClientType == "" {
		in.ClientType = defaultClientType
	}

	unlock := s.Clients.Lock()
	defer unlock()
	clients, err := s.Clients.All(ctx)
	if err != nil {
		return nil, err
	}
	if nameTaken(clients, in.Name, 0) {
		return nil, domain.Errorf(domain.ErrConflict, "%s", msgClientNameTaken)
	}
	id, err := repository.AllocateID(ctx, s.Clients.Collection, clients)
	if err != nil {
		return nil, err
	}
	c := domain.Client{
		ID:                  id,
		Name:                in.Name,
		Email:               in.Email,
		Phone:               in.Phone,
		Region:              in.Region,
		Municipality:        in.Municipality,
		Farm:                in.Farm,
		ClientType:          in.ClientType,
		DesiredEmbryos:      in.DesiredEmbryos,
		AvailableRecipients: in.AvailableRecipients,
		Notes:               in.Notes,
		ProcessStatus:       domain.StatusNew,
	}
	clients = append(clients, c)
	if err := s.Clients.SaveAll(ctx, clients); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s ClientService) Update(ctx context.Context, who domain.Identity, id int64, in ClientInput) (*domain.Client, error) {
	if err := Authorize(who, ResourceClients, ActionUpdate); err != nil {
		return nil, err
	}
	unlock := s.Clients.Lock()
	defer unlock()
	clients, err := s.Clients.All(ctx)
	if err != nil {
		return nil, err
	}
	i := repository.IndexByID(clients, id)
	if i < 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "%s", msgClientNotFound)
	}
	c := clients[i]
	if in.Name != "" && nameTaken(clients, in.Name, c.ID) {
		return nil, domain.Errorf(domain.ErrConflict, "%s", msgClientNameTaken)
	}
	c.Name = mergeString(c.Name, in.Name)
	c.Email = mergeString(c.Email, in.Email)
	c.Phone = mergeString(c.Phone, in.Phone)
	c.Region = mergeString(c.Region, in.Region)
	c.Municipality = mergeString(c.Municipality, in.Municipality)
	c.Farm = mergeString(c.Farm, in.Farm)
	c.ClientType = mergeString(c.ClientType, in.ClientType)
	c.DesiredEmbryos = mergeInt(c.DesiredEmbryos, in.DesiredEmbryos)
	c.AvailableRecipients = mergeInt(c.AvailableRecipients, in.AvailableRecipients)
	c.Notes = mergeString(c.Notes, in.Notes)
	clients[i] = c
	if err := s.Clients.SaveAll(ctx, clients); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a client together with its processes and claims. Donors and
// recipients keep pointing at the removed id.
func (s ClientService) Delete(ctx context.Context, who domain.Identity, id int64) error {
	if err := Authorize(who, ResourceClients, ActionDelete); err != nil {
		return err
	}
	unlock := s.Clients.Store.Lock(s.Clients.Name, s.Processes.Name, s.Claims.Name)
	defer unlock()

	clients, err := s.Clients.All(ctx)
	if err != nil {
		return err
	}
	clients, ok := repository.RemoveByID(clients, id)
	if !ok {
		return domain.Errorf(domain.ErrNotFound, "%s", msgClientNotFound)
	}
	processes, err := s.Processes.All(ctx)
	if err != nil {
		return err
	}
	claims, err := s.Claims.All(ctx)
	if err != nil {
		return err
	}
	keptProcesses := withoutOwner(processes, id)
	keptClaims := withoutOwner(claims, id)

	if err := s.Clients.SaveAll(ctx, clients); err != nil {
		return err
	}
	if err := s.Processes.SaveAll(ctx, keptProcesses); err != nil {
		return err
	}
	if err := s.Claims.SaveAll(ctx, keptClaims); err != nil {
		return err
	}
	s.logger().Info("client deleted",
		"client_id", id,
		"processes_removed", len(processes)-len(keptProcesses),
		"claims_removed", len(claims)-len(keptClaims),
	)
	return nil
}

// nameTaken reports whether a client other than except already uses name.
// Client accounts are linked by nombre, so it has to stay unique.
func nameTaken(clients []domain.Client, name string, except int64) bool {
	for _, c := range clients {
		if c.Name == name && c.ID != except {
			return true
		}
	}
	return false
}

func (s ClientService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
