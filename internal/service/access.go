package service

import (
	"context"
	"sort"

	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/repository"
)

type Resource string
type Action string

const (
	ResourceClients    Resource = "clientes"
	ResourceProcesses  Resource = "procesos"
	ResourceStages     Resource = "etapas"
	ResourceClaims     Resource = "reclamaciones"
	ResourceDonors     Resource = "donadoras"
	ResourceRecipients Resource = "receptoras"
	ResourceUsers      Resource = "users"
	ResourceExports    Resource = "exports"
	ResourceDashboard  Resource = "dashboard"

	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var (
	adminOnly = []domain.UserRole{domain.RoleAdmin}
	anyRole   = []domain.UserRole{domain.RoleAdmin, domain.RoleClient}
)

// permissions lists the roles allowed to perform each action. Anything not
// listed is denied.
var permissions = map[Resource]map[Action][]domain.UserRole{
	ResourceClients:    crud(anyRole, adminOnly),
	ResourceProcesses:  crud(anyRole, adminOnly),
	ResourceStages:     {ActionUpdate: adminOnly},
	ResourceDonors:     crud(anyRole, adminOnly),
	ResourceRecipients: crud(anyRole, adminOnly),
	ResourceUsers:      crud(adminOnly, adminOnly),
	ResourceExports:    {ActionRead: adminOnly},
	ResourceDashboard:  {ActionRead: anyRole},
	ResourceClaims: {
		ActionRead:   anyRole,
		ActionCreate: anyRole,
		ActionUpdate: adminOnly,
		ActionDelete: adminOnly,
	},
}

func crud(read, write []domain.UserRole) map[Action][]domain.UserRole {
	return map[Action][]domain.UserRole{
		ActionRead:   read,
		ActionCreate: write,
		ActionUpdate: write,
		ActionDelete: write,
	}
}

// Can reports whether role may perform act on res.
func Can(role domain.UserRole, res Resource, act Action) bool {
	for _, r := range permissions[res][act] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize returns a Forbidden error when who may not perform act on res.
func Authorize(who domain.Identity, res Resource, act Action) error {
	if Can(who.Role, res, act) {
		return nil
	}
	if who.Role == domain.RoleAdmin || who.Role == domain.RoleClient {
		return domain.Errorf(domain.ErrForbidden, "Forbidden: Admins only")
	}
	return domain.Errorf(domain.ErrForbidden, "Forbidden: Invalid role")
}

// Scope is the set of client ids a caller may see.
type Scope struct {
	All      bool
	ClientID int64
	Empty    bool
}

// Allows reports whether a row owned by clientID is visible.
func (s Scope) Allows(clientID int64) bool {
	switch {
	case s.Empty:
		return false
	case s.All:
		return true
	default:
		return s.ClientID == clientID
	}
}

// ResolveScope turns an identity and an optional cliente_id filter into a
// Scope. Admins see everything, narrowed by the filter. Clients see only the
// client whose nombre equals their username.
func ResolveScope(who domain.Identity, clients []domain.Client, filter *int64) (Scope, error) {
	switch who.Role {
	case domain.RoleAdmin:
		if filter != nil {
			return Scope{ClientID: *filter}, nil
		}
		return Scope{All: true}, nil
	case domain.RoleClient:
		own, ok := clientByName(clients, who.Username)
		if !ok {
			return Scope{}, domain.Errorf(domain.ErrNotFound, "no client linked to this account")
		}
		if filter != nil && *filter != own.ID {
			return Scope{Empty: true}, nil
		}
		return Scope{ClientID: own.ID}, nil
	default:
		return Scope{}, domain.Errorf(domain.ErrForbidden, "Forbidden: Invalid role")
	}
}

type owned interface {
	OwnerID() int64
}

// ScopeRows keeps the rows visible under s, in their original order.
func ScopeRows[T owned](rows []T, s Scope) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if s.Allows(r.OwnerID()) {
			out = append(out, r)
		}
	}
	return out
}

func clientByName(clients []domain.Client, name string) (domain.Client, bool) {
	for _, c := range clients {
		if c.Name == name {
			return c, true
		}
	}
	return domain.Client{}, false
}

// Scoper resolves scopes against the stored clients.
type Scoper struct {
	Clients repository.ClientRepository
}

// Resolve authorizes a read and returns the caller's scope together with the
// client list, which callers reuse to attach client names.
func (s Scoper) Resolve(ctx context.Context, who domain.Identity, res Resource, filter *int64) (Scope, []domain.Client, error) {
	if err := Authorize(who, res, ActionRead); err != nil {
		return Scope{}, nil, err
	}
	clients, err := s.Clients.All(ctx)
	if err != nil {
		return Scope{}, nil, err
	}
	scope, err := ResolveScope(who, clients, filter)
	if err != nil {
		return Scope{}, nil, err
	}
	return scope, clients, nil
}

const unknownClient = "Desconocido"

func clientName(clients []domain.Client, id int64) string {
	if i := repository.IndexByID(clients, id); i >= 0 {
		return clients[i].Name
	}
	return unknownClient
}

func sortByIDDesc[T repository.Record](rows []T) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].RecordID() > rows[j].RecordID() })
}
