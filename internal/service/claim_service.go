package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/repository"
)

const msgClaimNotFound = "Reclamación no encontrada"

type ClaimService struct {
	Claims  repository.ClaimRepository
	Clients repository.ClientRepository
	Logger  *slog.Logger
	Now     func() time.Time
}

type ClaimView struct {
	domain.Claim
	ClientName string `json:"cliente_nombre"`
}

type ClaimInput struct {
	ClientID    int64
	Subject     string
	Reason      string
	Status      domain.ClaimStatus
	Responsible string
	Notes       string
	Response    string
}

func (s ClaimService) scoper() Scoper { return Scoper{Clients: s.Clients} }

func (s ClaimService) List(ctx context.Context, who domain.Identity, filter *int64) ([]ClaimView, error) {
	scope, clients, err := s.scoper().Resolve(ctx, who, ResourceClaims, filter)
	if err != nil {
		return nil, err
	}
	claims, err := s.Claims.All(ctx)
	if err != nil {
		return nil, err
	}
	visible := ScopeRows(claims, scope)
	sortByIDDesc(visible)
	out := make([]ClaimView, 0, len(visible))
	for _, c := range visible {
		out = append(out, ClaimView{Claim: c, ClientName: clientName(clients, c.ClientID)})
	}
	return out, nil
}

func (s ClaimService) Get(ctx context.Context, who domain.Identity, id int64) (*ClaimView, error) {
	scope, clients, err := s.scoper().Resolve(ctx, who, ResourceClaims, nil)
	if err != nil {
		return nil, err
	}
	claims, err := s.Claims.All(ctx)
	if err != nil {
		return nil, err
	}
	c, err := findVisible(claims, id, scope, msgClaimNotFound)
	if err != nil {
		return nil, err
	}
	return &ClaimView{Claim: c, ClientName: clientName(clients, c.ClientID)}, nil
}

// Create files a claim. Admins name the client; a client always files for
// the client linked to their account.
func (s ClaimService) Create(ctx context.Context, who domain.Identity, in ClaimInput) (*domain.Claim, error) {
	if err := Authorize(who, ResourceClaims, ActionCreate); err != nil {
		return nil, err
	}
	if in.Subject == "" {
		return nil, domain.Errorf(domain.ErrValidation, "asunto es obligatorio")
	}
	if in.Status == "" {
		in.Status = domain.ClaimOpen
	}
	if !in.Status.Valid() {
		return nil, domain.Errorf(domain.ErrValidation, "estado inválido: %s", in.Status)
	}

	clients, err := s.Clients.All(ctx)
	if err != nil {
		return nil, err
	}
	if who.Role == domain.RoleClient {
		scope, err := ResolveScope(who, clients, nil)
		if err != nil {
			return nil, err
		}
		in.ClientID = scope.ClientID
	} else if in.ClientID <= 0 {
		return nil, domain.Errorf(domain.ErrValidation, "cliente_id es obligatorio")
	} else if repository.IndexByID(clients, in.ClientID) < 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "%s", msgClientNotFound)
	}

	unlock := s.Claims.Lock()
	defer unlock()
	claims, err := s.Claims.All(ctx)
	if err != nil {
		return nil, err
	}
	id, err := repository.AllocateID(ctx, s.Claims.Collection, claims)
	if err != nil {
		return nil, err
	}
	c := domain.Claim{
		ID:          id,
		ClientID:    in.ClientID,
		Subject:     in.Subject,
		Reason:      in.Reason,
		Status:      in.Status,
		CreatedAt:   clock(s.Now),
		Responsible: in.Responsible,
		Notes:       in.Notes,
	}
	claims = append(claims, c)
	if err := s.Claims.SaveAll(ctx, claims); err != nil {
		return nil, err
	}
	s.logger().Info("claim filed", "claim_id", c.ID, "client_id", c.ClientID, "by", who.Username)
	return &c, nil
}

// Update merges in over the stored claim. fecha_creacion never changes.
func (s ClaimService) Update(ctx context.Context, who domain.Identity, id int64, in ClaimInput) (*domain.Claim, error) {
	if err := Authorize(who, ResourceClaims, ActionUpdate); err != nil {
		return nil, err
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, domain.Errorf(domain.ErrValidation, "estado inválido: %s", in.Status)
	}
	if err := requireClient(ctx, s.Clients, in.ClientID); err != nil {
		return nil, err
	}
	unlock := s.Claims.Lock()
	defer unlock()
	claims, err := s.Claims.All(ctx)
	if err != nil {
		return nil, err
	}
	i := repository.IndexByID(claims, id)
	if i < 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "%s", msgClaimNotFound)
	}
	c := claims[i]
	c.ClientID = mergeInt(c.ClientID, in.ClientID)
	c.Subject = mergeString(c.Subject, in.Subject)
	c.Reason = mergeString(c.Reason, in.Reason)
	c.Status = domain.ClaimStatus(mergeString(string(c.Status), string(in.Status)))
	c.Responsible = mergeString(c.Responsible, in.Responsible)
	c.Notes = mergeString(c.Notes, in.Notes)
	c.Response = mergeString(c.Response, in.Response)
	claims[i] = c
	if err := s.Claims.SaveAll(ctx, claims); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s ClaimService) Delete(ctx context.Context, who domain.Identity, id int64) error {
	if err := Authorize(who, ResourceClaims, ActionDelete); err != nil {
		return err
	}
	unlock := s.Claims.Lock()
	defer unlock()
	claims, err := s.Claims.All(ctx)
	if err != nil {
		return err
	}
	claims, ok := repository.RemoveByID(claims, id)
	if !ok {
		return domain.Errorf(domain.ErrNotFound, "%s", msgClaimNotFound)
	}
	return s.Claims.SaveAll(ctx, claims)
}

func (s ClaimService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
