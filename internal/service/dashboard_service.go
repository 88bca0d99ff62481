package service

import (
	"context"
	"sort"

	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/repository"
)

type DashboardService struct {
	Clients   repository.ClientRepository
	Processes repository.ProcessRepository
	Claims    repository.ClaimRepository
}

type Dashboard struct {
	TotalClients      int                          `json:"total_clientes"`
	ProcessesByStatus map[domain.ProcessStatus]int `json:"procesos_por_estado"`
	ActiveProcesses   int                          `json:"procesos_activos"`
	OpenClaims        int                          `json:"reclamaciones_abiertas"`
	NextKeyDate       *KeyDate                     `json:"proxima_fecha_clave,omitempty"`
}

// KeyDate is the next scheduled stage of an active process.
type KeyDate struct {
	ProcessID  int64  `json:"proceso_id"`
	ClientName string `json:"cliente_nombre"`
	StageID    int    `json:"etapa_id"`
	StageName  string `json:"etapa_nombre"`
	Date       string `json:"fecha_estimada"`
}

// Summary aggregates the collections visible to who. Process statuses are
// derived from stages, never read from the cached field.
func (s DashboardService) Summary(ctx context.Context, who domain.Identity) (*Dashboard, error) {
	scope, clients, err := Scoper{Clients: s.Clients}.Resolve(ctx, who, ResourceDashboard, nil)
	if err != nil {
		return nil, err
	}
	processes, err := s.Processes.All(ctx)
	if err != nil {
		return nil, err
	}
	claims, err := s.Claims.All(ctx)
	if err != nil {
		return nil, err
	}

	visibleProcesses := ScopeRows(processes, scope)
	sort.SliceStable(visibleProcesses, func(i, j int) bool { return visibleProcesses[i].ID < visibleProcesses[j].ID })

	d := &Dashboard{
		TotalClients: len(ScopeRows(clients, scope)),
		ProcessesByStatus: map[domain.ProcessStatus]int{
			domain.StatusPending:    0,
			domain.StatusInProgress: 0,
			domain.StatusCompleted:  0,
			domain.StatusCancelled:  0,
		},
	}
	for _, p := range visibleProcesses {
		status := domain.StageStatusOf(p.Stages)
		d.ProcessesByStatus[status]++
		if status != domain.StatusInProgress {
			continue
		}
		d.ActiveProcesses++
		if d.NextKeyDate == nil {
			d.NextKeyDate = nextKeyDate(p, clients)
		}
	}
	for _, c := range ScopeRows(claims, scope) {
		if c.Status == domain.ClaimOpen || c.Status == domain.ClaimUnderReview {
			d.OpenClaims++
		}
	}
	return d, nil
}

func nextKeyDate(p domain.Process, clients []domain.Client) *KeyDate {
	for _, st := range p.Stages {
		if st.Status == domain.StagePending && st.EstimatedDate != "" {
			return &KeyDate{
				ProcessID:  p.ID,
				ClientName: clientName(clients, p.ClientID),
				StageID:    st.ID,
				StageName:  st.Name,
				Date:       st.EstimatedDate,
			}
		}
	}
	return nil
}
