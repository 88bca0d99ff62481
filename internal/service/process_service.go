package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/repository"
)

const (
	msgProcessNotFound = "Proceso no encontrado"
	msgStageNotFound   = "Etapa no encontrada en el proceso"
)

type ProcessService struct {
	Processes repository.ProcessRepository
	Clients   repository.ClientRepository
	Logger    *slog.Logger
	Now       func() time.Time
}

// ProcessView is a process with the name of its client attached.
type ProcessView struct {
	domain.Process
	ClientName string `json:"cliente_nombre"`
}

type ProcessInput struct {
	ClientID     int64
	ManualStatus string
}

type StageInput struct {
	Name          string
	Status        domain.StageStatus
	EstimatedDate string
	ActualDate    string
	Notes         string
}

func (s ProcessService) scoper() Scoper { return Scoper{Clients: s.Clients} }

func (s ProcessService) List(ctx context.Context, who domain.Identity, filter *int64) ([]ProcessView, error) {
	scope, clients, err := s.scoper().Resolve(ctx, who, ResourceProcesses, filter)
	if err != nil {
		return nil, err
	}
	processes, err := s.Processes.All(ctx)
	if err != nil {
		return nil, err
	}
	visible := ScopeRows(processes, scope)
	sortByIDDesc(visible)
	out := make([]ProcessView, 0, len(visible))
	for _, p := range visible {
		out = append(out, ProcessView{Process: p, ClientName: clientName(clients, p.ClientID)})
	}
	return out, nil
}

func (s ProcessService) Get(ctx context.Context, who domain.Identity, id int64) (*ProcessView, error) {
	scope, clients, err := s.scoper().Resolve(ctx, who, ResourceProcesses, nil)
	if err != nil {
		return nil, err
	}
	processes, err := s.Processes.All(ctx)
	if err != nil {
		return nil, err
	}
	p, err := findVisible(processes, id, scope, msgProcessNotFound)
	if err != nil {
		return nil, err
	}
	return &ProcessView{Process: p, ClientName: clientName(clients, p.ClientID)}, nil
}

// Create starts a process for an existing client with the twelve pending
// stages of the standard pipeline.
func (s ProcessService) Create(ctx context.Context, who domain.Identity, in ProcessInput) (*domain.Process, error) {
	if err := Authorize(who, ResourceProcesses, ActionCreate); err != nil {
		return nil, err
	}
	if in.ClientID <= 0 {
		return nil, domain.Errorf(domain.ErrValidation, "cliente_id es obligatorio")
	}
	if in.ManualStatus == "" {
		in.ManualStatus = string(domain.StatusPending)
	}

	unlock := s.Processes.Store.Lock(s.Processes.Name, s.Clients.Name)
	defer unlock()
	clients, processes, err := s.loadBoth(ctx)
	if err != nil {
		return nil, err
	}
	if repository.IndexByID(clients, in.ClientID) < 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "%s", msgClientNotFound)
	}
	id, err := repository.AllocateID(ctx, s.Processes.Collection, processes)
	if err != nil {
		return nil, err
	}
	stages := domain.NewStageTemplate()
	p := domain.Process{
		ID:            id,
		ClientID:      in.ClientID,
		Stages:        stages,
		ProcessStatus: domain.StageStatusOf(stages),
		ManualStatus:  in.ManualStatus,
	}
	processes = append(processes, p)
	if err := s.persist(ctx, processes, clients, p.ClientID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s ProcessService) Update(ctx context.Context, who domain.Identity, id int64, in ProcessInput) (*domain.Process, error) {
	if err := Authorize(who, ResourceProcesses, ActionUpdate); err != nil {
		return nil, err
	}
	unlock := s.Processes.Store.Lock(s.Processes.Name, s.Clients.Name)
	defer unlock()
	clients, processes, err := s.loadBoth(ctx)
	if err != nil {
		return nil, err
	}
	i := repository.IndexByID(processes, id)
	if i < 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "%s", msgProcessNotFound)
	}
	p := processes[i]
	previousClient := p.ClientID
	if in.ClientID != 0 && in.ClientID != p.ClientID {
		if repository.IndexByID(clients, in.ClientID) < 0 {
			return nil, domain.Errorf(domain.ErrNotFound, "%s", msgClientNotFound)
		}
		p.ClientID = in.ClientID
	}
	p.ManualStatus = mergeString(p.ManualStatus, in.ManualStatus)
	processes[i] = p
	if err := s.persist(ctx, processes, clients, previousClient, p.ClientID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s ProcessService) Delete(ctx context.Context, who domain.Identity, id int64) error {
	if err := Authorize(who, ResourceProcesses, ActionDelete); err != nil {
		return err
	}
	unlock := s.Processes.Store.Lock(s.Processes.Name, s.Clients.Name)
	defer unlock()
	clients, processes, err := s.loadBoth(ctx)
	if err != nil {
		return err
	}
	i := repository.IndexByID(processes, id)
	if i < 0 {
		return domain.Errorf(domain.ErrNotFound, "%s", msgProcessNotFound)
	}
	owner := processes[i].ClientID
	processes, _ = repository.RemoveByID(processes, id)
	return s.persist(ctx, processes, clients, owner)
}

// UpdateStage edits one stage, then recomputes the process status and the
// status of the owning client. Both collections are written back.
func (s ProcessService) UpdateStage(ctx context.Context, who domain.Identity, processID int64, stageID int, in StageInput) (*domain.Stage, error) {
	if err := Authorize(who, ResourceStages, ActionUpdate); err != nil {
		return nil, err
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, domain.Errorf(domain.ErrValidation, "estado inválido: %s", in.Status)
	}

	unlock := s.Processes.Store.Lock(s.Processes.Name, s.Clients.Name)
	defer unlock()
	clients, processes, err := s.loadBoth(ctx)
	if err != nil {
		return nil, err
	}
	pi := repository.IndexByID(processes, processID)
	if pi < 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "%s", msgProcessNotFound)
	}
	p := &processes[pi]
	si := -1
	for i, st := range p.Stages {
		if st.ID == stageID {
			si = i
			break
		}
	}
	if si < 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "%s", msgStageNotFound)
	}

	stage := applyStageInput(p.Stages[si], in, dateOnly(clock(s.Now)))
	p.Stages[si] = stage
	p.ProcessStatus = domain.StageStatusOf(p.Stages)

	if err := s.persist(ctx, processes, clients, p.ClientID); err != nil {
		return nil, err
	}
	s.logger().Info("stage updated",
		"process_id", processID,
		"stage_id", stageID,
		"stage_status", stage.Status,
		"process_status", p.ProcessStatus,
	)
	return &stage, nil
}

// applyStageInput merges in over st. fecha_inicio is stamped the first time a
// stage enters En Proceso and fecha_real when it is completed without one.
func applyStageInput(st domain.Stage, in StageInput, today string) domain.Stage {
	wasStarted := st.StartDate != ""
	st.Name = mergeString(st.Name, in.Name)
	st.Status = domain.StageStatus(mergeString(string(st.Status), string(in.Status)))
	st.EstimatedDate = mergeString(st.EstimatedDate, in.EstimatedDate)
	st.ActualDate = mergeString(st.ActualDate, in.ActualDate)
	st.Notes = mergeString(st.Notes, in.Notes)

	if st.Status == domain.StageInProgress && !wasStarted {
		st.StartDate = today
	}
	if st.Status == domain.StageCompleted && st.ActualDate == "" {
		st.ActualDate = today
	}
	return st
}

func (s ProcessService) loadBoth(ctx context.Context) ([]domain.Client, []domain.Process, error) {
	clients, err := s.Clients.All(ctx)
	if err != nil {
		return nil, nil, err
	}
	processes, err := s.Processes.All(ctx)
	if err != nil {
		return nil, nil, err
	}
	return clients, processes, nil
}

// persist saves processes and, when any of the touched clients exists,
// clients with their statuses recomputed.
func (s ProcessService) persist(ctx context.Context, processes []domain.Process, clients []domain.Client, touched ...int64) error {
	if err := s.Processes.SaveAll(ctx, processes); err != nil {
		return err
	}
	changed := false
	for _, id := range touched {
		if domain.RefreshClientStatus(clients, processes, id) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.Clients.SaveAll(ctx, clients)
}

func (s ProcessService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
