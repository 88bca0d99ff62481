package service

import (
	"context"
	"strconv"

	"github.com/lsandon/fertiviltro-app/internal/domain"
)

// Table is a header row followed by data rows, ready for CSV or XLSX.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

type ExportService struct {
	Clients   ClientService
	Processes ProcessService
}

func (s ExportService) ClientsTable(ctx context.Context, who domain.Identity) (*Table, error) {
	if err := Authorize(who, ResourceExports, ActionRead); err != nil {
		return nil, err
	}
	clients, err := s.Clients.List(ctx, who, nil)
	if err != nil {
		return nil, err
	}
	t := &Table{
		Name: "clientes",
		Header: []string{"id", "nombre", "email", "telefono", "region", "municipio", "finca",
			"tipo_cliente", "embriones_deseados", "receptoras_disponibles", "estado_proceso", "observaciones"},
	}
	for _, c := range clients {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(c.ID, 10), c.Name, c.Email, c.Phone, c.Region, c.Municipality, c.Farm,
			c.ClientType, strconv.FormatInt(c.DesiredEmbryos, 10), strconv.FormatInt(c.AvailableRecipients, 10),
			string(c.ProcessStatus), c.Notes,
		})
	}
	return t, nil
}

// ProcessesTable lists one row per stage so a spreadsheet can be filtered by
// stage or status.
func (s ExportService) ProcessesTable(ctx context.Context, who domain.Identity) (*Table, error) {
	if err := Authorize(who, ResourceExports, ActionRead); err != nil {
		return nil, err
	}
	processes, err := s.Processes.List(ctx, who, nil)
	if err != nil {
		return nil, err
	}
	t := &Table{
		Name: "procesos",
		Header: []string{"proceso_id", "cliente_id", "cliente_nombre", "estado_proceso", "estado_global_manual",
			"etapa_id", "etapa", "estado_etapa", "fecha_estimada", "fecha_inicio", "fecha_real"},
	}
	for _, p := range processes {
		status := string(domain.StageStatusOf(p.Stages))
		for _, st := range p.Stages {
			t.Rows = append(t.Rows, []string{
				strconv.FormatInt(p.ID, 10), strconv.FormatInt(p.ClientID, 10), p.ClientName, status, p.ManualStatus,
				strconv.Itoa(st.ID), st.Name, string(st.Status), st.EstimatedDate, st.StartDate, st.ActualDate,
			})
		}
	}
	return t, nil
}
