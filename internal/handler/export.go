package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/service"
	"github.com/xuri/excelize/v2"
)

type ExportHandler struct {
	Service service.ExportService
	Now     func() time.Time
}

func (h ExportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/export/clientes", h.exportWith(h.Service.ClientsTable))
	r.Get("/export/procesos", h.exportWith(h.Service.ProcessesTable))
}

type tableFunc func(ctx context.Context, who domain.Identity) (*service.Table, error)

func (h ExportHandler) exportWith(build tableFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := strings.ToLower(r.URL.Query().Get("format"))
		if format == "" {
			format = "csv"
		}
		if format != "csv" && format != "xlsx" && format != "excel" {
			writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
			return
		}

		table, err := build(r.Context(), identity(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		now := time.Now()
		if h.Now != nil {
			now = h.Now()
		}
		filename := fmt.Sprintf("%s_%s", table.Name, now.Format("20060102_150405"))

		switch format {
		case "csv":
			data, err := exportCSV(table)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
			_, _ = w.Write(data)
		default:
			data, err := exportXLSX(table)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
			_, _ = w.Write(data)
		}
	}
}

func exportCSV(t *service.Table) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(t.Header)
	for _, row := range t.Rows {
		_ = w.Write(row)
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportXLSX(t *service.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := strings.ToUpper(t.Name[:1]) + t.Name[1:]
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range t.Header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(t.Header))
	_ = f.SetColWidth(sheet, "A", lastCol, 18)
	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", lastCol+"1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
