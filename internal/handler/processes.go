package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/service"
)

type ProcessHandler struct {
	Service service.ProcessService
}

func (h ProcessHandler) RegisterRoutes(r chi.Router) {
	r.Get("/procesos", h.list)
	r.Post("/procesos", h.create)
	r.Get("/procesos/{id}", h.get)
	r.Put("/procesos/{id}", h.update)
	r.Delete("/procesos/{id}", h.delete)
	r.Put("/procesos/{procesoId}/etapas/{etapaId}", h.updateStage)
}

type processRequest struct {
	ClientID     flexInt `json:"cliente_id"`
	ManualStatus string  `json:"estado_global_manual"`
}

func (h ProcessHandler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := clientFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cliente_id")
		return
	}
	processes, err := h.Service.List(r.Context(), identity(r), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, processes)
}

func (h ProcessHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := h.Service.Get(r.Context(), identity(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h ProcessHandler) create(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	p, err := h.Service.Create(r.Context(), identity(r), service.ProcessInput{
		ClientID:     int64(req.ClientID),
		ManualStatus: req.ManualStatus,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h ProcessHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req processRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	p, err := h.Service.Update(r.Context(), identity(r), id, service.ProcessInput{
		ClientID:     int64(req.ClientID),
		ManualStatus: req.ManualStatus,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h ProcessHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Service.Delete(r.Context(), identity(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Proceso eliminado")
}

func (h ProcessHandler) updateStage(w http.ResponseWriter, r *http.Request) {
	processID, err := parseID(r, "procesoId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid procesoId")
		return
	}
	stageID, err := strconv.Atoi(chi.URLParam(r, "etapaId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid etapaId")
		return
	}
	var req struct {
		Name          string `json:"nombre"`
		Status        string `json:"estado"`
		EstimatedDate string `json:"fecha_estimada"`
		ActualDate    string `json:"fecha_real"`
		Notes         string `json:"observaciones"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	stage, err := h.Service.UpdateStage(r.Context(), identity(r), processID, stageID, service.StageInput{
		Name:          req.Name,
		Status:        domain.StageStatus(req.Status),
		EstimatedDate: req.EstimatedDate,
		ActualDate:    req.ActualDate,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stage)
}
