package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/service"
)

type ClaimHandler struct {
	Service service.ClaimService
}

func (h ClaimHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reclamaciones", h.list)
	r.Post("/reclamaciones", h.create)
	r.Get("/reclamaciones/{id}", h.get)
	r.Put("/reclamaciones/{id}", h.update)
	r.Delete("/reclamaciones/{id}", h.delete)
}

type claimRequest struct {
	ClientID    flexInt `json:"cliente_id"`
	Subject     string  `json:"asunto"`
	Reason      string  `json:"motivo"`
	Status      string  `json:"estado"`
	Responsible string  `json:"responsable"`
	Notes       string  `json:"observaciones"`
	Response    string  `json:"respuesta"`
}

func (req claimRequest) input() service.ClaimInput {
	return service.ClaimInput{
		ClientID:    int64(req.ClientID),
		Subject:     req.Subject,
		Reason:      req.Reason,
		Status:      domain.ClaimStatus(req.Status),
		Responsible: req.Responsible,
		Notes:       req.Notes,
		Response:    req.Response,
	}
}

func (h ClaimHandler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := clientFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cliente_id")
		return
	}
	claims, err := h.Service.List(r.Context(), identity(r), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

func (h ClaimHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := h.Service.Get(r.Context(), identity(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h ClaimHandler) create(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	c, err := h.Service.Create(r.Context(), identity(r), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h ClaimHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	c, err := h.Service.Update(r.Context(), identity(r), id, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h ClaimHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Service.Delete(r.Context(), identity(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Reclamación eliminada")
}
