package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lsandon/fertiviltro-app/internal/service"
)

type DonorHandler struct {
	Service service.DonorService
}

func (h DonorHandler) RegisterRoutes(r chi.Router) {
	r.Get("/donadoras", h.list)
	r.Post("/donadoras", h.create)
	r.Get("/donadoras/{id}", h.get)
	r.Put("/donadoras/{id}", h.update)
	r.Delete("/donadoras/{id}", h.delete)
}

type donorRequest struct {
	ClientID flexInt `json:"cliente_id"`
	Code     string  `json:"codigo"`
	Breed    string  `json:"raza"`
	Age      flexInt `json:"edad"`
	History  string  `json:"historial"`
}

func (req donorRequest) input() service.DonorInput {
	return service.DonorInput{
		ClientID: int64(req.ClientID),
		Code:     req.Code,
		Breed:    req.Breed,
		Age:      int64(req.Age),
		History:  req.History,
	}
}

func (h DonorHandler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := clientFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cliente_id")
		return
	}
	donors, err := h.Service.List(r.Context(), identity(r), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, donors)
}

func (h DonorHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	d, err := h.Service.Get(r.Context(), identity(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h DonorHandler) create(w http.ResponseWriter, r *http.Request) {
	var req donorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	d, err := h.Service.Create(r.Context(), identity(r), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h DonorHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req donorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	d, err := h.Service.Update(r.Context(), identity(r), id, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h DonorHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Service.Delete(r.Context(), identity(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Donadora eliminada")
}

type RecipientHandler struct {
	Service service.RecipientService
}

func (h RecipientHandler) RegisterRoutes(r chi.Router) {
	r.Get("/receptoras", h.list)
	r.Post("/receptoras", h.create)
	r.Get("/receptoras/{id}", h.get)
	r.Put("/receptoras/{id}", h.update)
	r.Delete("/receptoras/{id}", h.delete)
}

type recipientRequest struct {
	ClientID flexInt `json:"cliente_id"`
	Code     string  `json:"codigo"`
	Notes    string  `json:"observaciones"`
}

func (req recipientRequest) input() service.RecipientInput {
	return service.RecipientInput{
		ClientID: int64(req.ClientID),
		Code:     req.Code,
		Notes:    req.Notes,
	}
}

func (h RecipientHandler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := clientFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cliente_id")
		return
	}
	recipients, err := h.Service.List(r.Context(), identity(r), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipients)
}

func (h RecipientHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	rec, err := h.Service.Get(r.Context(), identity(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h RecipientHandler) create(w http.ResponseWriter, r *http.Request) {
	var req recipientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	rec, err := h.Service.Create(r.Context(), identity(r), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h RecipientHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req recipientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	rec, err := h.Service.Update(r.Context(), identity(r), id, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h RecipientHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Service.Delete(r.Context(), identity(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Receptora eliminada")
}
