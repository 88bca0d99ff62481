package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lsandon/fertiviltro-app/internal/service"
)

type ClientHandler struct {
	Service service.ClientService
}

func (h ClientHandler) RegisterRoutes(r chi.Router) {
	r.Get("/clientes", h.list)
	r.Post("/clientes", h.create)
	r.Get("/clientes/{id}", h.get)
	r.Put("/clientes/{id}", h.update)
	r.Delete("/clientes/{id}", h.delete)
}

type clientRequest struct {
	Name                string  `json:"nombre"`
	Email               string  `json:"email"`
	Phone               string  `json:"telefono"`
	Region              string  `json:"region"`
	Municipality        string  `json:"municipio"`
	Farm                string  `json:"finca"`
	ClientType          string  `json:"tipo_cliente"`
	DesiredEmbryos      flexInt `json:"embriones_deseados"`
	AvailableRecipients flexInt `json:"receptoras_disponibles"`
	Notes               string  `json:"observaciones"`
}

func (req clientRequest) input() service.ClientInput {
	return service.ClientInput{
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		Region:              req.Region,
		Municipality:        req.Municipality,
		Farm:                req.Farm,
		ClientType:          req.ClientType,
		DesiredEmbryos:      int64(req.DesiredEmbryos),
		AvailableRecipients: int64(req.AvailableRecipients),
		Notes:               req.Notes,
	}
}

func (h ClientHandler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := clientFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cliente_id")
		return
	}
	clients, err := h.Service.List(r.Context(), identity(r), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h ClientHandler) get(w http.ResponseWriter, r *http.Request) {
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

func (h ClientHandler) create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
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

func (h ClientHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req clientRequest
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

func (h ClientHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Service.Delete(r.Context(), identity(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Cliente eliminado")
}
