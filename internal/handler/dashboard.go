package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lsandon/fertiviltro-app/internal/service"
)

type DashboardHandler struct {
	Service service.DashboardService
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.summary)
}

func (h DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Summary(r.Context(), identity(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
