package painel

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the dashboard endpoints.
func (h *Handler) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/", h.GetPainel)
	r.Get("/filtros", h.GetFiltros)
	r.Get("/atualizacao", h.GetAtualizacao)
	r.Get("/saude", h.GetSaude)

	return r
}
