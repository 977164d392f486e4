package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ErikSvetich/treeline-assistant/internal/model/persona"
	"github.com/ErikSvetich/treeline-assistant/pkg/utils"
)

// Handler serves the persona selector. Prompts stay server-side; only labels
// cross the wire.
type Handler struct {
	personas persona.Store
}

// New creates the persona handler.
func New(personas persona.Store) *Handler {
	return &Handler{personas: personas}
}

// RegisterRoutes mounts persona routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
}

func (h *Handler) handleListPersonas(w http.ResponseWriter, _ *http.Request) {
	items := h.personas.List()
	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	utils.RespondJSON(w, http.StatusOK, map[string][]string{"labels": labels})
}
