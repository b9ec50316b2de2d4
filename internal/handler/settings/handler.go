package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maxbuilds/panda-ai/backend/internal/model/settings"
	"github.com/maxbuilds/panda-ai/backend/pkg/utils"
)

// Handler exposes the assistant settings.
type Handler struct {
	store settings.Store
}

// New creates the settings handler.
func New(store settings.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the settings routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.handleGet)
	r.Patch("/settings", h.handleUpdate)
}

func (h *Handler) handleGet(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Get())
}

// handleUpdate merges a partial update; absent fields stay unchanged.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var partial settings.Partial
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.store.Update(partial))
}
