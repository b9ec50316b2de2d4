package chat

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maxbuilds/panda-ai/backend/internal/model/chat"
	assistantservice "github.com/maxbuilds/panda-ai/backend/internal/service/assistant"
	"github.com/maxbuilds/panda-ai/backend/pkg/utils"
)

// Handler exposes the conversation over HTTP.
type Handler struct {
	svc *assistantservice.Service
}

// New creates the chat handler.
func New(svc *assistantservice.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/messages", h.handleList)
	r.Post("/messages", h.handleSubmit)
	r.Delete("/messages", h.handleReset)
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"messages": h.svc.History(),
		"thinking": h.svc.Thinking(),
	})
}

// handleSubmit runs one utterance to completion and returns the messages it
// appended. Empty input yields an empty list, not an error.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appended := h.svc.Submit(r.Context(), payload.Text)
	if appended == nil {
		appended = []chat.Message{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"messages": appended})
}

// handleReset clears the conversation and seeds a fresh greeting.
func (h *Handler) handleReset(w http.ResponseWriter, _ *http.Request) {
	greeting := h.svc.Reset()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"messages": []chat.Message{greeting},
	})
}
