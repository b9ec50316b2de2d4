package assistant

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maxbuilds/panda-ai/backend/internal/service/ai"
	"github.com/maxbuilds/panda-ai/backend/pkg/utils"
)

// Failure replies returned with a non-200 status; clients may still render
// them as chat lines. A backend refusal names the likely credential problem,
// everything else gets the generic text.
const (
	couldNotReachReply   = "Panda AI could not reach the model. Double-check your API key or model permissions."
	unexpectedErrorReply = "Panda AI ran into an unexpected error. Please try again shortly or review your API credentials."
)

// Handler exposes the model proxy endpoint.
type Handler struct {
	model ai.Responder
}

// New creates the model proxy handler.
func New(model ai.Responder) *Handler {
	return &Handler{model: model}
}

// RegisterRoutes mounts the proxy.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/assistant", h.handleAssistant)
}

// handleAssistant runs one synchronous model round trip. A missing backend
// credential is not an error: the reply is the informational template.
func (h *Handler) handleAssistant(w http.ResponseWriter, r *http.Request) {
	var req ai.ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.model.Reply(r.Context(), req)
	if err != nil {
		log.Printf("[assistant] upstream model failure: %v", err)
		failure := unexpectedErrorReply
		if errors.Is(err, ai.ErrModelRejected) {
			failure = couldNotReachReply
		}
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{"reply": failure})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
