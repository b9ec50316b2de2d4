package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	assistantHandler "github.com/maxbuilds/panda-ai/backend/internal/handler/assistant"
	chatHandler "github.com/maxbuilds/panda-ai/backend/internal/handler/chat"
	settingsHandler "github.com/maxbuilds/panda-ai/backend/internal/handler/settings"
	speechHandler "github.com/maxbuilds/panda-ai/backend/internal/handler/speech"
	settingsModel "github.com/maxbuilds/panda-ai/backend/internal/model/settings"
	aiService "github.com/maxbuilds/panda-ai/backend/internal/service/ai"
	assistantService "github.com/maxbuilds/panda-ai/backend/internal/service/assistant"
	speechService "github.com/maxbuilds/panda-ai/backend/internal/service/speech"
	"github.com/maxbuilds/panda-ai/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(
	svc *assistantService.Service,
	aiSvc *aiService.Service,
	settingsStore settingsModel.Store,
	hub *speechService.Hub,
	capturer *speechService.Capturer,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	r.Route("/api", func(api chi.Router) {
		assistantHandler.New(aiSvc).RegisterRoutes(api)
		chatHandler.New(svc).RegisterRoutes(api)
		settingsHandler.New(settingsStore).RegisterRoutes(api)
		speechHandler.New(hub, capturer, svc).RegisterRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			provider := aiSvc.Provider()
			if provider == "" {
				provider = "unconfigured"
			}
			utils.RespondJSON(w, http.StatusOK, map[string]any{
				"status": "ok",
				"model":  provider,
			})
		})
	})

	return r
}
