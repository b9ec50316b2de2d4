package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/maxbuilds/panda-ai/backend/internal/analysis/intent"
	"github.com/maxbuilds/panda-ai/backend/internal/config"
	"github.com/maxbuilds/panda-ai/backend/internal/handler"
	"github.com/maxbuilds/panda-ai/backend/internal/model/chat"
	"github.com/maxbuilds/panda-ai/backend/internal/model/settings"
	"github.com/maxbuilds/panda-ai/backend/internal/service/ai"
	"github.com/maxbuilds/panda-ai/backend/internal/service/assistant"
	"github.com/maxbuilds/panda-ai/backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Persisted state: two independent blobs.
	messageStore := chat.NewFileStore(cfg.Storage.MessagesPath())
	settingsStore := settings.NewFileStore(cfg.Storage.SettingsPath())

	// Model backend. Running without credentials is fine; replies fall back
	// to the informational template.
	aiSvc, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}
	if aiSvc.Configured() {
		log.Printf("AI service initialized with %s backend", aiSvc.Provider())
	} else {
		log.Println("no model credentials configured, replies use the built-in template")
	}

	// Speech bridge to connected clients.
	hub := speech.NewHub()
	capturer := speech.NewCapturer()
	speaker := speech.NewHubSpeaker(hub, settingsStore)

	var model ai.Responder = aiSvc
	if cfg.AI.Endpoint != "" {
		log.Printf("routing model calls to remote endpoint %s", cfg.AI.Endpoint)
		model = ai.NewClient(cfg.AI.Endpoint)
	}

	svc := assistant.New(messageStore, settingsStore, intent.NewResolver(hub), model, speaker)
	svc.OnThinking(hub.NotifyThinking)
	svc.EnsureGreeting()

	router := handler.NewRouter(svc, aiSvc, settingsStore, hub, capturer)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Panda AI backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
