package speech

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	assistantservice "github.com/maxbuilds/panda-ai/backend/internal/service/assistant"
	speechservice "github.com/maxbuilds/panda-ai/backend/internal/service/speech"
)

// Handler bridges the browser's speech capabilities to the orchestrator over
// a WebSocket. The client runs the actual speech engines; the server drives
// capture state, routes transcripts into Submit and pushes speak/navigate/
// state events back.
type Handler struct {
	hub      *speechservice.Hub
	capturer *speechservice.Capturer
	svc      *assistantservice.Service
	upgrader websocket.Upgrader
}

// New creates the speech bridge handler.
func New(hub *speechservice.Hub, capturer *speechservice.Capturer, svc *assistantservice.Service) *Handler {
	return &Handler{
		hub:      hub,
		capturer: capturer,
		svc:      svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the bridge endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/speech/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

type transcriptPayload struct {
	Text string `json:"text"`
}

type captureErrorPayload struct {
	Error string `json:"error"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	client := h.hub.Register(conn)
	defer h.hub.Unregister(client)

	log.Printf("[websocket] speech bridge connected from %s", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.hub.Broadcast("connected", map[string]any{
		"listening": h.capturer.Listening(),
		"thinking":  h.svc.Thinking(),
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[websocket] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			h.handleMessage(ctx, &msg)
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *inboundMessage) {
	switch msg.Type {
	case "capture_toggle":
		h.handleToggle()
	case "transcript":
		h.handleTranscript(ctx, msg.Data)
	case "capture_error":
		h.handleCaptureError(ctx, msg.Data)
	case "capture_end":
		h.handleCaptureEnd()
	case "unsupported":
		h.handleUnsupported(ctx)
	default:
		log.Printf("[websocket] unsupported message type: %s", msg.Type)
	}
}

// handleToggle flips the exclusive capture session. Starting plays the chime;
// stopping emits no result.
func (h *Handler) handleToggle() {
	if h.capturer.Toggle() {
		h.hub.Broadcast("chime", nil)
		h.hub.Broadcast("listening", map[string]any{"listening": true})
		return
	}
	h.hub.Broadcast("listening", map[string]any{"listening": false})
}

// handleTranscript feeds the first transcript of the activation into the
// orchestrator. Transcripts with no active session are dropped.
func (h *Handler) handleTranscript(ctx context.Context, raw json.RawMessage) {
	var payload transcriptPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("[websocket] bad transcript payload: %v", err)
		return
	}

	event := speechservice.CaptureEvent{Kind: speechservice.CaptureResult, Transcript: payload.Text}
	if !h.capturer.Deliver(event) {
		return
	}
	h.hub.Broadcast("listening", map[string]any{"listening": false})

	h.svc.Submit(ctx, payload.Text)
}

// handleCaptureError resets the session and surfaces the failure as a chat
// message, e.g. when microphone access was denied.
func (h *Handler) handleCaptureError(ctx context.Context, raw json.RawMessage) {
	var payload captureErrorPayload
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		log.Printf("[websocket] capture error: %s", payload.Error)
	}

	delivered := h.capturer.Deliver(speechservice.CaptureEvent{Kind: speechservice.CaptureError})
	h.hub.Broadcast("listening", map[string]any{"listening": false})
	if delivered {
		h.svc.Announce(ctx, speechservice.CaptureErrorReply)
	}
}

// handleCaptureEnd closes an activation that produced no transcript.
func (h *Handler) handleCaptureEnd() {
	h.capturer.Deliver(speechservice.CaptureEvent{Kind: speechservice.CaptureEnded})
	h.hub.Broadcast("listening", map[string]any{"listening": false})
}

// handleUnsupported reports a browser without speech recognition.
func (h *Handler) handleUnsupported(ctx context.Context) {
	h.capturer.Stop()
	h.hub.Broadcast("listening", map[string]any{"listening": false})
	h.svc.Announce(ctx, speechservice.CaptureUnavailableReply)
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
