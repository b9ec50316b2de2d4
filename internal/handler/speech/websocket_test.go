package speech

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/maxbuilds/panda-ai/backend/internal/analysis/intent"
	"github.com/maxbuilds/panda-ai/backend/internal/config"
	chatmodel "github.com/maxbuilds/panda-ai/backend/internal/model/chat"
	"github.com/maxbuilds/panda-ai/backend/internal/model/settings"
	"github.com/maxbuilds/panda-ai/backend/internal/service/ai"
	assistantservice "github.com/maxbuilds/panda-ai/backend/internal/service/assistant"
	speechservice "github.com/maxbuilds/panda-ai/backend/internal/service/speech"
)

type bridgeFixture struct {
	conn *websocket.Conn
	svc  *assistantservice.Service
}

func setupBridge(t *testing.T) *bridgeFixture {
	t.Helper()

	aiSvc, err := ai.NewService(context.Background(), config.AIConfig{})
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}

	hub := speechservice.NewHub()
	capturer := speechservice.NewCapturer()
	store := chatmodel.NewMemoryStore()
	settingsStore := settings.NewFileStore(filepath.Join(t.TempDir(), "settings.json"))
	svc := assistantservice.New(store, settingsStore, intent.NewResolver(hub), aiSvc, speechservice.NewHubSpeaker(hub, settingsStore))

	r := chi.NewRouter()
	New(hub, capturer, svc).RegisterRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/speech/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &bridgeFixture{conn: conn, svc: svc}
}

func (f *bridgeFixture) readEvent(t *testing.T) speechservice.Event {
	t.Helper()
	f.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event speechservice.Event
	if err := f.conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return event
}

// waitEvent skips unrelated frames until the wanted type shows up.
func (f *bridgeFixture) waitEvent(t *testing.T, eventType string) speechservice.Event {
	t.Helper()
	for i := 0; i < 10; i++ {
		event := f.readEvent(t)
		if event.Type == eventType {
			return event
		}
	}
	t.Fatalf("event %s never arrived", eventType)
	return speechservice.Event{}
}

func (f *bridgeFixture) send(t *testing.T, msgType, data string) {
	t.Helper()
	payload := `{"type":"` + msgType + `"`
	if data != "" {
		payload += `,"data":` + data
	}
	payload += `}`
	if err := f.conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func listeningFlag(t *testing.T, event speechservice.Event) bool {
	t.Helper()
	data, ok := event.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected event data: %#v", event.Data)
	}
	flag, ok := data["listening"].(bool)
	if !ok {
		t.Fatalf("missing listening flag: %#v", data)
	}
	return flag
}

func TestBridgeToggleStopsActiveCapture(t *testing.T) {
	f := setupBridge(t)
	f.waitEvent(t, "connected")

	f.send(t, "capture_toggle", "")
	f.waitEvent(t, "chime")
	if !listeningFlag(t, f.waitEvent(t, "listening")) {
		t.Fatal("expected listening=true after first toggle")
	}

	// Toggling again stops capture without a transcript.
	f.send(t, "capture_toggle", "")
	if listeningFlag(t, f.waitEvent(t, "listening")) {
		t.Fatal("expected listening=false after second toggle")
	}
	if len(f.svc.History()) != 0 {
		t.Fatalf("stopped capture must not submit anything, got %v", f.svc.History())
	}
}

func TestBridgeTranscriptSubmitsUtterance(t *testing.T) {
	f := setupBridge(t)
	f.waitEvent(t, "connected")

	f.send(t, "capture_toggle", "")
	f.waitEvent(t, "chime")
	f.waitEvent(t, "listening")

	f.send(t, "transcript", `{"text":"tell me a joke"}`)
	if listeningFlag(t, f.waitEvent(t, "listening")) {
		t.Fatal("expected listening=false after transcript")
	}

	// The reply is spoken through the bridge: cancel precedes speak.
	f.waitEvent(t, "cancel")
	f.waitEvent(t, "speak")

	deadline := time.Now().Add(2 * time.Second)
	for len(f.svc.History()) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected user + assistant message, got %v", f.svc.History())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBridgeUnsupportedResetsListening(t *testing.T) {
	f := setupBridge(t)
	f.waitEvent(t, "connected")

	f.send(t, "capture_toggle", "")
	f.waitEvent(t, "chime")
	f.waitEvent(t, "listening")

	f.send(t, "unsupported", "")
	if listeningFlag(t, f.waitEvent(t, "listening")) {
		t.Fatal("expected listening=false after unsupported report")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		history := f.svc.History()
		if len(history) == 1 && history[0].Text == speechservice.CaptureUnavailableReply {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("capability reply never appended, history=%v", history)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBridgeCaptureErrorAnnounces(t *testing.T) {
	f := setupBridge(t)
	f.waitEvent(t, "connected")

	f.send(t, "capture_toggle", "")
	f.waitEvent(t, "chime")
	f.waitEvent(t, "listening")

	f.send(t, "capture_error", `{"error":"not-allowed"}`)
	if listeningFlag(t, f.waitEvent(t, "listening")) {
		t.Fatal("expected listening=false after capture error")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		history := f.svc.History()
		if len(history) == 1 && history[0].Text == speechservice.CaptureErrorReply {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("capture error reply never appended, history=%v", history)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
