package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/maxbuilds/panda-ai/backend/internal/config"
	"github.com/maxbuilds/panda-ai/backend/internal/service/ai"
)

type failingResponder struct{}

func (failingResponder) Reply(context.Context, ai.ReplyRequest) (string, error) {
	return "", errors.New("upstream exploded")
}

type rejectingResponder struct{}

func (rejectingResponder) Reply(context.Context, ai.ReplyRequest) (string, error) {
	return "", fmt.Errorf("status 401: %w", ai.ErrModelRejected)
}

func setupRouter(t *testing.T, model ai.Responder) *chi.Mux {
	t.Helper()
	if model == nil {
		svc, err := ai.NewService(context.Background(), config.AIConfig{})
		if err != nil {
			t.Fatalf("NewService err: %v", err)
		}
		model = svc
	}

	r := chi.NewRouter()
	New(model).RegisterRoutes(r)
	return r
}

func postAssistant(t *testing.T, r http.Handler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/assistant", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestAssistantUnconfiguredReturnsTemplate(t *testing.T) {
	r := setupRouter(t, nil)

	payload, _ := json.Marshal(ai.ReplyRequest{Message: "hello", AssistantName: "Panda"})
	resp := postAssistant(t, r, payload)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Reply != ai.UnconfiguredReply("Panda", "hello") {
		t.Fatalf("unexpected reply: %q", body.Reply)
	}
}

func TestAssistantModelRejection(t *testing.T) {
	r := setupRouter(t, rejectingResponder{})

	payload, _ := json.Marshal(ai.ReplyRequest{Message: "hello", AssistantName: "Panda"})
	resp := postAssistant(t, r, payload)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Reply != couldNotReachReply {
		t.Fatalf("expected could-not-reach reply, got %q", body.Reply)
	}
}

func TestAssistantUnexpectedFailure(t *testing.T) {
	r := setupRouter(t, failingResponder{})

	payload, _ := json.Marshal(ai.ReplyRequest{Message: "hello", AssistantName: "Panda"})
	resp := postAssistant(t, r, payload)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Reply != unexpectedErrorReply {
		t.Fatalf("expected unexpected-error reply, got %q", body.Reply)
	}
	if body.Reply == couldNotReachReply {
		t.Fatal("generic failures must not reuse the rejection reply")
	}
}

func TestAssistantRejectsBadRequests(t *testing.T) {
	r := setupRouter(t, nil)

	if resp := postAssistant(t, r, []byte("{not json")); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}
	if resp := postAssistant(t, r, []byte(`{"history":[]}`)); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing message, got %d", resp.Code)
	}
}
