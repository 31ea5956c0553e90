package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/config"
	"github.com/lineage-health/platform/internal/shared/types"
)

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	user := &auth.User{ID: types.NewID(), Email: "ana@example.com"}
	return req.WithContext(context.WithValue(req.Context(), auth.UserContextKey, user))
}

func TestSendUnconfigured(t *testing.T) {
	h := NewHandler(NewClient(config.ChatConfig{}), nil, nil)

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/chat", `{"message":"hello"}`))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestSendValidation(t *testing.T) {
	h := NewHandler(NewClient(config.ChatConfig{APIKey: "key"}), nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{broken"},
		{"missing message", `{}`},
		{"blank message", `{"message":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Send(rec, authedRequest(http.MethodPost, "/chat", tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSendUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	h := NewHandler(NewClient(config.ChatConfig{
		APIKey:  "key",
		Model:   "gemini-2.5-flash-lite",
		BaseURL: server.URL,
	}), nil, nil)

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/chat", `{"message":"hello"}`))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestListLogsRejectsBadLimit(t *testing.T) {
	h := NewHandler(NewClient(config.ChatConfig{APIKey: "key"}), nil, nil)

	rec := httptest.NewRecorder()
	h.ListLogs(rec, authedRequest(http.MethodGet, "/chat/logs?limit=abc", ""))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
