package chat

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/events"
	"github.com/lineage-health/platform/internal/shared/metrics"
	"github.com/lineage-health/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the chat module
type Handler struct {
	client *Client
	repo   *Repository
	bus    *events.Bus
}

// NewHandler creates a new chat handler
func NewHandler(client *Client, repo *Repository, bus *events.Bus) *Handler {
	return &Handler{client: client, repo: repo, bus: bus}
}

// Routes registers the chat routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Send)
	r.Get("/logs", h.ListLogs)

	return r
}

// Send forwards a message to the assistant and logs the exchange. Returns 503
// when no API key is configured and 502 when the upstream call fails, so the
// client can distinguish "not set up" from "temporarily broken".
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	if !h.client.Configured() {
		metrics.RecordChatMessage("unavailable", 0)
		writeError(w, errors.Unavailable("chat is not configured"))
		return
	}

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, errors.BadRequest("message is required"))
		return
	}

	start := time.Now()
	response, err := h.client.Generate(r.Context(), req.History, req.Message)
	if err != nil {
		metrics.RecordChatMessage("upstream_error", time.Since(start))
		writeError(w, errors.Upstream("assistant is unavailable"))
		return
	}
	metrics.RecordChatMessage("ok", time.Since(start))

	entry := &LogEntry{
		ID:       types.NewID(),
		UserID:   user.ID,
		Message:  req.Message,
		Response: response,
	}
	// The reply was already generated; a failed log write should not eat it.
	if err := h.repo.Log(r.Context(), entry); err == nil && h.bus != nil {
		event := events.NewEvent("chat.message.logged", "chat", map[string]any{
			"log_id": entry.ID,
		}).WithUser(user.ID)

		h.bus.Publish(r.Context(), event)
	}

	writeJSON(w, http.StatusOK, SendResponse{Response: response})
}

// ListLogs returns the caller's recent exchanges, newest first
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.BadRequest("invalid limit"))
			return
		}
		limit = n
	}

	entries, err := h.repo.List(r.Context(), user.ID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  entries,
		"total": len(entries),
	})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
