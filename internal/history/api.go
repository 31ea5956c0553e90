package history

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/events"
	"github.com/lineage-health/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the history module
type Handler struct {
	repo *Repository
	bus  *events.Bus
}

// NewHandler creates a new history handler
func NewHandler(repo *Repository, bus *events.Bus) *Handler {
	return &Handler{repo: repo, bus: bus}
}

// Routes registers the history routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Get)
	r.Put("/", h.Upsert)
	r.Get("/all", h.List)

	return r
}

// Get returns a single record: the caller's own by default, or one family
// member's when ?family_member_id= is given.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	var (
		rec *Record
		err error
	)
	if raw := r.URL.Query().Get("family_member_id"); raw != "" {
		memberID, parseErr := types.ParseID(raw)
		if parseErr != nil {
			writeError(w, errors.BadRequest("invalid family member ID"))
			return
		}
		rec, err = h.repo.GetForMember(r.Context(), user.ID, memberID)
	} else {
		rec, err = h.repo.GetSelf(r.Context(), user.ID)
	}

	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// List returns every history record the caller keeps
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	records, err := h.repo.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  records,
		"total": len(records),
	})
}

// Upsert replaces the full content of one record
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	rec := &Record{
		ID:                types.NewID(),
		UserID:            user.ID,
		FamilyMemberID:    req.FamilyMemberID,
		CurrentConditions: req.CurrentConditions,
		ConditionDetails:  req.ConditionDetails,
		Medications:       req.Medications,
		Allergies:         req.Allergies,
		Surgeries:         req.Surgeries,
	}
	if rec.CurrentConditions == nil {
		rec.CurrentConditions = []string{}
	}
	if rec.Medications == nil {
		rec.Medications = []string{}
	}
	if rec.Allergies == nil {
		rec.Allergies = []string{}
	}
	if rec.Surgeries == nil {
		rec.Surgeries = []string{}
	}

	if err := h.repo.Upsert(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}

	if h.bus != nil {
		event := events.NewEvent("history.updated", "history", map[string]any{
			"record_id":        rec.ID,
			"family_member_id": rec.FamilyMemberID,
			"conditions":       len(rec.CurrentConditions) + len(rec.ConditionDetails),
		}).WithUser(user.ID)

		h.bus.Publish(r.Context(), event)
	}

	writeJSON(w, http.StatusOK, rec)
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
