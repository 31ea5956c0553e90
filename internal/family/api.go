package family

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/events"
	"github.com/lineage-health/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the family module
type Handler struct {
	repo *Repository
	bus  *events.Bus
}

// NewHandler creates a new family handler
func NewHandler(repo *Repository, bus *events.Bus) *Handler {
	return &Handler{repo: repo, bus: bus}
}

// Routes registers the family routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListMembers)
	r.Post("/", h.CreateMember)

	r.Route("/{memberID}", func(r chi.Router) {
		r.Get("/", h.GetMember)
		r.Put("/", h.UpdateMember)
		r.Delete("/", h.DeleteMember)
	})

	return r
}

// ListMembers lists the caller's family members. ?relation=child narrows the
// listing to one relation.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	filter := ListFilter{
		Relation: r.URL.Query().Get("relation"),
	}

	members, err := h.repo.List(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  members,
		"total": len(members),
	})
}

// GetMember gets a family member by ID
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "memberID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid member ID"))
		return
	}

	member, err := h.repo.Get(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// CreateMember adds a family member
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	var req CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Relation == "" {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"relation": "relation is required",
		}))
		return
	}

	member := &Member{
		ID:               types.NewID(),
		UserID:           user.ID,
		Relation:         req.Relation,
		Name:             req.Name,
		Age:              req.Age,
		AgeAtDeath:       req.AgeAtDeath,
		IsAlive:          true,
		ConditionList:    req.ConditionList,
		ConditionDetails: req.ConditionDetails,
		CauseOfDeath:     req.CauseOfDeath,
	}
	if req.IsAlive != nil {
		member.IsAlive = *req.IsAlive
	}
	if member.ConditionList == nil {
		member.ConditionList = []string{}
	}

	if err := h.repo.Create(r.Context(), member); err != nil {
		writeError(w, err)
		return
	}

	if h.bus != nil {
		event := events.NewEvent("family.member.added", "family", map[string]any{
			"member_id":  member.ID,
			"relation":   member.Relation,
			"conditions": len(member.ConditionList) + len(member.ConditionDetails),
		}).WithUser(user.ID)

		h.bus.Publish(r.Context(), event)
	}

	writeJSON(w, http.StatusCreated, member)
}

// UpdateMember updates a family member
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "memberID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid member ID"))
		return
	}

	member, err := h.repo.Get(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	// Apply updates
	if req.Relation != nil {
		member.Relation = *req.Relation
	}
	if req.Name != nil {
		member.Name = req.Name
	}
	if req.Age != nil {
		member.Age = req.Age
	}
	if req.AgeAtDeath != nil {
		member.AgeAtDeath = req.AgeAtDeath
	}
	if req.IsAlive != nil {
		member.IsAlive = *req.IsAlive
	}
	if req.ConditionList != nil {
		member.ConditionList = *req.ConditionList
	}
	if req.ConditionDetails != nil {
		member.ConditionDetails = *req.ConditionDetails
	}
	if req.CauseOfDeath != nil {
		member.CauseOfDeath = req.CauseOfDeath
	}

	if err := h.repo.Update(r.Context(), member); err != nil {
		writeError(w, err)
		return
	}

	if h.bus != nil {
		event := events.NewEvent("family.member.updated", "family", map[string]any{
			"member_id": member.ID,
			"relation":  member.Relation,
		}).WithUser(user.ID)

		h.bus.Publish(r.Context(), event)
	}

	writeJSON(w, http.StatusOK, member)
}

// DeleteMember removes a family member
func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "memberID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid member ID"))
		return
	}

	if err := h.repo.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, err)
		return
	}

	if h.bus != nil {
		event := events.NewEvent("family.member.removed", "family", map[string]any{
			"member_id": id,
		}).WithUser(user.ID)

		h.bus.Publish(r.Context(), event)
	}

	w.WriteHeader(http.StatusNoContent)
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
