package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lineage-health/platform/internal/family"
	"github.com/lineage-health/platform/internal/history"
	"github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/events"
	"github.com/lineage-health/platform/internal/shared/types"
)

// TokenIssuer mints a fresh session token for an account. Onboarding returns
// one so the client's token reflects the new onboarding state immediately.
type TokenIssuer interface {
	TokenForUser(ctx context.Context, id types.ID) (string, time.Time, error)
}

// Handler provides HTTP handlers for the profile module. Onboarding writes
// across three tables, so the handler also holds the family and history
// repositories.
type Handler struct {
	repo        *Repository
	familyRepo  *family.Repository
	historyRepo *history.Repository
	tokens      TokenIssuer
	bus         *events.Bus
}

// NewHandler creates a new profile handler
func NewHandler(repo *Repository, familyRepo *family.Repository, historyRepo *history.Repository, tokens TokenIssuer, bus *events.Bus) *Handler {
	return &Handler{repo: repo, familyRepo: familyRepo, historyRepo: historyRepo, tokens: tokens, bus: bus}
}

// Routes registers the profile routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetProfile)
	r.Put("/", h.UpdateProfile)

	return r
}

// GetProfile returns the caller's profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	p, err := h.repo.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// UpdateProfile updates the caller's profile fields
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	p, err := h.repo.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"age": "age must be between 0 and 150",
		}))
		return
	}

	// Apply updates
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Age != nil {
		p.Age = req.Age
	}
	if req.Sex != nil {
		p.Sex = req.Sex
	}
	if req.Height != nil {
		p.Height = req.Height
	}
	if req.Weight != nil {
		p.Weight = req.Weight
	}
	if req.Lifestyle != nil {
		p.Lifestyle = req.Lifestyle
	}

	if err := h.repo.Update(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	if h.bus != nil {
		event := events.NewEvent("profile.updated", "profile", map[string]any{
			"profile_id": p.ID,
		}).WithUser(user.ID)

		h.bus.Publish(r.Context(), event)
	}

	writeJSON(w, http.StatusOK, p)
}

// CompleteOnboarding saves the first-run answers in one shot: profile basics,
// the initial family members, and the caller's own health history. Marks the
// profile onboarded; repeating the call overwrites the profile fields and adds
// members again, matching a client that only sends it once.
func (h *Handler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	var req OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"age": "age must be between 0 and 150",
		}))
		return
	}

	p, err := h.repo.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Age != nil {
		p.Age = req.Age
	}
	if req.Sex != nil {
		p.Sex = req.Sex
	}
	if req.Height != nil {
		p.Height = req.Height
	}
	if req.Weight != nil {
		p.Weight = req.Weight
	}
	if req.Lifestyle != nil {
		p.Lifestyle = req.Lifestyle
	}
	p.OnboardingCompleted = true

	if err := h.repo.Update(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	members := make([]*family.Member, 0, len(req.FamilyMembers))
	for _, fm := range req.FamilyMembers {
		if fm.Relation == "" {
			writeError(w, errors.Validation("validation failed", map[string]string{
				"family_members": "relation is required for every member",
			}))
			return
		}

		member := &family.Member{
			ID:            types.NewID(),
			UserID:        user.ID,
			Relation:      fm.Relation,
			Name:          fm.Name,
			Age:           fm.Age,
			AgeAtDeath:    fm.AgeAtDeath,
			IsAlive:       fm.IsAlive,
			ConditionList: fm.Conditions,
			CauseOfDeath:  fm.CauseOfDeath,
		}
		if member.ConditionList == nil {
			member.ConditionList = []string{}
		}

		if err := h.familyRepo.Create(r.Context(), member); err != nil {
			writeError(w, err)
			return
		}
		members = append(members, member)
	}

	rec := &history.Record{
		ID:                types.NewID(),
		UserID:            user.ID,
		CurrentConditions: req.CurrentConditions,
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

	if err := h.historyRepo.Upsert(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}

	if h.bus != nil {
		event := events.NewEvent("profile.onboarded", "profile", map[string]any{
			"profile_id":     p.ID,
			"family_members": len(members),
		}).WithUser(user.ID)

		h.bus.Publish(r.Context(), event)
	}

	resp := map[string]any{
		"profile":        p,
		"family_members": members,
		"health_history": rec,
	}
	if h.tokens != nil {
		if token, expiresAt, err := h.tokens.TokenForUser(r.Context(), user.ID); err == nil {
			resp["token"] = token
			resp["token_expires_at"] = expiresAt
		}
	}

	writeJSON(w, http.StatusOK, resp)
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
