package recommend

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lineage-health/platform/internal/family"
	"github.com/lineage-health/platform/internal/history"
	"github.com/lineage-health/platform/internal/profile"
	"github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/metrics"
)

// Handler computes recommendations on demand from the caller's stored data
type Handler struct {
	profileRepo *profile.Repository
	familyRepo  *family.Repository
	historyRepo *history.Repository
}

// NewHandler creates a new recommendations handler
func NewHandler(profileRepo *profile.Repository, familyRepo *family.Repository, historyRepo *history.Repository) *Handler {
	return &Handler{profileRepo: profileRepo, familyRepo: familyRepo, historyRepo: historyRepo}
}

// Routes registers the recommendations routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetRecommendations)

	return r
}

// GetRecommendations runs the screening rules for the caller. ?top=N limits
// the flat list to its first N entries; the grouped view always reflects the
// full set.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	top := 0
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, errors.BadRequest("top must be a positive integer"))
			return
		}
		top = n
	}

	p, err := h.profileRepo.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	members, err := h.familyRepo.List(r.Context(), user.ID, family.ListFilter{})
	if err != nil {
		writeError(w, err)
		return
	}

	// Missing history just means nothing recorded yet.
	rec, err := h.historyRepo.GetSelf(r.Context(), user.ID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); !ok || appErr.HTTPStatus != http.StatusNotFound {
			writeError(w, err)
			return
		}
		rec = nil
	}

	engineProfile := &Profile{Age: p.Age}
	if p.Sex != nil {
		engineProfile.Sex = *p.Sex
	}

	engineFamily := make([]FamilyMember, 0, len(members))
	for _, m := range members {
		fm := FamilyMember{ConditionList: m.ConditionList}
		// Structured details take over from the flat list when present.
		if len(m.ConditionDetails) > 0 {
			fm.ConditionList = nil
			for _, d := range m.ConditionDetails {
				key := d.Category
				if key == "" {
					key = d.Label
				}
				if key != "" {
					fm.ConditionList = append(fm.ConditionList, key)
				}
			}
		}
		engineFamily = append(engineFamily, fm)
	}

	var engineHistory *HealthHistory
	if rec != nil {
		engineHistory = &HealthHistory{
			CurrentConditions: rec.CurrentConditions,
			ConditionDetails:  rec.ConditionDetails,
		}
	}

	recs := Recommend(engineProfile, engineFamily, engineHistory)
	metrics.RecordRecommendationRun(rec != nil)

	flat := recs
	if top > 0 && top < len(flat) {
		flat = flat[:top]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":    flat,
		"grouped": GroupByPriority(recs),
		"total":   len(recs),
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
