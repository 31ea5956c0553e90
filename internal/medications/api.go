package medications

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lineage-health/platform/internal/history"
	"github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/errors"
)

// GenericDisclaimer is returned for medications outside the reference table.
const GenericDisclaimer = "No reference information available. Consult your pharmacist or doctor about warnings and interactions."

// MedicationInfo is one medication from the user's history joined with its
// reference entry when one exists.
type MedicationInfo struct {
	Name         string   `json:"name"`
	Known        bool     `json:"known"`
	Category     string   `json:"category,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	Interactions []string `json:"interactions,omitempty"`
	Disclaimer   string   `json:"disclaimer,omitempty"`
}

// Handler provides HTTP handlers for the medications module
type Handler struct {
	historyRepo *history.Repository
}

// NewHandler creates a new medications handler
func NewHandler(historyRepo *history.Repository) *Handler {
	return &Handler{historyRepo: historyRepo}
}

// Routes registers the medications routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListMedications)
	r.Get("/reference/{name}", h.GetReference)

	return r
}

// ListMedications lists the caller's recorded medications with reference info
func (h *Handler) ListMedications(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	rec, err := h.historyRepo.GetSelf(r.Context(), user.ID)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.HTTPStatus == http.StatusNotFound {
			// No history yet means no medications, not an error.
			writeJSON(w, http.StatusOK, map[string]any{
				"data":  []MedicationInfo{},
				"total": 0,
			})
			return
		}
		writeError(w, err)
		return
	}

	infos := make([]MedicationInfo, 0, len(rec.Medications))
	for _, name := range rec.Medications {
		infos = append(infos, buildInfo(name))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  infos,
		"total": len(infos),
	})
}

// GetReference returns the reference entry for one medication by name. Unknown
// medications get the generic disclaimer rather than a 404, so the client can
// always render something.
func (h *Handler) GetReference(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, errors.BadRequest("medication name is required"))
		return
	}

	writeJSON(w, http.StatusOK, buildInfo(name))
}

func buildInfo(name string) MedicationInfo {
	info, ok := LookupReference(name)
	if !ok {
		return MedicationInfo{
			Name:       name,
			Known:      false,
			Disclaimer: GenericDisclaimer,
		}
	}

	return MedicationInfo{
		Name:         name,
		Known:        true,
		Category:     info.Category,
		Warnings:     info.Warnings,
		Interactions: info.Interactions,
	}
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
