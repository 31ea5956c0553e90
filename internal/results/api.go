package results

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/events"
	"github.com/lineage-health/platform/internal/shared/metrics"
	"github.com/lineage-health/platform/internal/shared/types"
	"github.com/lineage-health/platform/internal/storage"
)

// Handler provides HTTP handlers for the results module
type Handler struct {
	repo      *Repository
	store     *storage.Store
	bus       *events.Bus
	maxUpload int64
}

// NewHandler creates a new results handler
func NewHandler(repo *Repository, store *storage.Store, bus *events.Bus, maxUpload int64) *Handler {
	return &Handler{repo: repo, store: store, bus: bus, maxUpload: maxUpload}
}

// Routes registers the results routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListResults)
	r.Post("/", h.CreateResult)
	r.Post("/upload", h.UploadResult)

	r.Route("/{resultID}", func(r chi.Router) {
		r.Get("/", h.GetResult)
		r.Get("/file", h.DownloadFile)
		r.Delete("/", h.DeleteResult)
	})

	return r
}

// ListResults lists the caller's results, newest first. ?type= and
// ?family_member_id= narrow the listing.
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	var filter ListFilter
	if t := r.URL.Query().Get("type"); t != "" {
		rt := ResultType(t)
		if !rt.Valid() {
			writeError(w, errors.BadRequest("invalid result type"))
			return
		}
		filter.Type = &rt
	}
	if raw := r.URL.Query().Get("family_member_id"); raw != "" {
		memberID, err := types.ParseID(raw)
		if err != nil {
			writeError(w, errors.BadRequest("invalid family member ID"))
			return
		}
		filter.FamilyMemberID = &memberID
	}

	results, err := h.repo.List(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  results,
		"total": len(results),
	})
}

// CreateResult stores a manually entered result
func (h *Handler) CreateResult(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	var req CreateResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Content == "" {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"content": "content is required",
		}))
		return
	}

	res := &Result{
		ID:             types.NewID(),
		UserID:         user.ID,
		FamilyMemberID: req.FamilyMemberID,
		Type:           ResultTypeManual,
		Content:        &req.Content,
	}

	if err := h.repo.Create(r.Context(), res); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordResultCreated(string(ResultTypeManual))
	h.publishCreated(r, user.ID, res)

	writeJSON(w, http.StatusCreated, res)
}

// UploadResult stores an uploaded report file. Multipart form with a "file"
// part and an optional "family_member_id" field.
func (h *Handler) UploadResult(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, errors.BadRequest("invalid multipart body or file too large"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.BadRequest("file part is required"))
		return
	}
	defer file.Close()

	var familyMemberID *types.ID
	if raw := r.FormValue("family_member_id"); raw != "" {
		id, err := types.ParseID(raw)
		if err != nil {
			writeError(w, errors.BadRequest("invalid family member ID"))
			return
		}
		familyMemberID = &id
	}

	stored, err := h.store.Save(user.ID, header.Filename, file)
	if err != nil {
		writeError(w, errors.Wrap(err, "failed to store file"))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	res := &Result{
		ID:             types.NewID(),
		UserID:         user.ID,
		FamilyMemberID: familyMemberID,
		Type:           ResultTypePDF,
		FilePath:       &stored.Path,
		FileHash:       &stored.Hash,
		FileSize:       &stored.Size,
		MimeType:       &mimeType,
	}

	if err := h.repo.Create(r.Context(), res); err != nil {
		h.store.Remove(stored.Path)
		writeError(w, err)
		return
	}

	metrics.RecordResultCreated(string(ResultTypePDF))
	h.publishCreated(r, user.ID, res)

	writeJSON(w, http.StatusCreated, res)
}

// GetResult gets a result by ID
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "resultID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid result ID"))
		return
	}

	res, err := h.repo.Get(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// DownloadFile streams the stored file of an uploaded result
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "resultID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid result ID"))
		return
	}

	res, err := h.repo.Get(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	if res.FilePath == nil {
		writeError(w, errors.NotFound("result file", id.String()))
		return
	}

	f, err := h.store.Open(*res.FilePath)
	if err != nil {
		writeError(w, errors.NotFound("result file", id.String()))
		return
	}
	defer f.Close()

	if res.MimeType != nil {
		w.Header().Set("Content-Type", *res.MimeType)
	}
	w.WriteHeader(http.StatusOK)
	io.Copy(w, f)
}

// DeleteResult removes a result and its stored file if any
func (h *Handler) DeleteResult(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "resultID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid result ID"))
		return
	}

	res, err := h.repo.Get(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.repo.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, err)
		return
	}

	if res.FilePath != nil {
		h.store.Remove(*res.FilePath)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) publishCreated(r *http.Request, userID types.ID, res *Result) {
	if h.bus == nil {
		return
	}

	event := events.NewEvent("result.created", "results", map[string]any{
		"result_id": res.ID,
		"type":      res.Type,
	}).WithUser(userID)

	h.bus.Publish(r.Context(), event)
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
