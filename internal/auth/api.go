package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	sharedauth "github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/config"
	"github.com/lineage-health/platform/internal/shared/errors"
	"github.com/lineage-health/platform/internal/shared/events"
	"github.com/lineage-health/platform/internal/shared/metrics"
	"github.com/lineage-health/platform/internal/shared/types"
)

const minPasswordLength = 8

// Handler provides HTTP handlers for signup, login, and session introspection
type Handler struct {
	repo *Repository
	cfg  config.AuthConfig
	bus  *events.Bus
}

// NewHandler creates a new auth handler
func NewHandler(repo *Repository, cfg config.AuthConfig, bus *events.Bus) *Handler {
	return &Handler{repo: repo, cfg: cfg, bus: bus}
}

// Routes registers the public auth routes (no token required)
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)

	return r
}

// Signup creates an account and issues a first session token
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	details := map[string]string{}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		details["email"] = "a valid email is required"
	}
	if len(req.Password) < minPasswordLength {
		details["password"] = "password must be at least 8 characters"
	}
	if len(details) > 0 {
		writeError(w, errors.Validation("validation failed", details))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, errors.Internal(err))
		return
	}

	account := &Account{
		ID:           types.NewID(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
	}

	if err := h.repo.Create(r.Context(), account); err != nil {
		writeError(w, err)
		return
	}

	if h.bus != nil {
		event := events.NewEvent("auth.account.created", "auth", map[string]any{
			"account_id": account.ID,
		}).WithUser(account.ID)

		h.bus.Publish(r.Context(), event)
	}

	token, expiresAt, err := h.issueToken(account)
	if err != nil {
		writeError(w, errors.Internal(err))
		return
	}

	writeJSON(w, http.StatusCreated, TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      account.info(),
	})
}

// Login verifies credentials and issues a session token. Wrong email and
// wrong password produce the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	account, err := h.repo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		metrics.RecordLogin(false)
		writeError(w, errors.Unauthorized("invalid email or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		metrics.RecordLogin(false)
		writeError(w, errors.Unauthorized("invalid email or password"))
		return
	}

	token, expiresAt, err := h.issueToken(account)
	if err != nil {
		writeError(w, errors.Internal(err))
		return
	}

	metrics.RecordLogin(true)

	writeJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      account.info(),
	})
}

// Me returns the account behind the presented token. Mounted behind the
// token middleware, unlike Signup and Login.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := sharedauth.GetUser(r.Context())

	account, err := h.repo.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account.info())
}

func (a *Account) info() UserInfo {
	return UserInfo{
		ID:                  a.ID,
		Email:               a.Email,
		Name:                a.Name,
		OnboardingCompleted: a.OnboardingCompleted,
	}
}

// TokenForUser issues a fresh token for an existing account, reflecting its
// current onboarding state. Used after onboarding completes so the client
// does not keep presenting a pre-onboarding token.
func (h *Handler) TokenForUser(ctx context.Context, id types.ID) (string, time.Time, error) {
	account, err := h.repo.Get(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}
	return h.issueToken(account)
}

func (h *Handler) issueToken(account *Account) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(h.cfg.TokenTTLHours) * time.Hour)

	claims := sharedauth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:               account.Email,
		OnboardingCompleted: account.OnboardingCompleted,
		SessionID:           uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
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
