package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sharedauth "github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/config"
	"github.com/lineage-health/platform/internal/shared/types"
)

func testHandler() *Handler {
	return NewHandler(nil, config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenTTLHours: 12,
	}, nil)
}

func TestIssueTokenRoundTrip(t *testing.T) {
	h := testHandler()

	account := &Account{
		ID:                  types.NewID(),
		Email:               "ana@example.com",
		Name:                "Ana",
		OnboardingCompleted: true,
	}

	token, expiresAt, err := h.issueToken(account)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	if remaining := time.Until(expiresAt); remaining < 11*time.Hour || remaining > 12*time.Hour {
		t.Errorf("expiry %v not within configured TTL", remaining)
	}

	// The shared middleware must accept the token and expose the user.
	var got *sharedauth.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = sharedauth.GetUser(r.Context())
	})
	mw := sharedauth.Middleware(config.AuthConfig{JWTSecret: "test-secret"})(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("middleware rejected token: %d %s", rec.Code, rec.Body.String())
	}
	if got == nil {
		t.Fatal("user missing from context")
	}
	if got.ID != account.ID {
		t.Errorf("user ID = %v, want %v", got.ID, account.ID)
	}
	if got.Email != account.Email {
		t.Errorf("email = %q, want %q", got.Email, account.Email)
	}
	if !got.OnboardingCompleted {
		t.Error("onboarding flag lost in claims")
	}
	if got.SessionID == "" {
		t.Error("session ID missing")
	}
}

func TestTokenRejectedWithWrongSecret(t *testing.T) {
	h := testHandler()
	token, _, err := h.issueToken(&Account{ID: types.NewID(), Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	mw := sharedauth.Middleware(config.AuthConfig{JWTSecret: "other-secret"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestSignupValidation(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"missing email", `{"password":"longenough"}`},
		{"bad email", `{"email":"not-an-email","password":"longenough"}`},
		{"short password", `{"email":"ana@example.com","password":"short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Signup(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestLoginValidation(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
