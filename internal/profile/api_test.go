package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/types"
)

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	user := &auth.User{ID: types.NewID(), Email: "ana@example.com"}
	return req.WithContext(context.WithValue(req.Context(), auth.UserContextKey, user))
}

func TestCompleteOnboardingValidation(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{broken"},
		{"negative age", `{"age":-1}`},
		{"impossible age", `{"age":200}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.CompleteOnboarding(rec, authedRequest(http.MethodPost, "/onboarding", tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
