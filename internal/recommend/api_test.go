package recommend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/types"
)

func TestGetRecommendationsRejectsBadTop(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	for _, target := range []string{
		"/recommendations?top=abc",
		"/recommendations?top=0",
		"/recommendations?top=-3",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		user := &auth.User{ID: types.NewID()}
		req = req.WithContext(context.WithValue(req.Context(), auth.UserContextKey, user))

		rec := httptest.NewRecorder()
		h.GetRecommendations(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}
