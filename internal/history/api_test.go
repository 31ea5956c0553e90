package history

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

func TestGetRejectsBadMemberID(t *testing.T) {
	h := NewHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/history?family_member_id=nope", ""))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpsertRejectsBadBody(t *testing.T) {
	h := NewHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Upsert(rec, authedRequest(http.MethodPut, "/history", "{not json"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
