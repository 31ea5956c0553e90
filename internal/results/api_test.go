package results

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

func TestResultTypeValid(t *testing.T) {
	for _, rt := range []ResultType{ResultTypeManual, ResultTypePDF, ResultTypeImported} {
		if !rt.Valid() {
			t.Errorf("%q should be valid", rt)
		}
	}
	for _, rt := range []ResultType{"", "scan", "MANUAL"} {
		if rt.Valid() {
			t.Errorf("%q should not be valid", rt)
		}
	}
}

func TestCreateResultValidation(t *testing.T) {
	h := NewHandler(nil, nil, nil, 1<<20)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{broken"},
		{"missing content", `{}`},
		{"empty content", `{"content":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.CreateResult(rec, authedRequest(http.MethodPost, "/results", tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestListResultsFilterValidation(t *testing.T) {
	h := NewHandler(nil, nil, nil, 1<<20)

	for _, target := range []string{
		"/results?type=bogus",
		"/results?family_member_id=not-a-uuid",
	} {
		rec := httptest.NewRecorder()
		h.ListResults(rec, authedRequest(http.MethodGet, target, ""))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestUploadRequiresMultipart(t *testing.T) {
	h := NewHandler(nil, nil, nil, 1<<20)

	rec := httptest.NewRecorder()
	h.UploadResult(rec, authedRequest(http.MethodPost, "/results/upload", "plain body"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
