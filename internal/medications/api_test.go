package medications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetReferenceEndpoint(t *testing.T) {
	h := NewHandler(nil)
	router := h.Routes()

	t.Run("known medication", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reference/Metformin", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var info MedicationInfo
		if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !info.Known {
			t.Error("metformin should be known")
		}
		if info.Category != "Antidiabetic" {
			t.Errorf("category = %q", info.Category)
		}
	})

	t.Run("unknown medication", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reference/paracetamol", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var info MedicationInfo
		if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if info.Known {
			t.Error("paracetamol should not be known")
		}
		if info.Disclaimer != GenericDisclaimer {
			t.Errorf("disclaimer = %q", info.Disclaimer)
		}
	})
}
