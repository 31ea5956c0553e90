package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lineage-health/platform/internal/shared/config"
)

func testClient(baseURL string) *Client {
	return NewClient(config.ChatConfig{
		APIKey:          "test-key",
		Model:           "gemini-2.5-flash-lite",
		BaseURL:         baseURL,
		Temperature:     0.7,
		MaxOutputTokens: 2048,
	})
}

func TestConfigured(t *testing.T) {
	if NewClient(config.ChatConfig{}).Configured() {
		t.Error("client without API key should not be configured")
	}
	if !testClient("http://localhost").Configured() {
		t.Error("client with API key should be configured")
	}
}

func TestGenerate(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.5-flash-lite:generateContent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{
					{"text": "Stay "},
					{"text": "hydrated."},
				}}},
			},
		})
	}))
	defer server.Close()

	client := testClient(server.URL)
	history := []Message{
		{Role: "user", Text: "hello"},
		{Role: "model", Text: "hi, how can I help?"},
		{Role: "assistant", Text: "stray role"},
	}

	got, err := client.Generate(context.Background(), history, "any hydration tips?")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Stay hydrated." {
		t.Errorf("response = %q, want %q", got, "Stay hydrated.")
	}

	if captured.SystemInstruction == nil || len(captured.SystemInstruction.Parts) == 0 {
		t.Fatal("system instruction missing")
	}
	if len(captured.Contents) != 4 {
		t.Fatalf("contents = %d, want 4", len(captured.Contents))
	}
	// Unknown roles collapse to "user"; only "model" passes through.
	wantRoles := []string{"user", "model", "user", "user"}
	for i, want := range wantRoles {
		if captured.Contents[i].Role != want {
			t.Errorf("contents[%d].role = %q, want %q", i, captured.Contents[i].Role, want)
		}
	}
	if captured.Contents[3].Parts[0].Text != "any hydration tips?" {
		t.Errorf("last turn = %q", captured.Contents[3].Parts[0].Text)
	}
	if captured.GenerationConfig.Temperature != 0.7 {
		t.Errorf("temperature = %v", captured.GenerationConfig.Temperature)
	}
	if captured.GenerationConfig.MaxOutputTokens != 2048 {
		t.Errorf("maxOutputTokens = %d", captured.GenerationConfig.MaxOutputTokens)
	}
}

func TestGenerateUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"http error status",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			"error payload",
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"code": 429, "message": "quota exceeded"},
				})
			},
		},
		{
			"no candidates",
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
			},
		},
		{
			"empty text",
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"candidates": []map[string]any{
						{"content": map[string]any{"parts": []map[string]string{{"text": ""}}}},
					},
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := testClient(server.URL)
			if _, err := client.Generate(context.Background(), nil, "hello"); err == nil {
				t.Error("Generate should fail")
			}
		})
	}
}
