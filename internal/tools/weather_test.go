package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestWeatherMissingAPIKey(t *testing.T) {
	tool := NewWeatherTool(OpenWeatherBaseURL, "", time.Second)
	out, err := tool.Execute(context.Background(), json.RawMessage(`{"city":"Bogota"}`))
	if err != nil {
		t.Fatalf("expected textual error, got %v", err)
	}
	if !strings.Contains(out, "not configured") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestWeatherSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Bogota" {
			t.Errorf("unexpected city: %s", got)
		}
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("unexpected units: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"weather": []map[string]string{{"description": "nubes dispersas"}},
			"main":    map[string]float64{"temp": 14.2},
		})
	}))
	defer srv.Close()

	tool := NewWeatherTool(srv.URL, "key", time.Second)
	out, err := tool.Execute(context.Background(), json.RawMessage(`{"city":"Bogota"}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, "14.2") || !strings.Contains(out, "nubes dispersas") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestWeatherProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	tool := NewWeatherTool(srv.URL, "bad-key", time.Second)
	out, err := tool.Execute(context.Background(), json.RawMessage(`{"city":"Bogota"}`))
	if err != nil {
		t.Fatalf("expected textual error, got %v", err)
	}
	if !strings.Contains(out, "Could not retrieve") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	tool := NewWeatherTool(OpenWeatherBaseURL, "", time.Second)
	if err := r.Register(tool.Definition(), tool.Execute); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(tool.Definition(), tool.Execute); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if len(r.Definitions()) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(r.Definitions()))
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Execute(context.Background(), "missing_tool", nil); err == nil {
		t.Fatalf("expected error for unknown tool")
	}
}
