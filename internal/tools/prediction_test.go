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

func TestPredictionTomorrow(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"predictions": []float64{18.53, 2.11, 3.4, 81.2},
		})
	}))
	defer srv.Close()

	tool := NewPredictionTool(srv.URL, time.Second)
	out, err := tool.Execute(context.Background(), json.RawMessage(`{"latitude":4.6,"longitude":-74.08,"period":"tomorrow"}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if gotPath != "/api/Prediction/tomorrowPrediction" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotQuery["latitude"][0] != "4.6" || gotQuery["longitude"][0] != "-74.08" {
		t.Fatalf("coordinates not forwarded: %v", gotQuery)
	}
	for _, label := range []string{"T2M", "PRECTOT", "WS10M", "RH2M"} {
		if !strings.Contains(out, label) {
			t.Fatalf("output missing %s: %s", label, out)
		}
	}
	if !strings.Contains(out, "18.53") {
		t.Fatalf("output missing temperature value: %s", out)
	}
}

func TestPredictionWeekStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Prediction/weekPrediction" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"predictions": []map[string]float64{
				{"min": 12.1, "max": 24.9, "average": 18.4},
				{"min": 0.0, "max": 8.2, "average": 3.1},
				{"min": 1.2, "max": 6.6, "average": 3.3},
				{"min": 60.0, "max": 95.0, "average": 80.5},
			},
		})
	}))
	defer srv.Close()

	tool := NewPredictionTool(srv.URL, time.Second)
	out, err := tool.Execute(context.Background(), json.RawMessage(`{"latitude":4.6,"longitude":-74.08,"period":"week"}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.HasPrefix(out, "Week prediction:") {
		t.Fatalf("unexpected prefix: %s", out)
	}
	for _, want := range []string{"Min: 12.10", "Max: 24.90", "Average: 18.40"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %s: %s", want, out)
		}
	}
}

func TestPredictionInvalidPeriod(t *testing.T) {
	tool := NewPredictionTool("http://unused.invalid", time.Second)
	out, err := tool.Execute(context.Background(), json.RawMessage(`{"latitude":4.6,"longitude":-74.08,"period":"decade"}`))
	if err != nil {
		t.Fatalf("expected textual error, got %v", err)
	}
	if !strings.Contains(out, "'decade' is invalid") {
		t.Fatalf("unexpected output: %s", out)
	}
	if !strings.Contains(out, "tomorrow, week, month, quarter") {
		t.Fatalf("output does not name valid periods: %s", out)
	}
}

func TestPredictionHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	tool := NewPredictionTool(srv.URL, time.Second)
	out, err := tool.Execute(context.Background(), json.RawMessage(`{"latitude":4.6,"longitude":-74.08,"period":"month"}`))
	if err != nil {
		t.Fatalf("expected textual error, got %v", err)
	}
	if !strings.Contains(out, "Error retrieving predictions") {
		t.Fatalf("unexpected output: %s", out)
	}
}
