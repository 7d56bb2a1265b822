package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/williamvp10/chatbot-nasa/internal/adapter/llm"
)

// periodEndpoints maps period tokens to prediction-API endpoints.
var periodEndpoints = map[string]string{
	"tomorrow": "/api/Prediction/tomorrowPrediction",
	"week":     "/api/Prediction/weekPrediction",
	"month":    "/api/Prediction/monthPrediction",
	"quarter":  "/api/Prediction/cuarterPrediction",
}

// PredictionTool fetches agro-meteorological predictions for a location and
// period: temperature (T2M), precipitation (PRECTOT), wind speed (WS10M) and
// relative humidity (RH2M).
type PredictionTool struct {
	baseURL    string
	httpClient *http.Client
}

// NewPredictionTool creates the agriculture-prediction tool.
func NewPredictionTool(baseURL string, timeout time.Duration) *PredictionTool {
	return &PredictionTool{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Definition returns the tool definition bound to the language model.
func (t *PredictionTool) Definition() llm.Tool {
	return llm.Tool{
		Type: "function",
		Function: llm.ToolFunction{
			Name: "get_agriculture_predictions",
			Description: "Gets weather predictions for a location and period (tomorrow, week, month, quarter): " +
				"temperature at 2 meters (T2M, °C), total precipitation (PRECTOT, mm/day), " +
				"wind speed at 10 meters (WS10M, m/s) and relative humidity at 2 meters (RH2M, %).",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"latitude": map[string]interface{}{
						"type": "number",
					},
					"longitude": map[string]interface{}{
						"type": "number",
					},
					"period": map[string]interface{}{
						"type": "string",
						"enum": []string{"tomorrow", "week", "month", "quarter"},
					},
				},
				"required": []string{"latitude", "longitude", "period"},
			},
		},
	}
}

type predictionArgs struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Period    string  `json:"period"`
}

type pointPrediction struct {
	Predictions []float64 `json:"predictions"`
}

type statRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

type statsPrediction struct {
	Predictions []statRange `json:"predictions"`
}

// Execute fetches and formats the prediction. Unknown periods and provider
// failures come back as text so the assistant can relay them.
func (t *PredictionTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var in predictionArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return "Latitude, longitude and a period are required for predictions.", nil
	}

	period := strings.ToLower(in.Period)
	endpoint, ok := periodEndpoints[period]
	if !ok {
		return fmt.Sprintf("The period '%s' is invalid. Valid periods are: tomorrow, week, month, quarter.", in.Period), nil
	}

	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%g", in.Latitude))
	query.Set("longitude", fmt.Sprintf("%g", in.Longitude))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create prediction request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("Error retrieving predictions: %v", err), nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Error retrieving predictions: unexpected status %d", resp.StatusCode), nil
	}

	if period == "tomorrow" {
		var data pointPrediction
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil || len(data.Predictions) < 4 {
			return "Error retrieving predictions: unexpected response format", nil
		}
		return fmt.Sprintf(
			"Prediction for tomorrow:\n"+
				"- **T2M**: %.2f°C 🌡️\n"+
				"- **PRECTOT**: %.2f mm ☔\n"+
				"- **WS10M**: %.2f m/s 💨\n"+
				"- **RH2M**: %.2f%% 💧",
			data.Predictions[0], data.Predictions[1], data.Predictions[2], data.Predictions[3]), nil
	}

	var data statsPrediction
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil || len(data.Predictions) < 4 {
		return "Error retrieving predictions: unexpected response format", nil
	}
	t2m, prectot, ws10m, rh2m := data.Predictions[0], data.Predictions[1], data.Predictions[2], data.Predictions[3]
	return fmt.Sprintf(
		"%s prediction:\n"+
			"- **T2M**: Min: %.2f°C, Max: %.2f°C, Average: %.2f°C 🌡️\n"+
			"- **PRECTOT**: Min: %.2f mm, Max: %.2f mm, Average: %.2f mm ☔\n"+
			"- **WS10M**: Min: %.2f m/s, Max: %.2f m/s, Average: %.2f m/s 💨\n"+
			"- **RH2M**: Min: %.2f%%, Max: %.2f%%, Average: %.2f%% 💧",
		capitalize(period),
		t2m.Min, t2m.Max, t2m.Average,
		prectot.Min, prectot.Max, prectot.Average,
		ws10m.Min, ws10m.Max, ws10m.Average,
		rh2m.Min, rh2m.Max, rh2m.Average), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
