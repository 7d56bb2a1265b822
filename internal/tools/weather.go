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

// OpenWeatherBaseURL is the OpenWeather current-conditions endpoint.
const OpenWeatherBaseURL = "http://api.openweathermap.org/data/2.5/weather"

// WeatherTool fetches current conditions for a city from OpenWeather.
type WeatherTool struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewWeatherTool creates the weather tool.
func NewWeatherTool(baseURL, apiKey string, timeout time.Duration) *WeatherTool {
	return &WeatherTool{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Definition returns the tool definition bound to the language model.
func (t *WeatherTool) Definition() llm.Tool {
	return llm.Tool{
		Type: "function",
		Function: llm.ToolFunction{
			Name:        "get_weather",
			Description: "Gets the current weather for a given city.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"city": map[string]interface{}{
						"type":        "string",
						"description": "City name, e.g. Bogota",
					},
				},
				"required": []string{"city"},
			},
		},
	}
}

type weatherArgs struct {
	City string `json:"city"`
}

type weatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// Execute looks up current conditions. Provider failures come back as text.
func (t *WeatherTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var in weatherArgs
	if err := json.Unmarshal(args, &in); err != nil || in.City == "" {
		return "A city name is required to look up the weather.", nil
	}
	if t.apiKey == "" {
		return "The weather API key is not configured.", nil
	}

	query := url.Values{}
	query.Set("q", in.City)
	query.Set("appid", t.apiKey)
	query.Set("units", "metric")
	query.Set("lang", "es")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create weather request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "Could not retrieve the weather information.", nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "Could not retrieve the weather information.", nil
	}

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil || len(data.Weather) == 0 {
		return "Could not retrieve the weather information.", nil
	}

	return fmt.Sprintf("In %s, the temperature is %.1f°C and the weather is %s.",
		in.City, data.Main.Temp, data.Weather[0].Description), nil
}
