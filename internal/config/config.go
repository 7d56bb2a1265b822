// Package config provides configuration for the chatbot service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the chatbot configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// LLM settings
	OpenAIAPIKey    string
	OpenAIModelName string
	OpenAIBaseURL   string
	Mode            string // MOCK selects the offline client

	// Tool providers
	OpenWeatherAPIKey string
	PredictionAPIURL  string
	DisabledTools     []string

	// WhatsApp Cloud API
	WhatsAppAPIToken string
	WhatsAppPhoneID  string
	VerifyToken      string

	// Conversation settings
	HistoryLimit        int
	AssistantMaxRetries int
	GuidedFlow          bool

	// Timeouts
	AssistantTimeout time.Duration
	DeliveryTimeout  time.Duration
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8000),
		DatabaseURL:         getEnv("DATABASE_URL", "file:chatbot.db?cache=shared&mode=rwc"),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIModelName:     getEnv("OPENAI_MODEL_NAME", "gpt-3.5-turbo"),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		Mode:                getEnv("CHATBOT_MODE", ""),
		OpenWeatherAPIKey:   getEnv("OPENWEATHER_API_KEY", ""),
		PredictionAPIURL:    getEnv("PREDICTION_API_URL", "https://nasaanalisisapi-production.up.railway.app"),
		DisabledTools:       getEnvList("DISABLED_TOOLS"),
		WhatsAppAPIToken:    getEnv("WHATSAPP_API_TOKEN", ""),
		WhatsAppPhoneID:     getEnv("WHATSAPP_PHONE_ID", ""),
		VerifyToken:         getEnv("VERIFY_TOKEN", ""),
		HistoryLimit:        getEnvInt("HISTORY_LIMIT", 10),
		AssistantMaxRetries: getEnvInt("ASSISTANT_MAX_RETRIES", 2),
		GuidedFlow:          getEnvBool("GUIDED_FLOW", true),
		AssistantTimeout:    time.Duration(getEnvInt("ASSISTANT_TIMEOUT_MS", 60000)) * time.Millisecond,
		DeliveryTimeout:     time.Duration(getEnvInt("DELIVERY_TIMEOUT_MS", 15000)) * time.Millisecond,
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
