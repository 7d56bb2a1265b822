package llm

import (
	"log"
	"time"
)

// ModeMock selects the mock client instead of the real API.
const ModeMock = "MOCK"

// NewLLMClient creates an LLM client for the configured mode.
// Mode MOCK returns a MockClient; anything else returns a real Client.
func NewLLMClient(mode, baseURL, apiKey string, timeout time.Duration) LLMClient {
	if mode == ModeMock {
		log.Println("CHATBOT_MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}
	return NewClient(baseURL, apiKey, timeout)
}
