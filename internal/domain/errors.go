package domain

import "errors"

// Error taxonomy for the conversation pipeline. Handlers and the router
// distinguish these with errors.Is; everything else is a wrapped storage error.
var (
	// ErrMalformedPayload means the inbound payload is missing expected fields.
	// No persistence happens when this is returned.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrSessionNotFound means a message referenced a session that does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAssistant means the language-model collaborator failed irrecoverably.
	ErrAssistant = errors.New("assistant invocation failed")

	// ErrDelivery means the outbound send failed. Persisted messages are kept.
	ErrDelivery = errors.New("outbound delivery failed")
)
