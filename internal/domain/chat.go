// Package domain defines the core domain models for the chatbot.
package domain

import (
	"time"
)

// Session represents a durable conversation context keyed by (user, channel).
type Session struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Channel   Channel   `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents a single message exchanged within a session.
// The id and created_at are assigned by the store at persist time.
type Message struct {
	ID          int64       `json:"id"`
	SessionID   string      `json:"session_id"`
	Sender      string      `json:"sender"`
	Content     string      `json:"content"`
	MessageType MessageType `json:"message_type"`
	CreatedAt   time.Time   `json:"created_at"`
}

// SenderBot is the sender recorded for assistant replies.
const SenderBot = "bot"

// InboundMessage is a normalized inbound payload: who sent it and what they said.
type InboundMessage struct {
	UserID string
	Text   string
}
