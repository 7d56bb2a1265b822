// Package store persists chat sessions and messages.
package store

import (
	"context"

	"github.com/williamvp10/chatbot-nasa/internal/domain"
)

// Store is the persistence contract for the conversation pipeline.
type Store interface {
	// FindSession returns the session for (userID, channel), or nil when absent.
	FindSession(ctx context.Context, userID string, channel domain.Channel) (*domain.Session, error)

	// CreateSession persists a new session with a fresh session id.
	CreateSession(ctx context.Context, userID string, channel domain.Channel) (*domain.Session, error)

	// FindOrCreateSession resolves the single session for (userID, channel),
	// creating it when missing. At most one session ever exists per pair.
	FindOrCreateSession(ctx context.Context, userID string, channel domain.Channel) (*domain.Session, error)

	// GetSession returns the session with the given id, or nil when absent.
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// AppendMessage persists a message, assigning its id and created_at.
	// Returns domain.ErrSessionNotFound when the session does not exist.
	AppendMessage(ctx context.Context, sessionID, sender, content string, messageType domain.MessageType) (*domain.Message, error)

	// History returns up to limit messages for the session, most recent first.
	History(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)

	Close() error
}
