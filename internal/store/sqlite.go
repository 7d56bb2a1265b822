package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/williamvp10/chatbot-nasa/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// migrate runs database migrations. The UNIQUE(user_id, channel) constraint
// backs the one-session-per-(user, channel) invariant.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			channel TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, channel)
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			sender TEXT NOT NULL,
			content TEXT NOT NULL,
			message_type TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES chat_sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// FindSession returns the session for (userID, channel), or nil when absent.
func (s *SQLiteStore) FindSession(ctx context.Context, userID string, channel domain.Channel) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, channel, created_at FROM chat_sessions WHERE user_id = ? AND channel = ?`,
		userID, channel).Scan(&session.SessionID, &session.UserID, &session.Channel, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateSession persists a new session with a fresh session id.
func (s *SQLiteStore) CreateSession(ctx context.Context, userID string, channel domain.Channel) (*domain.Session, error) {
	session := &domain.Session{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Channel:   channel,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (session_id, user_id, channel, created_at) VALUES (?, ?, ?, ?)`,
		session.SessionID, session.UserID, session.Channel, session.CreatedAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// FindOrCreateSession resolves the session for (userID, channel). Concurrent
// creators race on the unique constraint; the loser re-reads the winner's row.
func (s *SQLiteStore) FindOrCreateSession(ctx context.Context, userID string, channel domain.Channel) (*domain.Session, error) {
	session, err := s.FindSession(ctx, userID, channel)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	session, err = s.CreateSession(ctx, userID, channel)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return s.FindSession(ctx, userID, channel)
		}
		return nil, err
	}
	return session, nil
}

// GetSession retrieves a session by id.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, channel, created_at FROM chat_sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.UserID, &session.Channel, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AppendMessage persists a message, assigning its id and created_at.
func (s *SQLiteStore) AppendMessage(ctx context.Context, sessionID, sender, content string, messageType domain.MessageType) (*domain.Message, error) {
	msg := &domain.Message{
		SessionID:   sessionID,
		Sender:      sender,
		Content:     content,
		MessageType: messageType,
		CreatedAt:   time.Now().UTC(),
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (session_id, sender, content, message_type, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.SessionID, msg.Sender, msg.Content, msg.MessageType, msg.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return nil, fmt.Errorf("append message to %s: %w", sessionID, domain.ErrSessionNotFound)
		}
		return nil, err
	}
	msg.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// History retrieves up to limit messages for a session, most recent first.
func (s *SQLiteStore) History(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	query := `SELECT id, session_id, sender, content, message_type, created_at FROM chat_messages
		WHERE session_id = ? ORDER BY created_at DESC, id DESC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Sender, &msg.Content, &msg.MessageType, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
