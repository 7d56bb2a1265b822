package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/williamvp10/chatbot-nasa/internal/agent"
	"github.com/williamvp10/chatbot-nasa/internal/domain"
)

// apologyReply is persisted and delivered when the assistant fails irrecoverably,
// so the conversation log stays complete.
const apologyReply = "I'm sorry, something went wrong on my side. Please try again later. 🌧️"

// TurnResult reports the outcome of one conversation turn.
type TurnResult struct {
	SessionID string
	Reply     string
	State     domain.TurnState

	// AssistantErr is set when the apology reply replaced a real answer.
	AssistantErr error
	// DeliveryErr is set when the outbound send failed. The persisted
	// messages are kept either way.
	DeliveryErr error
}

// ProcessInbound runs the full pipeline for one inbound payload. Errors
// returned before any persistence (malformed payloads, unknown channels)
// leave no trace; errors after the inbound message persists never undo it.
func (s *Service) ProcessInbound(ctx context.Context, ch domain.Channel, payload []byte) (*TurnResult, error) {
	adapter, ok := s.adapters[ch]
	if !ok {
		return nil, fmt.Errorf("no adapter for channel %s", ch)
	}

	// 1. Normalize. Aborts before any side effect.
	inbound, err := adapter.NormalizeInbound(payload)
	if err != nil {
		return nil, err
	}

	// 2. Resolve session. The store's unique constraint keeps concurrent
	// first messages from the same user on one session.
	session, err := s.store.FindOrCreateSession(ctx, inbound.UserID, ch)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	result := &TurnResult{SessionID: session.SessionID, State: domain.TurnStateSessionResolved}

	// 3. Persist the inbound message.
	if _, err := s.store.AppendMessage(ctx, session.SessionID, inbound.UserID, inbound.Text, domain.MessageTypeUser); err != nil {
		result.State = domain.TurnStateFailed
		return result, fmt.Errorf("persist inbound message: %w", err)
	}
	result.State = domain.TurnStateLoggedInbound

	// 4. Invoke the assistant over the bounded history window.
	reply, assistantErr := s.invokeAssistant(ctx, session, inbound.UserID)
	if assistantErr != nil {
		log.Printf("WARN: assistant failed for session %s: %v", session.SessionID, assistantErr)
		reply = apologyReply
		result.AssistantErr = assistantErr
	}
	result.State = domain.TurnStateAssistantInvoked
	result.Reply = reply

	// 5. Persist the reply. Never rolls back the inbound message.
	if _, err := s.store.AppendMessage(ctx, session.SessionID, domain.SenderBot, reply, domain.MessageTypeBot); err != nil {
		result.State = domain.TurnStateFailed
		return result, fmt.Errorf("persist bot message: %w", err)
	}
	result.State = domain.TurnStateLoggedOutbound

	// 6. Deliver. Failure is reported but the log is already complete.
	deliveryCtx, cancel := context.WithTimeout(ctx, s.config.DeliveryTimeout)
	defer cancel()
	if err := adapter.DeliverOutbound(deliveryCtx, inbound.UserID, reply); err != nil {
		log.Printf("WARN: delivery failed for session %s: %v", session.SessionID, err)
		result.State = domain.TurnStateFailed
		result.DeliveryErr = err
		return result, nil
	}
	result.State = domain.TurnStateDelivered
	return result, nil
}

// ValidateInbound checks that a payload can be normalized for the channel
// without running the pipeline. Webhook handlers use it to reject malformed
// requests before acknowledging.
func (s *Service) ValidateInbound(ch domain.Channel, payload []byte) error {
	adapter, ok := s.adapters[ch]
	if !ok {
		return fmt.Errorf("no adapter for channel %s", ch)
	}
	_, err := adapter.NormalizeInbound(payload)
	return err
}

// ProcessInboundAsync acknowledges immediately and runs the turn in the
// background, the way webhook handlers consume the pipeline.
func (s *Service) ProcessInboundAsync(ch domain.Channel, payload []byte) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.AssistantTimeout+s.config.DeliveryTimeout)
		defer cancel()
		if _, err := s.ProcessInbound(ctx, ch, payload); err != nil {
			log.Printf("WARN: background turn failed: %v", err)
		}
	}()
}

func (s *Service) invokeAssistant(ctx context.Context, session *domain.Session, userID string) (string, error) {
	history, err := s.store.History(ctx, session.SessionID, s.config.HistoryLimit)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	// History comes back most recent first; the assistant wants oldest first.
	oldestFirst := make([]domain.Message, len(history))
	for i, m := range history {
		oldestFirst[len(history)-1-i] = m
	}

	assistantCtx, cancel := context.WithTimeout(ctx, s.config.AssistantTimeout)
	defer cancel()
	return s.assistant.Reply(assistantCtx, agent.Invocation{
		History: oldestFirst,
		UserID:  userID,
		Channel: session.Channel,
		Time:    time.Now(),
	})
}

// History returns up to limit messages for a session, most recent first.
// Returns domain.ErrSessionNotFound for unknown sessions.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	if limit <= 0 {
		limit = 50
	}
	return s.store.History(ctx, sessionID, limit)
}
