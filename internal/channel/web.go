package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/williamvp10/chatbot-nasa/internal/domain"
)

// WebAdapter handles the web chat channel. Inbound payloads are plain JSON
// and the reply travels back on the same HTTP response, so outbound delivery
// has no transport of its own.
type WebAdapter struct{}

// NewWebAdapter creates a web adapter.
func NewWebAdapter() *WebAdapter {
	return &WebAdapter{}
}

// Channel identifies the transport this adapter serves.
func (a *WebAdapter) Channel() domain.Channel {
	return domain.ChannelWeb
}

type webPayload struct {
	UserID   string `json:"user_id"`
	Message  string `json:"message"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

// NormalizeInbound extracts the user id and message text from a web chat request.
func (a *WebAdapter) NormalizeInbound(payload []byte) (*domain.InboundMessage, error) {
	var body webPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("decode web payload: %w", domain.ErrMalformedPayload)
	}
	if body.UserID == "" {
		return nil, fmt.Errorf("web payload has no user_id: %w", domain.ErrMalformedPayload)
	}

	switch {
	case body.Location != nil:
		text := fmt.Sprintf("Location received: latitude %s, longitude %s",
			strconv.FormatFloat(body.Location.Latitude, 'f', -1, 64),
			strconv.FormatFloat(body.Location.Longitude, 'f', -1, 64))
		return &domain.InboundMessage{UserID: body.UserID, Text: text}, nil
	case body.Message != "":
		return &domain.InboundMessage{UserID: body.UserID, Text: body.Message}, nil
	default:
		return nil, fmt.Errorf("web payload has no message or location: %w", domain.ErrMalformedPayload)
	}
}

// DeliverOutbound is a no-op: the web reply is returned on the request that
// carried the inbound message.
func (a *WebAdapter) DeliverOutbound(ctx context.Context, userID, text string) error {
	return nil
}
