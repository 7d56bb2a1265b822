// Package channel adapts per-channel payload shapes and delivery transports.
package channel

import (
	"context"

	"github.com/williamvp10/chatbot-nasa/internal/domain"
)

// Adapter normalizes inbound payloads and delivers outbound replies for one channel.
type Adapter interface {
	// Channel identifies the transport this adapter serves.
	Channel() domain.Channel

	// NormalizeInbound extracts the sender id and a text representation from a
	// raw payload. Location payloads are rendered as deterministic text.
	// Returns domain.ErrMalformedPayload when the expected fields are missing.
	NormalizeInbound(payload []byte) (*domain.InboundMessage, error)

	// DeliverOutbound sends the reply through the channel's transport.
	// Failures are reported as domain.ErrDelivery.
	DeliverOutbound(ctx context.Context, userID, text string) error
}
