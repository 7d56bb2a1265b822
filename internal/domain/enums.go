package domain

// Channel represents a communication transport.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelWeb      Channel = "web"
)

// MessageType distinguishes user messages from bot replies.
type MessageType string

const (
	MessageTypeUser MessageType = "user"
	MessageTypeBot  MessageType = "bot"
)

// TurnState tracks the progress of a single conversation turn.
type TurnState string

const (
	TurnStateReceived         TurnState = "RECEIVED"
	TurnStateSessionResolved  TurnState = "SESSION_RESOLVED"
	TurnStateLoggedInbound    TurnState = "LOGGED_INBOUND"
	TurnStateAssistantInvoked TurnState = "ASSISTANT_INVOKED"
	TurnStateLoggedOutbound   TurnState = "LOGGED_OUTBOUND"
	TurnStateDelivered        TurnState = "DELIVERED"
	TurnStateFailed           TurnState = "FAILED"
)
