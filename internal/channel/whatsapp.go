package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/williamvp10/chatbot-nasa/internal/domain"
)

// GraphAPIBaseURL is the WhatsApp Business Cloud API endpoint.
const GraphAPIBaseURL = "https://graph.facebook.com/v20.0"

// WhatsAppAdapter speaks the WhatsApp Business Cloud API: webhook envelopes
// inbound, Graph API message sends outbound.
type WhatsAppAdapter struct {
	baseURL    string
	apiToken   string
	phoneID    string
	httpClient *http.Client
}

// NewWhatsAppAdapter creates a WhatsApp adapter.
func NewWhatsAppAdapter(baseURL, apiToken, phoneID string, timeout time.Duration) *WhatsAppAdapter {
	return &WhatsAppAdapter{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiToken: apiToken,
		phoneID:  phoneID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Channel identifies the transport this adapter serves.
func (a *WhatsAppAdapter) Channel() domain.Channel {
	return domain.ChannelWhatsApp
}

// webhookPayload mirrors the Cloud API webhook envelope down to the first message.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []webhookMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

// NormalizeInbound extracts the sender phone number and message text from a
// webhook envelope. Location messages are rendered as text so the assistant
// can use the coordinates.
func (a *WhatsAppAdapter) NormalizeInbound(payload []byte) (*domain.InboundMessage, error) {
	var envelope webhookPayload
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode webhook envelope: %w", domain.ErrMalformedPayload)
	}
	if len(envelope.Entry) == 0 || len(envelope.Entry[0].Changes) == 0 ||
		len(envelope.Entry[0].Changes[0].Value.Messages) == 0 {
		return nil, fmt.Errorf("webhook envelope has no messages: %w", domain.ErrMalformedPayload)
	}

	msg := envelope.Entry[0].Changes[0].Value.Messages[0]
	if msg.From == "" {
		return nil, fmt.Errorf("webhook message has no sender: %w", domain.ErrMalformedPayload)
	}

	switch {
	case msg.Location != nil:
		text := fmt.Sprintf("Location received: latitude %s, longitude %s",
			strconv.FormatFloat(msg.Location.Latitude, 'f', -1, 64),
			strconv.FormatFloat(msg.Location.Longitude, 'f', -1, 64))
		return &domain.InboundMessage{UserID: msg.From, Text: text}, nil
	case msg.Text != nil:
		return &domain.InboundMessage{UserID: msg.From, Text: msg.Text.Body}, nil
	default:
		return nil, fmt.Errorf("webhook message has no text or location: %w", domain.ErrMalformedPayload)
	}
}

// outboundMessage is the Graph API send-message request body.
type outboundMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             outboundText `json:"text"`
}

type outboundText struct {
	Body string `json:"body"`
}

// DeliverOutbound sends the reply to the user via the Graph API.
func (a *WhatsAppAdapter) DeliverOutbound(ctx context.Context, userID, text string) error {
	body, err := json.Marshal(outboundMessage{
		MessagingProduct: "whatsapp",
		To:               userID,
		Type:             "text",
		Text:             outboundText{Body: text},
	})
	if err != nil {
		return fmt.Errorf("marshal outbound message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", a.baseURL, a.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create outbound request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send to %s: %v: %w", userID, err, domain.ErrDelivery)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("WhatsApp API error [%d]: %s: %w", resp.StatusCode, string(respBody), domain.ErrDelivery)
	}
	return nil
}
