package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/williamvp10/chatbot-nasa/internal/config"
	"github.com/williamvp10/chatbot-nasa/internal/domain"
	"github.com/williamvp10/chatbot-nasa/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
	config  *config.Config
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		service: svc,
		config:  cfg,
	}
}

// RegisterRoutes registers the public routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/whatsapp/webhook", h.VerifyWebhook)
	e.POST("/api/whatsapp/webhook", h.WhatsAppWebhook)

	e.POST("/api/chat", h.WebChat)
	e.GET("/api/chat/sessions/:session_id/messages", h.GetSessionMessages)

	e.GET("/health", h.Health)
}

// VerifyWebhook answers the WhatsApp webhook verification handshake.
// GET /api/whatsapp/webhook?hub.mode=&hub.challenge=&hub.verify_token=
func (h *Handler) VerifyWebhook(c echo.Context) error {
	token := c.QueryParam("hub.verify_token")
	if token == "" || token != h.config.VerifyToken {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "verification token mismatch"})
	}

	challenge, err := strconv.Atoi(c.QueryParam("hub.challenge"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid challenge"})
	}
	return c.JSON(http.StatusOK, challenge)
}

// WhatsAppWebhook receives an inbound message, acknowledges immediately and
// processes the turn in the background.
// POST /api/whatsapp/webhook
func (h *Handler) WhatsAppWebhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
	}

	// Reject detectably malformed payloads before acknowledging.
	if err := h.service.ValidateInbound(domain.ChannelWhatsApp, payload); err != nil {
		if errors.Is(err, domain.ErrMalformedPayload) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	h.service.ProcessInboundAsync(domain.ChannelWhatsApp, payload)

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "received",
		"message": "Received and processing",
	})
}

// WebChat runs a full web-channel turn synchronously and returns the reply.
// POST /api/chat
func (h *Handler) WebChat(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
	}

	result, err := h.service.ProcessInbound(c.Request().Context(), domain.ChannelWeb, payload)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedPayload) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"session_id": result.SessionID,
		"reply":      result.Reply,
	})
}

// GetSessionMessages retrieves messages for a session, most recent first.
// GET /api/chat/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	sessionID := c.Param("session_id")
	limit := 0
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	messages, err := h.service.History(c.Request().Context(), sessionID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
