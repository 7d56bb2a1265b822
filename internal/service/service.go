// Package service orchestrates the conversation pipeline.
package service

import (
	"github.com/williamvp10/chatbot-nasa/internal/agent"
	"github.com/williamvp10/chatbot-nasa/internal/channel"
	"github.com/williamvp10/chatbot-nasa/internal/config"
	"github.com/williamvp10/chatbot-nasa/internal/domain"
	"github.com/williamvp10/chatbot-nasa/internal/store"
)

// Service routes every inbound message through the same pipeline:
// normalize, resolve session, persist, invoke the assistant, persist the
// reply, deliver. It is stateless between turns; conversational state lives
// entirely in the store.
type Service struct {
	store     store.Store
	assistant *agent.Assistant
	adapters  map[domain.Channel]channel.Adapter
	config    *config.Config
}

// New creates the service with one adapter per channel.
func New(st store.Store, assistant *agent.Assistant, adapters []channel.Adapter, cfg *config.Config) *Service {
	byChannel := make(map[domain.Channel]channel.Adapter, len(adapters))
	for _, a := range adapters {
		byChannel[a.Channel()] = a
	}
	return &Service{
		store:     st,
		assistant: assistant,
		adapters:  byChannel,
		config:    cfg,
	}
}
