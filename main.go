package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/williamvp10/chatbot-nasa/internal/adapter/llm"
	"github.com/williamvp10/chatbot-nasa/internal/agent"
	"github.com/williamvp10/chatbot-nasa/internal/channel"
	"github.com/williamvp10/chatbot-nasa/internal/config"
	"github.com/williamvp10/chatbot-nasa/internal/service"
	"github.com/williamvp10/chatbot-nasa/internal/store"
	"github.com/williamvp10/chatbot-nasa/internal/tools"
	handler "github.com/williamvp10/chatbot-nasa/internal/transport/http"
	"github.com/williamvp10/chatbot-nasa/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting chatbot...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Mode: %s", cfg.Mode)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize LLM client
	llmClient := llm.NewLLMClient(cfg.Mode, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.AssistantTimeout)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Register tools
	registry := tools.NewRegistry()
	weather := tools.NewWeatherTool(tools.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey, cfg.AssistantTimeout)
	registry.MustRegister(weather.Definition(), weather.Execute)
	prediction := tools.NewPredictionTool(cfg.PredictionAPIURL, cfg.AssistantTimeout)
	registry.MustRegister(prediction.Definition(), prediction.Execute)

	// Initialize assistant
	assistant := agent.New(llmClient, registry, policyEngine, cfg)

	// Initialize channel adapters
	adapters := []channel.Adapter{
		channel.NewWhatsAppAdapter(channel.GraphAPIBaseURL, cfg.WhatsAppAPIToken, cfg.WhatsAppPhoneID, cfg.DeliveryTimeout),
		channel.NewWebAdapter(),
	}

	// Initialize service and HTTP server
	svc := service.New(db, assistant, adapters, cfg)
	h := handler.NewHandler(svc, cfg)
	server := handler.NewServer(h)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chatbot...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Chatbot stopped")
}
