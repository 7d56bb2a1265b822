// Package agent implements the assistant invocation: prompt assembly, the
// tool-calling loop and the bounded retry on invalid model output.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/williamvp10/chatbot-nasa/internal/adapter/llm"
	"github.com/williamvp10/chatbot-nasa/internal/config"
	"github.com/williamvp10/chatbot-nasa/internal/domain"
	"github.com/williamvp10/chatbot-nasa/internal/tools"
	"github.com/williamvp10/chatbot-nasa/policy"
)

// maxToolRounds caps the assistant⇄tools cycle so a turn always terminates.
const maxToolRounds = 5

// fallbackReply is returned when the model keeps producing invalid output.
const fallbackReply = "I'm sorry, I couldn't come up with a good answer right now. Please try again in a moment. 🌾"

// correctiveInstruction is appended when the model returns empty output.
const correctiveInstruction = "Please respond with a valid output."

const systemPromptBase = "You are *Don Pepe*, a farmer and scientist who is an expert in agriculture 🌾👩‍🌾. " +
	"Your personality is friendly, patient and very detailed; always speak in the first person. " +
	"Your main task is to help users with information about the weather, agricultural predictions and general " +
	"assistance on farming topics. Make sure users understand the information you give them, using simple " +
	"explanations and emojis, and highlight important keywords in *bold* using a single * at the start and end. " +
	"\n\nWhenever a user starts a conversation, greet them warmly, introduce yourself as Don Pepe and show a menu " +
	"of what you can do:\n" +
	"1. *Check the current weather* 🌦️\n" +
	"2. *Check predictions of meteorological parameters* 📊 such as:\n" +
	"- Temperature at 2 meters (°C) 🌡️\n" +
	"- Total precipitation (mm/day) ☔\n" +
	"- Wind speed at 10 meters (m/s) 💨\n" +
	"- Relative humidity at 2 meters (%) 💧\n" +
	"Whenever you provide predictions, explain in simple terms how each parameter affects or benefits the crops, " +
	"and close with clear recommendations the user can follow."

const systemPromptGuided = "\n\n🔍 Before providing predictions, ask the user these questions one at a time, " +
	"waiting for each answer:\n" +
	"1. Which crops do they have, or which crops are they interested in growing?\n" +
	"2. Do they want the prediction for tomorrow or for the week?\n" +
	"3. Finally, ask for their location so the prediction matches where they farm."

const systemPromptContext = "\n\n*Current user information*:\n<User>\n%s\n</User>" +
	"\n\n*Agricultural interests*:\n<User_interest>\n%s\n</User_interest>" +
	"\n*Current time*: %s."

// Invocation carries everything one assistant call needs: the conversation so
// far (oldest first, ending with the new user message) and the session-scoped
// configuration.
type Invocation struct {
	History      []domain.Message
	UserID       string
	Channel      domain.Channel
	UserInfo     string
	UserInterest string
	Time         time.Time
}

// Assistant invokes the language model with the registered tools bound.
type Assistant struct {
	client       llm.LLMClient
	registry     *tools.Registry
	policyEngine *policy.Engine
	cfg          *config.Config
}

// New creates an assistant.
func New(client llm.LLMClient, registry *tools.Registry, policyEngine *policy.Engine, cfg *config.Config) *Assistant {
	return &Assistant{
		client:       client,
		registry:     registry,
		policyEngine: policyEngine,
		cfg:          cfg,
	}
}

// Reply produces the assistant's answer for one turn. Tool calls requested by
// the model are resolved through the registry before the final text comes
// back; tool failures become textual tool results so the conversation keeps
// going. Empty or invalid model output triggers a corrective re-invocation
// bounded by the configured retry count.
func (a *Assistant) Reply(ctx context.Context, inv Invocation) (string, error) {
	messages := a.buildMessages(inv)

	temperature := 0.7
	req := &llm.ChatCompletionRequest{
		Model:       a.cfg.OpenAIModelName,
		Messages:    messages,
		Temperature: &temperature,
		Tools:       a.registry.Definitions(),
	}

	retries := 0
	toolRounds := 0
	for {
		resp, err := a.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("chat completion: %v: %w", err, domain.ErrAssistant)
		}

		var msg *llm.ChatMessage
		if len(resp.Choices) > 0 {
			msg = resp.Choices[0].Message
		}

		switch {
		case msg != nil && len(msg.ToolCalls) > 0:
			if toolRounds >= maxToolRounds {
				log.Printf("WARN: tool round limit reached for user %s, returning fallback", inv.UserID)
				return fallbackReply, nil
			}
			toolRounds++
			req.Messages = append(req.Messages, *msg)
			for _, tc := range msg.ToolCalls {
				result := a.runTool(ctx, inv, tc)
				req.Messages = append(req.Messages, llm.ChatMessage{
					Role:       "tool",
					Content:    result,
					Name:       tc.Function.Name,
					ToolCallID: tc.ID,
				})
			}

		case msg == nil || strings.TrimSpace(msg.Content) == "":
			if retries >= a.cfg.AssistantMaxRetries {
				log.Printf("WARN: assistant retries exhausted for user %s, returning fallback", inv.UserID)
				return fallbackReply, nil
			}
			retries++
			req.Messages = append(req.Messages, llm.ChatMessage{Role: "user", Content: correctiveInstruction})

		default:
			return msg.Content, nil
		}
	}
}

// buildMessages assembles the system prompt and maps the persisted history
// onto chat roles, oldest first.
func (a *Assistant) buildMessages(inv Invocation) []llm.ChatMessage {
	prompt := systemPromptBase
	if a.cfg.GuidedFlow {
		prompt += systemPromptGuided
	}
	userInfo := inv.UserInfo
	if userInfo == "" {
		userInfo = "Farmer"
	}
	userInterest := inv.UserInterest
	if userInterest == "" {
		userInterest = "not stated yet"
	}
	prompt += fmt.Sprintf(systemPromptContext, userInfo, userInterest, inv.Time.Format(time.RFC1123))

	messages := []llm.ChatMessage{{Role: "system", Content: prompt}}
	for _, m := range inv.History {
		role := "user"
		if m.MessageType == domain.MessageTypeBot {
			role = "assistant"
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: m.Content})
	}
	return messages
}

// runTool policy-checks and executes one requested tool call, always
// returning text for the tool result message.
func (a *Assistant) runTool(ctx context.Context, inv Invocation, tc llm.ToolCall) string {
	name := tc.Function.Name

	policyInput := map[string]interface{}{
		"tool_name":      name,
		"user_id":        inv.UserID,
		"channel":        string(inv.Channel),
		"disabled_tools": a.cfg.DisabledTools,
	}
	var argsMap map[string]interface{}
	if err := json.Unmarshal([]byte(tc.Function.Arguments), &argsMap); err == nil {
		policyInput["args"] = argsMap
	} else {
		policyInput["args"] = map[string]interface{}{}
	}

	decision, err := a.policyEngine.Evaluate(ctx, policyInput)
	if err != nil {
		log.Printf("WARN: policy evaluation failed for tool %s: %v", name, err)
		return fmt.Sprintf("The tool %s is not available right now.", name)
	}
	if decision == "block" {
		return fmt.Sprintf("The tool %s is disabled.", name)
	}

	result, err := a.registry.Execute(ctx, name, json.RawMessage(tc.Function.Arguments))
	if err != nil {
		log.Printf("WARN: tool %s failed: %v", name, err)
		return fmt.Sprintf("The tool %s failed: %v", name, err)
	}
	return result
}
