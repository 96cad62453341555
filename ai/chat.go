package ai

import (
	"context"
	"log"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
)

// ChatRole tags a conversation turn.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one turn in a conversation.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

const chatSystemPrompt = "You are a helpful support assistant for the MyVoice civic issue platform. " +
	"Help citizens report issues, understand rewards, and navigate the app. Keep answers concise."

// ChatApology is appended as the model turn when the model is unreachable.
const ChatApology = "Sorry, I am having trouble connecting right now."

// Assistant maintains a linear, append-only conversation. History is never
// truncated or summarized; sessions are short-lived and client-local.
type Assistant struct {
	mu      sync.Mutex
	client  *Client
	history []ChatMessage
}

// NewAssistant starts a conversation with the fixed greeting the client
// shows before the first user turn.
func NewAssistant(client *Client) *Assistant {
	return &Assistant{
		client: client,
		history: []ChatMessage{
			{Role: RoleModel, Text: "Hi! I am the MyVoice AI assistant. How can I help you today?"},
		},
	}
}

// Send appends the user message, forwards the whole conversation to the
// model, appends the reply (or the fixed apology on failure), and returns
// the model turn. Each call grows the history by exactly two messages.
func (a *Assistant) Send(ctx context.Context, message string) ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, ChatMessage{Role: RoleUser, Text: message})

	// The wire conversation must open with a user turn, so the canned
	// greeting is skipped and the system instruction rides on the first
	// user message.
	params := make([]anthropic.MessageParam, 0, len(a.history))
	for _, msg := range a.history {
		if len(params) == 0 && msg.Role == RoleModel {
			continue
		}
		text := msg.Text
		if len(params) == 0 {
			text = chatSystemPrompt + "\n\n---\n\nUser: " + text
		}
		if msg.Role == RoleUser {
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
		} else {
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))
		}
	}

	reply := ChatMessage{Role: RoleModel}
	response, err := a.client.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.client.model),
		MaxTokens: maxResponseTokens,
		Messages:  params,
	})
	if err != nil {
		log.Println("Chat failed:", err)
		reply.Text = ChatApology
	} else {
		for _, block := range response.Content {
			if block.Type == "text" {
				reply.Text += block.Text
			}
		}
		if reply.Text == "" {
			reply.Text = ChatApology
		}
	}

	a.history = append(a.history, reply)
	return reply
}

// History returns a copy of the conversation so far.
func (a *Assistant) History() []ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ChatMessage, len(a.history))
	copy(out, a.history)
	return out
}
