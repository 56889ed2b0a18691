package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the rendered conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Widgets   []Widget  `json:"widgets,omitempty"`
}

// NewMessage stamps a message with a fresh id.
func NewMessage(role Role, content string, at time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: at,
	}
}

// ChatTurn is the wire shape of a history entry sent to the
// conversational endpoint.
type ChatTurn struct {
	Role    Role   `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []ChatTurn `json:"messages" binding:"required,min=1,dive"`
}

// QueryRequest is the body of the structured endpoints.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// Turns converts a transcript to request history, dropping widget data.
func Turns(msgs []Message) []ChatTurn {
	turns := make([]ChatTurn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, ChatTurn{Role: m.Role, Content: m.Content})
	}
	return turns
}
