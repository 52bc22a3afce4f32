package dto

import (
	"time"

	"go-crypto-analyst/internal/entity"
)

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendMessageRequest is the payload for posting a user message to a chat.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// MessageResponse is one chat message returned by the API.
type MessageResponse struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatResponse is one chat returned by the API.
type ChatResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	Messages  []MessageResponse `json:"messages,omitempty"`
}

// NewMessageResponse converts a message entity to its API shape.
func NewMessageResponse(m *entity.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// NewChatResponse converts a chat entity to its API shape.
func NewChatResponse(c *entity.Chat) ChatResponse {
	resp := ChatResponse{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
	}
	for i := range c.Messages {
		resp.Messages = append(resp.Messages, NewMessageResponse(&c.Messages[i]))
	}
	return resp
}
