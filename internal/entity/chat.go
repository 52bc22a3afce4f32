package entity

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Chat represents a persisted conversation.
type Chat struct {
	ID        string        `gorm:"primaryKey;type:uuid" json:"id"`
	Title     string        `gorm:"not null" json:"title"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	Messages  []ChatMessage `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// TableName specifies the table name for the Chat model.
func (Chat) TableName() string {
	return "chats"
}

// ChatMessage is one turn in a conversation. A message belongs to exactly
// one chat and is never mutated after creation.
type ChatMessage struct {
	ID        string      `gorm:"primaryKey;type:uuid" json:"id"`
	ChatID    string      `gorm:"type:uuid;not null;index" json:"chat_id"`
	Role      MessageRole `gorm:"not null" json:"role"`
	Content   string      `gorm:"not null" json:"content"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the ChatMessage model.
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// NewChat creates an empty conversation with a fresh id.
func NewChat(title string) *Chat {
	return &Chat{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now(),
	}
}

// NewChatMessage creates a message with a fresh id and timestamp.
func NewChatMessage(chatID string, role MessageRole, content string) *ChatMessage {
	return &ChatMessage{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
