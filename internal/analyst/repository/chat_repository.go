package repository

import (
	"context"

	"go-crypto-analyst/internal/entity"

	"gorm.io/gorm"
)

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates the Postgres-backed conversation store.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// CreateChat persists a new conversation.
func (r *chatRepository) CreateChat(ctx context.Context, chat *entity.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

// GetChat loads one conversation with its messages ordered by creation time.
func (r *chatRepository) GetChat(ctx context.Context, id string) (*entity.Chat, error) {
	var chat entity.Chat
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&chat, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListChats returns all conversations, newest first, without messages.
func (r *chatRepository) ListChats(ctx context.Context) ([]entity.Chat, error) {
	var chats []entity.Chat
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&chats).Error
	return chats, err
}

// DeleteChat removes a conversation and its messages.
func (r *chatRepository) DeleteChat(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&entity.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Chat{}, "id = ?", id).Error
	})
}

// UpdateChatTitle renames a conversation.
func (r *chatRepository) UpdateChatTitle(ctx context.Context, id, title string) error {
	return r.db.WithContext(ctx).Model(&entity.Chat{}).
		Where("id = ?", id).
		Update("title", title).Error
}

// AppendMessage adds one message to its conversation. Messages are
// append-only, a stored message is never updated.
func (r *chatRepository) AppendMessage(ctx context.Context, message *entity.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}
