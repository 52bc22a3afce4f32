package service

import (
	"context"
	"fmt"

	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/internal/analyst/repository"
	"go-crypto-analyst/internal/entity"
	"go-crypto-analyst/pkg/logger"
	"go-crypto-analyst/pkg/utils"
)

const (
	newChatTitle   = "New Chat"
	chatTitleLimit = 40
)

// ChatService manages conversations and drives the analyst for each new
// user message.
type ChatService interface {
	CreateChat(ctx context.Context) (*dto.ChatResponse, error)
	GetChat(ctx context.Context, id string) (*dto.ChatResponse, error)
	ListChats(ctx context.Context) ([]dto.ChatResponse, error)
	DeleteChat(ctx context.Context, id string) error
	SendMessage(ctx context.Context, chatID, content string) (*dto.MessageResponse, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	analyst  AnalystService
	log      *logger.Logger
}

// NewChatService creates the chat service.
func NewChatService(chatRepo repository.ChatRepository, analyst AnalystService, log *logger.Logger) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		analyst:  analyst,
		log:      log,
	}
}

// CreateChat starts an empty conversation.
func (s *chatService) CreateChat(ctx context.Context) (*dto.ChatResponse, error) {
	chat := entity.NewChat(newChatTitle)
	if err := s.chatRepo.CreateChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	resp := dto.NewChatResponse(chat)
	return &resp, nil
}

// GetChat loads a conversation with its messages.
func (s *chatService) GetChat(ctx context.Context, id string) (*dto.ChatResponse, error) {
	chat, err := s.chatRepo.GetChat(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewChatResponse(chat)
	return &resp, nil
}

// ListChats returns all conversations, newest first.
func (s *chatService) ListChats(ctx context.Context) ([]dto.ChatResponse, error) {
	chats, err := s.chatRepo.ListChats(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ChatResponse, 0, len(chats))
	for i := range chats {
		responses = append(responses, dto.NewChatResponse(&chats[i]))
	}
	return responses, nil
}

// DeleteChat removes a conversation.
func (s *chatService) DeleteChat(ctx context.Context, id string) error {
	return s.chatRepo.DeleteChat(ctx, id)
}

// SendMessage appends the user's message, generates the assistant reply and
// appends it too. The reply message is returned.
func (s *chatService) SendMessage(ctx context.Context, chatID, content string) (*dto.MessageResponse, error) {
	chat, err := s.chatRepo.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	userMessage := entity.NewChatMessage(chatID, entity.RoleUser, content)
	if err := s.chatRepo.AppendMessage(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	// First user message names the chat.
	if chat.Title == newChatTitle && len(chat.Messages) == 0 {
		title := utils.TruncateString(content, chatTitleLimit)
		if err := s.chatRepo.UpdateChatTitle(ctx, chatID, title); err != nil {
			s.log.WarnContext(ctx, "Failed to update chat title",
				logger.StringField("chat_id", chatID),
				logger.ErrorField(err))
		}
	}

	reply, err := s.analyst.GenerateReply(ctx, chatID, content)
	if err != nil {
		return nil, err
	}
	if err := s.chatRepo.AppendMessage(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to store assistant message: %w", err)
	}

	resp := dto.NewMessageResponse(reply)
	return &resp, nil
}
