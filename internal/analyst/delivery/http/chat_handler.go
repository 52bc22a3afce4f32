package http

import (
	"errors"
	"net/http"
	"strings"

	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/internal/analyst/service"
	"go-crypto-analyst/pkg/errs"
	"go-crypto-analyst/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ChatHandler handles HTTP requests for chats and messages.
type ChatHandler struct {
	chatService service.ChatService
	logger      *logger.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, logger: logger}
}

// RegisterRoutes registers the chat routes to the Echo group.
func (h *ChatHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateChat)
	g.GET("", h.ListChats)
	g.GET("/:id", h.GetChat)
	g.DELETE("/:id", h.DeleteChat)
	g.POST("/:id/messages", h.SendMessage)
}

// CreateChat starts a new conversation.
func (h *ChatHandler) CreateChat(c echo.Context) error {
	chat, err := h.chatService.CreateChat(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to create chat", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to create chat"})
	}
	return c.JSON(http.StatusCreated, chat)
}

// ListChats returns all conversations.
func (h *ChatHandler) ListChats(c echo.Context) error {
	chats, err := h.chatService.ListChats(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list chats", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list chats"})
	}
	return c.JSON(http.StatusOK, chats)
}

// GetChat returns one conversation with its messages.
func (h *ChatHandler) GetChat(c echo.Context) error {
	chat, err := h.chatService.GetChat(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "chat not found"})
		}
		h.logger.Error("Failed to get chat", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to get chat"})
	}
	return c.JSON(http.StatusOK, chat)
}

// DeleteChat removes a conversation.
func (h *ChatHandler) DeleteChat(c echo.Context) error {
	if err := h.chatService.DeleteChat(c.Request().Context(), c.Param("id")); err != nil {
		h.logger.Error("Failed to delete chat", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to delete chat"})
	}
	return c.NoContent(http.StatusNoContent)
}

// SendMessage posts a user message and returns the assistant reply.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req dto.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "message content is required"})
	}

	reply, err := h.chatService.SendMessage(c.Request().Context(), c.Param("id"), req.Content)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "chat not found"})
		}
		if errs.IsKind(err, errs.KindCanceled) {
			// Client went away, nothing useful to write back.
			return c.NoContent(http.StatusNoContent)
		}
		h.logger.Error("Failed to process message", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to process message"})
	}
	return c.JSON(http.StatusCreated, reply)
}
