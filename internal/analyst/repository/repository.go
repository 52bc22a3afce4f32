package repository

import (
	"context"

	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/internal/entity"
)

// CompletionRepository generates one analyst reply from the remote
// text-generation endpoint. All retry behavior lives behind this interface;
// callers invoke it exactly once per user turn.
type CompletionRepository interface {
	GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// MarketDataRepository exposes the price and indicator data sources.
type MarketDataRepository interface {
	GetCoinInfo(ctx context.Context, symbol string) (*dto.CoinInfo, error)
	GetAssetPrice(ctx context.Context, symbol string) (*dto.AssetSnapshot, error)
	GetTechnicalIndicators(ctx context.Context, symbol string) (*dto.TechnicalIndicators, error)
}

// NewsRepository fetches recent articles with vote tallies for a symbol.
type NewsRepository interface {
	GetNewsBySymbol(ctx context.Context, symbol string) (*dto.NewsResponse, error)
}

// FearGreedRepository returns the market-wide fear & greed index (0-100).
type FearGreedRepository interface {
	GetIndex(ctx context.Context) (int, error)
}

// ChatRepository defines the persisted conversation store.
type ChatRepository interface {
	CreateChat(ctx context.Context, chat *entity.Chat) error
	GetChat(ctx context.Context, id string) (*entity.Chat, error)
	ListChats(ctx context.Context) ([]entity.Chat, error)
	DeleteChat(ctx context.Context, id string) error
	UpdateChatTitle(ctx context.Context, id, title string) error
	AppendMessage(ctx context.Context, message *entity.ChatMessage) error
}
