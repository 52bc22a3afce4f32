package service

import (
	"context"
	"sync"

	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/internal/entity"
	"go-crypto-analyst/pkg/errs"
)

// fakeMarketRepo serves a fixed symbol set and scripted branch results.
type fakeMarketRepo struct {
	mu            sync.Mutex
	known         map[string]dto.CoinInfo
	price         *dto.AssetSnapshot
	priceErr      error
	priceDelay    bool
	technicals    *dto.TechnicalIndicators
	technicalsErr error
	infoCalls     []string
}

func (f *fakeMarketRepo) GetCoinInfo(ctx context.Context, symbol string) (*dto.CoinInfo, error) {
	f.mu.Lock()
	f.infoCalls = append(f.infoCalls, symbol)
	f.mu.Unlock()
	if info, ok := f.known[symbol]; ok {
		return &info, nil
	}
	return nil, errs.New(errs.KindUnsupportedSymbol, "unsupported symbol: "+symbol)
}

func (f *fakeMarketRepo) GetAssetPrice(ctx context.Context, symbol string) (*dto.AssetSnapshot, error) {
	if f.priceDelay {
		<-ctx.Done()
		return nil, errs.Wrap(errs.KindNetwork, "price fetch timed out", ctx.Err())
	}
	return f.price, f.priceErr
}

func (f *fakeMarketRepo) GetTechnicalIndicators(ctx context.Context, symbol string) (*dto.TechnicalIndicators, error) {
	return f.technicals, f.technicalsErr
}

// fakeSentiment returns a scripted snapshot, optionally blocking until the
// branch context expires.
type fakeSentiment struct {
	snapshot *dto.SentimentSnapshot
	err      error
	delay    bool
}

func (f *fakeSentiment) GetSentiment(ctx context.Context, symbol string) (*dto.SentimentSnapshot, error) {
	if f.delay {
		<-ctx.Done()
		return nil, errs.Wrap(errs.KindNetwork, "sentiment fetch timed out", ctx.Err())
	}
	return f.snapshot, f.err
}

// fakeNewsRepo returns a scripted news page.
type fakeNewsRepo struct {
	response *dto.NewsResponse
	err      error
}

func (f *fakeNewsRepo) GetNewsBySymbol(ctx context.Context, symbol string) (*dto.NewsResponse, error) {
	return f.response, f.err
}

// fakeFearGreed returns a scripted index value.
type fakeFearGreed struct {
	index int
	err   error
}

func (f *fakeFearGreed) GetIndex(ctx context.Context) (int, error) {
	return f.index, f.err
}

// fakeCompletionRepo records every call and replays a scripted result.
type fakeCompletionRepo struct {
	mu      sync.Mutex
	prompts []string
	text    string
	err     error
}

func (f *fakeCompletionRepo) GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, userPrompt)
	f.mu.Unlock()
	return f.text, f.err
}

func (f *fakeCompletionRepo) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeAggregator returns scripted market data and records fetches.
type fakeAggregator struct {
	mu      sync.Mutex
	symbols []string
	data    *dto.MarketData
	err     error
}

func (f *fakeAggregator) Fetch(ctx context.Context, symbol string) (*dto.MarketData, error) {
	f.mu.Lock()
	f.symbols = append(f.symbols, symbol)
	f.mu.Unlock()
	return f.data, f.err
}

func (f *fakeAggregator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.symbols)
}

// fakeExtractor returns a scripted extraction result.
type fakeExtractor struct {
	symbol string
	found  bool
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) (string, bool) {
	return f.symbol, f.found
}

// fakeChatRepo is an in-memory conversation store.
type fakeChatRepo struct {
	mu       sync.Mutex
	chats    map[string]*entity.Chat
	titles   map[string]string
	appended []*entity.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:  make(map[string]*entity.Chat),
		titles: make(map[string]string),
	}
}

func (f *fakeChatRepo) CreateChat(ctx context.Context, chat *entity.Chat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatRepo) GetChat(ctx context.Context, id string) (*entity.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat, ok := f.chats[id]
	if !ok {
		return nil, errs.New(errs.KindUnknown, "chat not found: "+id)
	}
	copied := *chat
	copied.Messages = append([]entity.ChatMessage(nil), chat.Messages...)
	return &copied, nil
}

func (f *fakeChatRepo) ListChats(ctx context.Context) ([]entity.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chats := make([]entity.Chat, 0, len(f.chats))
	for _, chat := range f.chats {
		chats = append(chats, *chat)
	}
	return chats, nil
}

func (f *fakeChatRepo) DeleteChat(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.chats, id)
	return nil
}

func (f *fakeChatRepo) UpdateChatTitle(ctx context.Context, id, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles[id] = title
	if chat, ok := f.chats[id]; ok {
		chat.Title = title
	}
	return nil
}

func (f *fakeChatRepo) AppendMessage(ctx context.Context, message *entity.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, message)
	if chat, ok := f.chats[message.ChatID]; ok {
		chat.Messages = append(chat.Messages, *message)
	}
	return nil
}
