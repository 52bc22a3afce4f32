package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/internal/analyst/repository"
	"go-crypto-analyst/internal/entity"
	"go-crypto-analyst/pkg/errs"
	"go-crypto-analyst/pkg/logger"
)

const analyzeCommand = "/analyze"

// Fixed user-facing replies for the failure paths. A reply always appears;
// raw errors never reach the message store boundary.
const (
	promptForSymbolMessage = "Please provide a cryptocurrency symbol to analyze. Example: /analyze BTC"
	apologyMessage         = "I apologize, but I encountered an error while analyzing the market data. Please try again."
	authErrorMessage       = "Authentication error. Please check the API key configuration."
	rateLimitMessage       = "Rate limit exceeded. Please try again in a moment."
)

// AnalystService turns one user message into one assistant reply. The
// completion endpoint is invoked at most once per call; all retrying lives
// inside the completion repository.
type AnalystService interface {
	GenerateReply(ctx context.Context, chatID, userMessage string) (*entity.ChatMessage, error)
}

type analystService struct {
	completionRepo repository.CompletionRepository
	aggregator     MarketDataAggregator
	extractor      SymbolExtractor
	log            *logger.Logger
}

// NewAnalystService creates the orchestrator.
func NewAnalystService(completionRepo repository.CompletionRepository, aggregator MarketDataAggregator, extractor SymbolExtractor, log *logger.Logger) AnalystService {
	return &analystService{
		completionRepo: completionRepo,
		aggregator:     aggregator,
		extractor:      extractor,
		log:            log,
	}
}

// GenerateReply produces a well-formed assistant message for every path
// except cancellation, which is returned to the caller as a classified
// error so it can distinguish "user went away" from "generation failed".
func (s *analystService) GenerateReply(ctx context.Context, chatID, userMessage string) (*entity.ChatMessage, error) {
	content, err := s.generate(ctx, userMessage)
	if err != nil {
		return nil, err
	}
	return entity.NewChatMessage(chatID, entity.RoleAssistant, content), nil
}

func (s *analystService) generate(ctx context.Context, userMessage string) (string, error) {
	trimmed := strings.TrimSpace(userMessage)

	if strings.HasPrefix(trimmed, analyzeCommand) {
		symbol := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(trimmed, analyzeCommand)))
		if symbol == "" {
			// Short-circuit: no network call at all.
			return promptForSymbolMessage, nil
		}
		data := s.gatherMarketData(ctx, symbol)
		return s.complete(ctx, repository.BuildAnalyzeCommandPrompt(symbol, data))
	}

	symbol, found := s.extractor.Extract(ctx, trimmed)
	if !found {
		s.log.DebugContext(ctx, "No symbol found, forwarding raw question")
		return s.complete(ctx, trimmed)
	}

	data := s.gatherMarketData(ctx, symbol)
	return s.complete(ctx, repository.BuildQuestionPrompt(trimmed, data))
}

// gatherMarketData runs the aggregator and degrades to nil context when
// every branch failed. Partial data flows through as-is.
func (s *analystService) gatherMarketData(ctx context.Context, symbol string) *dto.MarketData {
	data, err := s.aggregator.Fetch(ctx, symbol)
	if err != nil {
		s.log.WarnContext(ctx, "Proceeding without market context",
			logger.StringField("symbol", symbol),
			logger.StringField("classification", string(errs.KindOf(err))),
			logger.ErrorField(err))
		return nil
	}
	return data
}

// complete invokes the completion client once and maps failures to the
// fixed user-facing replies.
func (s *analystService) complete(ctx context.Context, userPrompt string) (string, error) {
	text, err := s.completionRepo.GenerateCompletion(ctx, repository.AnalystSystemPrompt, userPrompt)
	if err == nil {
		return text, nil
	}

	kind := errs.KindOf(err)
	s.log.ErrorContext(ctx, "Completion failed",
		logger.StringField("classification", string(kind)),
		logger.ErrorField(err))

	switch kind {
	case errs.KindCanceled:
		return "", err
	case errs.KindAuth:
		return authErrorMessage, nil
	case errs.KindRateLimit:
		return rateLimitMessage, nil
	case errs.KindServerRejection:
		return fmt.Sprintf("I encountered an error: %s. Please try again.", rejectionMessage(err)), nil
	default:
		return apologyMessage, nil
	}
}

func rejectionMessage(err error) string {
	var classified *errs.Error
	if errors.As(err, &classified) {
		return classified.Message
	}
	return "Unknown error"
}
