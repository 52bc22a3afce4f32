package service

import (
	"context"
	"strings"

	"go-crypto-analyst/internal/analyst/repository"
	"go-crypto-analyst/pkg/errs"
	"go-crypto-analyst/pkg/logger"
)

// SymbolExtractor finds the first recognized asset ticker in free text.
type SymbolExtractor interface {
	Extract(ctx context.Context, text string) (string, bool)
}

type symbolExtractor struct {
	marketRepo repository.MarketDataRepository
	log        *logger.Logger
}

// NewSymbolExtractor creates an extractor backed by the coin registry.
func NewSymbolExtractor(marketRepo repository.MarketDataRepository, log *logger.Logger) SymbolExtractor {
	return &symbolExtractor{marketRepo: marketRepo, log: log}
}

// Extract normalizes the text to uppercase alphabetic tokens and tests them
// in original word order against the registry, returning the first match.
func (e *symbolExtractor) Extract(ctx context.Context, text string) (string, bool) {
	for _, word := range strings.Fields(strings.ToUpper(text)) {
		token := normalizeToken(word)
		if token == "" {
			continue
		}

		info, err := e.marketRepo.GetCoinInfo(ctx, token)
		if err != nil {
			if !errs.IsKind(err, errs.KindUnsupportedSymbol) {
				e.log.DebugContext(ctx, "Symbol lookup failed",
					logger.StringField("token", token),
					logger.ErrorField(err))
			}
			continue
		}
		if info != nil {
			return token, true
		}
	}
	return "", false
}

// normalizeToken strips everything except A-Z.
func normalizeToken(word string) string {
	var b strings.Builder
	for _, r := range word {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
