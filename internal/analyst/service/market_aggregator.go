package service

import (
	"context"
	"sync"
	"time"

	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/internal/analyst/repository"
	"go-crypto-analyst/pkg/errs"
	"go-crypto-analyst/pkg/logger"
	"go-crypto-analyst/pkg/utils"
)

const defaultBranchTimeout = 5 * time.Second

// MarketDataAggregator gathers price, technical indicators and sentiment
// for a symbol in parallel, tolerating partial failure.
type MarketDataAggregator interface {
	Fetch(ctx context.Context, symbol string) (*dto.MarketData, error)
}

type marketDataAggregator struct {
	marketRepo    repository.MarketDataRepository
	sentiment     SentimentAggregator
	log           *logger.Logger
	branchTimeout time.Duration
}

// NewMarketDataAggregator creates the aggregator. branchTimeout <= 0 falls
// back to 5s.
func NewMarketDataAggregator(marketRepo repository.MarketDataRepository, sentiment SentimentAggregator, log *logger.Logger, branchTimeout time.Duration) MarketDataAggregator {
	if branchTimeout <= 0 {
		branchTimeout = defaultBranchTimeout
	}
	return &marketDataAggregator{
		marketRepo:    marketRepo,
		sentiment:     sentiment,
		log:           log,
		branchTimeout: branchTimeout,
	}
}

// Fetch fans out the three branches and joins whatever settled. Each branch
// has its own timeout; one branch failing never cancels the others. Only
// the all-branches-failed condition surfaces as an error, classified from
// the price branch when possible.
func (a *marketDataAggregator) Fetch(ctx context.Context, symbol string) (*dto.MarketData, error) {
	data := &dto.MarketData{Symbol: symbol}

	var (
		wg                              sync.WaitGroup
		priceErr, technicalErr, sentErr error
	)

	wg.Add(3)
	utils.GoSafe(func() {
		defer wg.Done()
		branchCtx, cancel := context.WithTimeout(ctx, a.branchTimeout)
		defer cancel()
		data.Price, priceErr = a.marketRepo.GetAssetPrice(branchCtx, symbol)
	})
	utils.GoSafe(func() {
		defer wg.Done()
		branchCtx, cancel := context.WithTimeout(ctx, a.branchTimeout)
		defer cancel()
		data.Technicals, technicalErr = a.marketRepo.GetTechnicalIndicators(branchCtx, symbol)
	})
	utils.GoSafe(func() {
		defer wg.Done()
		branchCtx, cancel := context.WithTimeout(ctx, a.branchTimeout)
		defer cancel()
		data.Sentiment, sentErr = a.sentiment.GetSentiment(branchCtx, symbol)
	})
	wg.Wait()

	a.logBranchFailure(ctx, symbol, "price", priceErr)
	a.logBranchFailure(ctx, symbol, "technicals", technicalErr)
	a.logBranchFailure(ctx, symbol, "sentiment", sentErr)

	if data.Empty() {
		if priceErr != nil {
			return nil, errs.Wrap(errs.KindOf(priceErr), "all market data sources failed", priceErr)
		}
		if technicalErr != nil {
			return nil, errs.Wrap(errs.KindOf(technicalErr), "all market data sources failed", technicalErr)
		}
		return nil, errs.Wrap(errs.KindOf(sentErr), "all market data sources failed", sentErr)
	}

	return data, nil
}

func (a *marketDataAggregator) logBranchFailure(ctx context.Context, symbol, branch string, err error) {
	if err == nil {
		return
	}
	a.log.WarnContext(ctx, "Market data branch failed",
		logger.StringField("symbol", symbol),
		logger.StringField("branch", branch),
		logger.StringField("classification", string(errs.KindOf(err))),
		logger.ErrorField(err))
}
