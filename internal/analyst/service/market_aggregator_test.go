package service

import (
	"context"
	"testing"
	"time"

	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/pkg/errs"
	"go-crypto-analyst/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAllBranchesSucceed(t *testing.T) {
	marketRepo := &fakeMarketRepo{
		price:      &dto.AssetSnapshot{Symbol: "BTC", Price: 43250},
		technicals: &dto.TechnicalIndicators{RSI: 50},
	}
	sentiment := &fakeSentiment{snapshot: &dto.SentimentSnapshot{Symbol: "BTC", Overall: dto.SentimentPositive}}
	aggregator := NewMarketDataAggregator(marketRepo, sentiment, logger.NewNop(), time.Second)

	data, err := aggregator.Fetch(context.Background(), "BTC")

	require.NoError(t, err)
	require.NotNil(t, data.Price)
	require.NotNil(t, data.Technicals)
	require.NotNil(t, data.Sentiment)
	assert.Equal(t, "BTC", data.Symbol)
}

func TestFetchToleratesSingleBranchFailure(t *testing.T) {
	marketRepo := &fakeMarketRepo{
		price:      &dto.AssetSnapshot{Symbol: "BTC", Price: 43250},
		technicals: &dto.TechnicalIndicators{RSI: 50},
	}
	sentiment := &fakeSentiment{err: errs.New(errs.KindNetwork, "news source down")}
	aggregator := NewMarketDataAggregator(marketRepo, sentiment, logger.NewNop(), time.Second)

	data, err := aggregator.Fetch(context.Background(), "BTC")

	require.NoError(t, err)
	require.NotNil(t, data.Price)
	require.NotNil(t, data.Technicals)
	assert.Nil(t, data.Sentiment)
}

func TestFetchSlowBranchHitsItsOwnTimeout(t *testing.T) {
	marketRepo := &fakeMarketRepo{
		price:      &dto.AssetSnapshot{Symbol: "BTC", Price: 43250},
		technicals: &dto.TechnicalIndicators{RSI: 50},
	}
	sentiment := &fakeSentiment{delay: true}
	aggregator := NewMarketDataAggregator(marketRepo, sentiment, logger.NewNop(), 20*time.Millisecond)

	start := time.Now()
	data, err := aggregator.Fetch(context.Background(), "BTC")

	require.NoError(t, err)
	require.NotNil(t, data.Price)
	require.NotNil(t, data.Technicals)
	assert.Nil(t, data.Sentiment)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFetchAllBranchesFailedReturnsClassifiedError(t *testing.T) {
	marketRepo := &fakeMarketRepo{
		priceErr:      errs.New(errs.KindUnsupportedSymbol, "unsupported symbol: XYZ"),
		technicalsErr: errs.New(errs.KindNetwork, "indicator source down"),
	}
	sentiment := &fakeSentiment{err: errs.New(errs.KindNetwork, "news source down")}
	aggregator := NewMarketDataAggregator(marketRepo, sentiment, logger.NewNop(), time.Second)

	data, err := aggregator.Fetch(context.Background(), "XYZ")

	require.Error(t, err)
	assert.Nil(t, data)
	// Classification follows the price branch.
	assert.Equal(t, errs.KindUnsupportedSymbol, errs.KindOf(err))
}

func TestFetchSentimentOnlyIsStillPartialData(t *testing.T) {
	marketRepo := &fakeMarketRepo{
		priceErr:      errs.New(errs.KindNetwork, "price source down"),
		technicalsErr: errs.New(errs.KindNetwork, "indicator source down"),
	}
	sentiment := &fakeSentiment{snapshot: &dto.SentimentSnapshot{Symbol: "BTC", Overall: dto.SentimentNeutral}}
	aggregator := NewMarketDataAggregator(marketRepo, sentiment, logger.NewNop(), time.Second)

	data, err := aggregator.Fetch(context.Background(), "BTC")

	require.NoError(t, err)
	assert.Nil(t, data.Price)
	assert.Nil(t, data.Technicals)
	require.NotNil(t, data.Sentiment)
}
