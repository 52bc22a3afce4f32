package repository

import (
	"testing"
	"time"

	"go-crypto-analyst/internal/analyst/dto"

	"github.com/stretchr/testify/assert"
)

func fullMarketData() *dto.MarketData {
	maxSupply := 21000000.0
	fearGreed := 62
	return &dto.MarketData{
		Symbol: "BTC",
		Price: &dto.AssetSnapshot{
			Symbol:    "BTC",
			Name:      "Bitcoin",
			Price:     43250,
			Change24h: 2.35,
			Volume24h: 28.12e9,
			MarketCap: 845.6e9,
			Extended: &dto.AssetExtended{
				ATHPrice:          69045,
				ATHDate:           time.Date(2021, time.November, 10, 0, 0, 0, 0, time.UTC),
				ATLPrice:          67.81,
				ATLDate:           time.Date(2013, time.July, 6, 0, 0, 0, 0, time.UTC),
				CirculatingSupply: 19600000,
				TotalSupply:       19600000,
				MaxSupply:         &maxSupply,
			},
		},
		Technicals: &dto.TechnicalIndicators{
			RSI:            55.5,
			MACD:           dto.MACD{Value: 1.2, Signal: 0.8, Histogram: 0.4},
			BollingerBands: dto.BollingerBands{Upper: 45000, Middle: 43000, Lower: 41000},
		},
		Sentiment: &dto.SentimentSnapshot{
			Symbol:         "BTC",
			Overall:        dto.SentimentPositive,
			PositiveCount:  4,
			NegativeCount:  1,
			NeutralCount:   2,
			TotalArticles:  7,
			FearGreedIndex: &fearGreed,
			TopArticles: []dto.Article{
				{Title: "BTC rallies", Source: "wire", Sentiment: dto.SentimentPositive, TotalVotes: 12},
			},
		},
	}
}

func TestBuildQuestionPromptWithoutDataIsRawMessage(t *testing.T) {
	assert.Equal(t, "what is bitcoin?", BuildQuestionPrompt("what is bitcoin?", nil))
	assert.Equal(t, "what is bitcoin?", BuildQuestionPrompt("what is bitcoin?", &dto.MarketData{Symbol: "BTC"}))
}

func TestBuildQuestionPromptFormatsFigures(t *testing.T) {
	prompt := BuildQuestionPrompt("should I buy?", fullMarketData())

	assert.Contains(t, prompt, "User Question: should I buy?")
	assert.Contains(t, prompt, "Current Market Data for BTC (Bitcoin):")
	assert.Contains(t, prompt, "- Current Price: $43250.00")
	assert.Contains(t, prompt, "- 24h Change: 2.35%")
	assert.Contains(t, prompt, "- 24h Volume: $28.12B")
	assert.Contains(t, prompt, "- Market Cap: $845.60B")
	assert.Contains(t, prompt, "- All-Time High: $69045.00 (Nov 10, 2021)")
	assert.Contains(t, prompt, "- All-Time Low: $67.81 (Jul 6, 2013)")
	assert.Contains(t, prompt, "- Maximum Supply: 21000000 BTC")
	assert.Contains(t, prompt, "- RSI (14): 55.50")
	assert.Contains(t, prompt, "- Fear & Greed Index: 62")
	assert.Contains(t, prompt, `"BTC rallies" (wire, positive)`)
}

func TestBuildQuestionPromptOmitsFailedBranches(t *testing.T) {
	data := fullMarketData()
	data.Technicals = nil
	data.Sentiment = nil

	prompt := BuildQuestionPrompt("should I buy?", data)

	assert.Contains(t, prompt, "Price Information:")
	assert.NotContains(t, prompt, "Technical Indicators:")
	assert.NotContains(t, prompt, "Market Sentiment:")
}

func TestBuildQuestionPromptNilMaxSupplyIsUnlimited(t *testing.T) {
	data := fullMarketData()
	data.Price.Extended.MaxSupply = nil

	prompt := BuildQuestionPrompt("supply?", data)

	assert.Contains(t, prompt, "- Maximum Supply: Unlimited")
}

func TestBuildQuestionPromptMissingExtendedBlockIsUnavailable(t *testing.T) {
	data := fullMarketData()
	data.Price.Extended = nil

	prompt := BuildQuestionPrompt("supply?", data)

	assert.Contains(t, prompt, "- All-Time High: unavailable")
	assert.Contains(t, prompt, "- Circulating Supply: unavailable")
	assert.Contains(t, prompt, "- Maximum Supply: unavailable")
}

func TestBuildQuestionPromptMissingFearGreedIsUnavailable(t *testing.T) {
	data := fullMarketData()
	data.Sentiment.FearGreedIndex = nil
	data.Sentiment.Social = ""

	prompt := BuildQuestionPrompt("mood?", data)

	assert.Contains(t, prompt, "- Fear & Greed Index: unavailable")
	assert.Contains(t, prompt, "- Social: unavailable")
}

func TestBuildAnalyzeCommandPromptStructure(t *testing.T) {
	prompt := BuildAnalyzeCommandPrompt("BTC", fullMarketData())

	assert.Contains(t, prompt, "Please provide a detailed analysis for BTC including:")
	assert.Contains(t, prompt, "1. Current market conditions")
	assert.Contains(t, prompt, "6. Potential risks and opportunities")
	assert.Contains(t, prompt, "Current Market Data for BTC:")
	assert.Contains(t, prompt, "- Current Price: $43250.00")
}

func TestBuildAnalyzeCommandPromptWithoutData(t *testing.T) {
	prompt := BuildAnalyzeCommandPrompt("BTC", nil)

	assert.Contains(t, prompt, "Please provide a detailed analysis for BTC including:")
	assert.NotContains(t, prompt, "Current Market Data")
}
