package repository

import (
	"fmt"
	"strings"

	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/pkg/utils"
)

// AnalystSystemPrompt is the fixed persona instruction sent as the system
// turn of every completion request.
const AnalystSystemPrompt = `You are a cryptocurrency market analyst and trading assistant. Your role is to analyze market data and provide clear, data-driven insights. When given market data, analyze it thoroughly and present your findings in a structured format.

For analysis requests, structure your response as follows:

1. MARKET SUMMARY
- Current price and 24h change
- Trading volume analysis
- Market capitalization context

2. TECHNICAL ANALYSIS
- Price trends and patterns
- Support and resistance levels
- Volume analysis
- Key technical indicators

3. MARKET SENTIMENT
- Overall market sentiment
- News sentiment impact
- Social sentiment signals
- Fear & Greed context

4. RISKS AND OPPORTUNITIES
- Potential upside catalysts
- Downside risks
- Key levels to watch
- Market positioning

5. RECOMMENDATION SUMMARY
- Short-term outlook (24-48 hours)
- Medium-term perspective (1-4 weeks)
- Key action points for traders
- Risk management suggestions

Always conclude with these important disclaimers:
• This analysis is for informational purposes only
• Cryptocurrency markets are highly volatile
• Past performance doesn't guarantee future results
• Never invest more than you can afford to lose
• Always do your own research (DYOR)
`

// unavailableMarker is rendered for optional fields that could not be
// fetched, so the model never mistakes a zero for real data.
const unavailableMarker = "unavailable"

// BuildQuestionPrompt renders the user turn for a free-form question,
// interpolating whatever market context was gathered. Sections whose branch
// failed are omitted entirely.
func BuildQuestionPrompt(userMessage string, data *dto.MarketData) string {
	if data == nil || data.Empty() {
		return userMessage
	}

	var b strings.Builder
	b.WriteString("User Question: " + userMessage + "\n\n")
	name := data.Symbol
	if data.Price != nil && data.Price.Name != "" {
		name = data.Price.Name
	}
	b.WriteString(fmt.Sprintf("Current Market Data for %s (%s):\n", data.Symbol, name))
	writeMarketSections(&b, data)

	b.WriteString(fmt.Sprintf(`
Please analyze the available market data and provide trading insights for %s, considering:
1. Current price and recent price action
2. Market trends and potential support/resistance levels
3. Risk assessment and trading considerations
4. General market sentiment

Remember to include appropriate risk disclaimers in your analysis.`, data.Symbol))

	return b.String()
}

// BuildAnalyzeCommandPrompt renders the extended user turn for an explicit
// analyze command, requesting the six-part breakdown.
func BuildAnalyzeCommandPrompt(symbol string, data *dto.MarketData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`Please provide a detailed analysis for %s including:
1. Current market conditions
2. Recent price movements
3. Technical indicators
4. Market sentiment
5. Key support and resistance levels
6. Potential risks and opportunities

Please format your response in clear sections and include relevant disclaimers about market volatility and risk.`, symbol))

	if data != nil && !data.Empty() {
		b.WriteString(fmt.Sprintf("\n\nCurrent Market Data for %s:\n", symbol))
		writeMarketSections(&b, data)
	}

	return b.String()
}

// writeMarketSections appends one block per available branch.
func writeMarketSections(b *strings.Builder, data *dto.MarketData) {
	if price := data.Price; price != nil {
		b.WriteString("\nPrice Information:\n")
		b.WriteString("- Current Price: " + utils.FormatPrice(price.Price) + "\n")
		b.WriteString("- 24h Change: " + utils.FormatPct(price.Change24h) + "\n")
		b.WriteString("- 24h Volume: " + utils.FormatUSD(price.Volume24h) + "\n")
		b.WriteString("- Market Cap: " + utils.FormatUSD(price.MarketCap) + "\n")
		writeExtendedSections(b, price)
	}

	if tech := data.Technicals; tech != nil {
		b.WriteString("\nTechnical Indicators:\n")
		b.WriteString(fmt.Sprintf("- RSI (14): %.2f\n", tech.RSI))
		b.WriteString(fmt.Sprintf("- MACD: value %.2f, signal %.2f, histogram %.2f\n",
			tech.MACD.Value, tech.MACD.Signal, tech.MACD.Histogram))
		b.WriteString(fmt.Sprintf("- Bollinger Bands: upper %.2f, middle %.2f, lower %.2f\n",
			tech.BollingerBands.Upper, tech.BollingerBands.Middle, tech.BollingerBands.Lower))
	}

	if sentiment := data.Sentiment; sentiment != nil {
		b.WriteString("\nMarket Sentiment:\n")
		b.WriteString("- Overall: " + string(sentiment.Overall) + "\n")
		b.WriteString(fmt.Sprintf("- News: %d positive / %d negative / %d neutral across %d articles\n",
			sentiment.PositiveCount, sentiment.NegativeCount, sentiment.NeutralCount, sentiment.TotalArticles))
		social := unavailableMarker
		if sentiment.Social != "" {
			social = string(sentiment.Social)
		}
		b.WriteString("- Social: " + social + "\n")
		fearGreed := unavailableMarker
		if sentiment.FearGreedIndex != nil {
			fearGreed = fmt.Sprintf("%d", *sentiment.FearGreedIndex)
		}
		b.WriteString("- Fear & Greed Index: " + fearGreed + "\n")
		if len(sentiment.TopArticles) > 0 {
			b.WriteString("- Top Headlines:\n")
			for i, article := range sentiment.TopArticles {
				b.WriteString(fmt.Sprintf("  %d. %q (%s, %s)\n", i+1, article.Title, article.Source, article.Sentiment))
			}
		}
	}
}

func writeExtendedSections(b *strings.Builder, price *dto.AssetSnapshot) {
	ext := price.Extended

	b.WriteString("\nHistorical Milestones:\n")
	if ext != nil && !ext.ATHDate.IsZero() {
		b.WriteString(fmt.Sprintf("- All-Time High: %s (%s)\n", utils.FormatPrice(ext.ATHPrice), ext.ATHDate.Format("Jan 2, 2006")))
		b.WriteString(fmt.Sprintf("- All-Time Low: %s (%s)\n", utils.FormatPrice(ext.ATLPrice), ext.ATLDate.Format("Jan 2, 2006")))
	} else {
		b.WriteString("- All-Time High: " + unavailableMarker + "\n")
		b.WriteString("- All-Time Low: " + unavailableMarker + "\n")
	}

	b.WriteString("\nSupply Information:\n")
	if ext != nil {
		b.WriteString(fmt.Sprintf("- Circulating Supply: %.0f %s\n", ext.CirculatingSupply, price.Symbol))
		b.WriteString(fmt.Sprintf("- Total Supply: %.0f %s\n", ext.TotalSupply, price.Symbol))
		if ext.MaxSupply != nil {
			b.WriteString(fmt.Sprintf("- Maximum Supply: %.0f %s\n", *ext.MaxSupply, price.Symbol))
		} else {
			b.WriteString("- Maximum Supply: Unlimited\n")
		}
	} else {
		b.WriteString("- Circulating Supply: " + unavailableMarker + "\n")
		b.WriteString("- Total Supply: " + unavailableMarker + "\n")
		b.WriteString("- Maximum Supply: " + unavailableMarker + "\n")
	}
}
