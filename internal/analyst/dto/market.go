package dto

import "time"

// AssetSnapshot is a point-in-time view of one asset. It is immutable once
// fetched and never cached across requests.
type AssetSnapshot struct {
	Symbol    string         `json:"symbol"`
	Name      string         `json:"name"`
	Price     float64        `json:"price"`
	Change24h float64        `json:"change_24h"`
	Volume24h float64        `json:"volume_24h"`
	MarketCap float64        `json:"market_cap"`
	Extended  *AssetExtended `json:"extended,omitempty"`
}

// AssetExtended carries the optional historical and supply block.
type AssetExtended struct {
	ATHPrice          float64   `json:"ath_price"`
	ATHDate           time.Time `json:"ath_date"`
	ATLPrice          float64   `json:"atl_price"`
	ATLDate           time.Time `json:"atl_date"`
	CirculatingSupply float64   `json:"circulating_supply"`
	TotalSupply       float64   `json:"total_supply"`
	MaxSupply         *float64  `json:"max_supply,omitempty"`
}

// MACD holds the moving average convergence divergence values.
type MACD struct {
	Value     float64 `json:"value"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerBands holds the band levels.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// TechnicalIndicators holds the indicator set for one asset. The current
// data source returns fixed placeholder values; the shape is kept so a real
// source can populate it without touching call-sites.
type TechnicalIndicators struct {
	RSI            float64        `json:"rsi"`
	MACD           MACD           `json:"macd"`
	BollingerBands BollingerBands `json:"bollinger_bands"`
}

// MarketData is the fan-in result of the aggregator. A nil section means
// that branch failed and must be rendered as unavailable, never as zeroes.
type MarketData struct {
	Symbol     string               `json:"symbol"`
	Price      *AssetSnapshot       `json:"price,omitempty"`
	Technicals *TechnicalIndicators `json:"technicals,omitempty"`
	Sentiment  *SentimentSnapshot   `json:"sentiment,omitempty"`
}

// Empty reports whether every branch failed.
func (m *MarketData) Empty() bool {
	return m.Price == nil && m.Technicals == nil && m.Sentiment == nil
}
