package dto

// CoinListItem is one entry of the CoinGecko /coins/list response.
type CoinListItem struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// CoinInfo is the resolved registry entry for a symbol.
type CoinInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CoinDetail is the subset of the CoinGecko /coins/{id} response the
// price snapshot needs.
type CoinDetail struct {
	Name       string          `json:"name"`
	MarketData *CoinMarketData `json:"market_data"`
}

// CoinMarketData carries per-currency market figures keyed by currency code.
type CoinMarketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
	TotalVolume              map[string]float64 `json:"total_volume"`
	MarketCap                map[string]float64 `json:"market_cap"`
	ATH                      map[string]float64 `json:"ath"`
	ATHDate                  map[string]string  `json:"ath_date"`
	ATL                      map[string]float64 `json:"atl"`
	ATLDate                  map[string]string  `json:"atl_date"`
	CirculatingSupply        float64            `json:"circulating_supply"`
	TotalSupply              float64            `json:"total_supply"`
	MaxSupply                *float64           `json:"max_supply"`
}
