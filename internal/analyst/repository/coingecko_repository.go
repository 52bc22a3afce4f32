package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go-crypto-analyst/internal/analyst/config"
	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/pkg/errs"
	"go-crypto-analyst/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// commonCoins is the static first-tier symbol table. Lookups here skip the
// full registry fetch entirely.
var commonCoins = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"DOGE":  "dogecoin",
	"ADA":   "cardano",
	"DOT":   "polkadot",
	"LINK":  "chainlink",
	"XRP":   "ripple",
	"MATIC": "matic-network",
	"AVAX":  "avalanche-2",
	"BNB":   "binancecoin",
	"USDT":  "tether",
	"USDC":  "usd-coin",
}

type coinGeckoRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *http.Client
	requestLimiter *rate.Limiter

	// registry is the lazily-loaded full coin list. It is built completely
	// before being published so concurrent readers never observe a partial
	// map. A failed fetch leaves it nil and a later call retries.
	registryMu sync.RWMutex
	registry   *gocache.Cache
}

// NewCoinGeckoRepository creates the price and registry data source.
func NewCoinGeckoRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.CoinGecko.MaxRequestPerMinute)
	timeout := cfg.CoinGecko.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &coinGeckoRepository{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// GetCoinInfo resolves a symbol against the two-tier registry. An unknown
// symbol yields an unsupported-symbol classification.
func (r *coinGeckoRepository) GetCoinInfo(ctx context.Context, symbol string) (*dto.CoinInfo, error) {
	upper := strings.ToUpper(symbol)

	if id, ok := commonCoins[upper]; ok {
		return &dto.CoinInfo{ID: id, Name: upper}, nil
	}

	registry, err := r.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}

	if v, ok := registry.Get(upper); ok {
		info := v.(dto.CoinInfo)
		return &info, nil
	}
	return nil, errs.New(errs.KindUnsupportedSymbol, fmt.Sprintf("unknown symbol %s", upper))
}

// loadRegistry returns the full coin registry, fetching it at most once per
// successful load.
func (r *coinGeckoRepository) loadRegistry(ctx context.Context) (*gocache.Cache, error) {
	r.registryMu.RLock()
	registry := r.registry
	r.registryMu.RUnlock()
	if registry != nil {
		return registry, nil
	}

	r.registryMu.Lock()
	defer r.registryMu.Unlock()
	if r.registry != nil {
		return r.registry, nil
	}

	raw, err := r.get(ctx, "/coins/list?include_platform=false")
	if err != nil {
		return nil, err
	}

	var coins []dto.CoinListItem
	if err := json.Unmarshal(raw, &coins); err != nil {
		return nil, errs.Wrap(errs.KindValidation, "failed to decode coin list", err)
	}

	registry = gocache.New(gocache.NoExpiration, 0)
	for _, coin := range coins {
		registry.Set(strings.ToUpper(coin.Symbol), dto.CoinInfo{ID: coin.ID, Name: coin.Name}, gocache.NoExpiration)
	}
	r.registry = registry

	r.log.InfoContext(ctx, "Loaded coin registry", logger.IntField("coins", registry.ItemCount()))
	return registry, nil
}

// GetAssetPrice fetches a fresh price snapshot. Snapshots are never cached
// across requests.
func (r *coinGeckoRepository) GetAssetPrice(ctx context.Context, symbol string) (*dto.AssetSnapshot, error) {
	upper := strings.ToUpper(symbol)
	coinID, ok := commonCoins[upper]
	if !ok {
		return nil, errs.New(errs.KindUnsupportedSymbol,
			fmt.Sprintf("unsupported symbol %s, only major assets are available on the free tier", upper))
	}

	raw, err := r.get(ctx, "/coins/"+coinID+"?localization=false&tickers=false&community_data=false&developer_data=false&sparkline=false")
	if err != nil {
		return nil, err
	}

	var detail dto.CoinDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, errs.Wrap(errs.KindValidation, "failed to decode price response", err)
	}
	if detail.MarketData == nil {
		return nil, errs.New(errs.KindValidation, fmt.Sprintf("no price data available for %s", upper))
	}

	md := detail.MarketData
	snapshot := &dto.AssetSnapshot{
		Symbol:    upper,
		Name:      detail.Name,
		Price:     md.CurrentPrice["usd"],
		Change24h: md.PriceChangePercentage24h,
		Volume24h: md.TotalVolume["usd"],
		MarketCap: md.MarketCap["usd"],
		Extended: &dto.AssetExtended{
			ATHPrice:          md.ATH["usd"],
			ATHDate:           parseCoinDate(md.ATHDate["usd"]),
			ATLPrice:          md.ATL["usd"],
			ATLDate:           parseCoinDate(md.ATLDate["usd"]),
			CirculatingSupply: md.CirculatingSupply,
			TotalSupply:       md.TotalSupply,
			MaxSupply:         md.MaxSupply,
		},
	}
	return snapshot, nil
}

// GetTechnicalIndicators returns the indicator set for a symbol. The
// current source is a placeholder; the contract stays so a real indicator
// engine can replace it without touching call-sites.
func (r *coinGeckoRepository) GetTechnicalIndicators(ctx context.Context, symbol string) (*dto.TechnicalIndicators, error) {
	if _, ok := commonCoins[strings.ToUpper(symbol)]; !ok {
		return nil, errs.New(errs.KindUnsupportedSymbol, fmt.Sprintf("unsupported symbol %s", symbol))
	}

	return &dto.TechnicalIndicators{
		RSI: 50,
		MACD: dto.MACD{
			Value:     0,
			Signal:    0,
			Histogram: 0,
		},
		BollingerBands: dto.BollingerBands{
			Upper:  0,
			Middle: 0,
			Lower:  0,
		},
	}, nil
}

// get issues one GET against the CoinGecko API and classifies failures.
func (r *coinGeckoRepository) get(ctx context.Context, path string) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, errs.Wrap(errs.KindCanceled, "price request canceled waiting for request limit", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.CoinGecko.BaseURL+path, nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, "failed to create price request", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.cfg.CoinGecko.APIKey != "" {
		req.Header.Set("x-cg-pro-api-key", r.cfg.CoinGecko.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errs.Wrap(errs.KindCanceled, "price request canceled", ctx.Err())
		}
		return nil, errs.Wrap(errs.KindNetwork, "price request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.KindNetwork, "failed to read price response", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errs.New(errs.KindRateLimit, "price source is rate limiting, try again in a minute")
	case resp.StatusCode == http.StatusBadRequest:
		return nil, errs.New(errs.KindUnsupportedSymbol, "price source rejected the request, the asset might not be supported")
	case resp.StatusCode != http.StatusOK:
		return nil, errs.New(errs.KindUnknown, fmt.Sprintf("price source returned status %d", resp.StatusCode))
	}

	return raw, nil
}

func parseCoinDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
