package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go-crypto-analyst/internal/analyst/config"
	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/pkg/errs"
	"go-crypto-analyst/pkg/logger"

	"golang.org/x/time/rate"
)

type cryptoPanicRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *http.Client
	requestLimiter *rate.Limiter
}

// NewCryptoPanicRepository creates the news data source.
func NewCryptoPanicRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.CryptoPanic.MaxRequestPerMinute)
	timeout := cfg.CryptoPanic.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &cryptoPanicRepository{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// GetNewsBySymbol fetches recent posts mentioning the symbol, including
// their community vote tallies.
func (r *cryptoPanicRepository) GetNewsBySymbol(ctx context.Context, symbol string) (*dto.NewsResponse, error) {
	if r.cfg.CryptoPanic.APIKey == "" {
		return nil, errs.New(errs.KindConfig, "news API key is not configured")
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, errs.Wrap(errs.KindCanceled, "news request canceled waiting for request limit", err)
	}

	q := url.Values{}
	q.Set("auth_token", r.cfg.CryptoPanic.APIKey)
	q.Set("currencies", symbol)
	q.Set("public", "true")
	reqURL := r.cfg.CryptoPanic.BaseURL + "/posts/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, "failed to create news request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errs.Wrap(errs.KindCanceled, "news request canceled", ctx.Err())
		}
		return nil, errs.Wrap(errs.KindNetwork, "news request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.KindNetwork, "failed to read news response", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errs.New(errs.KindRateLimit, "news source is rate limiting")
	case resp.StatusCode != http.StatusOK:
		return nil, errs.New(errs.KindUnknown, fmt.Sprintf("news source returned status %d", resp.StatusCode))
	}

	var news dto.NewsResponse
	if err := json.Unmarshal(raw, &news); err != nil {
		return nil, errs.Wrap(errs.KindValidation, "failed to decode news response", err)
	}

	r.log.DebugContext(ctx, "Fetched news posts",
		logger.StringField("symbol", symbol),
		logger.IntField("count", len(news.Results)))

	return &news, nil
}
