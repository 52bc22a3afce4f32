package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go-crypto-analyst/internal/analyst/config"
	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/pkg/errs"
	"go-crypto-analyst/pkg/logger"
	pkgredis "go-crypto-analyst/pkg/redis"

	"github.com/redis/go-redis/v9"
)

const fearGreedCacheKey = "analyst:feargreed:index"

type fearGreedRepository struct {
	cfg    *config.Config
	log    *logger.Logger
	client *http.Client
	redis  *pkgredis.Client
}

// NewFearGreedRepository creates the fear & greed index source. The index
// is market-wide, so readings are cached in Redis for a short TTL.
func NewFearGreedRepository(cfg *config.Config, log *logger.Logger, redisClient *pkgredis.Client) FearGreedRepository {
	timeout := cfg.FearGreed.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &fearGreedRepository{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: timeout,
		},
		redis: redisClient,
	}
}

// GetIndex returns the current index value (0-100), from cache when fresh.
func (r *fearGreedRepository) GetIndex(ctx context.Context) (int, error) {
	if cached, err := r.redis.Get(ctx, fearGreedCacheKey).Result(); err == nil {
		if value, convErr := strconv.Atoi(cached); convErr == nil {
			return value, nil
		}
	} else if err != redis.Nil {
		r.log.WarnContext(ctx, "Fear & greed cache read failed", logger.ErrorField(err))
	}

	value, err := r.fetch(ctx)
	if err != nil {
		return 0, err
	}

	ttl := r.cfg.FearGreed.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if err := r.redis.Set(ctx, fearGreedCacheKey, strconv.Itoa(value), ttl).Err(); err != nil {
		r.log.WarnContext(ctx, "Fear & greed cache write failed", logger.ErrorField(err))
	}

	return value, nil
}

func (r *fearGreedRepository) fetch(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.FearGreed.BaseURL+"/fng/", nil)
	if err != nil {
		return 0, errs.Wrap(errs.KindUnknown, "failed to create fear & greed request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, errs.Wrap(errs.KindCanceled, "fear & greed request canceled", ctx.Err())
		}
		return 0, errs.Wrap(errs.KindNetwork, "fear & greed request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errs.Wrap(errs.KindNetwork, "failed to read fear & greed response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, errs.New(errs.KindUnknown, fmt.Sprintf("fear & greed source returned status %d", resp.StatusCode))
	}

	var payload dto.FearGreedResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, errs.Wrap(errs.KindValidation, "failed to decode fear & greed response", err)
	}
	if len(payload.Data) == 0 {
		return 0, errs.New(errs.KindValidation, "fear & greed response has no data")
	}

	value, err := strconv.Atoi(payload.Data[0].Value)
	if err != nil {
		return 0, errs.Wrap(errs.KindValidation, "fear & greed value is not numeric", err)
	}
	return value, nil
}
