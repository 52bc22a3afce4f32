package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go-crypto-analyst/internal/analyst/config"
	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/pkg/errs"
	"go-crypto-analyst/pkg/logger"
	"go-crypto-analyst/pkg/ratelimit"

	"golang.org/x/time/rate"
)

const (
	maxAttempts = 3
	baseBackoff = 1 * time.Second
	maxBackoff  = 5 * time.Second

	completionTemperature = 0.7
	completionMaxTokens   = 2000

	apiKeyPrefix = "sk-"
)

type deepSeekRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *http.Client
	requestLimiter *rate.Limiter
	tokenLimiter   *ratelimit.TokenLimiter

	// sleep is replaceable so tests can assert backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDeepSeekRepository creates the completion client. It holds no
// cross-call state; every call retries independently with the same body.
func NewDeepSeekRepository(cfg *config.Config, log *logger.Logger) CompletionRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.DeepSeek.MaxRequestPerMinute)
	timeout := cfg.DeepSeek.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	return &deepSeekRepository{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.DeepSeek.MaxTokenPerMinute),
		sleep:          sleepContext,
	}
}

// attemptFailure is the outcome of one failed attempt. A non-retryable
// failure terminates the whole call immediately.
type attemptFailure struct {
	err       error
	retryable bool
}

// GenerateCompletion performs one logical generation with up to three
// attempts, exponential backoff between them and ordered response
// validation per attempt.
func (r *deepSeekRepository) GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	apiKey := strings.TrimSpace(r.cfg.DeepSeek.APIKey)
	if apiKey == "" {
		return "", errs.New(errs.KindConfig, "completion API key is not configured")
	}
	if !strings.HasPrefix(apiKey, apiKeyPrefix) {
		return "", errs.New(errs.KindConfig, "completion API key has an unexpected format")
	}

	payload := dto.CompletionRequest{
		Model: r.cfg.DeepSeek.Model,
		Messages: []dto.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
		Stream:      false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion payload: %w", err)
	}

	var lastFailure *attemptFailure
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", errs.Wrap(errs.KindCanceled, "completion canceled", err)
		}

		text, failure := r.sendAttempt(ctx, apiKey, body)
		if failure == nil {
			return text, nil
		}

		r.log.WarnContext(ctx, "Completion attempt failed",
			logger.IntField("attempt", attempt),
			logger.StringField("classification", string(errs.KindOf(failure.err))),
			logger.ErrorField(failure.err))

		if !failure.retryable {
			return "", failure.err
		}
		lastFailure = failure

		if attempt < maxAttempts {
			if err := r.sleep(ctx, backoffDelay(attempt)); err != nil {
				return "", errs.Wrap(errs.KindCanceled, "completion canceled during backoff", err)
			}
		}
	}

	return "", lastFailure.err
}

// sendAttempt performs one request/validate cycle. It returns the trimmed
// message text on success, or a classified failure.
func (r *deepSeekRepository) sendAttempt(ctx context.Context, apiKey string, body []byte) (string, *attemptFailure) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", &attemptFailure{err: errs.Wrap(errs.KindCanceled, "completion canceled waiting for request limit", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.DeepSeek.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", &attemptFailure{err: errs.Wrap(errs.KindUnknown, "failed to create completion request", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	r.log.DebugContext(ctx, "Sending completion request",
		logger.StringField("url", r.cfg.DeepSeek.BaseURL),
		logger.StringField("model", r.cfg.DeepSeek.Model))

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", &attemptFailure{err: errs.Wrap(errs.KindCanceled, "completion canceled", ctx.Err())}
		}
		return "", &attemptFailure{err: errs.Wrap(errs.KindNetwork, "completion request failed", err), retryable: true}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &attemptFailure{err: errs.Wrap(errs.KindNetwork, "failed to read completion response", err), retryable: true}
	}

	return r.validate(ctx, resp, raw)
}

// validate runs the ordered response gates. The first failing gate decides
// the classification.
func (r *deepSeekRepository) validate(ctx context.Context, resp *http.Response, raw []byte) (string, *attemptFailure) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return "", &attemptFailure{err: errs.New(errs.KindAuth, "completion endpoint rejected the API key")}
		case http.StatusTooManyRequests:
			return "", &attemptFailure{err: errs.New(errs.KindRateLimit, "completion endpoint is rate limiting"), retryable: true}
		default:
			return "", &attemptFailure{
				err:       errs.New(errs.KindValidation, fmt.Sprintf("completion endpoint returned status %d", resp.StatusCode)),
				retryable: true,
			}
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return "", &attemptFailure{
			err:       errs.New(errs.KindValidation, fmt.Sprintf("unexpected content type %q", contentType)),
			retryable: true,
		}
	}

	if !utf8.Valid(raw) {
		return "", &attemptFailure{err: errs.New(errs.KindValidation, "completion response is not valid UTF-8"), retryable: true}
	}

	if strings.TrimSpace(string(raw)) == "" {
		return "", &attemptFailure{err: errs.New(errs.KindValidation, "completion response body is empty"), retryable: true}
	}

	var completion dto.CompletionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return "", &attemptFailure{err: errs.Wrap(errs.KindValidation, "failed to decode completion response", err), retryable: true}
	}

	// An explicit error payload is an authoritative rejection, not a
	// transient condition. Never retried.
	if completion.Error != nil {
		msg := completion.Error.Message
		if msg == "" {
			msg = "unknown error"
		}
		return "", &attemptFailure{err: errs.New(errs.KindServerRejection, msg)}
	}

	if len(completion.Choices) == 0 {
		return "", &attemptFailure{err: errs.New(errs.KindValidation, "completion response has no choices"), retryable: true}
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", &attemptFailure{err: errs.New(errs.KindValidation, "completion response has empty message content"), retryable: true}
	}

	if int(completion.Usage.TotalTokens) > r.cfg.DeepSeek.MaxTokenPerMinute/2 {
		r.log.Warn("Token usage exceeded 50% of the per-minute limit",
			logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}
	if err := r.tokenLimiter.Wait(ctx, completion.Usage.TotalTokens); err != nil {
		return "", &attemptFailure{err: errs.Wrap(errs.KindCanceled, "completion canceled waiting for token limit", err)}
	}

	return content, nil
}

// backoffDelay computes the wait before the next attempt:
// min(1s * 2^(attempt-1), 5s).
func backoffDelay(attempt int) time.Duration {
	d := baseBackoff << (attempt - 1)
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// sleepContext waits for d or until ctx is done, without blocking other
// in-flight requests.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
