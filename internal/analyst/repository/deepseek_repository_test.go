package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-crypto-analyst/internal/analyst/config"
	"go-crypto-analyst/pkg/errs"
	"go-crypto-analyst/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeepSeekRepository(baseURL string, sleeps *[]time.Duration) *deepSeekRepository {
	cfg := &config.Config{
		DeepSeek: config.DeepSeek{
			APIKey:              "sk-test-key",
			BaseURL:             baseURL,
			Model:               "deepseek-chat",
			Timeout:             2 * time.Second,
			MaxRequestPerMinute: 60000,
			MaxTokenPerMinute:   100000,
		},
	}
	repo := NewDeepSeekRepository(cfg, logger.NewNop()).(*deepSeekRepository)
	repo.sleep = func(ctx context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return repo
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}
}

func TestGenerateCompletionTrimsContent(t *testing.T) {
	var sleeps []time.Duration
	srv := httptest.NewServer(jsonHandler(http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"  Hello  "}}],"usage":{"total_tokens":42}}`))
	defer srv.Close()

	repo := newTestDeepSeekRepository(srv.URL, &sleeps)
	text, err := repo.GenerateCompletion(context.Background(), "system", "user")

	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
	assert.Empty(t, sleeps)
}

func TestGenerateCompletionTransportFailureExhaustsAttempts(t *testing.T) {
	var sleeps []time.Duration
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // every attempt now gets connection refused

	repo := newTestDeepSeekRepository(srv.URL, &sleeps)
	_, err := repo.GenerateCompletion(context.Background(), "system", "user")

	require.Error(t, err)
	assert.Equal(t, errs.KindNetwork, errs.KindOf(err))
	// 1s then 2s, no wait after the final attempt.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, sleeps)
}

func TestGenerateCompletionAuthFailureIsNotRetried(t *testing.T) {
	var sleeps []time.Duration
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		jsonHandler(http.StatusUnauthorized, `{"error":{"message":"invalid api key"}}`)(w, r)
	}))
	defer srv.Close()

	repo := newTestDeepSeekRepository(srv.URL, &sleeps)
	_, err := repo.GenerateCompletion(context.Background(), "system", "user")

	require.Error(t, err)
	assert.Equal(t, errs.KindAuth, errs.KindOf(err))
	assert.Equal(t, int32(1), requests.Load())
	assert.Empty(t, sleeps)
}

func TestGenerateCompletionRateLimitConsumesAttemptBudget(t *testing.T) {
	var sleeps []time.Duration
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		jsonHandler(http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`)(w, r)
	}))
	defer srv.Close()

	repo := newTestDeepSeekRepository(srv.URL, &sleeps)
	_, err := repo.GenerateCompletion(context.Background(), "system", "user")

	require.Error(t, err)
	assert.Equal(t, errs.KindRateLimit, errs.KindOf(err))
	assert.Equal(t, int32(3), requests.Load())
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, sleeps)
}

func TestGenerateCompletionServerRejectionIsTerminal(t *testing.T) {
	var sleeps []time.Duration
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		jsonHandler(http.StatusOK, `{"error":{"message":"Insufficient Balance"}}`)(w, r)
	}))
	defer srv.Close()

	repo := newTestDeepSeekRepository(srv.URL, &sleeps)
	_, err := repo.GenerateCompletion(context.Background(), "system", "user")

	require.Error(t, err)
	assert.Equal(t, errs.KindServerRejection, errs.KindOf(err))
	assert.Contains(t, err.Error(), "Insufficient Balance")
	assert.Equal(t, int32(1), requests.Load())
	assert.Empty(t, sleeps)
}

func TestGenerateCompletionEmptyBodyIsRetried(t *testing.T) {
	var sleeps []time.Duration
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "   ")
	}))
	defer srv.Close()

	repo := newTestDeepSeekRepository(srv.URL, &sleeps)
	_, err := repo.GenerateCompletion(context.Background(), "system", "user")

	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	assert.Equal(t, int32(3), requests.Load())
}

func TestGenerateCompletionUnexpectedContentTypeIsRetried(t *testing.T) {
	var sleeps []time.Duration
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html>rate limited</html>")
	}))
	defer srv.Close()

	repo := newTestDeepSeekRepository(srv.URL, &sleeps)
	_, err := repo.GenerateCompletion(context.Background(), "system", "user")

	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestGenerateCompletionEmptyChoicesIsRetried(t *testing.T) {
	var sleeps []time.Duration
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		jsonHandler(http.StatusOK, `{"choices":[]}`)(w, r)
	}))
	defer srv.Close()

	repo := newTestDeepSeekRepository(srv.URL, &sleeps)
	_, err := repo.GenerateCompletion(context.Background(), "system", "user")

	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	assert.Equal(t, int32(3), requests.Load())
}

func TestGenerateCompletionRecoversAfterTransientFailure(t *testing.T) {
	var sleeps []time.Duration
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			jsonHandler(http.StatusInternalServerError, `{"error":{"message":"boom"}}`)(w, r)
			return
		}
		jsonHandler(http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"recovered"}}]}`)(w, r)
	}))
	defer srv.Close()

	repo := newTestDeepSeekRepository(srv.URL, &sleeps)
	text, err := repo.GenerateCompletion(context.Background(), "system", "user")

	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, int32(2), requests.Load())
	assert.Equal(t, []time.Duration{1 * time.Second}, sleeps)
}

func TestGenerateCompletionMissingAPIKeyIsFatal(t *testing.T) {
	var sleeps []time.Duration
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	repo := newTestDeepSeekRepository(srv.URL, &sleeps)
	repo.cfg.DeepSeek.APIKey = "   "
	_, err := repo.GenerateCompletion(context.Background(), "system", "user")

	require.Error(t, err)
	assert.Equal(t, errs.KindConfig, errs.KindOf(err))
	assert.Equal(t, int32(0), requests.Load())
}

func TestGenerateCompletionMalformedAPIKeyIsFatal(t *testing.T) {
	var sleeps []time.Duration
	repo := newTestDeepSeekRepository("http://localhost:1", &sleeps)
	repo.cfg.DeepSeek.APIKey = "not-a-key"

	_, err := repo.GenerateCompletion(context.Background(), "system", "user")

	require.Error(t, err)
	assert.Equal(t, errs.KindConfig, errs.KindOf(err))
}

func TestGenerateCompletionCanceledContext(t *testing.T) {
	var sleeps []time.Duration
	repo := newTestDeepSeekRepository("http://localhost:1", &sleeps)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.GenerateCompletion(ctx, "system", "user")

	require.Error(t, err)
	assert.Equal(t, errs.KindCanceled, errs.KindOf(err))
}

func TestBackoffDelay(t *testing.T) {
	assert.Equal(t, 1*time.Second, backoffDelay(1))
	assert.Equal(t, 2*time.Second, backoffDelay(2))
	assert.Equal(t, 4*time.Second, backoffDelay(3))
	assert.Equal(t, 5*time.Second, backoffDelay(4))
}
