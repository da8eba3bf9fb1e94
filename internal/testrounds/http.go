package testrounds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/pkg/logger"
)

// Retry backoff bounds.
const (
	retryWaitMin = 100 * time.Millisecond
	retryWaitMax = 2 * time.Second
)

// httpClient wraps a retrying client with JSON helpers.
type httpClient struct {
	client *retryablehttp.Client
}

func newHTTPClient(timeout time.Duration, retries int) *httpClient {
	rc := retryablehttp.NewClient()
	rc.Logger = leveledLogger{log: logger.Get().Named("testrounds.http")}
	rc.RetryMax = max(retries, 0)
	rc.RetryWaitMin = retryWaitMin
	rc.RetryWaitMax = retryWaitMax
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.HTTPClient.Timeout = timeout
	return &httpClient{client: rc}
}

// leveledLogger routes retry diagnostics to the service logger at debug level.
type leveledLogger struct {
	log logger.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.emit(msg, kv) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.emit(msg, kv) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.emit(msg, kv) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.emit(msg, kv) }

func (l leveledLogger) emit(msg string, kv []interface{}) {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, logger.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	l.log.Debug(context.Background(), msg, fields...)
}

// do sends body as JSON when non-nil and decodes a 2xx response into out.
func (c *httpClient) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var payload any
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, fmt.Errorf("%s %s: status %d: %s", method, url, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// submitRounds PUTs rounds concurrently using a pool of workers.
func submitRounds(ctx context.Context, cfg *Config, rounds []model.Round, stats *Stats) {
	client := newHTTPClient(cfg.Timeout, cfg.Retries)
	url := cfg.BaseURL + "/rounds"
	log := logger.Get().Named("testrounds")

	var submitted, accepted, failed atomic.Int64
	jobs := make(chan model.Round, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	// Unlimited unless a rate is configured.
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), max(cfg.Workers, 1))
	}

	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					failed.Add(1)
					continue
				}
				submitted.Add(1)
				var ack ackResponse
				status, err := client.do(ctx, http.MethodPut, url, r, &ack)
				if err != nil || status != http.StatusAccepted || ack.Status != "accepted" {
					failed.Add(1)
					log.Warn(ctx, "round rejected",
						logger.String("round_id", r.ID),
						logger.Int("status", status),
						logger.Error(err),
					)
					continue
				}
				accepted.Add(1)
				if cfg.Verbose {
					log.Debug(ctx, "round accepted", logger.String("round_id", ack.RoundID))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, r := range rounds {
			select {
			case <-ctx.Done():
				return
			case jobs <- r:
			}
		}
	}()

	wg.Wait()

	stats.RoundsSubmitted = int(submitted.Load())
	stats.RoundsAccepted = int(accepted.Load())
	stats.RoundsFailed = int(failed.Load())
	log.Info(ctx, "round submission completed",
		logger.Int("accepted", stats.RoundsAccepted),
		logger.Int("failed", stats.RoundsFailed),
	)
}
