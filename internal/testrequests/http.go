package testrequests

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/bmi/pkg/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// headerRequestID correlates a request with the service's logs.
const headerRequestID = "X-Request-Id"

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request and returns the status code.
func (c *HTTPClient) Get(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Post sends body as JSON with a fresh request id and records the answer.
func (c *HTTPClient) Post(ctx context.Context, url string, tc Case) Outcome {
	out := Outcome{Case: tc, SentID: uuid.NewString()}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(tc.Body))
	if err != nil {
		out.Err = fmt.Errorf("failed to create request: %w", err)
		return out
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerRequestID, out.SentID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		out.Latency = time.Since(start)
		out.Err = err
		return out
	}
	defer func() { _ = resp.Body.Close() }()

	out.Body, err = io.ReadAll(resp.Body)
	out.Latency = time.Since(start)
	if err != nil {
		out.Err = fmt.Errorf("failed to read response body: %w", err)
		return out
	}
	out.StatusCode = resp.StatusCode
	out.EchoedID = resp.Header.Get(headerRequestID)
	return out
}

// submitCases posts every case with config.Workers workers. When config.RPS
// is positive all workers share one limiter. Outcomes are indexed by Case.ID.
func submitCases(ctx context.Context, config *Config, cases []Case, log logger.Logger) ([]Outcome, error) {
	log.Info(ctx, "submitting requests",
		logger.Int("requests", len(cases)),
		logger.Int("workers", config.Workers),
		logger.Float64("rps", config.RPS),
	)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + pathCalculate

	var limiter *rate.Limiter
	if config.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RPS), max(1, int(config.RPS)/config.Workers))
	}

	outcomes := make([]Outcome, len(cases))
	var submitted, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	caseChan := make(chan Case, config.Workers*workerChannelMultiplier)

	g.Go(func() error {
		defer close(caseChan)
		for _, c := range cases {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case caseChan <- c:
			}
		}
		return nil
	})

	for range config.Workers {
		g.Go(func() error {
			for c := range caseChan {
				if limiter != nil {
					if err := limiter.Wait(gctx); err != nil {
						return err
					}
				}
				out := client.Post(gctx, url, c)
				outcomes[c.ID] = out
				submitted.Add(1)
				if out.Err != nil {
					failed.Add(1)
				}
			}
			return nil
		})
	}

	stopProgress := reportProgress(ctx, log, len(cases), &submitted, &failed)
	err := g.Wait()
	stopProgress()
	if err != nil {
		return nil, fmt.Errorf("submission aborted: %w", err)
	}

	log.Info(ctx, "submission completed",
		logger.Int("submitted", int(submitted.Load())),
		logger.Int("transport_errors", int(failed.Load())),
	)
	return outcomes, nil
}

// reportProgress logs counters every progressInterval until the returned
// func is called.
func reportProgress(ctx context.Context, log logger.Logger, total int, submitted, failed *atomic.Int64) func() {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				log.Info(ctx, "progress",
					logger.Int("submitted", int(submitted.Load())),
					logger.Int("total", total),
					logger.Int("transport_errors", int(failed.Load())),
				)
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}
