package testrequests

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/bmi/pkg/logger"
)

// Run executes the complete load and verification test. The returned
// stats are non-nil whenever submission finished, even on ErrMismatch.
func Run(ctx context.Context, config *Config, log logger.Logger) (*Stats, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting BMI request test",
		logger.String("base_url", config.BaseURL),
		logger.Int("requests", config.NumRequests),
		logger.Int("workers", config.Workers),
		logger.Float64("rps", config.RPS),
		logger.Float64("invalid_ratio", config.InvalidRatio),
		logger.String("timeout", config.Timeout.String()),
	)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config, log); err != nil {
		return nil, err
	}

	// Step 2: Generate cases
	cases := NewGenerator(config.Seed, config.InvalidRatio).Generate(config.NumRequests)
	stats.Generated = len(cases)
	log.Info(ctx, "generated requests", logger.Int("count", len(cases)))

	// Step 3: Submit cases concurrently
	outcomes, err := submitCases(ctx, config, cases, log)
	if err != nil {
		return nil, fmt.Errorf("request submission failed: %w", err)
	}

	// Step 4: Verify answers
	mismatches := summarize(outcomes, stats)
	for i, m := range mismatches {
		if !config.Verbose && i == maxLoggedMismatches {
			log.Warn(ctx, "further mismatches omitted", logger.Int("omitted", len(mismatches)-i))
			break
		}
		log.Warn(ctx, "response mismatch", logger.Error(m))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	if stats.Duration > 0 {
		stats.RequestsPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	displayFinalStats(ctx, stats, log)

	switch {
	case stats.Mismatched > 0:
		return stats, fmt.Errorf("%w: %d of %d", ErrMismatch, stats.Mismatched, stats.Submitted)
	case stats.TransportErrors > 0:
		return stats, fmt.Errorf("%w: %d of %d", ErrTransport, stats.TransportErrors, stats.Submitted)
	}

	log.Info(ctx, "test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config, log logger.Logger) error {
	log.Info(ctx, "checking service health")

	status, err := newHTTPClient(config.Timeout).Get(ctx, config.BaseURL+pathHealth)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}

	log.Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the final test statistics.
func displayFinalStats(ctx context.Context, stats *Stats, log logger.Logger) {
	var matchRate float64
	if stats.Submitted > 0 {
		matchRate = float64(stats.Matched) / float64(stats.Submitted) * percentageMultiplier
	}

	fields := []logger.Field{
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("matched", stats.Matched),
		logger.Int("mismatched", stats.Mismatched),
		logger.Int("transport_errors", stats.TransportErrors),
		logger.Float64("match_rate", matchRate),
		logger.String("latency_p50", stats.LatencyP50.String()),
		logger.String("latency_p95", stats.LatencyP95.String()),
		logger.String("latency_max", stats.LatencyMax.String()),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("requests_per_second", stats.RequestsPerSecond),
	}
	for _, kind := range []Kind{KindValid, KindInvalid, KindMalformed} {
		fields = append(fields, logger.Int("kind_"+string(kind), stats.ByKind[kind]))
	}
	log.Info(ctx, "final statistics", fields...)

	for c, n := range stats.ByCategory {
		log.Info(ctx, "category distribution",
			logger.String("category", c.String()),
			logger.Int("severity", c.Severity()),
			logger.Int("count", n),
		)
	}
}
