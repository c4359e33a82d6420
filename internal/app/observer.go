package service

import (
	"context"

	"github.com/okian/bmi/internal/domain/bmi"
	"github.com/okian/bmi/pkg/logger"
	"github.com/okian/bmi/pkg/metrics"
)

// Event names emitted by LogObserver.
const (
	EventCalculationStarted = "bmi.calculation.started"
	EventValidationFailed   = "bmi.validation.failed"
	EventCalculationSuccess = "bmi.calculation.success"
)

// Observer receives the diagnostic events of one calculation. Calls carry
// no control-flow meaning and implementations must be safe for concurrent use.
type Observer interface {
	CalculationRequested(ctx context.Context, weightKg, heightM float64)
	ValidationFailed(ctx context.Context, weightKg, heightM float64, err error)
	CalculationSucceeded(ctx context.Context, value float64, category bmi.Category)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) CalculationRequested(context.Context, float64, float64)      {}
func (NopObserver) ValidationFailed(context.Context, float64, float64, error)   {}
func (NopObserver) CalculationSucceeded(context.Context, float64, bmi.Category) {}

// LogObserver writes each event as a structured log entry.
type LogObserver struct {
	log logger.Logger
}

// NewLogObserver returns an Observer backed by l.
func NewLogObserver(l logger.Logger) *LogObserver {
	return &LogObserver{log: l}
}

func (o *LogObserver) CalculationRequested(ctx context.Context, weightKg, heightM float64) {
	o.log.Info(ctx, "BMI calculation requested",
		logger.String("event", EventCalculationStarted),
		logger.Float64("weight_kg", weightKg),
		logger.Float64("height_m", heightM),
	)
}

func (o *LogObserver) ValidationFailed(ctx context.Context, weightKg, heightM float64, err error) {
	o.log.Warn(ctx, "invalid input: weight and height must be positive",
		logger.String("event", EventValidationFailed),
		logger.Float64("weight_kg", weightKg),
		logger.Float64("height_m", heightM),
		logger.Error(err),
	)
}

func (o *LogObserver) CalculationSucceeded(ctx context.Context, value float64, category bmi.Category) {
	o.log.Info(ctx, "BMI calculated",
		logger.String("event", EventCalculationSuccess),
		logger.Float64("bmi", value),
		logger.String("category", category.String()),
	)
}

// MetricsObserver records outcomes on the global Prometheus metrics.
type MetricsObserver struct{}

func (MetricsObserver) CalculationRequested(context.Context, float64, float64) {}

func (MetricsObserver) ValidationFailed(context.Context, float64, float64, error) {
	metrics.RecordValidationFailure()
}

func (MetricsObserver) CalculationSucceeded(_ context.Context, value float64, category bmi.Category) {
	metrics.RecordCalculation(category.String(), value)
}

// Observers fans every event out to each member in order.
type Observers []Observer

func (obs Observers) CalculationRequested(ctx context.Context, weightKg, heightM float64) {
	for _, o := range obs {
		o.CalculationRequested(ctx, weightKg, heightM)
	}
}

func (obs Observers) ValidationFailed(ctx context.Context, weightKg, heightM float64, err error) {
	for _, o := range obs {
		o.ValidationFailed(ctx, weightKg, heightM, err)
	}
}

func (obs Observers) CalculationSucceeded(ctx context.Context, value float64, category bmi.Category) {
	for _, o := range obs {
		o.CalculationSucceeded(ctx, value, category)
	}
}
