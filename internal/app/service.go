// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"math"

	"github.com/okian/bmi/internal/domain/bmi"
	"github.com/okian/bmi/internal/domain/model"
	"github.com/okian/bmi/pkg/logger"
)

// Service validates calculation requests and runs the calculator and
// classifier. It holds no per-request state and is safe for concurrent use.
type Service struct {
	observers Observers
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithObserver adds an observer that receives every calculation event.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithLogger adds a LogObserver writing to l.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.observers = append(s.observers, NewLogObserver(l))
		}
	}
}

// WithMetrics adds a MetricsObserver.
func WithMetrics() Option {
	return WithObserver(MetricsObserver{})
}

// New constructs a Service. Without options events are discarded.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate validates req, then computes and classifies its BMI.
// Invalid inputs return a *ValidationError and never reach the calculator.
// Inputs whose BMI overflows or underflows to a non-finite value are
// rejected the same way.
func (s *Service) Calculate(ctx context.Context, req model.Request) (model.Response, error) {
	s.observers.CalculationRequested(ctx, req.WeightKg, req.HeightM)

	if !req.Valid() {
		return model.Response{}, s.reject(ctx, req)
	}

	value := bmi.Calculate(req.WeightKg, req.HeightM)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return model.Response{}, s.reject(ctx, req)
	}
	category := bmi.Classify(value)

	s.observers.CalculationSucceeded(ctx, value, category)
	return model.Response{BMI: value, Category: category}, nil
}

func (s *Service) reject(ctx context.Context, req model.Request) error {
	err := &ValidationError{WeightKg: req.WeightKg, HeightM: req.HeightM}
	s.observers.ValidationFailed(ctx, req.WeightKg, req.HeightM, err)
	return err
}
