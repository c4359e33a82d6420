// Package testrequests drives a running BMI service with generated
// requests and checks every answer against the local calculator.
package testrequests

import (
	"fmt"
	"net/url"
	"time"

	"github.com/okian/bmi/internal/domain/bmi"
)

// Config holds configuration for a load and verification run.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumRequests  int           // Number of requests to generate
	Workers      int           // Number of concurrent workers
	RPS          float64       // Requests per second across all workers; 0 disables pacing
	InvalidRatio float64       // Share of invalid and malformed cases, 0..1
	Timeout      time.Duration // HTTP request timeout
	Seed         uint64        // Generator seed; 0 picks a random one
	Verbose      bool          // Log every mismatch instead of the first few
}

// Validate checks that the run can start.
func (c *Config) Validate() error {
	u, err := url.ParseRequestURI(c.BaseURL)
	switch {
	case err != nil || u.Host == "":
		return fmt.Errorf("%w: url %q is not absolute", ErrInvalidConfig, c.BaseURL)
	case c.NumRequests <= 0:
		return fmt.Errorf("%w: requests must be positive", ErrInvalidConfig)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.RPS < 0:
		return fmt.Errorf("%w: rps must not be negative", ErrInvalidConfig)
	case c.InvalidRatio < 0 || c.InvalidRatio > 1:
		return fmt.Errorf("%w: invalid-ratio must be within [0, 1]", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Kind tells the verifier which answer a case should get.
type Kind string

// Case kinds.
const (
	KindValid     Kind = "valid"
	KindInvalid   Kind = "invalid"
	KindMalformed Kind = "malformed"
)

// Case is one generated request.
type Case struct {
	ID       int
	Kind     Kind
	Profile  string
	WeightKg float64 // meaningful for valid and invalid cases
	HeightM  float64
	Body     []byte
}

// Outcome is what the service answered for a Case.
type Outcome struct {
	Case       Case
	StatusCode int
	Body       []byte
	SentID     string
	EchoedID   string
	Latency    time.Duration
	Err        error // transport failure; StatusCode is zero when set
}

// Stats holds run statistics.
type Stats struct {
	Generated         int
	Submitted         int
	Matched           int
	Mismatched        int
	TransportErrors   int
	ByKind            map[Kind]int
	ByCategory        map[bmi.Category]int
	LatencyP50        time.Duration
	LatencyP95        time.Duration
	LatencyMax        time.Duration
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
	RequestsPerSecond float64
}
