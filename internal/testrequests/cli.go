package testrequests

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/bmi/pkg/logger"
	"github.com/urfave/cli/v3"
)

// Default configuration constants.
const (
	defaultURL          = "http://localhost:3000"
	defaultRequests     = 10000
	defaultWorkersPerCP = 2 // multiplier for runtime.NumCPU()
	defaultInvalidRatio = 0.1
	defaultTimeout      = 10 * time.Second
	defaultTestTimeout  = 10 * time.Minute
)

// NewCommand builds the test-requests command line.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "test-requests",
		Usage: "Load the BMI service and verify every answer against the local calculator",
		Description: `Generates realistic requests across every BMI category, plus a share of
invalid and malformed bodies, submits them concurrently and checks that each
response matches what the calculator and classifier produce locally.

Examples:
  test-requests --url http://localhost:3000 --requests 50000 --workers 16
  test-requests --rps 200 --invalid-ratio 0.25 --verbose`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Value: defaultURL,
				Usage: "Base URL of the service",
			},
			&cli.IntFlag{
				Name:  "requests",
				Value: defaultRequests,
				Usage: "Number of requests to generate and submit",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: runtime.NumCPU() * defaultWorkersPerCP,
				Usage: "Number of concurrent workers",
			},
			&cli.Float64Flag{
				Name:  "rps",
				Usage: "Overall request rate limit; 0 sends as fast as possible",
			},
			&cli.Float64Flag{
				Name:  "invalid-ratio",
				Value: defaultInvalidRatio,
				Usage: "Share of invalid and malformed requests (0..1)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaultTimeout,
				Usage: "HTTP request timeout",
			},
			&cli.DurationFlag{
				Name:  "test-timeout",
				Value: defaultTestTimeout,
				Usage: "Upper bound for the whole run",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Generator seed for reproducible runs; 0 picks one at random",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: logger.FormatText,
				Usage: "Log output format: text or json",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging and report every mismatch",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := logger.InitWithOptions(logger.WithFormat(cmd.String("log-format"))); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			if cmd.Bool("verbose") {
				_ = logger.SetLevelString("debug")
			}

			config := &Config{
				BaseURL:      cmd.String("url"),
				NumRequests:  cmd.Int("requests"),
				Workers:      cmd.Int("workers"),
				RPS:          cmd.Float64("rps"),
				InvalidRatio: cmd.Float64("invalid-ratio"),
				Timeout:      cmd.Duration("timeout"),
				Seed:         cmd.Uint64("seed"),
				Verbose:      cmd.Bool("verbose"),
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("test-timeout"))
			defer cancel()

			if _, err := Run(ctx, config, logger.Named("test-requests")); err != nil {
				return fmt.Errorf("test failed: %w", err)
			}
			return nil
		},
	}
}
