package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/bmi/internal/config"
	"github.com/okian/bmi/pkg/logger"
	"github.com/okian/bmi/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func testLogger() logger.Logger {
	return logger.New(io.Discard, logger.FormatText, slog.LevelInfo)
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the assembled application handler", t, func() {
		ctx := context.Background()
		cfg := config.New()
		h := newHandler(ctx, cfg, testLogger())

		convey.Convey("Then the calculator page should be served at /", func() {
			w := serve(h, http.MethodGet, "/", "")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "BMI Calculator")
		})

		convey.Convey("And the calculation endpoint should answer", func() {
			w := serve(h, http.MethodPost, "/api/calculate", `{"weight_kg":70,"height_m":1.75}`)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"category":"Normal weight"`)
			convey.So(w.Header().Get("X-Request-Id"), convey.ShouldNotBeEmpty)
			convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "*")
		})

		convey.Convey("And health, metrics and docs should be reachable", func() {
			for _, path := range []string{"/healthz", "/metrics", "/openapi.yaml", "/api-docs"} {
				convey.So(serve(h, http.MethodGet, path, "").Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("And unknown paths should return 404", func() {
			convey.So(serve(h, http.MethodGet, "/nope", "").Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})

	convey.Convey("Given docs are disabled", t, func() {
		cfg := config.New()
		cfg.DocsEnabled = false
		h := newHandler(context.Background(), cfg, testLogger())

		convey.Convey("Then the docs routes should not exist", func() {
			convey.So(serve(h, http.MethodGet, "/openapi.yaml", "").Code, convey.ShouldEqual, http.StatusNotFound)
			convey.So(serve(h, http.MethodGet, "/api-docs", "").Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})

	convey.Convey("Given a small body limit", t, func() {
		cfg := config.New()
		cfg.MaxBodyBytes = 8
		h := newHandler(context.Background(), cfg, testLogger())

		convey.Convey("Then larger bodies should be rejected", func() {
			w := serve(h, http.MethodPost, "/api/calculate", `{"weight_kg":70,"height_m":1.75}`)
			convey.So(w.Code, convey.ShouldEqual, http.StatusRequestEntityTooLarge)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given run with an invalid configuration", t, func() {
		_ = os.Setenv("BMI_MAX_BODY_BYTES", "0")
		defer func() { _ = os.Unsetenv("BMI_MAX_BODY_BYTES") }()

		convey.Convey("Then it should fail before starting the server", func() {
			err := run(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "failed to load config")
		})
	})

	convey.Convey("Given run on a free port", t, func() {
		_ = os.Setenv("BMI_ADDR", "127.0.0.1:0")
		_ = os.Setenv("BMI_LOG_LEVEL", "error")
		defer func() {
			_ = os.Unsetenv("BMI_ADDR")
			_ = os.Unsetenv("BMI_LOG_LEVEL")
		}()

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx) }()

			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then it should shut down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("run did not return after cancellation")
				}
			})
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("When the context expires", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.Convey("Then it should return without panicking", func() {
				convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When updating once", func() {
			updateSystemMetrics()

			convey.Convey("Then the gauges should be exposed", func() {
				var buf bytes.Buffer
				families, err := metrics.GetRegistry().Gather()
				convey.So(err, convey.ShouldBeNil)
				for _, f := range families {
					buf.WriteString(f.GetName() + "\n")
				}
				convey.So(buf.String(), convey.ShouldContainSubstring, "bmi_calculator_system_memory_usage_bytes")
				convey.So(buf.String(), convey.ShouldContainSubstring, "bmi_calculator_system_goroutine_count")
			})
		})

		convey.Convey("When creating an isolated manager", func() {
			start := time.Now()
			manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))

			convey.Convey("Then it should be cheap to construct", func() {
				convey.So(manager, convey.ShouldNotBeNil)
				convey.So(time.Since(start), convey.ShouldBeLessThan, 100*time.Millisecond)
			})
		})
	})
}
