package service_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	service "github.com/okian/bmi/internal/app"
	"github.com/okian/bmi/internal/domain/bmi"
	"github.com/okian/bmi/internal/domain/model"
	"github.com/okian/bmi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogObserver(t *testing.T) {
	Convey("Given a service logging to a buffer", t, func() {
		var buf bytes.Buffer
		l := logger.New(&buf, logger.FormatText, slog.LevelDebug)
		svc := service.New(service.WithLogger(l))
		ctx := context.Background()

		Convey("When a calculation succeeds", func() {
			_, err := svc.Calculate(ctx, model.Request{WeightKg: 70.0, HeightM: 1.75})
			So(err, ShouldBeNil)
			out := buf.String()

			Convey("Then the request and success events should be logged", func() {
				So(out, ShouldContainSubstring, "event="+service.EventCalculationStarted)
				So(out, ShouldContainSubstring, "weight_kg=70")
				So(out, ShouldContainSubstring, "height_m=1.75")
				So(out, ShouldContainSubstring, "event="+service.EventCalculationSuccess)
				So(out, ShouldContainSubstring, "bmi=22.857142857142858")
				So(out, ShouldContainSubstring, `category="Normal weight"`)
				So(out, ShouldNotContainSubstring, service.EventValidationFailed)
			})
		})

		Convey("When validation fails", func() {
			_, err := svc.Calculate(ctx, model.Request{WeightKg: -5.0, HeightM: 1.75})
			So(err, ShouldNotBeNil)
			out := buf.String()

			Convey("Then a warning with the raw inputs should be logged", func() {
				So(out, ShouldContainSubstring, "level=WARN")
				So(out, ShouldContainSubstring, "event="+service.EventValidationFailed)
				So(out, ShouldContainSubstring, "weight_kg=-5")
				So(out, ShouldNotContainSubstring, service.EventCalculationSuccess)
			})
		})
	})
}

func TestObservers(t *testing.T) {
	Convey("Given a fan-out of two observers", t, func() {
		first := &recordingObserver{}
		second := &recordingObserver{}
		fan := service.Observers{first, second, service.NopObserver{}, service.MetricsObserver{}}
		ctx := context.Background()

		Convey("When events are emitted", func() {
			fan.CalculationRequested(ctx, 80, 1.8)
			fan.ValidationFailed(ctx, 0, 1.8, service.ErrValidation)
			fan.CalculationSucceeded(ctx, 24.69, bmi.NormalWeight)

			Convey("Then every member should receive every event", func() {
				for _, r := range []*recordingObserver{first, second} {
					So(len(r.requested), ShouldEqual, 1)
					So(len(r.failed), ShouldEqual, 1)
					So(len(r.succeeded), ShouldEqual, 1)
				}
			})
		})
	})
}
