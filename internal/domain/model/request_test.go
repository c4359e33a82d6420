package model_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/okian/bmi/internal/domain/bmi"
	model "github.com/okian/bmi/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRequest_Valid(t *testing.T) {
	convey.Convey("Given calculation requests", t, func() {
		convey.Convey("When both fields are positive and finite", func() {
			req := model.Request{WeightKg: 70.0, HeightM: 1.75}

			convey.Convey("Then the request should be valid", func() {
				convey.So(req.Valid(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When weight or height is zero", func() {
			convey.Convey("Then the request should be invalid", func() {
				convey.So(model.Request{WeightKg: 0, HeightM: 1.8}.Valid(), convey.ShouldBeFalse)
				convey.So(model.Request{WeightKg: 70, HeightM: 0}.Valid(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When weight or height is negative", func() {
			convey.Convey("Then the request should be invalid", func() {
				convey.So(model.Request{WeightKg: -5, HeightM: 1.75}.Valid(), convey.ShouldBeFalse)
				convey.So(model.Request{WeightKg: 70, HeightM: -1.75}.Valid(), convey.ShouldBeFalse)
				convey.So(model.Request{WeightKg: math.Copysign(0, -1), HeightM: 1.75}.Valid(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When a field is not finite", func() {
			convey.Convey("Then the request should be invalid", func() {
				convey.So(model.Request{WeightKg: math.NaN(), HeightM: 1.75}.Valid(), convey.ShouldBeFalse)
				convey.So(model.Request{WeightKg: 70, HeightM: math.NaN()}.Valid(), convey.ShouldBeFalse)
				convey.So(model.Request{WeightKg: math.Inf(1), HeightM: 1.75}.Valid(), convey.ShouldBeFalse)
				convey.So(model.Request{WeightKg: 70, HeightM: math.Inf(1)}.Valid(), convey.ShouldBeFalse)
				convey.So(model.Request{WeightKg: math.Inf(-1), HeightM: 1.75}.Valid(), convey.ShouldBeFalse)
			})
		})
	})
}

func TestResponse_JSON(t *testing.T) {
	convey.Convey("Given a response", t, func() {
		resp := model.Response{BMI: 22.857142857142858, Category: bmi.NormalWeight}

		convey.Convey("When encoding it as JSON", func() {
			data, err := json.Marshal(resp)

			convey.Convey("Then it should use the wire field names", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldEqual, `{"bmi":22.857142857142858,"category":"Normal weight"}`)
			})
		})
	})

	convey.Convey("Given a request body", t, func() {
		body := []byte(`{"weight_kg": 70, "height_m": 1.75}`)

		convey.Convey("When decoding it", func() {
			var req model.Request
			err := json.Unmarshal(body, &req)

			convey.Convey("Then integer and fractional numbers should both decode", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(req.WeightKg, convey.ShouldEqual, 70.0)
				convey.So(req.HeightM, convey.ShouldEqual, 1.75)
			})
		})
	})
}
