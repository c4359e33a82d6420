// Package model contains domain models passed between layers.
package model

import (
	"math"

	"github.com/okian/bmi/internal/domain/bmi"
)

// Request carries the inputs of one BMI calculation in SI units.
// Fields mirror the OpenAPI schema for POST /api/calculate.
type Request struct {
	WeightKg float64 `json:"weight_kg"` // body weight in kilograms
	HeightM  float64 `json:"height_m"`  // body height in meters
}

// Valid reports whether both fields are finite and strictly positive.
// Calculate must not be reached for a request that is not valid.
func (r Request) Valid() bool {
	return positiveFinite(r.WeightKg) && positiveFinite(r.HeightM)
}

// Response is the result of a successful calculation.
type Response struct {
	BMI      float64      `json:"bmi"`
	Category bmi.Category `json:"category"`
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
