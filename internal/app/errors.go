package service

import (
	"errors"
	"fmt"
)

// ValidationMessage is the client-facing text for rejected inputs.
const ValidationMessage = "Weight and height must be positive numbers"

// ErrValidation marks inputs that are not strictly positive finite numbers.
var ErrValidation = errors.New(ValidationMessage)

// ValidationError carries the rejected raw inputs. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	WeightKg float64
	HeightM  float64
}

func (e *ValidationError) Error() string {
	return ValidationMessage
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Detail describes the rejected values for logs; it is never sent to clients.
func (e *ValidationError) Detail() string {
	return fmt.Sprintf("weight_kg=%g height_m=%g", e.WeightKg, e.HeightM)
}
