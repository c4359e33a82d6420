// Package bmi computes Body Mass Index values and maps them to WHO-style
// weight categories. Both functions are pure and safe for concurrent use.
package bmi

// Category is a weight classification derived from a BMI value.
type Category string

// Categories in ascending severity.
const (
	Underweight  Category = "Underweight"
	NormalWeight Category = "Normal weight"
	Overweight   Category = "Overweight"
	Obese        Category = "Obese"
)

// Upper bounds (exclusive) of each category. A value equal to a bound
// belongs to the next category.
const (
	UnderweightUpper = 18.5
	NormalUpper      = 25.0
	OverweightUpper  = 30.0
)

// Categories returns all categories ordered from least to most severe.
func Categories() []Category {
	return []Category{Underweight, NormalWeight, Overweight, Obese}
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }

// Severity returns the position of c in Categories, or -1 for unknown values.
func (c Category) Severity() int {
	switch c {
	case Underweight:
		return 0
	case NormalWeight:
		return 1
	case Overweight:
		return 2
	case Obese:
		return 3
	default:
		return -1
	}
}

// Calculate returns weightKg / heightM². heightM must be non-zero and both
// values finite; callers validate before calling.
func Calculate(weightKg, heightM float64) float64 {
	return weightKg / (heightM * heightM)
}

// Classify maps a finite BMI value to its category.
func Classify(value float64) Category {
	switch {
	case value < UnderweightUpper:
		return Underweight
	case value < NormalUpper:
		return NormalWeight
	case value < OverweightUpper:
		return Overweight
	default:
		return Obese
	}
}
