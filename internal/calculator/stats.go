package calculator

import (
	"fmt"
	"math"
)

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: no values", ErrInvalidInput)
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// StdDev returns the standard deviation of values with ddof delta degrees of
// freedom: 0 for the population form, 1 for the sample form.
func StdDev(values []float64, ddof int) (float64, error) {
	if ddof < 0 {
		return 0, fmt.Errorf("%w: ddof must be non-negative, got %d", ErrInvalidInput, ddof)
	}
	if len(values) <= ddof {
		return 0, fmt.Errorf("%w: need more than %d values, got %d", ErrInvalidInput, ddof, len(values))
	}
	mean, err := Mean(values)
	if err != nil {
		return 0, err
	}
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-ddof)), nil
}

// SampleStdDev is StdDev with one degree of freedom removed.
func SampleStdDev(values []float64) (float64, error) {
	return StdDev(values, 1)
}
