package calculator

import (
	"fmt"
	"math"
)

// PeriodicRate converts an annual rate into the equivalent rate per sampling
// period, compounded periodsPerYear times: (1+annual)^(1/periodsPerYear) - 1.
func PeriodicRate(annualRate float64, periodsPerYear int) (float64, error) {
	if periodsPerYear <= 0 {
		return 0, fmt.Errorf("%w: periods per year must be positive, got %d", ErrInvalidInput, periodsPerYear)
	}
	if !(annualRate > -1) || math.IsInf(annualRate, 1) {
		return 0, fmt.Errorf("%w: annual rate must be finite and greater than -1, got %v", ErrInvalidInput, annualRate)
	}
	return math.Pow(1+annualRate, 1/float64(periodsPerYear)) - 1, nil
}
