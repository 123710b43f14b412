package calculator

import (
	"fmt"
	"math"

	"RationalPrice/internal/model"
)

// ExPostPrices computes, for each period i, the present value at i of the
// dividends from i to the end of the series:
//
//	value[i] = Σ_{k=1}^{N-i} dividend[i+k-1] / (1+rate)^k
//
// The dividend at i itself is discounted by one period. The sum stops at the
// last available dividend; no terminal value is added.
//
// It runs the backward recurrence value[i] = (dividend[i] + value[i+1]) / (1+rate)
// seeded with value[N-1] = dividend[N-1] / (1+rate).
func ExPostPrices(dividends []model.DividendPoint, rate float64) ([]model.RationalPricePoint, error) {
	if err := validateEngineInput(dividends, rate); err != nil {
		return nil, err
	}

	growth := 1 + rate
	n := len(dividends)
	out := make([]model.RationalPricePoint, n)
	next := 0.0
	for i := n - 1; i >= 0; i-- {
		next = (dividends[i].Dividend + next) / growth
		out[i] = model.RationalPricePoint{Time: dividends[i].Time, Value: next}
	}
	return out, nil
}

// ExPostPricesDirect evaluates the same sum term by term in O(N²). Results
// match ExPostPrices up to floating-point summation order.
func ExPostPricesDirect(dividends []model.DividendPoint, rate float64) ([]model.RationalPricePoint, error) {
	if err := validateEngineInput(dividends, rate); err != nil {
		return nil, err
	}

	growth := 1 + rate
	n := len(dividends)
	out := make([]model.RationalPricePoint, n)
	for i := 0; i < n; i++ {
		pv := 0.0
		for k := 1; k <= n-i; k++ {
			pv += dividends[i+k-1].Dividend / math.Pow(growth, float64(k))
		}
		out[i] = model.RationalPricePoint{Time: dividends[i].Time, Value: pv}
	}
	return out, nil
}

// RationalValues extracts the values of an ex-post series, in order.
func RationalValues(points []model.RationalPricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

func validateEngineInput(dividends []model.DividendPoint, rate float64) error {
	if len(dividends) == 0 {
		return fmt.Errorf("%w: empty dividend series", ErrInvalidInput)
	}
	// !(rate > -1) also rejects NaN.
	if !(rate > -1) || math.IsInf(rate, 1) {
		return fmt.Errorf("%w: periodic rate must be finite and greater than -1, got %v", ErrInvalidInput, rate)
	}
	return nil
}
