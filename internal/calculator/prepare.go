package calculator

import (
	"fmt"
	"math"

	"RationalPrice/internal/model"
)

// PrepareDividends derives the synthetic dividend stream from a cleaned price
// series: dividend[i] = price[i] * dividendYield / periodsPerYear.
// The output is aligned index-for-index with prices.
func PrepareDividends(prices []model.PricePoint, dividendYield float64, periodsPerYear int) ([]model.DividendPoint, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: empty price series", ErrInvalidInput)
	}
	if periodsPerYear <= 0 {
		return nil, fmt.Errorf("%w: periods per year must be positive, got %d", ErrInvalidInput, periodsPerYear)
	}
	if dividendYield < 0 || !isFinite(dividendYield) {
		return nil, fmt.Errorf("%w: dividend yield must be a non-negative number, got %v", ErrInvalidInput, dividendYield)
	}
	if err := validatePrices(prices); err != nil {
		return nil, err
	}

	perPeriod := dividendYield / float64(periodsPerYear)
	divs := make([]model.DividendPoint, len(prices))
	for i, p := range prices {
		divs[i] = model.DividendPoint{Time: p.Time, Dividend: p.Price * perPeriod}
	}
	return divs, nil
}

// Returns computes period-over-period simple returns. The first point has no
// predecessor and is omitted, so the result has len(prices)-1 entries.
func Returns(prices []model.PricePoint) ([]model.ReturnPoint, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: empty price series", ErrInvalidInput)
	}
	if err := validatePrices(prices); err != nil {
		return nil, err
	}
	out := make([]model.ReturnPoint, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1].Price
		if prev == 0 {
			return nil, fmt.Errorf("%w: zero price at %s", ErrInvalidInput, prices[i-1].Time.Format("2006-01-02"))
		}
		out = append(out, model.ReturnPoint{Time: prices[i].Time, Return: prices[i].Price/prev - 1})
	}
	return out, nil
}

// Prices extracts the raw price values, in order.
func Prices(prices []model.PricePoint) []float64 {
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = p.Price
	}
	return out
}

func validatePrices(prices []model.PricePoint) error {
	for i, p := range prices {
		if p.Price < 0 || !isFinite(p.Price) {
			return fmt.Errorf("%w: price %v at index %d", ErrInvalidInput, p.Price, i)
		}
		if i > 0 && !p.Time.After(prices[i-1].Time) {
			return fmt.Errorf("%w: timestamps not strictly increasing at index %d", ErrInvalidInput, i)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
