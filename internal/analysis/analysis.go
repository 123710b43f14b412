// Package analysis runs the excess-volatility comparison for one price series.
package analysis

import (
	"fmt"
	"math"
	"time"

	"RationalPrice/internal/calculator"
	"RationalPrice/internal/model"
)

// Params are the model constants of one run.
type Params struct {
	AnnualDiscountRate float64
	DividendYield      float64
	PeriodsPerYear     int
}

// Row is one aligned period of the output.
type Row struct {
	Time     time.Time
	Actual   float64
	Dividend float64
	Rational float64
}

// Result is the outcome of a full run. It is only produced when every step succeeds.
type Result struct {
	Symbol       string
	Params       Params
	PeriodicRate float64
	Rows         []Row

	ActualStdDev   float64
	RationalStdDev float64
	// VolatilityRatio is ActualStdDev / RationalStdDev, or +Inf when the
	// rational series is flat.
	VolatilityRatio float64
	MeanReturn      float64
}

// Excess reports whether observed prices were more volatile than the ex-post rational price.
func (r *Result) Excess() bool {
	return r.ActualStdDev > r.RationalStdDev
}

// Start returns the first period of the result.
func (r *Result) Start() time.Time { return r.Rows[0].Time }

// End returns the last period of the result.
func (r *Result) End() time.Time { return r.Rows[len(r.Rows)-1].Time }

// Run computes the ex-post rational price series for prices and compares the
// sample standard deviations of both series.
func Run(symbol string, prices []model.PricePoint, p Params) (*Result, error) {
	divs, err := calculator.PrepareDividends(prices, p.DividendYield, p.PeriodsPerYear)
	if err != nil {
		return nil, fmt.Errorf("prepare dividends: %w", err)
	}
	rate, err := calculator.PeriodicRate(p.AnnualDiscountRate, p.PeriodsPerYear)
	if err != nil {
		return nil, fmt.Errorf("periodic rate: %w", err)
	}
	rational, err := calculator.ExPostPrices(divs, rate)
	if err != nil {
		return nil, fmt.Errorf("ex-post prices: %w", err)
	}

	res := &Result{
		Symbol:       symbol,
		Params:       p,
		PeriodicRate: rate,
		Rows:         make([]Row, len(prices)),
	}
	for i := range prices {
		res.Rows[i] = Row{
			Time:     prices[i].Time,
			Actual:   prices[i].Price,
			Dividend: divs[i].Dividend,
			Rational: rational[i].Value,
		}
	}

	if res.ActualStdDev, err = calculator.SampleStdDev(calculator.Prices(prices)); err != nil {
		return nil, fmt.Errorf("actual std dev: %w", err)
	}
	if res.RationalStdDev, err = calculator.SampleStdDev(calculator.RationalValues(rational)); err != nil {
		return nil, fmt.Errorf("rational std dev: %w", err)
	}
	res.VolatilityRatio = ratio(res.ActualStdDev, res.RationalStdDev)

	returns, err := calculator.Returns(prices)
	if err != nil {
		return nil, fmt.Errorf("returns: %w", err)
	}
	values := make([]float64, len(returns))
	for i, r := range returns {
		values[i] = r.Return
	}
	if res.MeanReturn, err = calculator.Mean(values); err != nil {
		return nil, fmt.Errorf("mean return: %w", err)
	}
	return res, nil
}

func ratio(a, b float64) float64 {
	if b == 0 {
		if a == 0 {
			return 1
		}
		return math.Inf(1)
	}
	return a / b
}
