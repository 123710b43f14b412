package model

import "time"

// DividendPoint is the synthetic dividend paid in one period.
type DividendPoint struct {
	Time     time.Time
	Dividend float64
}

// RationalPricePoint is the ex-post rational price at one period.
type RationalPricePoint struct {
	Time  time.Time
	Value float64
}

// ReturnPoint is the period-over-period return ending at Time.
type ReturnPoint struct {
	Time   time.Time
	Return float64
}
