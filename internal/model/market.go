package model

import "time"

// Bar represents a single sampled period as returned by a data source.
// AdjClose is NaN when the source had no adjusted close for the period.
type Bar struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// PricePoint is one observed price per period.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// PriceSeries holds a cleaned price history for one instrument.
type PriceSeries struct {
	Symbol    string
	Interval  string
	Points    []PricePoint
	Source    string
	FetchedAt time.Time
}
