package collector

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"RationalPrice/internal/model"
	"RationalPrice/internal/store"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64 // starting price for generated bars
	Growth float64 // per-period growth of generated bars
	Bars   []model.Bar
	Err    error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, _ string, start, end time.Time, interval string) ([]model.Bar, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(m.Price, m.Growth, start, end, interval), nil
}

func generateMockBars(basePrice, growth float64, start, end time.Time, interval string) []model.Bar {
	if basePrice == 0 {
		basePrice = 100
	}
	var bars []model.Bar
	p := basePrice
	for ts := start; ts.Before(end); ts = step(ts, interval) {
		// small deterministic wobble so the series is not a pure exponential
		wobble := 1 + 0.03*math.Sin(float64(len(bars))/5)
		c := p * wobble
		bars = append(bars, model.Bar{
			Time:     ts,
			Open:     c * 0.99,
			High:     c * 1.02,
			Low:      c * 0.97,
			Close:    c,
			AdjClose: c,
			Volume:   1000000,
		})
		p *= 1 + growth
	}
	return bars
}

func step(ts time.Time, interval string) time.Time {
	switch interval {
	case "1wk":
		return ts.AddDate(0, 0, 7)
	case "1d":
		return ts.AddDate(0, 0, 1)
	default:
		return ts.AddDate(0, 1, 0)
	}
}

// Collector fetches one instrument's price history and cleans it.
type Collector struct {
	Fetcher  Fetcher
	Store    store.Store
	Symbol   string
	Interval string
	Start    time.Time
	End      time.Time
}

// NewCollector creates a new Collector. A nil st disables caching.
func NewCollector(fetcher Fetcher, st store.Store, symbol, interval string, start, end time.Time) *Collector {
	if st == nil {
		st = store.NewNoopStore()
	}
	return &Collector{
		Fetcher:  fetcher,
		Store:    st,
		Symbol:   symbol,
		Interval: interval,
		Start:    start,
		End:      end,
	}
}

func (c *Collector) key() store.Key {
	return store.Key{Symbol: ResolveSymbol(c.Symbol), Interval: c.Interval, Start: c.Start, End: c.End}
}

// Collect returns the cleaned (timestamp, adjusted close) series, served from
// the cache when a fresh entry exists.
func (c *Collector) Collect(ctx context.Context) (*model.PriceSeries, error) {
	key := c.key()
	if points, ok, err := c.Store.Load(key); err != nil {
		log.Printf("[WARN] cache load failed: %v, fetching from %s", err, c.Fetcher.Name())
	} else if ok {
		log.Printf("[INFO] %s: %d cached points", key.Symbol, len(points))
		return &model.PriceSeries{
			Symbol:    key.Symbol,
			Interval:  c.Interval,
			Points:    points,
			Source:    "cache",
			FetchedAt: time.Now(),
		}, nil
	}

	bars, err := c.Fetcher.FetchBars(ctx, c.Symbol, c.Start, c.End, c.Interval)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	points := Clean(bars)
	if len(points) == 0 {
		return nil, fmt.Errorf("clean bars for %s: %w", key.Symbol, ErrNoData)
	}
	if dropped := len(bars) - len(points); dropped > 0 {
		log.Printf("[INFO] %s: dropped %d of %d bars during cleaning", key.Symbol, dropped, len(bars))
	}

	if err := c.Store.Save(key, points); err != nil {
		log.Printf("[WARN] cache save failed: %v", err)
	}

	return &model.PriceSeries{
		Symbol:    key.Symbol,
		Interval:  c.Interval,
		Points:    points,
		Source:    c.Fetcher.Name(),
		FetchedAt: time.Now(),
	}, nil
}

// Clean keeps bars with a finite, positive adjusted close, orders them by
// time and collapses duplicate timestamps to the last bar seen.
func Clean(bars []model.Bar) []model.PricePoint {
	sorted := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.AdjClose) || math.IsInf(b.AdjClose, 0) || b.AdjClose <= 0 {
			continue
		}
		sorted = append(sorted, b)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	points := make([]model.PricePoint, 0, len(sorted))
	for _, b := range sorted {
		p := model.PricePoint{Time: b.Time, Price: b.AdjClose}
		if n := len(points); n > 0 && points[n-1].Time.Equal(b.Time) {
			points[n-1] = p
			continue
		}
		points = append(points, p)
	}
	return points
}
