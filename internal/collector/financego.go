package collector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"RationalPrice/internal/model"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
)

// FinanceGoFetcher implements Fetcher on top of the piquette/finance-go chart client.
type FinanceGoFetcher struct{}

func NewFinanceGoFetcher() *FinanceGoFetcher { return &FinanceGoFetcher{} }

func (f *FinanceGoFetcher) Name() string { return "financego" }

func financeGoInterval(interval string) (datetime.Interval, error) {
	switch interval {
	case "1mo":
		return datetime.OneMonth, nil
	case "1wk":
		// finance-go has no named weekly constant; Yahoo accepts "1wk".
		return datetime.Interval("1wk"), nil
	case "1d":
		return datetime.OneDay, nil
	default:
		return "", fmt.Errorf("financego: unsupported interval %q", interval)
	}
}

func (f *FinanceGoFetcher) FetchBars(ctx context.Context, symbol string, start, end time.Time, interval string) ([]model.Bar, error) {
	iv, err := financeGoInterval(interval)
	if err != nil {
		return nil, err
	}
	params := &chart.Params{
		Symbol:   ResolveSymbol(symbol),
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: iv,
	}

	iter := chart.Get(params)
	var bars []model.Bar
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar := iter.Bar()
		bars = append(bars, model.Bar{
			Time:     time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:     decimalToFloat(bar.Open),
			High:     decimalToFloat(bar.High),
			Low:      decimalToFloat(bar.Low),
			Close:    decimalToFloat(bar.Close),
			AdjClose: decimalToFloat(bar.AdjClose),
			Volume:   float64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("financego %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("financego %s: %w", symbol, ErrNoData)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// decimalToFloat maps a zero decimal to NaN: finance-go decodes null prices as zero.
func decimalToFloat(d decimal.Decimal) float64 {
	if d.IsZero() {
		return math.NaN()
	}
	return d.InexactFloat64()
}
