package collector

import (
	"context"
	"errors"
	"time"

	"RationalPrice/internal/model"
)

// ErrNoData is returned when a source yields no usable bars for the request.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching historical market data.
type Fetcher interface {
	// FetchBars returns bars sampled at interval ("1mo", "1wk", "1d") whose
	// timestamps fall in [start, end).
	FetchBars(ctx context.Context, symbol string, start, end time.Time, interval string) ([]model.Bar, error)
	Name() string
}

// symbolAliases maps internal symbol names to Yahoo tickers.
var symbolAliases = map[string]string{
	"SPX500": "^GSPC",
	"SPX":    "^GSPC",
	"SP500":  "^GSPC",
}

// ResolveSymbol maps a configured symbol to the ticker understood by Yahoo.
func ResolveSymbol(symbol string) string {
	if mapped, ok := symbolAliases[symbol]; ok {
		return mapped
	}
	return symbol
}
