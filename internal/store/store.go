package store

import (
	"time"

	"RationalPrice/internal/model"
)

// Key identifies one cached price history request.
type Key struct {
	Symbol   string
	Interval string
	Start    time.Time
	End      time.Time
}

// Store caches cleaned price histories fetched from a data source.
// It holds input data only; computed series are never stored.
type Store interface {
	// Load returns the cached points for key. ok is false when nothing is
	// cached or the entry is older than the store's TTL.
	Load(key Key) (points []model.PricePoint, ok bool, err error)
	Save(key Key, points []model.PricePoint) error
	Close() error
}
