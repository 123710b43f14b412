package store

import "RationalPrice/internal/model"

// NoopStore is a no-op implementation used when caching is disabled.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) Load(_ Key) ([]model.PricePoint, bool, error) { return nil, false, nil }
func (n *NoopStore) Save(_ Key, _ []model.PricePoint) error        { return nil }
func (n *NoopStore) Close() error                                  { return nil }
