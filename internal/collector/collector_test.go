package collector

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"RationalPrice/internal/model"
	"RationalPrice/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	start = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(1981, 1, 1, 0, 0, 0, 0, time.UTC)
)

func TestClean(t *testing.T) {
	bars := []model.Bar{
		{Time: start.AddDate(0, 2, 0), AdjClose: 102},
		{Time: start, AdjClose: 100},
		{Time: start.AddDate(0, 1, 0), AdjClose: math.NaN()},
		{Time: start.AddDate(0, 3, 0), AdjClose: 0},
		{Time: start.AddDate(0, 4, 0), AdjClose: 104},
		{Time: start.AddDate(0, 4, 0), AdjClose: 105},
		{Time: start.AddDate(0, 5, 0), AdjClose: math.Inf(1)},
	}
	got := Clean(bars)
	require.Len(t, got, 3)
	assert.Equal(t, 100.0, got[0].Price)
	assert.Equal(t, 102.0, got[1].Price)
	assert.Equal(t, 105.0, got[2].Price, "duplicate timestamp keeps the last bar")
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].Time.After(got[i-1].Time))
	}
}

func TestCollector_CollectFromMock(t *testing.T) {
	m := &MockFetcher{Price: 100, Growth: 0.01}
	col := NewCollector(m, nil, "SPX", "1mo", start, end)

	series, err := col.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "^GSPC", series.Symbol)
	assert.Equal(t, "mock", series.Source)
	assert.Len(t, series.Points, 12)
}

func TestCollector_UsesCache(t *testing.T) {
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	require.NoError(t, err)
	defer st.Close()

	m := &MockFetcher{Price: 100, Growth: 0.005}
	col := NewCollector(m, st, "^GSPC", "1mo", start, end)

	first, err := col.Collect(context.Background())
	require.NoError(t, err)
	second, err := col.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, m.Calls)
	assert.Equal(t, "cache", second.Source)
	require.Len(t, second.Points, len(first.Points))
	for i := range first.Points {
		assert.True(t, first.Points[i].Time.Equal(second.Points[i].Time))
		assert.InDelta(t, first.Points[i].Price, second.Points[i].Price, 1e-9)
	}
}

func TestCollector_FetchError(t *testing.T) {
	boom := errors.New("boom")
	col := NewCollector(&MockFetcher{Err: boom}, nil, "^GSPC", "1mo", start, end)
	_, err := col.Collect(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCollector_AllBarsDropped(t *testing.T) {
	m := &MockFetcher{Bars: []model.Bar{{Time: start, AdjClose: math.NaN()}}}
	col := NewCollector(m, nil, "^GSPC", "1mo", start, end)
	_, err := col.Collect(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestResolveSymbol(t *testing.T) {
	assert.Equal(t, "^GSPC", ResolveSymbol("SPX500"))
	assert.Equal(t, "^GSPC", ResolveSymbol("SP500"))
	assert.Equal(t, "^IXIC", ResolveSymbol("^IXIC"))
}

func TestFinanceGoInterval(t *testing.T) {
	iv, err := financeGoInterval("1mo")
	require.NoError(t, err)
	assert.Equal(t, "1mo", string(iv))

	_, err = financeGoInterval("3h")
	assert.Error(t, err)
}
