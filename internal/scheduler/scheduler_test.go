package scheduler

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"RationalPrice/internal/analysis"
	"RationalPrice/internal/calculator"
	"RationalPrice/internal/collector"
	"RationalPrice/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	messages []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.messages = append(f.messages, text)
	return nil
}

var (
	start  = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	end    = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	params = analysis.Params{AnnualDiscountRate: 0.06, DividendYield: 0.02, PeriodsPerYear: 12}
)

func TestRunOnce(t *testing.T) {
	col := collector.NewCollector(&collector.MockFetcher{Price: 100, Growth: 0.008}, nil, "SPX", "1mo", start, end)
	sender := &fakeSender{}
	var out bytes.Buffer
	csvPath := filepath.Join(t.TempDir(), "series.csv")

	s := NewScheduler(context.Background(), col, params, sender, Options{Out: &out, Rows: 3, Precision: 2, CSVPath: csvPath})
	res, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.Rows, 120)
	assert.Contains(t, out.String(), "Standard Deviation of Actual Prices")
	assert.Contains(t, out.String(), "1989-12-01")
	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "^GSPC")

	_, err = os.Stat(csvPath)
	assert.NoError(t, err)
}

func TestRunNow_ReportsFailure(t *testing.T) {
	col := collector.NewCollector(&collector.MockFetcher{Err: errors.New("offline")}, nil, "^GSPC", "1mo", start, end)
	sender := &fakeSender{}
	s := NewScheduler(context.Background(), col, params, sender, Options{})

	s.RunNow()
	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "offline")
}

func TestRunOnce_InvalidInputPropagates(t *testing.T) {
	m := &collector.MockFetcher{Bars: []model.Bar{{Time: start, AdjClose: 100}}}
	col := collector.NewCollector(m, nil, "^GSPC", "1mo", start, end)
	s := NewScheduler(context.Background(), col, params, nil, Options{})

	_, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
}

func TestRegister(t *testing.T) {
	col := collector.NewCollector(&collector.MockFetcher{}, nil, "^GSPC", "1mo", start, end)
	s := NewScheduler(context.Background(), col, params, nil, Options{})
	require.NoError(t, s.Register("0 0 6 2 * *"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("not a cron spec"))
}
