package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"RationalPrice/internal/analysis"
	"RationalPrice/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("tok", "42", "")
	n.APIBase = srv.URL
	require.NoError(t, n.Send(context.Background(), "hello"))

	assert.Equal(t, "/bottok/sendMessage", path)
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestTelegramNotifier_Retry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("tok", "42", "")
	n.APIBase = srv.URL
	require.NoError(t, n.sendWithBackoff(context.Background(), "hi", 3, time.Millisecond))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestTelegramNotifier_RetryExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("tok", "42", "")
	n.APIBase = srv.URL
	err := n.sendWithBackoff(context.Background(), "hi", 1, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 retries exhausted")
}

func TestFormatReport(t *testing.T) {
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := []model.PricePoint{
		{Time: base, Price: 1400},
		{Time: base.AddDate(0, 1, 0), Price: 1350},
		{Time: base.AddDate(0, 2, 0), Price: 1500},
	}
	res, err := analysis.Run("^GSPC", prices, analysis.Params{AnnualDiscountRate: 0.06, DividendYield: 0.02, PeriodsPerYear: 12})
	require.NoError(t, err)

	msg := FormatReport(res)
	assert.Contains(t, msg, "^GSPC")
	assert.Contains(t, msg, "2000-01 .. 2000-03 (3 periods)")
	assert.Contains(t, msg, "Excess volatility")
}
