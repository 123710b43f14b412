package calculator

import (
	"math"
	"testing"
	"time"

	"RationalPrice/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

func dividendStream(values ...float64) []model.DividendPoint {
	divs := make([]model.DividendPoint, len(values))
	for i, v := range values {
		divs[i] = model.DividendPoint{Time: t0.AddDate(0, i, 0), Dividend: v}
	}
	return divs
}

func constantStream(d float64, n int) []model.DividendPoint {
	values := make([]float64, n)
	for i := range values {
		values[i] = d
	}
	return dividendStream(values...)
}

func TestExPostPrices_ThreePeriodScenario(t *testing.T) {
	out, err := ExPostPrices(dividendStream(100, 100, 100), 0.01)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.InDelta(t, 99.0099, out[2].Value, 1e-4)
	assert.InDelta(t, 197.0395, out[1].Value, 1e-4)
	assert.InDelta(t, 294.0985, out[0].Value, 1e-4)
}

func TestExPostPrices_Alignment(t *testing.T) {
	divs := dividendStream(3, 1, 4, 1, 5, 9, 2, 6)
	out, err := ExPostPrices(divs, 0.005)
	require.NoError(t, err)
	require.Len(t, out, len(divs))
	for i := range divs {
		assert.True(t, out[i].Time.Equal(divs[i].Time), "timestamp mismatch at %d", i)
	}
}

func TestExPostPrices_LastPointClosedForm(t *testing.T) {
	rates := []float64{0, 0.001, 0.004867550565343048, 0.05, -0.5}
	for _, r := range rates {
		divs := dividendStream(7, 8, 2.5)
		out, err := ExPostPrices(divs, r)
		require.NoError(t, err)
		want := 2.5 / (1 + r)
		assert.InEpsilon(t, want, out[2].Value, 1e-9, "rate %v", r)
	}
}

func TestExPostPrices_SinglePoint(t *testing.T) {
	out, err := ExPostPrices(dividendStream(42), 0.02)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InEpsilon(t, 42/1.02, out[0].Value, 1e-12)
}

func TestExPostPrices_ZeroStream(t *testing.T) {
	for _, r := range []float64{0, 0.01, 3, -0.9} {
		out, err := ExPostPrices(constantStream(0, 25), r)
		require.NoError(t, err)
		for i, p := range out {
			assert.Zero(t, p.Value, "rate %v index %d", r, i)
		}
	}
}

func TestExPostPrices_ConstantStreamGeometricForm(t *testing.T) {
	const (
		d = 12.5
		n = 540
		r = 0.004867550565343048
	)
	out, err := ExPostPrices(constantStream(d, n), r)
	require.NoError(t, err)

	q := 1 / (1 + r)
	for i := 0; i < n; i++ {
		want := d * q * (1 - math.Pow(q, float64(n-i))) / (1 - q)
		assert.InEpsilon(t, want, out[i].Value, 1e-9, "index %d", i)
		if i > 0 {
			assert.Less(t, out[i].Value, out[i-1].Value, "not strictly decreasing at %d", i)
		}
	}
}

func TestExPostPrices_MatchesDirectSum(t *testing.T) {
	values := make([]float64, 300)
	for i := range values {
		values[i] = 1 + math.Sin(float64(i)/7)*0.5 + float64(i)*0.01
	}
	divs := dividendStream(values...)

	fast, err := ExPostPrices(divs, 0.0049)
	require.NoError(t, err)
	slow, err := ExPostPricesDirect(divs, 0.0049)
	require.NoError(t, err)

	require.Len(t, fast, len(slow))
	for i := range fast {
		assert.InEpsilon(t, slow[i].Value, fast[i].Value, 1e-9, "index %d", i)
		assert.True(t, fast[i].Time.Equal(slow[i].Time))
	}
}

func TestExPostPrices_Rejection(t *testing.T) {
	tests := []struct {
		name string
		divs []model.DividendPoint
		rate float64
	}{
		{"empty", nil, 0.01},
		{"rate minus one", dividendStream(1), -1},
		{"rate below minus one", dividendStream(1), -1.5},
		{"rate NaN", dividendStream(1), math.NaN()},
		{"rate +Inf", dividendStream(1), math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ExPostPrices(tt.divs, tt.rate)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, out)

			out, err = ExPostPricesDirect(tt.divs, tt.rate)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, out)
		})
	}
}

func TestExPostPrices_DoesNotMutateInput(t *testing.T) {
	divs := dividendStream(1, 2, 3)
	before := append([]model.DividendPoint(nil), divs...)
	_, err := ExPostPrices(divs, 0.01)
	require.NoError(t, err)
	assert.Equal(t, before, divs)
}

func TestRationalValues(t *testing.T) {
	out, err := ExPostPrices(dividendStream(100, 100, 100), 0.01)
	require.NoError(t, err)
	vals := RationalValues(out)
	require.Len(t, vals, 3)
	assert.Equal(t, out[1].Value, vals[1])
}

func BenchmarkExPostPrices(b *testing.B) {
	divs := constantStream(1, 1000)
	for i := 0; i < b.N; i++ {
		_, _ = ExPostPrices(divs, 0.005)
	}
}

func BenchmarkExPostPricesDirect(b *testing.B) {
	divs := constantStream(1, 1000)
	for i := 0; i < b.N; i++ {
		_, _ = ExPostPricesDirect(divs, 0.005)
	}
}
