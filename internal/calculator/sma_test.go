package calculator

import (
	"testing"

	"CryptoFollow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func values(t *testing.T, in []*float64) []interface{} {
	t.Helper()
	out := make([]interface{}, len(in))
	for i, v := range in {
		if v == nil {
			out[i] = nil
		} else {
			out[i] = *v
		}
	}
	return out
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{10, 20, 30, 40, 50}, 3)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{nil, nil, 20.0, 30.0, 40.0}, values(t, got))
}

func TestCalculateSMA_WindowIndependent(t *testing.T) {
	// A huge value leaving the window must not leave rounding residue behind.
	got, err := CalculateSMA([]float64{1e17, 1, 1}, 2)
	require.NoError(t, err)
	require.NotNil(t, got[2])
	assert.Equal(t, 1.0, *got[2])

	prices := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}
	got, err = CalculateSMA(prices, 3)
	require.NoError(t, err)
	for i := 2; i < len(prices); i++ {
		want := (prices[i-2] + prices[i-1] + prices[i]) / 3
		require.NotNil(t, got[i])
		assert.InDelta(t, want, *got[i], 1e-15, "index %d", i)
	}
}

func TestCalculateSMA_Identity(t *testing.T) {
	prices := []float64{3.5, 7.25, 1, 0, 42}
	got, err := CalculateSMA(prices, 1)
	require.NoError(t, err)
	require.Len(t, got, len(prices))
	for i, v := range got {
		require.NotNil(t, v)
		assert.Equal(t, prices[i], *v)
	}
}

func TestCalculateSMA_PeriodExceedsData(t *testing.T) {
	got, err := CalculateSMA([]float64{10, 20, 30}, 5)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{nil, nil, nil}, values(t, got))

	got, err = CalculateSMA(nil, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCalculateSMA_InvalidPeriod(t *testing.T) {
	for _, period := range []int{0, -1} {
		_, err := CalculateSMA([]float64{1, 2, 3}, period)
		assert.ErrorIs(t, err, ErrInvalidInput, "period %d", period)
	}
}

func TestAddSMAIndicators(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = float64(i + 1)
	}
	data := series("2024-01-01", prices...)

	out := AddSMAIndicators(data)
	require.Len(t, out, len(data))

	for i, p := range out {
		assert.Equal(t, data[i].Date, p.Date)
		assert.Equal(t, data[i].Price, p.Price)
	}
	assert.Nil(t, out[5].SMAShort)
	require.NotNil(t, out[6].SMAShort)
	assert.InDelta(t, 4.0, *out[6].SMAShort, 1e-9) // mean(1..7)
	assert.Nil(t, out[28].SMALong)
	require.NotNil(t, out[29].SMALong)
	assert.InDelta(t, 15.5, *out[29].SMALong, 1e-9) // mean(1..30)
	assert.InDelta(t, 37.0, *out[39].SMAShort, 1e-9)
}

func TestAddSMAIndicators_ShortSeries(t *testing.T) {
	out := AddSMAIndicators(series("2024-01-01", 1, 2, 3))
	require.Len(t, out, 3)
	for _, p := range out {
		assert.Nil(t, p.SMAShort)
		assert.Nil(t, p.SMALong)
	}
	assert.Empty(t, AddSMAIndicators(nil))
}

func point(short, long *float64) model.IndicatorPoint {
	return model.IndicatorPoint{SMAShort: short, SMALong: long}
}

func TestDetectCrossovers(t *testing.T) {
	tests := []struct {
		name   string
		data   []model.IndicatorPoint
		golden bool
		death  bool
		index  *int
	}{
		{
			name:   "golden cross",
			data:   []model.IndicatorPoint{point(ptr(1), ptr(2)), point(ptr(1.5), ptr(2)), point(ptr(3), ptr(2))},
			golden: true,
			index:  intPtr(2),
		},
		{
			name:  "death cross",
			data:  []model.IndicatorPoint{point(ptr(3), ptr(2)), point(ptr(2.5), ptr(2)), point(ptr(1), ptr(2))},
			death: true,
			index: intPtr(2),
		},
		{
			name:   "from equal to above counts as golden",
			data:   []model.IndicatorPoint{point(ptr(2), ptr(2)), point(ptr(2.1), ptr(2))},
			golden: true,
			index:  intPtr(1),
		},
		{
			name:  "last crossover wins",
			data:  []model.IndicatorPoint{point(ptr(1), ptr(2)), point(ptr(3), ptr(2)), point(ptr(3), ptr(2)), point(ptr(1), ptr(2)), point(ptr(1), ptr(2))},
			death: true,
			index: intPtr(3),
		},
		{
			name: "short always above",
			data: []model.IndicatorPoint{point(ptr(5), ptr(2)), point(ptr(6), ptr(3)), point(ptr(7), ptr(4))},
		},
		{
			name: "short always below",
			data: []model.IndicatorPoint{point(ptr(1), ptr(2)), point(ptr(1), ptr(3)), point(ptr(2), ptr(4))},
		},
		{
			name: "pairs with missing averages are skipped",
			data: []model.IndicatorPoint{point(ptr(1), ptr(2)), point(ptr(3), nil), point(ptr(3), ptr(2))},
		},
		{
			name: "empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := DetectCrossovers(tt.data)
			assert.Equal(t, tt.golden, sig.GoldenCross)
			assert.Equal(t, tt.death, sig.DeathCross)
			assert.Equal(t, tt.index, sig.LastCrossoverIndex)
			assert.False(t, sig.GoldenCross && sig.DeathCross)
		})
	}
}

func intPtr(v int) *int { return &v }

func TestDetectCrossovers_FromIndicators(t *testing.T) {
	// 30 flat days, a dip, then a rally: the short average falls under the long one and crosses back above.
	prices := make([]float64, 0, 60)
	for i := 0; i < 30; i++ {
		prices = append(prices, 100)
	}
	for i := 0; i < 10; i++ {
		prices = append(prices, 90)
	}
	for i := 0; i < 20; i++ {
		prices = append(prices, 120)
	}

	sig := DetectCrossovers(AddSMAIndicators(series("2024-01-01", prices...)))
	assert.True(t, sig.GoldenCross)
	assert.False(t, sig.DeathCross)
	require.NotNil(t, sig.LastCrossoverIndex)
	assert.Greater(t, *sig.LastCrossoverIndex, 40)
}
