package calculator

import (
	"testing"

	"CryptoFollow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func series(start string, prices ...float64) []model.PricePoint {
	base, err := parseDate(start)
	if err != nil {
		panic(err)
	}
	points := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		points[i] = model.PricePoint{Date: base.AddDate(0, 0, i).Format(dateLayout), Price: p}
	}
	return points
}

func TestLinearRegression_PerfectLine(t *testing.T) {
	tests := []struct {
		name      string
		slope     float64
		intercept float64
	}{
		{"rising", 3, 2},
		{"falling", -1.5, 100},
		{"fractional", 0.25, -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := make([]float64, 10)
			y := make([]float64, 10)
			for i := range x {
				x[i] = float64(i)
				y[i] = tt.slope*x[i] + tt.intercept
			}
			fit, err := LinearRegression(x, y)
			require.NoError(t, err)
			assert.InDelta(t, tt.slope, fit.Slope, 1e-9)
			assert.InDelta(t, tt.intercept, fit.Intercept, 1e-9)
			assert.InDelta(t, 1.0, fit.RSquared, 1e-9)
		})
	}
}

func TestLinearRegression_ConstantY(t *testing.T) {
	fit, err := LinearRegression([]float64{0, 1, 2, 3, 4}, []float64{5, 5, 5, 5, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, fit.Slope, 1e-12)
	assert.InDelta(t, 5.0, fit.Intercept, 1e-12)
	assert.Equal(t, 0.0, fit.RSquared)
}

func TestLinearRegression_IdenticalX(t *testing.T) {
	fit, err := LinearRegression([]float64{2, 2, 2}, []float64{1, 2, 6})
	require.NoError(t, err)
	assert.Equal(t, 0.0, fit.Slope)
	assert.Equal(t, 3.0, fit.Intercept)
	assert.Equal(t, 0.0, fit.RSquared)
}

func TestLinearRegression_InvalidInput(t *testing.T) {
	_, err := LinearRegression([]float64{}, []float64{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = LinearRegression([]float64{1, 2, 3}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "same non-zero length")
}

func TestLinearRegression_MatchesGonum(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5, 6}
	y := []float64{1, 3, 2, 5, 4, 6, 8}

	fit, err := LinearRegression(x, y)
	require.NoError(t, err)

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	assert.InDelta(t, beta, fit.Slope, 1e-9)
	assert.InDelta(t, alpha, fit.Intercept, 1e-9)
	assert.InDelta(t, stat.RSquared(x, y, nil, alpha, beta), fit.RSquared, 1e-9)
	assert.True(t, fit.RSquared > 0 && fit.RSquared < 1)
}

func TestPredictPrices_Increasing(t *testing.T) {
	history := series("2024-01-01", 100, 110, 120, 130, 140)

	res, err := PredictPrices(history, 7)
	require.NoError(t, err)
	require.Len(t, res.Predictions, 7)
	assert.Equal(t, model.TrendBullish, res.Trend)
	assert.Greater(t, res.Predictions[0].Price, history[len(history)-1].Price)
	assert.InDelta(t, 150.0, res.Predictions[0].Price, 1e-9)
	assert.Equal(t, "2024-01-06", res.Predictions[0].Date)
	assert.Equal(t, "2024-01-12", res.Predictions[6].Date)
	assert.InDelta(t, 10.0, res.Slope, 1e-9)
	assert.InDelta(t, 1.0, res.RSquared, 1e-9)
}

func TestPredictPrices_ClampsAtZero(t *testing.T) {
	history := series("2024-03-01", 40, 30, 20, 10, 5)

	res, err := PredictPrices(history, 10)
	require.NoError(t, err)
	require.Len(t, res.Predictions, 10)
	assert.Equal(t, model.TrendBearish, res.Trend)
	for _, p := range res.Predictions {
		assert.GreaterOrEqual(t, p.Price, 0.0)
	}
	assert.Equal(t, 0.0, res.Predictions[0].Price)
}

func TestPredictPrices_Neutral(t *testing.T) {
	res, err := PredictPrices(series("2024-01-01", 100, 100.1, 99.9, 100), 3)
	require.NoError(t, err)
	assert.Equal(t, model.TrendNeutral, res.Trend)
	assert.Len(t, res.Predictions, 3)
}

func TestPredictPrices_DefaultHorizon(t *testing.T) {
	res, err := PredictPrices(series("2024-01-01", 1, 2, 3), 0)
	require.NoError(t, err)
	assert.Len(t, res.Predictions, DefaultHorizon)
}

func TestPredictPrices_MonthRollover(t *testing.T) {
	res, err := PredictPrices(series("2024-01-30", 5, 6), 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", res.Predictions[0].Date)
	assert.Equal(t, "2024-02-02", res.Predictions[1].Date)
}

func TestPredictPrices_Errors(t *testing.T) {
	_, err := PredictPrices([]model.PricePoint{{Date: "2024-01-01", Price: 100}}, 7)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.NotErrorIs(t, err, ErrInvalidInput)

	_, err = PredictPrices(nil, 7)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = PredictPrices([]model.PricePoint{{Date: "x", Price: 1}, {Date: "yesterday", Price: 2}}, 7)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConfidenceLevel(t *testing.T) {
	tests := []struct {
		r2    float64
		label string
	}{
		{1.0, "High"},
		{0.8, "High"},
		{0.79, "Medium"},
		{0.5, "Medium"},
		{0.49, "Low"},
		{0, "Low"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, ConfidenceLevel(tt.r2), "r2=%.2f", tt.r2)
	}
}
