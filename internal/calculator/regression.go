package calculator

import (
	"fmt"
	"time"

	"CryptoFollow/internal/model"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultHorizon is the number of days projected when the caller does not ask for a horizon.
const DefaultHorizon = 7

// MaxHorizon bounds caller-supplied horizons at the command and API edges.
const MaxHorizon = 365

// trendThreshold is the daily slope, as a percentage of the mean price, above which a fit counts as a trend.
const trendThreshold = 0.5

const dateLayout = "2006-01-02"

// LinearRegression fits y = slope*x + intercept by ordinary least squares.
func LinearRegression(x, y []float64) (model.RegressionResult, error) {
	if len(x) != len(y) || len(x) == 0 {
		return model.RegressionResult{}, fmt.Errorf("%w: arrays must have the same non-zero length", ErrInvalidInput)
	}

	n := float64(len(x))
	sumX := floats.Sum(x)
	sumY := floats.Sum(y)
	sumXY := floats.Dot(x, y)
	sumX2 := floats.Dot(x, x)

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return model.RegressionResult{Slope: 0, Intercept: sumY / n, RSquared: 0}, nil
	}

	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n

	yMean := sumY / n
	var ssTotal, ssResidual float64
	for i, yi := range y {
		d := yi - yMean
		ssTotal += d * d
		r := yi - (slope*x[i] + intercept)
		ssResidual += r * r
	}

	rSquared := 0.0
	if ssTotal > 0 {
		rSquared = 1 - ssResidual/ssTotal
	}
	return model.RegressionResult{Slope: slope, Intercept: intercept, RSquared: rSquared}, nil
}

// PredictPrices fits a line through the history (x = sample index) and projects it
// horizon days past the last sample. A non-positive horizon means DefaultHorizon.
func PredictPrices(history []model.PricePoint, horizon int) (model.PredictionResult, error) {
	if len(history) < 2 {
		return model.PredictionResult{}, fmt.Errorf("%w: need at least 2 data points", ErrInsufficientData)
	}
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	lastDate, err := parseDate(history[len(history)-1].Date)
	if err != nil {
		return model.PredictionResult{}, fmt.Errorf("%w: last history date %q: %v", ErrInvalidInput, history[len(history)-1].Date, err)
	}

	n := len(history)
	x := make([]float64, n)
	y := make([]float64, n)
	for i, p := range history {
		x[i] = float64(i)
		y[i] = p.Price
	}

	fit, err := LinearRegression(x, y)
	if err != nil {
		return model.PredictionResult{}, err
	}

	predictions := make([]model.PricePoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		futureX := float64(n - 1 + i)
		price := fit.Slope*futureX + fit.Intercept
		if price < 0 {
			price = 0
		}
		predictions = append(predictions, model.PricePoint{
			Date:  lastDate.AddDate(0, 0, i).Format(dateLayout),
			Price: price,
		})
	}

	return model.PredictionResult{
		Predictions:      predictions,
		RegressionResult: fit,
		Trend:            classifyTrend(fit.Slope, stat.Mean(y, nil)),
	}, nil
}

// classifyTrend normalises the slope against the mean price so assets at very
// different price levels are judged on the same scale.
func classifyTrend(slope, meanPrice float64) model.Trend {
	if meanPrice == 0 {
		return model.TrendNeutral
	}
	slopePct := slope / meanPrice * 100
	switch {
	case slopePct > trendThreshold:
		return model.TrendBullish
	case slopePct < -trendThreshold:
		return model.TrendBearish
	default:
		return model.TrendNeutral
	}
}

// ConfidenceLevel maps a fit's R² to a display label.
func ConfidenceLevel(rSquared float64) string {
	switch {
	case rSquared >= 0.8:
		return "High"
	case rSquared >= 0.5:
		return "Medium"
	default:
		return "Low"
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
