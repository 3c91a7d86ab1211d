package calculator

import (
	"fmt"

	"CryptoFollow/internal/model"

	"gonum.org/v1/gonum/floats"
)

const (
	// ShortWindow is the short moving-average window, in samples.
	ShortWindow = 7
	// LongWindow is the long moving-average window, in samples.
	LongWindow = 30
)

// CalculateSMA computes the trailing simple moving average of prices over period.
// The result has the same length as prices; entries without a full window are nil.
// Each entry is summed from its own window only.
func CalculateSMA(prices []float64, period int) ([]*float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: period must be a positive number", ErrInvalidInput)
	}

	out := make([]*float64, len(prices))
	if period > len(prices) {
		return out, nil
	}

	for i := period - 1; i < len(prices); i++ {
		v := floats.Sum(prices[i-period+1:i+1]) / float64(period)
		out[i] = &v
	}
	return out, nil
}

// AddSMAIndicators returns a copy of data with the short and long moving averages attached.
func AddSMAIndicators(data []model.PricePoint) []model.IndicatorPoint {
	prices := extractPrices(data)
	// Both windows are positive constants, so neither call can fail.
	short, _ := CalculateSMA(prices, ShortWindow)
	long, _ := CalculateSMA(prices, LongWindow)

	out := make([]model.IndicatorPoint, len(data))
	for i, p := range data {
		out[i] = model.IndicatorPoint{
			PricePoint: p,
			SMAShort:   short[i],
			SMALong:    long[i],
		}
	}
	return out
}

// DetectCrossovers scans adjacent points for the short average crossing the long one.
// Only the last crossover in the series is reported.
func DetectCrossovers(data []model.IndicatorPoint) model.CrossoverSignal {
	var sig model.CrossoverSignal

	for i := 1; i < len(data); i++ {
		prev, curr := data[i-1], data[i]
		if prev.SMAShort == nil || prev.SMALong == nil || curr.SMAShort == nil || curr.SMALong == nil {
			continue
		}
		ps, pl := *prev.SMAShort, *prev.SMALong
		cs, cl := *curr.SMAShort, *curr.SMALong

		switch {
		case ps <= pl && cs > cl:
			idx := i
			sig = model.CrossoverSignal{GoldenCross: true, LastCrossoverIndex: &idx}
		case ps >= pl && cs < cl:
			idx := i
			sig = model.CrossoverSignal{DeathCross: true, LastCrossoverIndex: &idx}
		}
	}
	return sig
}

func extractPrices(points []model.PricePoint) []float64 {
	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
	}
	return prices
}
