package strategy

import (
	"fmt"

	"CryptoFollow/internal/model"
)

// recentCrossover is how many trailing points count as a fresh crossover.
const recentCrossover = 5

// scoreForecast scores the projected move from the last price to the end of the horizon.
// Weight: 0.35. A low-confidence fit counts half.
func scoreForecast(a *model.CoinAnalysis) model.FactorScore {
	preds := a.Prediction.Predictions
	if a.LastPrice <= 0 || len(preds) == 0 {
		return model.FactorScore{Name: "Forecast", Weight: 0.35, Commentary: "no forecast"}
	}
	change := (preds[len(preds)-1].Price - a.LastPrice) / a.LastPrice * 100

	var score float64
	switch {
	case change >= 10:
		score = 2.0
	case change >= 5:
		score = 1.5
	case change >= 2:
		score = 1.0
	case change >= 0.5:
		score = 0.5
	case change > -0.5:
		score = 0
	case change > -2:
		score = -0.5
	case change > -5:
		score = -1.0
	case change > -10:
		score = -1.5
	default:
		score = -2.0
	}
	if a.Confidence == "Low" {
		score /= 2
	}

	return model.FactorScore{
		Name:       "Forecast",
		RawScore:   score,
		Weight:     0.35,
		Weighted:   score * 0.35,
		Commentary: fmt.Sprintf("%+.1f%% over %d days, %s confidence", change, len(preds), a.Confidence),
	}
}

// scoreRSI scores the RSI(14) contrarian: oversold is positive.
// Weight: 0.25
func scoreRSI(a *model.CoinAnalysis) model.FactorScore {
	rsi := a.RSI
	var score float64
	switch {
	case rsi <= 25:
		score = 2.0
	case rsi <= 30:
		score = 1.5
	case rsi <= 40:
		score = 1.0
	case rsi <= 45:
		score = 0.5
	case rsi <= 55:
		score = 0
	case rsi <= 60:
		score = -0.5
	case rsi <= 70:
		score = -1.0
	case rsi <= 80:
		score = -1.5
	default:
		score = -2.0
	}

	return model.FactorScore{
		Name:       "RSI",
		RawScore:   score,
		Weight:     0.25,
		Weighted:   score * 0.25,
		Commentary: fmt.Sprintf("RSI=%.0f", rsi),
	}
}

// scoreRangePosition scores where the price sits in the period range.
// Weight: 0.15
// Above 95% it only reaches -2 when the other factors average below -1, otherwise it caps at -1.
func scoreRangePosition(a *model.CoinAnalysis, otherFactorsAvg float64) model.FactorScore {
	pos := a.RangePosition * 100

	var score float64
	switch {
	case pos <= 10:
		score = 2.0
	case pos <= 20:
		score = 1.5
	case pos <= 30:
		score = 1.0
	case pos <= 40:
		score = 0.5
	case pos <= 60:
		score = 0
	case pos <= 70:
		score = -0.5
	case pos <= 80:
		score = -1.0
	case pos <= 95:
		score = -1.5
	default:
		if otherFactorsAvg < -1 {
			score = -2.0
		} else {
			score = -1.0
		}
	}

	return model.FactorScore{
		Name:       "Range position",
		RawScore:   score,
		Weight:     0.15,
		Weighted:   score * 0.15,
		Commentary: fmt.Sprintf("position=%.0f%%", pos),
	}
}

// scoreCrossover scores the moving-average crossover state.
// Weight: 0.25
func scoreCrossover(a *model.CoinAnalysis) model.FactorScore {
	var score float64
	var commentary string

	fresh := false
	if idx := a.Crossover.LastCrossoverIndex; idx != nil {
		fresh = len(a.Indicators)-1-*idx < recentCrossover
	}

	switch {
	case a.Crossover.GoldenCross && fresh:
		score, commentary = 1.5, "fresh golden cross"
	case a.Crossover.GoldenCross:
		score, commentary = 1.0, "golden cross"
	case a.Crossover.DeathCross && fresh:
		score, commentary = -1.5, "fresh death cross"
	case a.Crossover.DeathCross:
		score, commentary = -1.0, "death cross"
	default:
		score, commentary = alignment(a.Indicators)
	}

	return model.FactorScore{
		Name:       "SMA crossover",
		RawScore:   score,
		Weight:     0.25,
		Weighted:   score * 0.25,
		Commentary: commentary,
	}
}

// alignment reads the last point's short SMA against the long SMA.
func alignment(points []model.IndicatorPoint) (float64, string) {
	if len(points) == 0 {
		return 0, "no averages"
	}
	last := points[len(points)-1]
	if last.SMAShort == nil || last.SMALong == nil {
		return 0, "not enough history"
	}
	switch {
	case *last.SMAShort > *last.SMALong:
		return 0.5, "short above long"
	case *last.SMAShort < *last.SMALong:
		return -0.5, "short below long"
	default:
		return 0, "averages flat"
	}
}
