package strategy

import "CryptoFollow/internal/model"

// Tiers maps a total score to an outlook label, highest first.
var Tiers = []struct {
	MinScore float64
	Label    string
}{
	{1.0, "Strong buy"},
	{0.4, "Accumulate"},
	{-0.4, "Hold"},
	{-1.0, "Reduce"},
}

// DefaultLabel is used for scores below every tier.
const DefaultLabel = "Avoid"

func mapTier(totalScore float64) string {
	for _, t := range Tiers {
		if totalScore >= t.MinScore {
			return t.Label
		}
	}
	return DefaultLabel
}

// Evaluate computes the weighted outlook for an analysed coin.
func Evaluate(a *model.CoinAnalysis) *model.Outlook {
	f1 := scoreForecast(a)
	f2 := scoreRSI(a)
	f4 := scoreCrossover(a)

	otherFactorsAvg := (f1.RawScore + f2.RawScore + f4.RawScore) / 3.0
	f3 := scoreRangePosition(a, otherFactorsAvg)

	total := f1.Weighted + f2.Weighted + f3.Weighted + f4.Weighted
	out := &model.Outlook{
		Factors:    []model.FactorScore{f1, f2, f3, f4},
		TotalScore: total,
		Label:      mapTier(total),
	}

	switch {
	case a.RSI > 85:
		out.Warning = "RSI above 85: overbought, consider taking profit"
	case a.RSI < 15:
		out.Warning = "RSI below 15: deeply oversold"
	}
	return out
}
