package model

// Trend classifies the direction of a regression fit.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// RegressionResult is an ordinary least-squares fit.
type RegressionResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// PredictionResult is a forward projection of a regression fit.
type PredictionResult struct {
	Predictions []PricePoint `json:"predictions"`
	RegressionResult
	Trend Trend `json:"trend"`
}

// CoinAnalysis bundles everything computed for one coin's price history.
type CoinAnalysis struct {
	CoinID        string           `json:"coin_id"`
	LastPrice     float64          `json:"last_price"`
	Prediction    PredictionResult `json:"prediction"`
	Confidence    string           `json:"confidence"`
	Crossover     CrossoverSignal  `json:"crossover"`
	RSI           float64          `json:"rsi"`
	PeriodHigh    float64          `json:"period_high"`
	PeriodLow     float64          `json:"period_low"`
	RangePosition float64          `json:"range_position"` // 0.0 ~ 1.0
	Indicators    []IndicatorPoint `json:"indicators"`
	Outlook       *Outlook         `json:"outlook,omitempty"`
}

// FactorScore is one input to an Outlook.
type FactorScore struct {
	Name       string  `json:"name"`
	RawScore   float64 `json:"raw_score"` // -2 .. +2
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Commentary string  `json:"commentary"`
}

// Outlook is a weighted multi-factor reading of a CoinAnalysis.
type Outlook struct {
	Factors    []FactorScore `json:"factors"`
	TotalScore float64       `json:"total_score"`
	Label      string        `json:"label"`
	Warning    string        `json:"warning,omitempty"`
}
