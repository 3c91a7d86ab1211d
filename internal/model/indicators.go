package model

// IndicatorPoint is a PricePoint with its short and long moving averages.
// A nil average means there was not enough history at that point.
type IndicatorPoint struct {
	PricePoint
	SMAShort *float64 `json:"sma_short,omitempty"`
	SMALong  *float64 `json:"sma_long,omitempty"`
}

// CrossoverSignal reports the most recent moving-average crossover.
type CrossoverSignal struct {
	GoldenCross        bool `json:"golden_cross"`
	DeathCross         bool `json:"death_cross"`
	LastCrossoverIndex *int `json:"last_crossover_index,omitempty"`
}
