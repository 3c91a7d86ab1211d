package calculator

import (
	"fmt"

	"github.com/markcheno/go-talib"
)

// PriceRange returns the high and low of the most recent window prices.
// A window of zero or larger than the series covers the whole series.
func PriceRange(prices []float64, window int) (high, low float64, err error) {
	if len(prices) == 0 {
		return 0, 0, fmt.Errorf("%w: no prices provided", ErrInsufficientData)
	}
	if window <= 0 || window > len(prices) {
		window = len(prices)
	}
	last := len(prices) - 1
	if window < 2 {
		return prices[last], prices[last], nil
	}
	return talib.Max(prices, window)[last], talib.Min(prices, window)[last], nil
}

// RangePosition returns where current sits between low and high, clamped to 0..1.
// A flat range yields 0.5.
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, fmt.Errorf("%w: high must be >= low", ErrInvalidInput)
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
