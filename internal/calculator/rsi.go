package calculator

import "fmt"

// RSIPeriod is the lookback used for the analysis RSI.
const RSIPeriod = 14

// CalculateRSI computes the Wilder-smoothed RSI of prices over the given period.
// Requires at least period+1 prices; returns 50 when there are fewer.
func CalculateRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: period must be a positive number", ErrInvalidInput)
	}
	if len(prices) < period+1 {
		return 50.0, nil
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
