package analytics

// DailyReturns calculates the day-over-day fractional returns of a close
// series: r[i] = close[i+1]/close[i] - 1. The result has one fewer element
// than the input since the first day has no prior close. A zero prior close
// yields a zero return rather than an infinity.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, closes[i]/prev-1)
	}
	return returns
}

// CumulativeReturns compounds daily returns into the running cumulative
// return: c[i] = product(1 + r[0..i]) - 1. For a well-formed price series
// the final element equals close[n-1]/close[0] - 1.
func CumulativeReturns(daily []float64) []float64 {
	if len(daily) == 0 {
		return nil
	}

	cumulative := make([]float64, len(daily))
	acc := 1.0
	for i, r := range daily {
		acc *= 1 + r
		cumulative[i] = acc - 1
	}
	return cumulative
}

// ChangePercent calculates the percentage change across a close series:
// (last - first) / first * 100. ok is false when the series is empty or the
// first close is zero; callers skip the metric rather than zero-filling it.
func ChangePercent(closes []float64) (pct float64, ok bool) {
	if len(closes) == 0 {
		return 0, false
	}
	first := closes[0]
	if first == 0 {
		return 0, false
	}
	last := closes[len(closes)-1]
	return (last - first) / first * 100, true
}
