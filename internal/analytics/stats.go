package analytics

import (
	"math"

	"stockdash/internal/dataset"
	"stockdash/pkg/contracts/domain"
)

// Mean calculates the arithmetic mean of values. It returns 0 for an empty
// slice; callers guard emptiness before presenting the result.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdev calculates the sample standard deviation (n-1 denominator).
// ok is false for fewer than two values, where the statistic is undefined.
func SampleStdev(values []float64) (stdev float64, ok bool) {
	n := len(values)
	if n < 2 {
		return 0, false
	}

	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1)), true
}

// SourceStats computes the descriptive statistics of one source's filtered
// slice: mean, sample standard deviation, min and max of the closing price,
// and summed volume. ok is false for an empty slice; the caller omits the
// row instead of zero-filling it.
func SourceStats(source string, slice dataset.Table) (domain.SourceStats, bool) {
	if slice.Len() == 0 {
		return domain.SourceStats{}, false
	}

	closes := slice.Closes()
	minClose, maxClose := closes[0], closes[0]
	var totalVolume int64
	for i, row := range slice.Rows {
		if closes[i] < minClose {
			minClose = closes[i]
		}
		if closes[i] > maxClose {
			maxClose = closes[i]
		}
		totalVolume += row.Volume
	}

	stats := domain.SourceStats{
		Source:      source,
		Rows:        slice.Len(),
		MeanClose:   Mean(closes),
		MinClose:    minClose,
		MaxClose:    maxClose,
		TotalVolume: totalVolume,
	}
	if sd, ok := SampleStdev(closes); ok {
		stats.StdevClose = &sd
	}
	return stats, true
}

// MetricCard builds the per-source headline metric pair from a filtered
// slice: the latest close and the percentage change across the slice. ok is
// false for an empty slice, where the card is skipped entirely.
func MetricCard(source string, slice dataset.Table) (domain.MetricCard, bool) {
	if slice.Len() == 0 {
		return domain.MetricCard{}, false
	}

	closes := slice.Closes()
	latest := closes[len(closes)-1]
	card := domain.MetricCard{
		Source:          source,
		LatestPrice:     latest,
		LatestPriceText: domain.PriceText(latest),
	}
	if pct, ok := ChangePercent(closes); ok {
		card.ChangePct = pct
		card.ChangePctText = domain.PercentText(pct)
	}
	return card, true
}
