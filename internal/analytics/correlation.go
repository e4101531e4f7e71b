package analytics

import (
	"math"
	"sort"
	"time"

	"stockdash/internal/dataset"
)

// Pearson calculates the Pearson correlation coefficient of two equal-length
// series. ok is false when the series are shorter than two points or either
// series has zero variance, where the coefficient is undefined.
func Pearson(x, y []float64) (r float64, ok bool) {
	n := len(x)
	if n != len(y) || n < 2 {
		return 0, false
	}

	meanX, meanY := Mean(x), Mean(y)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

// CorrelationMatrix computes the pairwise Pearson correlation of the
// sources' closing prices, aligned by date: only dates present in both
// series contribute to a pair's coefficient. Cells for pairs with fewer than
// two overlapping dates or a zero-variance series are nil. Diagonal cells
// are 1 for any non-empty series.
func CorrelationMatrix(sources []string, bySource map[string]dataset.Table) [][]*float64 {
	series := make([]map[time.Time]float64, len(sources))
	for i, src := range sources {
		table := bySource[src]
		byDate := make(map[time.Time]float64, table.Len())
		for _, row := range table.Rows {
			byDate[row.Date] = row.Close
		}
		series[i] = byDate
	}

	cells := make([][]*float64, len(sources))
	for i := range sources {
		cells[i] = make([]*float64, len(sources))
		for j := range sources {
			if i == j {
				if len(series[i]) > 0 {
					one := 1.0
					cells[i][j] = &one
				}
				continue
			}
			if j < i {
				cells[i][j] = cells[j][i]
				continue
			}
			if r, ok := alignedPearson(series[i], series[j]); ok {
				cells[i][j] = &r
			}
		}
	}
	return cells
}

// alignedPearson correlates two date-keyed close series over their common
// dates, in ascending date order.
func alignedPearson(a, b map[time.Time]float64) (float64, bool) {
	var dates []time.Time
	for d := range a {
		if _, ok := b[d]; ok {
			dates = append(dates, d)
		}
	}
	if len(dates) < 2 {
		return 0, false
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	x := make([]float64, len(dates))
	y := make([]float64, len(dates))
	for i, d := range dates {
		x[i] = a[d]
		y[i] = b[d]
	}
	return Pearson(x, y)
}
