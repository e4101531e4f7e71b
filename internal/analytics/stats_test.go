package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdash/internal/dataset"
	"stockdash/pkg/contracts/domain"
)

func day(value string) time.Time {
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return d
}

func sliceOf(source string, closes []float64, volume int64) dataset.Table {
	rows := make([]domain.Row, len(closes))
	for i, c := range closes {
		rows[i] = domain.Row{
			Date:   day("2020-01-01").AddDate(0, 0, i),
			Open:   c - 1,
			High:   c + 1,
			Low:    c - 2,
			Close:  c,
			Volume: volume,
			Source: source,
		}
	}
	return dataset.Table{Rows: rows}
}

func TestMean(t *testing.T) {
	assert.InDelta(t, 103.6, Mean([]float64{100, 102, 101, 105, 110}), 1e-12)
	assert.Zero(t, Mean(nil))
}

func TestSampleStdev(t *testing.T) {
	t.Run("n-1 denominator", func(t *testing.T) {
		sd, ok := SampleStdev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
		require.True(t, ok)
		// Population stdev of this series is 2; the sample statistic is larger
		assert.InDelta(t, 2.138, sd, 0.001)
	})

	t.Run("undefined below two values", func(t *testing.T) {
		_, ok := SampleStdev([]float64{5})
		assert.False(t, ok)
		_, ok = SampleStdev(nil)
		assert.False(t, ok)
	})

	t.Run("constant series has zero deviation", func(t *testing.T) {
		sd, ok := SampleStdev([]float64{3, 3, 3})
		require.True(t, ok)
		assert.Zero(t, sd)
	})
}

func TestSourceStats(t *testing.T) {
	t.Run("full slice", func(t *testing.T) {
		stats, ok := SourceStats("Kaggle_AAPL", sliceOf("Kaggle_AAPL", []float64{100, 102, 101, 105, 110}, 1000))
		require.True(t, ok)

		assert.Equal(t, "Kaggle_AAPL", stats.Source)
		assert.Equal(t, 5, stats.Rows)
		assert.InDelta(t, 103.6, stats.MeanClose, 1e-12)
		assert.Equal(t, 100.0, stats.MinClose)
		assert.Equal(t, 110.0, stats.MaxClose)
		assert.Equal(t, int64(5000), stats.TotalVolume)
		require.NotNil(t, stats.StdevClose)
		assert.InDelta(t, 3.975, *stats.StdevClose, 0.001)
	})

	t.Run("single row has no stdev", func(t *testing.T) {
		stats, ok := SourceStats("X", sliceOf("X", []float64{42}, 10))
		require.True(t, ok)
		assert.Nil(t, stats.StdevClose)
		assert.Equal(t, 42.0, stats.MinClose)
		assert.Equal(t, 42.0, stats.MaxClose)
	})

	t.Run("empty slice is omitted", func(t *testing.T) {
		_, ok := SourceStats("X", dataset.Table{})
		assert.False(t, ok)
	})
}

func TestMetricCard(t *testing.T) {
	t.Run("latest price and change across the slice", func(t *testing.T) {
		card, ok := MetricCard("Kaggle_AAPL", sliceOf("Kaggle_AAPL", []float64{102, 101, 105}, 1000))
		require.True(t, ok)

		assert.Equal(t, 105.0, card.LatestPrice)
		assert.Equal(t, "$105.00", card.LatestPriceText)
		assert.InDelta(t, (105.0-102.0)/102.0*100, card.ChangePct, 1e-12)
		assert.Equal(t, "2.94%", card.ChangePctText)
	})

	t.Run("empty slice is skipped, not zero-filled", func(t *testing.T) {
		_, ok := MetricCard("X", dataset.Table{})
		assert.False(t, ok)
	})
}
