package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyReturns(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   []float64
	}{
		{
			name:   "two points",
			closes: []float64{100, 102},
			want:   []float64{0.02},
		},
		{
			name:   "rise and fall",
			closes: []float64{100, 102, 101},
			want:   []float64{0.02, 101.0/102.0 - 1},
		},
		{
			name:   "single point has no return",
			closes: []float64{100},
			want:   nil,
		},
		{
			name:   "empty",
			closes: nil,
			want:   nil,
		},
		{
			name:   "zero prior close yields zero return",
			closes: []float64{0, 50},
			want:   []float64{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyReturns(tt.closes)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-12)
			}
		})
	}
}

func TestCumulativeReturns(t *testing.T) {
	daily := DailyReturns([]float64{100, 102, 101, 105, 110})
	cumulative := CumulativeReturns(daily)

	require.Len(t, cumulative, 4)

	// The compounded final return must equal close[n-1]/close[0] - 1
	assert.InDelta(t, 110.0/100.0-1, cumulative[len(cumulative)-1], 1e-12)

	assert.Nil(t, CumulativeReturns(nil))
}

func TestCumulativeReturnsCompoundingProperty(t *testing.T) {
	series := [][]float64{
		{100, 102, 101, 105, 110},
		{200, 198, 202, 205, 210},
		{50, 50, 50},
		{10, 20, 5, 40},
	}

	for _, closes := range series {
		daily := DailyReturns(closes)
		cumulative := CumulativeReturns(daily)
		require.NotEmpty(t, cumulative)
		assert.InDelta(t, closes[len(closes)-1]/closes[0]-1,
			cumulative[len(cumulative)-1], 1e-9)
	}
}

func TestChangePercent(t *testing.T) {
	t.Run("scenario from the sample dataset", func(t *testing.T) {
		// AAPL closes over 2020-01-02..04
		pct, ok := ChangePercent([]float64{102, 101, 105})
		require.True(t, ok)
		assert.InDelta(t, (105.0-102.0)/102.0*100, pct, 1e-12)

		pct, ok = ChangePercent([]float64{102, 101})
		require.True(t, ok)
		assert.InDelta(t, -0.98, pct, 0.005)
	})

	t.Run("empty series is skipped", func(t *testing.T) {
		_, ok := ChangePercent(nil)
		assert.False(t, ok)
	})

	t.Run("zero first close is skipped", func(t *testing.T) {
		_, ok := ChangePercent([]float64{0, 10})
		assert.False(t, ok)
	})

	t.Run("single point has zero change", func(t *testing.T) {
		pct, ok := ChangePercent([]float64{42})
		require.True(t, ok)
		assert.Zero(t, pct)
	})
}
