package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdash/internal/dataset"
)

func TestPearson(t *testing.T) {
	t.Run("perfect positive correlation", func(t *testing.T) {
		r, ok := Pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
		require.True(t, ok)
		assert.InDelta(t, 1.0, r, 1e-12)
	})

	t.Run("perfect negative correlation", func(t *testing.T) {
		r, ok := Pearson([]float64{1, 2, 3}, []float64{3, 2, 1})
		require.True(t, ok)
		assert.InDelta(t, -1.0, r, 1e-12)
	})

	t.Run("zero variance is undefined", func(t *testing.T) {
		_, ok := Pearson([]float64{1, 1, 1}, []float64{1, 2, 3})
		assert.False(t, ok)
	})

	t.Run("mismatched or short input is undefined", func(t *testing.T) {
		_, ok := Pearson([]float64{1, 2}, []float64{1})
		assert.False(t, ok)
		_, ok = Pearson([]float64{1}, []float64{1})
		assert.False(t, ok)
	})

	t.Run("coefficient is symmetric", func(t *testing.T) {
		x := []float64{100, 102, 101, 105, 110}
		y := []float64{200, 198, 202, 205, 210}
		rxy, ok := Pearson(x, y)
		require.True(t, ok)
		ryx, ok := Pearson(y, x)
		require.True(t, ok)
		assert.InDelta(t, rxy, ryx, 1e-12)
	})
}

func TestCorrelationMatrix(t *testing.T) {
	t.Run("two sources over the same dates", func(t *testing.T) {
		sources := []string{"Kaggle_AAPL", "Kaggle_NFLX"}
		bySource := map[string]dataset.Table{
			"Kaggle_AAPL": sliceOf("Kaggle_AAPL", []float64{102, 101, 105}, 1000),
			"Kaggle_NFLX": sliceOf("Kaggle_NFLX", []float64{198, 202, 205}, 2000),
		}

		cells := CorrelationMatrix(sources, bySource)
		require.Len(t, cells, 2)
		require.Len(t, cells[0], 2)

		require.NotNil(t, cells[0][0])
		require.NotNil(t, cells[1][1])
		assert.Equal(t, 1.0, *cells[0][0], "diagonal is 1")
		assert.Equal(t, 1.0, *cells[1][1], "diagonal is 1")

		require.NotNil(t, cells[0][1])
		require.NotNil(t, cells[1][0])
		assert.InDelta(t, *cells[0][1], *cells[1][0], 1e-12, "matrix is symmetric")
		assert.GreaterOrEqual(t, *cells[0][1], -1.0)
		assert.LessOrEqual(t, *cells[0][1], 1.0)
	})

	t.Run("no overlapping dates yields undefined cell", func(t *testing.T) {
		early := sliceOf("EARLY", []float64{1, 2, 3}, 10)
		late := dataset.Table{}
		for _, row := range sliceOf("LATE", []float64{4, 5, 6}, 10).Rows {
			row.Date = row.Date.AddDate(1, 0, 0)
			late.Rows = append(late.Rows, row)
		}

		cells := CorrelationMatrix([]string{"EARLY", "LATE"}, map[string]dataset.Table{
			"EARLY": early,
			"LATE":  late,
		})

		assert.Nil(t, cells[0][1])
		assert.Nil(t, cells[1][0])
		require.NotNil(t, cells[0][0])
		assert.Equal(t, 1.0, *cells[0][0])
	})

	t.Run("constant series yields undefined off-diagonal but defined diagonal", func(t *testing.T) {
		cells := CorrelationMatrix([]string{"FLAT", "MOVES"}, map[string]dataset.Table{
			"FLAT":  sliceOf("FLAT", []float64{5, 5, 5}, 10),
			"MOVES": sliceOf("MOVES", []float64{1, 2, 3}, 10),
		})

		assert.Nil(t, cells[0][1])
		require.NotNil(t, cells[0][0])
		assert.Equal(t, 1.0, *cells[0][0])
	})

	t.Run("empty source has nil diagonal", func(t *testing.T) {
		cells := CorrelationMatrix([]string{"EMPTY"}, map[string]dataset.Table{})
		assert.Nil(t, cells[0][0])
	})

	t.Run("alignment uses only common dates", func(t *testing.T) {
		// B misses A's middle date; the pair correlates over the two
		// common dates only, which is still >= 2 points
		a := sliceOf("A", []float64{1, 2, 3}, 10)
		bRows := sliceOf("B", []float64{10, 30}, 10)
		bRows.Rows[1].Date = a.Rows[2].Date

		cells := CorrelationMatrix([]string{"A", "B"}, map[string]dataset.Table{
			"A": a,
			"B": bRows,
		})
		require.NotNil(t, cells[0][1])
		assert.InDelta(t, 1.0, *cells[0][1], 1e-12)
	})
}
