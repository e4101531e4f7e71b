package charts

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

func testView() View {
	var combined dataset.Table
	for i, c := range []float64{102, 101, 105} {
		combined.Rows = append(combined.Rows, domain.Row{
			Date: day("2020-01-02").AddDate(0, 0, i), Open: c - 1, High: c + 1,
			Low: c - 2, Close: c, Volume: 1000, Source: "Kaggle_AAPL",
		})
	}
	for i, c := range []float64{198, 202, 205} {
		combined.Rows = append(combined.Rows, domain.Row{
			Date: day("2020-01-02").AddDate(0, 0, i), Open: c - 1, High: c + 1,
			Low: c - 2, Close: c, Volume: 2000, Source: "Kaggle_NFLX",
		})
	}
	return NewView([]string{"Kaggle_AAPL", "Kaggle_NFLX"}, combined)
}

func TestBuildDispatch(t *testing.T) {
	view := testView()

	t.Run("every defined kind has a builder", func(t *testing.T) {
		for _, kind := range domain.AnalysisKinds() {
			_, err := Build(kind, view)
			require.NoError(t, err, "kind %s", kind)
		}
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := Build(domain.AnalysisKind("pie_chart"), view)
		assert.ErrorIs(t, err, ErrUnknownKind)
	})
}

func TestBuildPriceTrends(t *testing.T) {
	payload, err := Build(domain.AnalysisPriceTrends, testView())
	require.NoError(t, err)

	require.NotNil(t, payload.Line)
	require.Len(t, payload.Line.Series, 2)
	assert.Equal(t, "Kaggle_AAPL", payload.Line.Series[0].Source)
	assert.Equal(t, []float64{102, 101, 105}, payload.Line.Series[0].Values)
	assert.Equal(t, []string{"2020-01-02", "2020-01-03", "2020-01-04"}, payload.Line.Series[0].Dates)

	require.Len(t, payload.Candles, 2)
	require.Len(t, payload.Candles[0].Points, 3)
	assert.Equal(t, 102.0, payload.Candles[0].Points[0].Close)
	assert.Equal(t, int64(1000), payload.Candles[0].Points[0].Volume)

	assert.Nil(t, payload.Volume)
	assert.Nil(t, payload.Returns)
	assert.Nil(t, payload.Heatmap)
}

func TestBuildVolumeAnalysis(t *testing.T) {
	payload, err := Build(domain.AnalysisVolume, testView())
	require.NoError(t, err)

	require.NotNil(t, payload.Volume)
	require.Len(t, payload.Volume.Series, 2)
	assert.Equal(t, []int64{2000, 2000, 2000}, payload.Volume.Series[1].Values)
	require.Len(t, payload.Candles, 2)
	assert.Nil(t, payload.Line)
}

func TestBuildReturnsComparison(t *testing.T) {
	payload, err := Build(domain.AnalysisReturns, testView())
	require.NoError(t, err)

	require.NotNil(t, payload.Returns)
	require.Len(t, payload.Returns.Series, 2)

	aapl := payload.Returns.Series[0]
	require.Len(t, aapl.Daily, 2, "first day has no return")
	assert.Equal(t, []string{"2020-01-03", "2020-01-04"}, aapl.Dates)
	assert.InDelta(t, 101.0/102.0-1, aapl.Daily[0], 1e-12)
	assert.InDelta(t, 105.0/102.0-1, aapl.Cumulative[1], 1e-12)
}

func TestBuildCorrelationMatrix(t *testing.T) {
	payload, err := Build(domain.AnalysisCorrelation, testView())
	require.NoError(t, err)

	require.NotNil(t, payload.Heatmap)
	assert.Equal(t, []string{"Kaggle_AAPL", "Kaggle_NFLX"}, payload.Heatmap.Sources)
	require.Len(t, payload.Heatmap.Cells, 2)
	require.NotNil(t, payload.Heatmap.Cells[0][0])
	assert.Equal(t, 1.0, *payload.Heatmap.Cells[0][0])
	require.NotNil(t, payload.Heatmap.Cells[1][1])
	assert.Equal(t, 1.0, *payload.Heatmap.Cells[1][1])
	assert.False(t, payload.Heatmap.GeneratedAt.IsZero())
}

func TestBuildersSkipEmptySources(t *testing.T) {
	// Selection includes a source with no rows in range
	view := testView()
	view.Sources = append(view.Sources, "Kaggle_EMPTY")

	for _, kind := range []domain.AnalysisKind{domain.AnalysisPriceTrends, domain.AnalysisVolume, domain.AnalysisReturns} {
		payload, err := Build(kind, view)
		require.NoError(t, err)
		switch kind {
		case domain.AnalysisPriceTrends:
			assert.Len(t, payload.Line.Series, 2, "empty source contributes no series")
		case domain.AnalysisVolume:
			assert.Len(t, payload.Volume.Series, 2)
		case domain.AnalysisReturns:
			assert.Len(t, payload.Returns.Series, 2)
		}
	}

	// The heatmap keeps the source but leaves its cells undefined
	payload, err := Build(domain.AnalysisCorrelation, view)
	require.NoError(t, err)
	require.Len(t, payload.Heatmap.Cells, 3)
	assert.Nil(t, payload.Heatmap.Cells[2][2])
}
