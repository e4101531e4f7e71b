package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stockdash/pkg/contracts/domain"
)

func sampleStats() []domain.SourceStats {
	stdev := 2.1381
	return []domain.SourceStats{
		{
			Source:      "Kaggle_NFLX",
			Rows:        5,
			MeanClose:   203.0,
			StdevClose:  &stdev,
			MinClose:    198.0,
			MaxClose:    210.0,
			TotalVolume: 5000,
		},
		{
			Source:      "Kaggle_AAPL",
			Rows:        1,
			MeanClose:   100.0,
			StdevClose:  nil,
			MinClose:    100.0,
			MaxClose:    100.0,
			TotalVolume: 1000,
		},
	}
}

func TestExportSummaryStats(t *testing.T) {
	paths := testPaths(t)
	e := NewStatsExporter(paths)

	require.NoError(t, e.ExportSummaryStats(sampleStats(), "summary_stats.csv"))

	records := readCSVFile(t, paths.GetReportPath("summary_stats.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Source", "Rows", "MeanClose", "StdevClose", "MinClose", "MaxClose", "TotalVolume"}, records[0])

	// Sorted by source label
	assert.Equal(t, "Kaggle_AAPL", records[1][0])
	assert.Equal(t, "Kaggle_NFLX", records[2][0])

	// Single-row source has an empty stdev cell
	assert.Equal(t, "", records[1][3])
	assert.Equal(t, "2.1381", records[2][3])
}

func TestExportStatsWorkbook(t *testing.T) {
	paths := testPaths(t)
	e := NewStatsExporter(paths)

	cards := []domain.MetricCard{
		{Source: "Kaggle_AAPL", LatestPrice: 110.0, ChangePct: 10.0},
	}

	require.NoError(t, e.ExportStatsWorkbook(sampleStats(), cards, "summary_stats.xlsx"))

	f, err := excelize.OpenFile(paths.GetReportPath("summary_stats.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Summary Stats")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Kaggle_AAPL", rows[1][0])

	metrics, err := f.GetRows("Metrics")
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	assert.Equal(t, "Kaggle_AAPL", metrics[1][0])
	assert.Equal(t, "110", metrics[1][1])
}
