package exporter

import (
	"fmt"
	"path/filepath"
	"sort"

	"stockdash/internal/config"
	"stockdash/internal/dataset"
	"stockdash/pkg/contracts/domain"
)

// SeriesExporter writes time-series reports: daily and cumulative returns,
// the correlation matrix and per-source price history files.
type SeriesExporter struct {
	csvWriter *CSVWriter
}

// NewSeriesExporter creates a new series exporter
func NewSeriesExporter(paths *config.Paths) *SeriesExporter {
	return &SeriesExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportReturns exports daily and cumulative returns in long format, one row
// per source and date.
func (e *SeriesExporter) ExportReturns(chart domain.ReturnsChart, outputPath string) error {
	series := make([]domain.ReturnsSeries, len(chart.Series))
	copy(series, chart.Series)
	sort.Slice(series, func(i, j int) bool {
		return series[i].Source < series[j].Source
	})

	var csvRecords [][]string
	for _, s := range series {
		for i, date := range s.Dates {
			if i >= len(s.Daily) || i >= len(s.Cumulative) {
				break
			}
			csvRecords = append(csvRecords, []string{
				s.Source,
				date,
				formatReturn(s.Daily[i]),
				formatReturn(s.Cumulative[i]),
			})
		}
	}

	headers := []string{"Source", "Date", "DailyReturn", "CumulativeReturn"}
	return e.csvWriter.WriteSimpleCSV(outputPath, headers, csvRecords)
}

// ExportCorrelationMatrix exports the pairwise correlation matrix. Undefined
// coefficients are written as empty cells.
func (e *SeriesExporter) ExportCorrelationMatrix(heatmap domain.HeatmapChart, outputPath string) error {
	headers := append([]string{""}, heatmap.Sources...)

	var csvRecords [][]string
	for i, source := range heatmap.Sources {
		row := []string{source}
		for j := range heatmap.Sources {
			var cell *float64
			if i < len(heatmap.Cells) && j < len(heatmap.Cells[i]) {
				cell = heatmap.Cells[i][j]
			}
			row = append(row, formatNullableFloat(cell, 6))
		}
		csvRecords = append(csvRecords, row)
	}

	return e.csvWriter.WriteSimpleCSV(outputPath, headers, csvRecords)
}

// ExportSourceFiles generates an individual price history CSV for each source
func (e *SeriesExporter) ExportSourceFiles(snap *dataset.Snapshot, outputDir string) error {
	for _, st := range snap.PerSource {
		filename := fmt.Sprintf("%s_history.csv", st.Label)
		filePath := filepath.Join(outputDir, filename)

		var csvRecords [][]string
		for _, row := range st.Table.Rows {
			csvRecords = append(csvRecords, e.rowToCSVRow(row))
		}

		if err := e.csvWriter.WriteSimpleCSV(filePath, e.rowHeaders(), csvRecords); err != nil {
			return fmt.Errorf("failed to write history for %s: %w", st.Label, err)
		}
	}
	return nil
}

// ExportCombinedData exports the full combined table to a single CSV file
// using the streaming writer.
func (e *SeriesExporter) ExportCombinedData(table dataset.Table, outputPath string) error {
	stream, err := e.csvWriter.CreateStreamWriter(outputPath, e.combinedHeaders())
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for _, row := range table.Rows {
		record := append([]string{row.Source}, e.rowToCSVRow(row)...)
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}

// rowHeaders returns the CSV headers for price rows
func (e *SeriesExporter) rowHeaders() []string {
	return []string{"Date", "Open", "High", "Low", "Close", "Volume"}
}

// combinedHeaders returns the CSV headers for the combined table
func (e *SeriesExporter) combinedHeaders() []string {
	return append([]string{"Source"}, e.rowHeaders()...)
}

// rowToCSVRow converts a price row to a CSV row
func (e *SeriesExporter) rowToCSVRow(row domain.Row) []string {
	return []string{
		row.DateText(),
		formatFloat(row.Open),
		formatFloat(row.High),
		formatFloat(row.Low),
		formatFloat(row.Close),
		formatInt(row.Volume),
	}
}
