package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"stockdash/internal/config"
	"stockdash/pkg/contracts/domain"
)

// StatsExporter writes the summary statistics table to report files
type StatsExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
}

// NewStatsExporter creates a new statistics exporter
func NewStatsExporter(paths *config.Paths) *StatsExporter {
	return &StatsExporter{
		csvWriter: NewCSVWriter(paths),
		paths:     paths,
	}
}

// ExportSummaryStats exports the per-source statistics table as CSV
func (e *StatsExporter) ExportSummaryStats(stats []domain.SourceStats, outputPath string) error {
	// Sort by source label for stable output
	sorted := make([]domain.SourceStats, len(stats))
	copy(sorted, stats)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Source < sorted[j].Source
	})

	var csvRecords [][]string
	for _, s := range sorted {
		csvRecords = append(csvRecords, e.statsToCSVRow(s))
	}

	return e.csvWriter.WriteSimpleCSV(outputPath, e.statsHeaders(), csvRecords)
}

// ExportStatsWorkbook exports statistics and metric cards as an XLSX workbook
// with one sheet per table.
func (e *StatsExporter) ExportStatsWorkbook(stats []domain.SourceStats, cards []domain.MetricCard, outputPath string) error {
	if !filepath.IsAbs(outputPath) {
		outputPath = e.paths.GetReportPath(outputPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const statsSheet = "Summary Stats"
	f.SetSheetName("Sheet1", statsSheet)

	if err := f.SetSheetRow(statsSheet, "A1", &[]interface{}{
		"Source", "Rows", "MeanClose", "StdevClose", "MinClose", "MaxClose", "TotalVolume",
	}); err != nil {
		return fmt.Errorf("failed to write stats header: %w", err)
	}

	sorted := make([]domain.SourceStats, len(stats))
	copy(sorted, stats)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Source < sorted[j].Source
	})

	for i, s := range sorted {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{s.Source, s.Rows, s.MeanClose, nil, s.MinClose, s.MaxClose, s.TotalVolume}
		if s.StdevClose != nil {
			row[3] = *s.StdevClose
		}
		if err := f.SetSheetRow(statsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write stats row %d: %w", i, err)
		}
	}

	const metricsSheet = "Metrics"
	if _, err := f.NewSheet(metricsSheet); err != nil {
		return fmt.Errorf("failed to create metrics sheet: %w", err)
	}

	if err := f.SetSheetRow(metricsSheet, "A1", &[]interface{}{
		"Source", "LatestPrice", "ChangePercent",
	}); err != nil {
		return fmt.Errorf("failed to write metrics header: %w", err)
	}

	for i, c := range cards {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{c.Source, c.LatestPrice, c.ChangePct}
		if err := f.SetSheetRow(metricsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write metrics row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// statsHeaders returns the CSV headers for the statistics table
func (e *StatsExporter) statsHeaders() []string {
	return []string{
		"Source", "Rows", "MeanClose", "StdevClose", "MinClose", "MaxClose", "TotalVolume",
	}
}

// statsToCSVRow converts one source's statistics to a CSV row
func (e *StatsExporter) statsToCSVRow(s domain.SourceStats) []string {
	return []string{
		s.Source,
		fmt.Sprintf("%d", s.Rows),
		formatFloat(s.MeanClose),
		formatNullableFloat(s.StdevClose, 4),
		formatFloat(s.MinClose),
		formatFloat(s.MaxClose),
		formatInt(s.TotalVolume),
	}
}
