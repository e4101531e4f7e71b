// Package exporter writes dashboard reports to CSV and XLSX files.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// StatsExporter: Writes the per-source summary statistics table as CSV and as
// an XLSX workbook with a metrics sheet.
//
// SeriesExporter: Writes daily/cumulative returns, the correlation matrix and
// per-source price history files.
//
// Example usage:
//
//	statsExporter := exporter.NewStatsExporter(paths)
//	err := statsExporter.ExportSummaryStats(stats, paths.StatsCSV)
//
//	seriesExporter := exporter.NewSeriesExporter(paths)
//	err = seriesExporter.ExportReturns(returnsChart, paths.ReturnsCSV)
package exporter
