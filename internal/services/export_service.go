package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"stockdash/internal/config"
	"stockdash/internal/exporter"
	api "stockdash/pkg/contracts/api/v1"
)

// ExportService generates statistics report files and serves them for
// download.
type ExportService struct {
	dashboard *DashboardService
	stats     *exporter.StatsExporter
	series    *exporter.SeriesExporter
	paths     *config.Paths
	logger    *slog.Logger
}

// NewExportService creates a new export service
func NewExportService(dashboard *DashboardService, paths *config.Paths, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{
		dashboard: dashboard,
		stats:     exporter.NewStatsExporter(paths),
		series:    exporter.NewSeriesExporter(paths),
		paths:     paths,
		logger:    logger.With(slog.String("service", "export")),
	}
}

// ExportStats generates the summary statistics report in the requested format
// and returns the path of the generated file.
func (s *ExportService) ExportStats(ctx context.Context, req api.ExportRequest) (string, error) {
	metrics, stats, _, err := s.dashboard.Stats(ctx, api.StatsRequest{
		DateRangeRequest: req.DateRangeRequest,
		Tickers:          req.Tickers,
	})
	if err != nil {
		return "", err
	}

	switch req.Format {
	case "csv":
		if err := s.stats.ExportSummaryStats(stats, s.paths.StatsCSV); err != nil {
			return "", fmt.Errorf("export stats csv: %w", err)
		}
		s.logger.InfoContext(ctx, "stats report generated",
			slog.String("format", "csv"),
			slog.Int("rows", len(stats)))
		return s.paths.StatsCSV, nil
	case "xlsx":
		if err := s.stats.ExportStatsWorkbook(stats, metrics, s.paths.StatsXLSX); err != nil {
			return "", fmt.Errorf("export stats workbook: %w", err)
		}
		s.logger.InfoContext(ctx, "stats report generated",
			slog.String("format", "xlsx"),
			slog.Int("rows", len(stats)))
		return s.paths.StatsXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFileType, req.Format)
	}
}

// GenerateReports writes the full report bundle: the statistics table in both
// formats, daily/cumulative returns, the correlation matrix, per-source
// history files and the combined table.
func (s *ExportService) GenerateReports(ctx context.Context, req api.StatsRequest) error {
	metrics, stats, _, err := s.dashboard.Stats(ctx, req)
	if err != nil {
		return err
	}

	if err := s.stats.ExportSummaryStats(stats, s.paths.StatsCSV); err != nil {
		return fmt.Errorf("export stats csv: %w", err)
	}
	if err := s.stats.ExportStatsWorkbook(stats, metrics, s.paths.StatsXLSX); err != nil {
		return fmt.Errorf("export stats workbook: %w", err)
	}

	returnsCharts, err := s.dashboard.Charts(ctx, api.ChartRequest{
		DateRangeRequest: req.DateRangeRequest,
		Kind:             "returns_comparison",
		Tickers:          req.Tickers,
	})
	if err != nil {
		return err
	}
	if returnsCharts.Returns != nil {
		if err := s.series.ExportReturns(*returnsCharts.Returns, s.paths.ReturnsCSV); err != nil {
			return fmt.Errorf("export returns: %w", err)
		}
	}

	matrixCharts, err := s.dashboard.Charts(ctx, api.ChartRequest{
		DateRangeRequest: req.DateRangeRequest,
		Kind:             "correlation_matrix",
		Tickers:          req.Tickers,
	})
	if err != nil {
		return err
	}
	if matrixCharts.Heatmap != nil {
		if err := s.series.ExportCorrelationMatrix(*matrixCharts.Heatmap, s.paths.MatrixCSV); err != nil {
			return fmt.Errorf("export correlation matrix: %w", err)
		}
	}

	snap, err := s.dashboard.snapshot()
	if err != nil {
		return err
	}
	if err := s.series.ExportSourceFiles(snap, s.paths.ReportsDir); err != nil {
		return fmt.Errorf("export source files: %w", err)
	}
	if err := s.series.ExportCombinedData(snap.Combined, s.paths.GetReportPath("combined.csv")); err != nil {
		return fmt.Errorf("export combined data: %w", err)
	}

	s.logger.InfoContext(ctx, "report bundle generated",
		slog.String("reports_dir", s.paths.ReportsDir),
		slog.Int("sources", len(snap.PerSource)))
	return nil
}

// ServeReport serves a generated report file for download. The filename may
// not escape the reports directory.
func (s *ExportService) ServeReport(ctx context.Context, w http.ResponseWriter, r *http.Request, filename string) error {
	cleaned := filepath.Clean(filepath.FromSlash(filename))

	filePath := filepath.Join(s.paths.ReportsDir, cleaned)
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidInput, filename)
	}
	absDir, err := filepath.Abs(s.paths.ReportsDir)
	if err != nil {
		return fmt.Errorf("resolve reports directory: %w", err)
	}

	// Ensure the resolved path is within the reports directory
	if !strings.HasPrefix(filepath.Clean(absFilePath), filepath.Clean(absDir)) {
		s.logger.WarnContext(ctx, "attempted directory traversal",
			slog.String("requested_path", filename),
			slog.String("resolved_path", absFilePath))
		return fmt.Errorf("%w: %q", ErrInvalidInput, filename)
	}

	if _, err := os.Stat(absFilePath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %q", ErrFileNotFound, filename)
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filepath.Base(cleaned)))
	w.Header().Set("Content-Type", contentTypeFor(cleaned))
	http.ServeFile(w, r, absFilePath)
	return nil
}

// contentTypeFor maps a report extension to its download content type
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
