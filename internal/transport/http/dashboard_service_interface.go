package http

import (
	"context"
	"net/http"

	api "stockdash/pkg/contracts/api/v1"
	"stockdash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handler
// depends on. Implemented by services.DashboardService.
type DashboardServiceInterface interface {
	// Dashboard assembles the full dashboard state for the requested
	// tickers, date range and analysis kind.
	Dashboard(ctx context.Context, req api.DashboardRequest) (*domain.DashboardState, error)

	// Charts builds the chart set for a single analysis kind.
	Charts(ctx context.Context, req api.ChartRequest) (*domain.AnalysisCharts, error)

	// Stats computes per-source summary statistics over the filtered rows.
	Stats(ctx context.Context, req api.StatsRequest) ([]domain.MetricCard, []domain.SourceStats, domain.FilterEcho, error)

	// Meta describes the loaded dataset: sources, row counts and date bounds.
	Meta(ctx context.Context) (*domain.DatasetMeta, error)
}

// ExportServiceInterface defines the report export operations the handler
// depends on. Implemented by services.ExportService.
type ExportServiceInterface interface {
	// ExportStats writes the summary statistics report in the requested
	// format and returns the generated filename.
	ExportStats(ctx context.Context, req api.ExportRequest) (string, error)

	// ServeReport streams a previously generated report file for download.
	ServeReport(ctx context.Context, w http.ResponseWriter, r *http.Request, filename string) error
}
