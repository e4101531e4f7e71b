// Package api contains API contract definitions for the stock dashboard.
// Version v1 represents the current stable API version.
package api

// Common request parameters

// DateRangeRequest represents a date range in requests. Dates use the
// 2006-01-02 layout; empty values fall back to the dataset bounds.
type DateRangeRequest struct {
	Start string `json:"start" query:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end" query:"end" validate:"omitempty,datetime=2006-01-02"`
}

// Dashboard API Requests

// DashboardRequest represents a full dashboard render request.
type DashboardRequest struct {
	DateRangeRequest
	Tickers  []string `json:"tickers" query:"tickers" validate:"omitempty,dive,ticker"`
	Analysis string   `json:"analysis" query:"analysis" validate:"omitempty,oneof=price_trends volume_analysis returns_comparison correlation_matrix"`
}

// ChartRequest represents a single-chart request for one analysis kind.
type ChartRequest struct {
	DateRangeRequest
	Kind    string   `json:"kind" param:"kind" validate:"required,oneof=price_trends volume_analysis returns_comparison correlation_matrix"`
	Tickers []string `json:"tickers" query:"tickers" validate:"omitempty,dive,ticker"`
}

// StatsRequest represents a statistics-table request.
type StatsRequest struct {
	DateRangeRequest
	Tickers []string `json:"tickers" query:"tickers" validate:"omitempty,dive,ticker"`
}

// Export API Requests

// ExportRequest represents a statistics report download request.
type ExportRequest struct {
	DateRangeRequest
	Tickers []string `json:"tickers" query:"tickers" validate:"omitempty,dive,ticker"`
	Format  string   `json:"format" param:"format" validate:"required,oneof=csv xlsx"`
}

// Health API Requests

// HealthCheckRequest represents a health check request.
type HealthCheckRequest struct {
	Verbose bool `json:"verbose" query:"verbose"`
}
