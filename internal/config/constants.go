package config

import "time"

// Application constants - all hardcoded values for the stock dashboard
const (
	// Application Info
	AppName = "stockdash"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultReportsDir = "reports"

	// Dataset Settings
	DefaultWatchInterval = 30 * time.Second
	DefaultLoadTimeout   = 2 * time.Minute

	// WebSocket Buffer Sizes
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Error Messages
	ErrDataUnavailable = "Required data files are missing or unreadable. The dashboard cannot render until all configured sources load."

	// API Endpoints (internal)
	APIBasePath       = "/api"
	DashboardEndpoint = "/api/dashboard"
	ChartsEndpoint    = "/api/charts"
	StatsEndpoint     = "/api/stats"
	ExportEndpoint    = "/api/export"
	DatasetEndpoint   = "/api/dataset"
	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"

	// WebSocket Endpoints
	WebSocketEndpoint = "/ws"
)
