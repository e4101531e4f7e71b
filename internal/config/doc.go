// Package config provides centralized configuration management for the stock
// dashboard. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration values
// throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern STOCKDASH_* for namespacing:
//
//	STOCKDASH_SERVER_PORT=8080
//	STOCKDASH_LOGGING_LEVEL=info
//	STOCKDASH_PATHS_DATA_DIR=data
//	STOCKDASH_DATASET_WATCH_INTERVAL=30s
//
// The tracked source list cannot be expressed through the environment; it
// comes from the YAML file's dataset.sources section, or falls back to the
// bundled sample tickers:
//
//	dataset:
//	  sources:
//	    - file: AAPL.csv
//	      label: Kaggle_AAPL
//	    - file: NFLX.csv
//	      label: Kaggle_NFLX
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	dataPath := paths.GetDataFilePath("AAPL.csv")
//	reportPath := paths.GetReportPath("summary_stats.csv")
//
// # Validation
//
// All configuration is validated at load time to ensure:
//
//	- The server port and timeouts are within acceptable ranges
//	- At least one dataset source is configured
//	- Source labels are non-empty and unique
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
