// Package app provides application initialization and lifecycle management
// for the stock dashboard service. It wires configuration, logging,
// observability, the dataset store and the HTTP transport together at
// startup and handles graceful shutdown.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from environment and files
//	2. Initialize logging and OpenTelemetry
//	3. Create the dataset loader and store
//	4. Initialize services with their dependencies
//	5. Set up HTTP handlers and middleware
//	6. Configure the HTTP server
//
// The initial dataset load happens in Start and is fatal on failure: the
// dashboard cannot render without its source files.
//
// # Usage
//
//	app, err := app.NewApplication(frontendFS)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM to ensure active requests are
// completed, WebSocket connections are closed cleanly and telemetry is
// flushed before exit.
package app
