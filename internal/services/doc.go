// Package services implements the business logic layer of the dashboard.
// It provides a clean separation between HTTP handlers and data access, ensuring
// that business rules are centralized and testable.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
// The package provides these core services:
//
//	- DashboardService: Resolves filters and computes dashboard renders
//	- ExportService: Generates statistics report files
//	- HealthService: Provides system health checks
//
// # Error Handling
//
// Services return domain-specific sentinel errors that handlers transform into
// RFC 7807 problem responses:
//
//	- ErrDatasetNotLoaded when no snapshot is available yet
//	- ErrTickerNotFound for unknown source labels
//	- ErrUnknownAnalysisKind for unrecognized analysis selectors
//	- ErrInvalidDate for unparseable date parameters
package services
