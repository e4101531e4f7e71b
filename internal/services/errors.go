package services

import "errors"

// Dashboard service errors
var (
	// Dataset errors
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrDatasetReload    = errors.New("dataset load failed")

	// Filter errors
	ErrTickerNotFound = errors.New("ticker not found")
	ErrInvalidDate    = errors.New("invalid date")

	// Analysis errors
	ErrUnknownAnalysisKind = errors.New("unknown analysis kind")

	// Export errors
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFileType = errors.New("invalid file type")

	// WebSocket errors
	ErrWebSocketUpgrade = errors.New("websocket upgrade failed")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
