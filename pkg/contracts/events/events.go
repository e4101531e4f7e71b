// Package events contains the event contract definitions for WebSocket
// communication in the stock dashboard.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message.
type MessageType string

const (
	// Dataset lifecycle messages
	MessageTypeDatasetReloaded MessageType = "dataset:reloaded"
	MessageTypeDatasetStale    MessageType = "dataset:stale"

	// System messages
	MessageTypeSystemStatus MessageType = "system:status"

	// Connection messages
	MessageTypeConnect    MessageType = "connect"
	MessageTypeDisconnect MessageType = "disconnect"
	MessageTypeError      MessageType = "error"
)

// BaseMessage is the shared header of all WebSocket messages.
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// Message is a complete WebSocket message with its payload.
type Message struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// DatasetReloaded announces that the dataset store swapped in a new snapshot.
// Clients re-fetch meta and re-render with their current filter.
type DatasetReloaded struct {
	TotalRows int       `json:"total_rows"`
	Sources   []string  `json:"sources"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// DatasetStale announces that one or more source files changed on disk after
// the current snapshot was loaded. The server does not reload on its own;
// the event is advisory.
type DatasetStale struct {
	ChangedFiles []string  `json:"changed_files"`
	DetectedAt   time.Time `json:"detected_at"`
}

// SystemStatus reports overall service health to connected clients.
type SystemStatus struct {
	Status     string            `json:"status"` // healthy|degraded|unhealthy
	Components map[string]string `json:"components,omitempty"`
	Uptime     string            `json:"uptime,omitempty"`
	Version    string            `json:"version,omitempty"`
}

// ErrorPayload carries a server-side error pushed to clients.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Fatal   bool   `json:"fatal"`
}
