package websocket

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "stockdash.websocket"

// OTelMetrics holds the OpenTelemetry instruments for the websocket layer.
type OTelMetrics struct {
	connectionsTotal   metric.Int64Counter
	connectionsActive  metric.Int64UpDownCounter
	connectionDuration metric.Float64Histogram
	connectionErrors   metric.Int64Counter

	messagesTotal  metric.Int64Counter
	messageBytes   metric.Int64Counter
	messageErrors  metric.Int64Counter
	messageLatency metric.Float64Histogram

	queueDepth      metric.Int64Gauge
	droppedMessages metric.Int64Counter

	broadcastOperations metric.Int64Counter
	clientCount         metric.Int64Gauge

	datasetEvents metric.Int64Counter
}

// instrumentSet wraps a meter so instrument creation errors accumulate
// instead of being checked one call at a time.
type instrumentSet struct {
	meter metric.Meter
	err   error
}

func (s *instrumentSet) counter(name, desc string) metric.Int64Counter {
	c, err := s.meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil && s.err == nil {
		s.err = err
	}
	return c
}

func (s *instrumentSet) upDownCounter(name, desc string) metric.Int64UpDownCounter {
	c, err := s.meter.Int64UpDownCounter(name, metric.WithDescription(desc))
	if err != nil && s.err == nil {
		s.err = err
	}
	return c
}

func (s *instrumentSet) gauge(name, desc string) metric.Int64Gauge {
	g, err := s.meter.Int64Gauge(name, metric.WithDescription(desc))
	if err != nil && s.err == nil {
		s.err = err
	}
	return g
}

func (s *instrumentSet) secondsHistogram(name, desc string) metric.Float64Histogram {
	h, err := s.meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
	if err != nil && s.err == nil {
		s.err = err
	}
	return h
}

// NewOTelMetrics registers the websocket instruments on the global meter
// provider.
func NewOTelMetrics() (*OTelMetrics, error) {
	set := &instrumentSet{meter: otel.Meter(meterName)}

	m := &OTelMetrics{
		connectionsTotal:    set.counter("websocket_connections_total", "Total number of WebSocket connections"),
		connectionsActive:   set.upDownCounter("websocket_connections_active", "Number of active WebSocket connections"),
		connectionDuration:  set.secondsHistogram("websocket_connection_duration_seconds", "Duration of WebSocket connections"),
		connectionErrors:    set.counter("websocket_connection_errors_total", "Total number of WebSocket connection errors"),
		messagesTotal:       set.counter("websocket_messages_total", "Total number of WebSocket messages"),
		messageBytes:        set.counter("websocket_message_bytes_total", "Total bytes of WebSocket messages"),
		messageErrors:       set.counter("websocket_message_errors_total", "Total number of WebSocket message errors"),
		messageLatency:      set.secondsHistogram("websocket_message_latency_seconds", "Latency of WebSocket message processing"),
		queueDepth:          set.gauge("websocket_queue_depth", "Current depth of WebSocket message queue"),
		droppedMessages:     set.counter("websocket_dropped_messages_total", "Total number of dropped WebSocket messages"),
		broadcastOperations: set.counter("websocket_broadcast_operations_total", "Total number of WebSocket broadcast operations"),
		clientCount:         set.gauge("websocket_client_count", "Current number of connected WebSocket clients"),
		datasetEvents:       set.counter("websocket_dataset_events_total", "Total number of dataset lifecycle events broadcast"),
	}
	if set.err != nil {
		return nil, set.err
	}
	return m, nil
}

// RecordConnection records a new WebSocket connection
func (m *OTelMetrics) RecordConnection(ctx context.Context, clientID, remoteAddr string) {
	attrs := metric.WithAttributes(
		attribute.String("client_id", clientID),
		attribute.String("remote_addr", remoteAddr),
	)
	m.connectionsTotal.Add(ctx, 1, attrs)
	m.connectionsActive.Add(ctx, 1, attrs)
}

// RecordDisconnection records a WebSocket disconnection
func (m *OTelMetrics) RecordDisconnection(ctx context.Context, clientID string, duration time.Duration, reason string) {
	attrs := metric.WithAttributes(
		attribute.String("client_id", clientID),
		attribute.String("disconnect_reason", reason),
	)
	m.connectionsActive.Add(ctx, -1, attrs)
	m.connectionDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordConnectionError records a WebSocket connection error
func (m *OTelMetrics) RecordConnectionError(ctx context.Context, clientID, errorType string, err error) {
	m.connectionErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client_id", clientID),
		attribute.String("error_type", errorType),
		attribute.String("error", err.Error()),
	))
}

func (m *OTelMetrics) recordMessage(ctx context.Context, direction, messageType, clientID string, size int64) {
	attrs := metric.WithAttributes(
		attribute.String("direction", direction),
		attribute.String("message_type", messageType),
		attribute.String("client_id", clientID),
	)
	m.messagesTotal.Add(ctx, 1, attrs)
	m.messageBytes.Add(ctx, size, attrs)
}

// RecordMessageSent records a message pushed to a client.
func (m *OTelMetrics) RecordMessageSent(ctx context.Context, messageType, clientID string, size int64) {
	m.recordMessage(ctx, "outbound", messageType, clientID, size)
}

// RecordMessageReceived records a message read from a client.
func (m *OTelMetrics) RecordMessageReceived(ctx context.Context, messageType, clientID string, size int64) {
	m.recordMessage(ctx, "inbound", messageType, clientID, size)
}

// RecordWriteLatency records how long a socket write took.
func (m *OTelMetrics) RecordWriteLatency(ctx context.Context, messageType string, d time.Duration) {
	m.messageLatency.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("message_type", messageType),
	))
}

// RecordMessageError records a WebSocket message error
func (m *OTelMetrics) RecordMessageError(ctx context.Context, messageType, clientID, errorType string, err error) {
	m.messageErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("message_type", messageType),
		attribute.String("client_id", clientID),
		attribute.String("error_type", errorType),
		attribute.String("error", err.Error()),
	))
}

// RecordQueueDepth records the current message queue depth
func (m *OTelMetrics) RecordQueueDepth(ctx context.Context, depth int64, queueType string) {
	m.queueDepth.Record(ctx, depth, metric.WithAttributes(
		attribute.String("queue_type", queueType),
	))
}

// RecordDroppedMessage records a dropped message
func (m *OTelMetrics) RecordDroppedMessage(ctx context.Context, messageType, reason string) {
	m.droppedMessages.Add(ctx, 1, metric.WithAttributes(
		attribute.String("message_type", messageType),
		attribute.String("drop_reason", reason),
	))
}

// RecordBroadcast records a broadcast operation
func (m *OTelMetrics) RecordBroadcast(ctx context.Context, messageType string, clientCount, successCount, failCount int64) {
	m.broadcastOperations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("message_type", messageType),
		attribute.Int64("client_count", clientCount),
		attribute.Int64("success_count", successCount),
		attribute.Int64("fail_count", failCount),
	))
}

// RecordClientCount records the current number of connected clients
func (m *OTelMetrics) RecordClientCount(ctx context.Context, count int64) {
	m.clientCount.Record(ctx, count)
}

// RecordDatasetEvent records a dataset lifecycle event broadcast to clients.
// The item count is the number of sources or changed files named by the event.
func (m *OTelMetrics) RecordDatasetEvent(ctx context.Context, eventType string, itemCount int) {
	m.datasetEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.Int("item_count", itemCount),
	))
}

// RecordSystemEvent records system-related WebSocket events
func (m *OTelMetrics) RecordSystemEvent(ctx context.Context, eventType, severity string) {
	m.messagesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.String("severity", severity),
	))
}

var globalOTelMetrics *OTelMetrics

// InitOTelMetrics initializes the package-level metrics instance.
func InitOTelMetrics() error {
	metrics, err := NewOTelMetrics()
	if err != nil {
		return err
	}
	globalOTelMetrics = metrics
	return nil
}

// GetOTelMetrics returns the package-level metrics instance, nil before init.
func GetOTelMetrics() *OTelMetrics {
	return globalOTelMetrics
}
