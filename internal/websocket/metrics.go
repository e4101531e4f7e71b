package websocket

import (
	"sync"
	"time"
)

// recentDurations is the window of connection lifetimes kept for the
// average in Snapshot.
const recentDurations = 100

// Metrics tracks hub-level connection counters. The OTel instruments in
// otel_metrics.go feed /metrics; these counters back the hub's periodic
// log line and the readiness payload.
type Metrics struct {
	mu sync.RWMutex

	TotalConnections  int64
	ActiveConnections int64
	PeakConnections   int64

	DroppedMessages int64
	MaxQueueDepth   int64
	avgQueueDepth   int64

	startedAt time.Time
	lifetimes []time.Duration
}

// NewMetrics creates an empty metrics set.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt: time.Now(),
		lifetimes: make([]time.Duration, 0, recentDurations),
	}
}

// RecordConnection counts a newly registered client.
func (m *Metrics) RecordConnection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalConnections++
	m.ActiveConnections++
	if m.ActiveConnections > m.PeakConnections {
		m.PeakConnections = m.ActiveConnections
	}
}

// RecordDisconnection counts an unregistered client and remembers how
// long it was connected.
func (m *Metrics) RecordDisconnection(lifetime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ActiveConnections--

	m.lifetimes = append(m.lifetimes, lifetime)
	if len(m.lifetimes) > recentDurations {
		m.lifetimes = m.lifetimes[1:]
	}
}

// RecordQueueDepth samples the broadcast channel backlog.
func (m *Metrics) RecordQueueDepth(depth int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if depth > m.MaxQueueDepth {
		m.MaxQueueDepth = depth
	}
	if m.avgQueueDepth == 0 {
		m.avgQueueDepth = depth
	} else {
		m.avgQueueDepth = (m.avgQueueDepth*9 + depth) / 10
	}
}

// RecordDroppedMessage counts a client disconnected because its send
// buffer was full during a broadcast.
func (m *Metrics) RecordDroppedMessage() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DroppedMessages++
}

func (m *Metrics) avgLifetime() time.Duration {
	if len(m.lifetimes) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range m.lifetimes {
		total += d
	}
	return total / time.Duration(len(m.lifetimes))
}

// Snapshot returns the current counters in the shape used by the
// readiness endpoint.
func (m *Metrics) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"connections": map[string]interface{}{
			"total":           m.TotalConnections,
			"active":          m.ActiveConnections,
			"peak":            m.PeakConnections,
			"avg_lifetime_ms": m.avgLifetime().Milliseconds(),
		},
		"broadcast": map[string]interface{}{
			"dropped":         m.DroppedMessages,
			"max_queue_depth": m.MaxQueueDepth,
			"avg_queue_depth": m.avgQueueDepth,
		},
		"uptime_seconds": time.Since(m.startedAt).Seconds(),
	}
}

var globalMetrics = NewMetrics()

// GetMetrics returns the process-wide hub metrics.
func GetMetrics() *Metrics {
	return globalMetrics
}
