package infrastructure

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// SystemMetrics records Go runtime resource gauges: goroutines, heap and OS
// memory, GC pauses, CPU count and process uptime.
type SystemMetrics struct {
	goRoutines      metric.Int64Gauge
	memoryUsage     metric.Int64Gauge
	memoryAllocated metric.Int64Gauge
	memorySystem    metric.Int64Gauge
	gcPause         metric.Float64Histogram
	cpuCount        metric.Int64Gauge
	processUptime   metric.Float64Gauge
}

// NewSystemMetrics registers the runtime gauges on the given meter.
func NewSystemMetrics(meter metric.Meter) (*SystemMetrics, error) {
	b := &meterBuilder{meter: meter}

	sm := &SystemMetrics{
		goRoutines:      b.int64Gauge("system_goroutines", "Number of active goroutines", ""),
		memoryUsage:     b.int64Gauge("system_memory_usage_bytes", "Memory usage in bytes", "By"),
		memoryAllocated: b.int64Gauge("system_memory_allocated_bytes", "Memory allocated by Go runtime in bytes", "By"),
		memorySystem:    b.int64Gauge("system_memory_system_bytes", "Memory obtained from the OS in bytes", "By"),
		gcPause:         b.secondsHistogram("system_gc_pause_seconds", "Garbage collection pause duration"),
		cpuCount:        b.int64Gauge("system_cpu_count", "Number of logical CPUs", ""),
		processUptime:   b.float64Gauge("system_process_uptime_seconds", "Process uptime in seconds", "s"),
	}
	if b.err != nil {
		return nil, b.err
	}
	return sm, nil
}

// Collect samples the runtime and records one value per gauge.
func (sm *SystemMetrics) Collect(ctx context.Context, startTime time.Time) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	sm.goRoutines.Record(ctx, int64(runtime.NumGoroutine()))
	sm.memoryUsage.Record(ctx, int64(memStats.Alloc))
	sm.memoryAllocated.Record(ctx, int64(memStats.TotalAlloc))
	sm.memorySystem.Record(ctx, int64(memStats.Sys))
	sm.cpuCount.Record(ctx, int64(runtime.NumCPU()))
	sm.processUptime.Record(ctx, time.Since(startTime).Seconds())

	// PauseNs is a circular buffer of the last 256 pauses.
	if memStats.NumGC > 0 {
		lastPause := time.Duration(memStats.PauseNs[(memStats.NumGC+255)%256])
		sm.gcPause.Record(ctx, lastPause.Seconds())
	}
}

// SystemMetricsCollector samples SystemMetrics on a fixed interval. Start is
// blocking; the application launches it on its own goroutine.
type SystemMetricsCollector struct {
	metrics   *SystemMetrics
	startTime time.Time
	interval  time.Duration
	stopCh    chan struct{}
}

// NewSystemMetricsCollector creates a collector sampling every interval.
func NewSystemMetricsCollector(meter metric.Meter, interval time.Duration) (*SystemMetricsCollector, error) {
	metrics, err := NewSystemMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create system metrics: %w", err)
	}

	return &SystemMetricsCollector{
		metrics:   metrics,
		startTime: time.Now(),
		interval:  interval,
		stopCh:    make(chan struct{}),
	}, nil
}

// Start samples immediately, then on every tick until Stop or ctx cancels.
func (smc *SystemMetricsCollector) Start(ctx context.Context) {
	ticker := time.NewTicker(smc.interval)
	defer ticker.Stop()

	smc.metrics.Collect(ctx, smc.startTime)

	for {
		select {
		case <-ticker.C:
			smc.metrics.Collect(ctx, smc.startTime)
		case <-smc.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop ends collection. Must not be called twice.
func (smc *SystemMetricsCollector) Stop() {
	close(smc.stopCh)
}
