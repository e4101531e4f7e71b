package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSystemMetricsCollect(t *testing.T) {
	metrics, err := NewSystemMetrics(otel.Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, metrics)

	// The no-op meter accepts every recording.
	metrics.Collect(context.Background(), time.Now().Add(-time.Minute))
}

func TestSystemMetricsCollectorStop(t *testing.T) {
	collector, err := NewSystemMetricsCollector(otel.Meter("test"), 10*time.Millisecond)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		collector.Start(context.Background())
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	collector.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}

func TestSystemMetricsCollectorContextCancel(t *testing.T) {
	collector, err := NewSystemMetricsCollector(otel.Meter("test"), 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		collector.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not exit on context cancel")
	}
	assert.NotNil(t, collector)
}
