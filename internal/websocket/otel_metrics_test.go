package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOTelMetrics(t *testing.T) {
	metrics, err := NewOTelMetrics()
	require.NoError(t, err)
	require.NotNil(t, metrics)

	assert.NotNil(t, metrics.connectionsTotal)
	assert.NotNil(t, metrics.connectionsActive)
	assert.NotNil(t, metrics.connectionDuration)
	assert.NotNil(t, metrics.messagesTotal)
	assert.NotNil(t, metrics.messageBytes)
	assert.NotNil(t, metrics.broadcastOperations)
	assert.NotNil(t, metrics.clientCount)
	assert.NotNil(t, metrics.datasetEvents)
}

func TestInitOTelMetrics(t *testing.T) {
	err := InitOTelMetrics()
	require.NoError(t, err)
	assert.NotNil(t, GetOTelMetrics())
}

// The no-op meter from the default provider accepts all recordings, so these
// calls only have to not panic.
func TestOTelMetricsRecording(t *testing.T) {
	metrics, err := NewOTelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	metrics.RecordConnection(ctx, "client-1", "127.0.0.1:8080")
	metrics.RecordDisconnection(ctx, "client-1", 5*time.Second, "normal")
	metrics.RecordConnectionError(ctx, "client-1", "upgrade", errors.New("bad handshake"))
	metrics.RecordMessageSent(ctx, "server_message", "client-1", 128)
	metrics.RecordMessageReceived(ctx, "client_message", "client-1", 64)
	metrics.RecordMessageError(ctx, "server_message", "client-1", "write", errors.New("broken pipe"))
	metrics.RecordQueueDepth(ctx, 3, "broadcast")
	metrics.RecordDroppedMessage(ctx, "server_message", "buffer_full")
	metrics.RecordBroadcast(ctx, "dataset:reloaded", 5, 5, 0)
	metrics.RecordClientCount(ctx, 5)
	metrics.RecordDatasetEvent(ctx, "dataset:reloaded", 2)
	metrics.RecordSystemEvent(ctx, "system:status", "info")
}
