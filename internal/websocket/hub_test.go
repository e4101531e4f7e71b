package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdash/pkg/contracts/events"
)

// TestNewHub tests hub creation
func TestNewHub(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.broadcast)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
	assert.NotNil(t, hub.logger)
	assert.NotNil(t, hub.quit)
	assert.NotNil(t, hub.metricsQuit)
	assert.Equal(t, 0, len(hub.clients))
	assert.False(t, hub.running)
}

// TestHubStartStop tests starting and stopping the hub
func TestHubStartStop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)

	// Start the hub
	hub.Start()
	assert.True(t, hub.running)

	// Starting again should be idempotent
	hub.Start()
	assert.True(t, hub.running)

	// Wait a bit to ensure goroutines are running
	time.Sleep(10 * time.Millisecond)

	// Stop the hub
	hub.Stop()
	assert.False(t, hub.running)

	// Stopping again should be idempotent
	hub.Stop()
	assert.False(t, hub.running)
}

// TestHubClientRegistration tests client registration and unregistration
func TestHubClientRegistration(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	// Create a test client
	client := &Client{
		id:          "test-client-1",
		hub:         hub,
		send:        make(chan []byte, 256),
		traceID:     "test-trace-1",
		connectedAt: time.Now(),
		remoteAddr:  "127.0.0.1:8080",
	}

	// Register the client
	hub.Register(client)

	// Wait for registration to complete
	time.Sleep(50 * time.Millisecond)

	// Check client count
	assert.Equal(t, 1, hub.ClientCount())

	// Client should receive connection message
	select {
	case msg := <-client.send:
		var connMsg map[string]interface{}
		err := json.Unmarshal(msg, &connMsg)
		require.NoError(t, err)
		assert.Equal(t, string(events.MessageTypeConnect), connMsg["type"])
		data := connMsg["data"].(map[string]interface{})
		assert.Equal(t, "connected", data["status"])
		assert.Equal(t, "test-client-1", data["client_id"])
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for connection message")
	}

	// Unregister the client
	hub.unregister <- client

	// Wait for unregistration to complete
	time.Sleep(50 * time.Millisecond)

	// Check client count
	assert.Equal(t, 0, hub.ClientCount())
}

// TestHubBroadcast tests message broadcasting to multiple clients
func TestHubBroadcast(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	// Create multiple test clients
	clients := make([]*Client, 3)
	for i := 0; i < 3; i++ {
		clients[i] = &Client{
			id:          fmt.Sprintf("test-client-%d", i),
			hub:         hub,
			send:        make(chan []byte, 256),
			connectedAt: time.Now(),
			remoteAddr:  fmt.Sprintf("127.0.0.1:808%d", i),
		}
		hub.Register(clients[i])
	}

	// Wait for registrations to complete
	time.Sleep(100 * time.Millisecond)

	// Clear connection messages
	for _, client := range clients {
		<-client.send
	}

	// Broadcast a message
	testMsg := map[string]interface{}{
		"type": "test",
		"data": "broadcast test",
	}
	jsonData, _ := json.Marshal(testMsg)
	hub.broadcast <- jsonData

	// All clients should receive the message
	var wg sync.WaitGroup
	wg.Add(3)
	for i, client := range clients {
		go func(idx int, c *Client) {
			defer wg.Done()
			select {
			case msg := <-c.send:
				assert.Equal(t, jsonData, msg)
			case <-time.After(1 * time.Second):
				t.Errorf("client %d: timeout waiting for broadcast", idx)
			}
		}(i, client)
	}
	wg.Wait()
}

// registerTestClient registers a client and drains its connection message.
func registerTestClient(t *testing.T, hub *Hub, id string) *Client {
	t.Helper()

	client := &Client{
		id:          id,
		hub:         hub,
		send:        make(chan []byte, 256),
		connectedAt: time.Now(),
		remoteAddr:  "127.0.0.1:8080",
	}
	hub.Register(client)
	time.Sleep(50 * time.Millisecond)

	select {
	case <-client.send:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for connection message")
	}
	return client
}

// receiveMessage waits for the next message on the client's send channel.
func receiveMessage(t *testing.T, client *Client) map[string]interface{} {
	t.Helper()

	select {
	case raw := <-client.send:
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
		return nil
	}
}

// TestHubDatasetReloaded tests the dataset reload broadcast
func TestHubDatasetReloaded(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	client := registerTestClient(t, hub, "reload-client")

	loadedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	hub.BroadcastDatasetReloaded(events.DatasetReloaded{
		TotalRows: 1250,
		Sources:   []string{"Kaggle_AAPL", "Kaggle_NFLX"},
		LoadedAt:  loadedAt,
	})

	msg := receiveMessage(t, client)
	assert.Equal(t, string(events.MessageTypeDatasetReloaded), msg["type"])
	assert.NotEmpty(t, msg["timestamp"])

	data := msg["data"].(map[string]interface{})
	assert.Equal(t, float64(1250), data["total_rows"])
	sources := data["sources"].([]interface{})
	require.Len(t, sources, 2)
	assert.Equal(t, "Kaggle_AAPL", sources[0])
}

// TestHubDatasetReloadedWithTrace tests that the trace ID rides along
func TestHubDatasetReloadedWithTrace(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	client := registerTestClient(t, hub, "trace-client")

	hub.BroadcastDatasetReloadedWithTrace(events.DatasetReloaded{
		TotalRows: 10,
		Sources:   []string{"Kaggle_AAPL"},
		LoadedAt:  time.Now().UTC(),
	}, "trace-abc-123")

	msg := receiveMessage(t, client)
	assert.Equal(t, string(events.MessageTypeDatasetReloaded), msg["type"])
	assert.Equal(t, "trace-abc-123", msg["trace_id"])
}

// TestHubDatasetStale tests the stale dataset broadcast
func TestHubDatasetStale(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	client := registerTestClient(t, hub, "stale-client")

	hub.BroadcastDatasetStale(events.DatasetStale{
		ChangedFiles: []string{"data/AAPL.csv"},
		DetectedAt:   time.Now().UTC(),
	})

	msg := receiveMessage(t, client)
	assert.Equal(t, string(events.MessageTypeDatasetStale), msg["type"])

	data := msg["data"].(map[string]interface{})
	changed := data["changed_files"].([]interface{})
	require.Len(t, changed, 1)
	assert.Equal(t, "data/AAPL.csv", changed[0])
}

// TestHubSystemStatus tests the system status broadcast
func TestHubSystemStatus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	client := registerTestClient(t, hub, "status-client")

	hub.BroadcastSystemStatus(events.SystemStatus{
		Status:  "healthy",
		Version: "1.0.0",
	})

	msg := receiveMessage(t, client)
	assert.Equal(t, string(events.MessageTypeSystemStatus), msg["type"])

	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "1.0.0", data["version"])
}

// TestHubBroadcastError tests the error broadcast
func TestHubBroadcastError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	client := registerTestClient(t, hub, "error-client")

	hub.BroadcastError("DATASET_LOAD_FAILED", "source file missing", false)

	msg := receiveMessage(t, client)
	assert.Equal(t, string(events.MessageTypeError), msg["type"])

	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "DATASET_LOAD_FAILED", data["code"])
	assert.Equal(t, "source file missing", data["message"])
	assert.Equal(t, false, data["fatal"])
}

// TestHubBroadcastJSON tests pre-formatted JSON broadcast
func TestHubBroadcastJSON(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	client := registerTestClient(t, hub, "json-client")

	hub.BroadcastJSON(map[string]interface{}{
		"type": "custom",
		"data": map[string]interface{}{"key": "value"},
	})

	msg := receiveMessage(t, client)
	assert.Equal(t, "custom", msg["type"])
	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "value", data["key"])
}

// TestHubMetrics tests hub metrics collection
func TestHubMetrics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	client := registerTestClient(t, hub, "metrics-client")
	_ = client

	metrics := hub.GetHubMetrics()
	assert.Equal(t, 1, metrics["active_clients"])
	assert.Equal(t, int64(1), metrics["total_connections"])
}

// TestHubClientDisconnectOnFullBuffer tests that slow clients are dropped
func TestHubClientDisconnectOnFullBuffer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	// Client with a tiny buffer that we never drain
	client := &Client{
		id:          "slow-client",
		hub:         hub,
		send:        make(chan []byte, 1),
		connectedAt: time.Now(),
		remoteAddr:  "127.0.0.1:8080",
	}
	hub.Register(client)
	time.Sleep(50 * time.Millisecond)

	// The connection message fills the buffer; the next broadcast overflows it
	hub.BroadcastSystemStatus(events.SystemStatus{Status: "healthy"})
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, hub.ClientCount())
}

// TestHubConcurrentAccess tests thread safety under concurrent operations
func TestHubConcurrentAccess(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	var wg sync.WaitGroup

	// Concurrent registrations
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			client := &Client{
				id:          fmt.Sprintf("concurrent-%d", id),
				hub:         hub,
				send:        make(chan []byte, 256),
				connectedAt: time.Now(),
				remoteAddr:  "127.0.0.1:8080",
			}
			hub.Register(client)
		}(i)
	}

	// Concurrent broadcasts
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			hub.BroadcastSystemStatus(events.SystemStatus{Status: "healthy"})
		}(i)
	}

	// Concurrent reads
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = hub.ClientCount()
			_ = hub.GetHubMetrics()
		}()
	}

	wg.Wait()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 10, hub.ClientCount())
}

// TestHubWithNilLogger tests that nil logger falls back to default
func TestHubWithNilLogger(t *testing.T) {
	hub := NewHub(nil)
	assert.NotNil(t, hub)
	assert.NotNil(t, hub.logger)
}
