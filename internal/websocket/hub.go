package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"stockdash/internal/infrastructure"
	"stockdash/pkg/contracts/events"
)

// Hub owns the set of connected clients and fans broadcast messages out to
// them. All client bookkeeping happens on the Run goroutine; the channels are
// the only way in.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	totalConnections int64
	activConnections int64
	messagesSent     int64
	messagesReceived int64
	connectionErrors int64

	quit        chan struct{}
	running     bool
	metricsQuit chan struct{}
}

// NewHub creates a hub. A nil logger falls back to the process logger.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		broadcast:   make(chan []byte),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		clients:     make(map[*Client]bool),
		logger:      logger.With(slog.String("component", "websocket.hub")),
		quit:        make(chan struct{}),
		metricsQuit: make(chan struct{}),
	}
}

// traceContext returns a background context carrying the given trace ID, or a
// plain background context when the ID is empty.
func traceContext(traceID string) context.Context {
	ctx := context.Background()
	if traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, traceID)
	}
	return ctx
}

// Start launches the hub loop and the periodic metrics reporter. Calling
// Start on a running hub is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
	go h.reportMetrics()
}

// Run is the hub's main loop. It exits when Stop closes the quit channel.
func (h *Hub) Run() {
	for {
		select {
		case <-h.quit:
			h.logger.Info("Hub shutting down")
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.totalConnections++
	h.activConnections = int64(count)
	h.mu.Unlock()

	ctx := traceContext(client.traceID)
	h.logger.InfoContext(ctx, "Client registered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.String("remote_addr", client.remoteAddr))

	GetMetrics().RecordConnection()
	if otelMetrics := GetOTelMetrics(); otelMetrics != nil {
		otelMetrics.RecordConnection(ctx, client.id, client.remoteAddr)
		otelMetrics.RecordClientCount(ctx, int64(count))
	}

	h.welcome(ctx, client)
}

// welcome pushes the initial connect message so the browser knows the stream
// is live and which client ID it was assigned.
func (h *Hub) welcome(ctx context.Context, client *Client) {
	connMsg := map[string]interface{}{
		"type": events.MessageTypeConnect,
		"data": map[string]interface{}{
			"status":    "connected",
			"message":   "Connected to stock dashboard stream",
			"client_id": client.id,
		},
		"timestamp": time.Now().Format(time.RFC3339),
		"trace_id":  client.traceID,
	}

	jsonData, err := json.Marshal(connMsg)
	if err != nil {
		return
	}

	select {
	case client.send <- jsonData:
	default:
		h.logger.WarnContext(ctx, "Failed to send connection message - client buffer full",
			slog.String("client_id", client.id))
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	count := len(h.clients)
	h.activConnections = int64(count)
	h.mu.Unlock()

	lifetime := time.Since(client.connectedAt)
	ctx := traceContext(client.traceID)
	h.logger.InfoContext(ctx, "Client unregistered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.Duration("connection_duration", lifetime))

	GetMetrics().RecordDisconnection(lifetime)
	if otelMetrics := GetOTelMetrics(); otelMetrics != nil {
		otelMetrics.RecordDisconnection(ctx, client.id, lifetime, "normal")
		otelMetrics.RecordClientCount(ctx, int64(count))
	}
}

// fanOut delivers one message to every connected client. Clients whose send
// buffer is full are dropped so one slow reader cannot stall the stream.
func (h *Hub) fanOut(message []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("Broadcasting message to clients",
		slog.Int("client_count", len(clients)),
		slog.Int("message_size", len(message)))

	successCount := 0
	failCount := 0
	for _, client := range clients {
		select {
		case client.send <- message:
			successCount++
			h.messagesSent++
		default:
			failCount++
			h.mu.Lock()
			close(client.send)
			delete(h.clients, client)
			h.mu.Unlock()

			GetMetrics().RecordDroppedMessage()
			if otelMetrics := GetOTelMetrics(); otelMetrics != nil {
				otelMetrics.RecordDroppedMessage(context.Background(), "broadcast", "buffer_full")
			}

			h.logger.WarnContext(traceContext(client.traceID), "Client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}

	if failCount > 0 {
		h.logger.Warn("Some clients failed to receive broadcast",
			slog.Int("success_count", successCount),
			slog.Int("fail_count", failCount))
	}

	if otelMetrics := GetOTelMetrics(); otelMetrics != nil {
		otelMetrics.RecordBroadcast(context.Background(), "broadcast",
			int64(len(clients)), int64(successCount), int64(failCount))
	}
}

// BroadcastEvent sends a typed event message to all connected clients.
func (h *Hub) BroadcastEvent(msgType events.MessageType, data interface{}) {
	h.BroadcastEventWithTrace(msgType, data, "")
}

// BroadcastEventWithTrace sends a typed event message with a trace ID to all
// connected clients.
func (h *Hub) BroadcastEventWithTrace(msgType events.MessageType, data interface{}, traceID string) {
	message := map[string]interface{}{
		"type":      msgType,
		"data":      data,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if traceID != "" {
		message["trace_id"] = traceID
	}

	h.broadcastJSON(message)
}

func (h *Hub) broadcastJSON(message map[string]interface{}) {
	jsonData, err := json.Marshal(message)
	if err != nil {
		traceID, _ := message["trace_id"].(string)
		h.logger.ErrorContext(traceContext(traceID), "Error marshaling message",
			slog.String("error", err.Error()))
		return
	}

	h.broadcast <- jsonData

	h.mu.Lock()
	h.messagesSent++
	h.mu.Unlock()
}

// BroadcastDatasetReloaded announces that a new dataset snapshot is live.
func (h *Hub) BroadcastDatasetReloaded(payload events.DatasetReloaded) {
	h.BroadcastDatasetReloadedWithTrace(payload, "")
}

// BroadcastDatasetReloadedWithTrace announces a new snapshot with a trace ID.
func (h *Hub) BroadcastDatasetReloadedWithTrace(payload events.DatasetReloaded, traceID string) {
	h.BroadcastEventWithTrace(events.MessageTypeDatasetReloaded, payload, traceID)

	if otelMetrics := GetOTelMetrics(); otelMetrics != nil {
		otelMetrics.RecordDatasetEvent(traceContext(traceID),
			string(events.MessageTypeDatasetReloaded), len(payload.Sources))
	}
}

// BroadcastDatasetStale advises clients that source files changed on disk
// after the current snapshot was loaded.
func (h *Hub) BroadcastDatasetStale(payload events.DatasetStale) {
	h.BroadcastEvent(events.MessageTypeDatasetStale, payload)

	if otelMetrics := GetOTelMetrics(); otelMetrics != nil {
		otelMetrics.RecordDatasetEvent(context.Background(),
			string(events.MessageTypeDatasetStale), len(payload.ChangedFiles))
	}
}

// BroadcastSystemStatus reports service health to connected clients.
func (h *Hub) BroadcastSystemStatus(payload events.SystemStatus) {
	h.BroadcastEvent(events.MessageTypeSystemStatus, payload)
}

// BroadcastError pushes a server-side error to clients.
func (h *Hub) BroadcastError(code, message string, fatal bool) {
	h.BroadcastEvent(events.MessageTypeError, events.ErrorPayload{
		Code:    code,
		Message: message,
		Fatal:   fatal,
	})
}

// BroadcastJSON sends a pre-formatted JSON message directly
func (h *Hub) BroadcastJSON(message map[string]interface{}) {
	jsonData, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Error marshaling JSON message", slog.String("error", err.Error()))
		return
	}

	h.broadcast <- jsonData
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop gracefully stops the hub
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	close(h.metricsQuit)

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// reportMetrics logs hub throughput every 30s and samples the broadcast
// queue depth for the metrics snapshot.
func (h *Hub) reportMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.metricsQuit:
			h.logger.Info("Metrics reporting shutting down")
			return
		case <-ticker.C:
			h.mu.RLock()
			activeClients := len(h.clients)
			h.mu.RUnlock()

			GetMetrics().RecordQueueDepth(int64(len(h.broadcast)))
			if otelMetrics := GetOTelMetrics(); otelMetrics != nil {
				otelMetrics.RecordQueueDepth(context.Background(), int64(len(h.broadcast)), "broadcast")
			}

			h.logger.Info("WebSocket hub metrics",
				slog.Int("active_clients", activeClients),
				slog.Int64("total_connections", h.totalConnections),
				slog.Int64("messages_sent", h.messagesSent),
				slog.Int64("messages_received", h.messagesReceived),
				slog.Int("broadcast_queue", len(h.broadcast)),
			)
		}
	}
}

// GetHubMetrics returns current hub metrics
func (h *Hub) GetHubMetrics() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return map[string]interface{}{
		"active_clients":    len(h.clients),
		"total_connections": h.totalConnections,
		"messages_sent":     h.messagesSent,
		"messages_received": h.messagesReceived,
		"connection_errors": h.connectionErrors,
	}
}
