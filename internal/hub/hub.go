package hub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/client"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/state"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/pkg/models"
)

// Buffer size for pending scoreboard updates
const broadcastBufferSize = 1000

type update struct {
	seq   uint64
	state models.MatchState
}

// Hub maintains the set of connected viewers and pushes scoreboard updates to them
type Hub struct {
	// Registered clients
	clients   map[*client.Client]bool
	clientsMu sync.RWMutex

	// Updates waiting to be fanned out
	broadcast chan update

	// Register requests from clients
	register chan *client.Client

	// Unregister requests from clients
	unregister chan *client.Client

	// Closed once the hub stops
	done chan struct{}

	// Most recent scoreboard, sent as init to new clients
	latest    models.MatchState
	latestSeq uint64
	latestMu  sync.RWMutex

	// Metrics
	totalConnections int64
	totalMessages    int64
	droppedUpdates   int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub that greets clients with initial until the first update
func NewHub(initial models.MatchState) *Hub {
	return &Hub{
		clients:    make(map[*client.Client]bool),
		broadcast:  make(chan update, broadcastBufferSize),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
		done:       make(chan struct{}),
		latest:     state.Clone(initial),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	fmt.Println("✓ Hub started")

	// Start metrics reporter
	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case u := <-h.broadcast:
			h.broadcastUpdate(u)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *client.Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *client.Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Deliver records s as the latest scoreboard and queues it for every client.
// It never blocks; when the buffer is full the update is dropped and
// clients catch up on the next one.
func (h *Hub) Deliver(s models.MatchState) {
	h.latestMu.Lock()
	h.latestSeq++
	h.latest = s
	u := update{seq: h.latestSeq, state: s}
	h.latestMu.Unlock()

	select {
	case h.broadcast <- u:
	default:
		// Broadcast buffer full - drop message
		h.incrementDroppedUpdates()
		fmt.Println("⚠️  Broadcast buffer full, dropping update")
	}
}

// Latest returns a copy of the most recent scoreboard
func (h *Hub) Latest() models.MatchState {
	h.latestMu.RLock()
	defer h.latestMu.RUnlock()
	return state.Clone(h.latest)
}

// registerClient adds a client and sends it the current scoreboard
func (h *Hub) registerClient(c *client.Client) {
	h.latestMu.RLock()
	initial := state.Clone(h.latest)
	seq := h.latestSeq
	h.latestMu.RUnlock()

	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.incrementTotalConnections()

	// Updates already covered by the init message are skipped for this client
	c.SetSeenSeq(seq)
	c.TrySend(models.ServerMessage{
		Type: models.MessageTypeInit,
		Data: initial,
	})

	fmt.Printf("client %s connected (total: %d)\n", c.ID, len(h.clients))
}

// unregisterClient removes a client from the active clients map
func (h *Hub) unregisterClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		fmt.Printf("client %s disconnected (total: %d)\n", c.ID, len(h.clients))
	}
}

// broadcastUpdate sends an update to every client that has not seen it yet
func (h *Hub) broadcastUpdate(u update) {
	h.clientsMu.RLock()
	clients := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	message := models.ServerMessage{
		Type: models.MessageTypeUpdate,
		Data: u.state,
	}

	sent := 0
	dropped := 0

	for _, c := range clients {
		if u.seq <= c.SeenSeq() {
			continue
		}

		// Try to send (non-blocking)
		if c.TrySend(message) {
			c.SetSeenSeq(u.seq)
			sent++
		} else {
			dropped++
			// Client buffer full - they're too slow, disconnect them
			fmt.Printf("⚠️  client %s buffer full, disconnecting\n", c.ID)
			go h.Unregister(c)
		}
	}

	if sent > 0 {
		h.incrementTotalMessages()
	}

	if dropped > 0 {
		fmt.Printf("⚠️  Dropped %d messages (slow clients)\n", dropped)
	}
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]interface{} {
	h.clientsMu.RLock()
	activeClients := len(h.clients)
	stats := make([]models.ConnectionStats, 0, activeClients)
	for c := range h.clients {
		stats = append(stats, c.GetStats())
	}
	h.clientsMu.RUnlock()

	h.metricsMu.Lock()
	totalConnections := h.totalConnections
	totalMessages := h.totalMessages
	droppedUpdates := h.droppedUpdates
	h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     activeClients,
		"total_connections":  totalConnections,
		"total_messages":     totalMessages,
		"dropped_updates":    droppedUpdates,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
		"clients":            stats,
	}
}

// GetClientCount returns the number of active clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// shutdown closes all client connections
func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	fmt.Printf("🛑 Shutting down hub (%d active clients)\n", len(h.clients))

	close(h.done)

	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}

// reportMetrics periodically reports hub metrics
func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics := h.GetMetrics()
			fmt.Printf("📊 Hub Metrics: clients=%d total_connections=%d messages=%d dropped=%d\n",
				metrics["active_clients"],
				metrics["total_connections"],
				metrics["total_messages"],
				metrics["dropped_updates"])
		}
	}
}

// incrementTotalConnections safely increments the total connections counter
func (h *Hub) incrementTotalConnections() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalConnections++
}

// incrementTotalMessages safely increments the total messages counter
func (h *Hub) incrementTotalMessages() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalMessages++
}

func (h *Hub) incrementDroppedUpdates() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.droppedUpdates++
}
