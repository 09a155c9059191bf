package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/client"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/commands"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/hub"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/processor"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Largest command body accepted over HTTP
const maxCommandBytes = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Overlays are served from arbitrary origins (OBS, local files)
		return true
	},
}

// MetricsSource reports counters for an optional component
type MetricsSource func() map[string]interface{}

// Handler manages HTTP endpoints
type Handler struct {
	hub       *hub.Hub
	processor *processor.Processor
	ctx       context.Context
	sources   map[string]MetricsSource
}

// NewHandler creates a new handler instance
func NewHandler(ctx context.Context, h *hub.Hub, p *processor.Processor) *Handler {
	return &Handler{
		hub:       h,
		processor: p,
		ctx:       ctx,
		sources:   make(map[string]MetricsSource),
	}
}

// AddMetricsSource includes the named component in /metrics.
// It must be called before the router starts serving.
func (h *Handler) AddMetricsSource(name string, source MetricsSource) {
	h.sources[name] = source
}

// Routes builds the HTTP router
func (h *Handler) Routes(corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// The upgraded connection outlives any request timeout
	r.Get("/ws", h.HandleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/health", h.HandleHealth)
		r.Get("/metrics", h.HandleMetrics)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/state", h.HandleState)
			r.Post("/commands", h.HandleCommand)
		})
	})

	return r
}

// HandleWebSocket upgrades HTTP connections to WebSocket
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Upgrade connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("⚠️  WebSocket upgrade error: %v\n", err)
		return
	}

	// Create client
	clientID := uuid.New().String()
	c := client.NewClient(clientID, conn, h.hub, h.processor)

	// Register with hub (sends the init scoreboard)
	h.hub.Register(c)

	// Start client pumps (use handler context, not request context)
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)

	fmt.Printf("✓ WebSocket connection established: %s\n", clientID)
}

// HandleHealth returns service health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":         "healthy",
		"service":        "scoreboard-broadcaster",
		"active_clients": h.hub.GetClientCount(),
	}

	writeJSON(w, http.StatusOK, health)
}

// HandleMetrics returns hub and processor metrics
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := h.hub.GetMetrics()
	metrics["processor"] = h.processor.Stats()
	metrics["queue_depth"] = h.processor.QueueDepth()
	for name, source := range h.sources {
		metrics[name] = source()
	}

	writeJSON(w, http.StatusOK, metrics)
}

// HandleState returns the live scoreboard
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.processor.Current())
}

// HandleCommand queues one operator command posted as a wire message
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read_failed", err.Error())
		return
	}
	if len(body) > maxCommandBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", "command body too large")
		return
	}

	cmd, err := commands.Parse(body)
	if err != nil {
		h.processor.RecordMalformed()
		writeError(w, http.StatusBadRequest, "malformed_command", err.Error())
		return
	}

	if err := h.processor.Submit(r.Context(), cmd); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "queue_full", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "submit_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "queued",
		"type":   cmd.Type(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, models.ErrorMessage{Code: code, Message: message})
}
