package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/anstrom/lanwatch/internal/api/middleware"
	"github.com/anstrom/lanwatch/internal/events"
	"github.com/anstrom/lanwatch/internal/logging"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriodRatio = 0.9
	pingPeriod      = time.Duration(float64(pongWait) * pingPeriodRatio)
	maxMessageSize  = 512
	bufferSize      = 256
	clientQueueSize = 64
)

type wsClient struct {
	conn      *websocket.Conn
	send      chan []byte
	requestID string
}

// WebSocketHandler streams engine events to connected clients. Each event
// is sent as the JSON form of events.Event.
type WebSocketHandler struct {
	logger   *logging.Logger
	upgrader websocket.Upgrader

	clients    map[*wsClient]struct{}
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	shutdown   chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex

	unsubscribe func()
}

// NewWebSocketHandler subscribes to bus and starts the hub. Origins in
// allowedOrigins (or "*") may connect cross-origin; otherwise only
// same-origin upgrades are accepted.
func NewWebSocketHandler(bus *events.Bus, allowedOrigins []string, logger *logging.Logger) *WebSocketHandler {
	h := &WebSocketHandler{
		logger: logger.WithFields("handler", "websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		clients:    make(map[*wsClient]struct{}),
		broadcast:  make(chan []byte, bufferSize),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		shutdown:   make(chan struct{}),
	}
	h.unsubscribe = bus.Subscribe(func(ev events.Event) {
		if err := h.Publish(ev); err != nil {
			h.logger.Debug("event dropped", "type", ev.Type, "error", err)
		}
	})

	go h.run()
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}

// ServeWS handles GET /ws.
//
// @Summary Event stream
// @Description Upgrades to a websocket carrying engine events.
// @Tags Events
// @Success 101
// @Router /ws [get]
func (h *WebSocketHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade WebSocket connection", "request_id", requestID, "error", err)
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, clientQueueSize), requestID: requestID}
	select {
	case h.register <- c:
	case <-h.shutdown:
		_ = conn.Close()
		return
	}
	h.logger.Debug("WebSocket client connected", "request_id", requestID, "remote_addr", r.RemoteAddr)

	go h.writePump(c)
	h.readPump(c)
}

// Publish queues ev for every connected client.
func (h *WebSocketHandler) Publish(ev events.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}

	select {
	case <-h.shutdown:
		return fmt.Errorf("websocket handler closed")
	default:
	}

	select {
	case h.broadcast <- data:
		return nil
	default:
		return fmt.Errorf("broadcast channel full")
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close detaches from the bus and disconnects every client.
func (h *WebSocketHandler) Close() {
	h.closeOnce.Do(func() {
		h.unsubscribe()
		close(h.shutdown)
	})
}

func (h *WebSocketHandler) run() {
	for {
		select {
		case <-h.shutdown:
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()

		case c := <-h.unregister:
			h.drop(c)

		case message := <-h.broadcast:
			h.mu.RLock()
			var slow []*wsClient
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.logger.Warn("WebSocket client too slow, disconnecting", "request_id", c.requestID)
				h.drop(c)
			}
		}
	}
}

// drop runs on the hub goroutine only.
func (h *WebSocketHandler) drop(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *WebSocketHandler) readPump(c *wsClient) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.shutdown:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("WebSocket unexpected close", "request_id", c.requestID, "error", err)
			}
			return
		}
	}
}

func (h *WebSocketHandler) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Debug("Write failed, closing connection", "request_id", c.requestID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
