// Package ws pushes live tournament notices to subscribed clients.
//
// Clients subscribe per tournament; the service broadcasts when a
// balance lands or an import finishes so open scoreboards refresh
// without polling.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/aubridge/torneos/pkg/logger"
	"github.com/aubridge/torneos/pkg/metrics"
)

// Keepalive timing. The server pings; a client that stops answering
// misses its read deadline and gets evicted.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub tracks subscribed connections per tournament.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[string]*websocket.Conn

	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewHub constructs a hub with configuration options applied.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		clients: make(map[string]map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			// Scoreboard pages are served from club domains we do not
			// control, so origins stay open unless an option narrows
			// them.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Get().Named("ws")
	}
	return h
}

// HandleWS upgrades a subscription request. The tournament id comes
// from the `tournament` query parameter; a missing `client` id gets a
// generated one.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	tournamentID := r.URL.Query().Get("tournament")
	if tournamentID == "" {
		http.Error(w, "missing tournament", http.StatusBadRequest)
		return
	}
	clientID := r.URL.Query().Get("client")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		metrics.RecordErrorByComponent("ws", "upgrade_failed")
		h.logger.Warn(r.Context(), "websocket upgrade failed",
			logger.String("tournament", tournamentID),
			logger.Error(err),
		)
		return
	}

	h.add(tournamentID, clientID, conn)
	go h.readLoop(tournamentID, clientID, conn)
	go h.pingLoop(conn)
}

// add registers a connection, displacing a previous one under the same
// client id (browser refreshes reconnect before the old socket dies).
func (h *Hub) add(tournamentID, clientID string, conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[tournamentID] == nil {
		h.clients[tournamentID] = make(map[string]*websocket.Conn)
	}
	if old, ok := h.clients[tournamentID][clientID]; ok {
		_ = old.Close()
	}
	h.clients[tournamentID][clientID] = conn
	total := h.totalLocked()
	h.mu.Unlock()

	metrics.UpdateWSClients(total)
	h.logger.Debug(context.Background(), "client subscribed",
		logger.String("tournament", tournamentID),
		logger.String("client", clientID),
	)
}

// Remove drops a connection and closes it.
func (h *Hub) Remove(tournamentID, clientID string) {
	h.mu.Lock()
	if conns, ok := h.clients[tournamentID]; ok {
		if conn, ok := conns[clientID]; ok {
			_ = conn.Close()
			delete(conns, clientID)
		}
		if len(conns) == 0 {
			delete(h.clients, tournamentID)
		}
	}
	total := h.totalLocked()
	h.mu.Unlock()

	metrics.UpdateWSClients(total)
}

// ClientCount returns how many clients follow one tournament.
func (h *Hub) ClientCount(tournamentID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[tournamentID])
}

// Broadcast sends a JSON message to every subscriber of a tournament.
// Connections that fail to take the write are evicted.
func (h *Hub) Broadcast(tournamentID string, message any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[tournamentID]
	if len(conns) == 0 {
		return
	}

	for clientID, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(message); err != nil {
			metrics.RecordErrorByComponent("ws", "write_failed")
			h.logger.Debug(context.Background(), "evicting client after failed write",
				logger.String("tournament", tournamentID),
				logger.String("client", clientID),
				logger.Error(err),
			)
			_ = conn.Close()
			delete(conns, clientID)
			continue
		}
		metrics.RecordWSBroadcast()
	}
	if len(conns) == 0 {
		delete(h.clients, tournamentID)
	}
	metrics.UpdateWSClients(h.totalLocked())
}

// readLoop drains client frames to keep the connection healthy and
// unsubscribes when the peer goes away.
func (h *Hub) readLoop(tournamentID, clientID string, conn *websocket.Conn) {
	defer h.Remove(tournamentID, clientID)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug(context.Background(), "client read ended",
					logger.String("client", clientID),
					logger.Error(err),
				)
			}
			return
		}
	}
}

// pingLoop keeps the connection alive until it dies. WriteControl is
// safe alongside the hub's WriteJSON calls.
func (h *Hub) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			return
		}
	}
}

// totalLocked counts all connected clients. Caller holds h.mu.
func (h *Hub) totalLocked() int {
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}
