package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ConnectionManager fans club events out to WebSocket clients, pooled per
// league.
type ConnectionManager struct {
	leagueConnections map[uuid.UUID]map[*Connection]bool
	mu                sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan BroadcastMessage
}

// Connection is one WebSocket client subscribed to a league.
type Connection struct {
	ID       string
	UserID   string
	LeagueID uuid.UUID
	Conn     *websocket.Conn
	Send     chan []byte
	Manager  *ConnectionManager

	ConnectedAt time.Time
}

// ConnectionConfig holds WebSocket connection settings.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// BroadcastMessage is one event addressed to a league's connections.
type BroadcastMessage struct {
	LeagueID uuid.UUID
	Data     []byte
}

// DefaultConnectionConfig returns default WebSocket settings.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

// NewConnectionManager creates a connection manager.
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		leagueConnections: make(map[uuid.UUID]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan BroadcastMessage, 1000),
	}
}

// Start processes broadcast messages until the context is cancelled.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("gateway connection manager started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("gateway connection manager shutting down")
			return
		case msg := <-cm.broadcastCh:
			cm.handleBroadcast(msg)
		}
	}
}

// Broadcast queues an event for every connection watching the league.
func (cm *ConnectionManager) Broadcast(leagueID uuid.UUID, data []byte) {
	select {
	case cm.broadcastCh <- BroadcastMessage{LeagueID: leagueID, Data: data}:
	default:
		log.Warn().Str("league_id", leagueID.String()).Msg("broadcast channel full, dropping event")
	}
}

// UpgradeConnection upgrades an HTTP request to a WebSocket subscription.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, userID string, leagueID uuid.UUID) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c := &Connection{
		ID:          uuid.New().String(),
		UserID:      userID,
		LeagueID:    leagueID,
		Conn:        conn,
		Send:        make(chan []byte, 64),
		Manager:     cm,
		ConnectedAt: time.Now(),
	}

	cm.mu.Lock()
	if cm.leagueConnections[leagueID] == nil {
		cm.leagueConnections[leagueID] = make(map[*Connection]bool)
	}
	cm.leagueConnections[leagueID][c] = true
	cm.mu.Unlock()

	go c.writePump()
	go c.readPump()

	log.Info().
		Str("connection_id", c.ID).
		Str("league_id", leagueID.String()).
		Msg("websocket client connected")
	return nil
}

// ConnectionCount returns the number of open connections.
func (cm *ConnectionManager) ConnectionCount() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	n := 0
	for _, conns := range cm.leagueConnections {
		n += len(conns)
	}
	return n
}

func (cm *ConnectionManager) handleBroadcast(msg BroadcastMessage) {
	cm.mu.RLock()
	conns := make([]*Connection, 0, len(cm.leagueConnections[msg.LeagueID]))
	for c := range cm.leagueConnections[msg.LeagueID] {
		conns = append(conns, c)
	}
	cm.mu.RUnlock()

	for _, c := range conns {
		select {
		case c.Send <- msg.Data:
		default:
			log.Warn().Str("connection_id", c.ID).Msg("send buffer full, closing slow connection")
			cm.remove(c)
		}
	}
}

func (cm *ConnectionManager) remove(c *Connection) {
	cm.mu.Lock()
	if conns, ok := cm.leagueConnections[c.LeagueID]; ok {
		if conns[c] {
			delete(conns, c)
			close(c.Send)
		}
		if len(conns) == 0 {
			delete(cm.leagueConnections, c.LeagueID)
		}
	}
	cm.mu.Unlock()
	_ = c.Conn.Close()
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.Manager.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Manager.remove(c)
				return
			}
		}
	}
}

func (c *Connection) readPump() {
	defer c.Manager.remove(c)
	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	for {
		// Clients only listen; reads exist to detect close and pongs.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
