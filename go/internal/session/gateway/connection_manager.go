package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/vocabversus/go/internal/session/events"
	"github.com/rs/zerolog/log"
)

// MessageHandler consumes client frames. Frames from one connection are
// handled sequentially, in arrival order.
type MessageHandler interface {
	HandleMessage(ctx context.Context, connectionID string, frame []byte)
	HandleDisconnect(ctx context.Context, connectionID string)
}

// EventMirror receives a copy of every event delivered to a whole game.
type EventMirror interface {
	Publish(event *events.Event)
}

// ConnectionManager owns the websocket connections and the game groups they
// subscribe to. Group changes and deliveries share one queue so they are
// applied in the order they were requested.
type ConnectionManager struct {
	connections     map[string]*Connection
	gameConnections map[string]map[*Connection]bool
	mu              sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	handler MessageHandler
	mirror  EventMirror

	broadcastCh chan BroadcastMessage
	ctx         context.Context
	cancel      context.CancelFunc
	disconnects sync.WaitGroup
}

// Connection represents a WebSocket connection to a client
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	// guarded by Manager.mu
	gameID string

	ConnectedAt time.Time

	closeOnce sync.Once
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	QueueSize       int
	CheckOrigin     func(r *http.Request) bool
}

type messageKind int

const (
	kindGame messageKind = iota
	kindOthers
	kindConnection
	kindSubscribe
	kindUnsubscribe
)

// BroadcastMessage is one queued group change or delivery
type BroadcastMessage struct {
	kind         messageKind
	GameID       string
	ConnectionID string
	Event        *events.Event
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		QueueSize:       1000,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &ConnectionManager{
		connections:     make(map[string]*Connection),
		gameConnections: make(map[string]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan BroadcastMessage, config.QueueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetHandler installs the consumer of client frames. Call before serving.
func (cm *ConnectionManager) SetHandler(handler MessageHandler) {
	cm.handler = handler
}

// SetMirror installs an optional copy target for game-wide events.
func (cm *ConnectionManager) SetMirror(mirror EventMirror) {
	cm.mirror = mirror
}

// Start processes the queue until ctx is cancelled or Stop is called
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case <-cm.ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// Stop closes every connection and waits for their disconnects to be handled.
func (cm *ConnectionManager) Stop() {
	cm.cancel()

	cm.mu.RLock()
	open := make([]*Connection, 0, len(cm.connections))
	for _, conn := range cm.connections {
		open = append(open, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range open {
		conn.Conn.Close()
	}
	cm.disconnects.Wait()
}

// UpgradeConnection upgrades an HTTP connection to WebSocket
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request) (*Connection, error) {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBufferSize),
		Manager:     cm,
		ConnectedAt: time.Now(),
	}

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket connection established")

	return connection, nil
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[conn.ID] = conn
	cm.disconnects.Add(1)

	log.Debug().
		Str("connection_id", conn.ID).
		Int("total_connections", len(cm.connections)).
		Msg("connection registered")
}

// unregisterConnection removes a connection from the manager and hands its
// loss to the message handler. Safe to call more than once.
func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	conn.closeOnce.Do(func() {
		cm.mu.Lock()
		delete(cm.connections, conn.ID)
		if members, exists := cm.gameConnections[conn.gameID]; exists {
			delete(members, conn)
			if len(members) == 0 {
				delete(cm.gameConnections, conn.gameID)
			}
		}
		close(conn.Send)
		cm.mu.Unlock()

		log.Info().Str("connection_id", conn.ID).Msg("connection unregistered")

		// the handler may queue group changes; never run it on the broadcast loop
		go func() {
			defer cm.disconnects.Done()
			if cm.handler != nil {
				cm.handler.HandleDisconnect(context.Background(), conn.ID)
			}
		}()
	})
}

func (cm *ConnectionManager) enqueue(message BroadcastMessage) {
	select {
	case cm.broadcastCh <- message:
	case <-cm.ctx.Done():
		log.Debug().Str("game_id", message.GameID).Msg("connection manager stopped, dropping message")
	}
}

// Subscribe adds a connection to a game's group
func (cm *ConnectionManager) Subscribe(gameID, connectionID string) {
	cm.enqueue(BroadcastMessage{kind: kindSubscribe, GameID: gameID, ConnectionID: connectionID})
}

// Unsubscribe removes a connection from a game's group
func (cm *ConnectionManager) Unsubscribe(gameID, connectionID string) {
	cm.enqueue(BroadcastMessage{kind: kindUnsubscribe, GameID: gameID, ConnectionID: connectionID})
}

// BroadcastToGame sends an event to every connection of a game
func (cm *ConnectionManager) BroadcastToGame(gameID string, event *events.Event) {
	cm.enqueue(BroadcastMessage{kind: kindGame, GameID: gameID, Event: event})
}

// BroadcastToOthers sends an event to every connection of a game except one
func (cm *ConnectionManager) BroadcastToOthers(gameID, exceptConnectionID string, event *events.Event) {
	cm.enqueue(BroadcastMessage{kind: kindOthers, GameID: gameID, ConnectionID: exceptConnectionID, Event: event})
}

// SendToConnection sends an event to a single connection
func (cm *ConnectionManager) SendToConnection(connectionID string, event *events.Event) {
	cm.enqueue(BroadcastMessage{kind: kindConnection, ConnectionID: connectionID, Event: event})
}

func (cm *ConnectionManager) handleBroadcast(message BroadcastMessage) {
	switch message.kind {
	case kindSubscribe:
		cm.subscribe(message.GameID, message.ConnectionID)
		return
	case kindUnsubscribe:
		cm.unsubscribe(message.GameID, message.ConnectionID)
		return
	}

	if message.kind == kindGame && cm.mirror != nil {
		cm.mirror.Publish(message.Event)
	}

	eventData, err := json.Marshal(message.Event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	// sends happen under the read lock so a connection cannot be closed mid-send
	cm.mu.RLock()
	targets := cm.targets(message)
	var slow []*Connection
	for _, conn := range targets {
		select {
		case conn.Send <- eventData:
		default:
			slow = append(slow, conn)
		}
	}
	cm.mu.RUnlock()

	for _, conn := range slow {
		log.Warn().
			Str("connection_id", conn.ID).
			Msg("connection send buffer full, closing connection")
		cm.unregisterConnection(conn)
		conn.Conn.Close()
	}

	log.Debug().
		Str("event_type", string(message.Event.Type)).
		Str("game_id", message.GameID).
		Int("connections", len(targets)).
		Msg("event broadcasted")
}

// targets resolves the recipients of message. Caller holds cm.mu.
func (cm *ConnectionManager) targets(message BroadcastMessage) []*Connection {
	if message.kind == kindConnection {
		if conn, ok := cm.connections[message.ConnectionID]; ok {
			return []*Connection{conn}
		}
		return nil
	}

	var targets []*Connection
	for conn := range cm.gameConnections[message.GameID] {
		if message.kind == kindOthers && conn.ID == message.ConnectionID {
			continue
		}
		targets = append(targets, conn)
	}
	return targets
}

func (cm *ConnectionManager) subscribe(gameID, connectionID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	conn, ok := cm.connections[connectionID]
	if !ok {
		return
	}
	if members, exists := cm.gameConnections[conn.gameID]; exists && conn.gameID != gameID {
		delete(members, conn)
	}
	if cm.gameConnections[gameID] == nil {
		cm.gameConnections[gameID] = make(map[*Connection]bool)
	}
	cm.gameConnections[gameID][conn] = true
	conn.gameID = gameID
}

func (cm *ConnectionManager) unsubscribe(gameID, connectionID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	members, exists := cm.gameConnections[gameID]
	if !exists {
		return
	}
	for conn := range members {
		if conn.ID != connectionID {
			continue
		}
		delete(members, conn)
		conn.gameID = ""
	}
	if len(members) == 0 {
		delete(cm.gameConnections, gameID)
	}
}

// GetConnectionStats returns statistics about active connections
func (cm *ConnectionManager) GetConnectionStats() map[string]interface{} {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	gameCounts := make(map[string]int, len(cm.gameConnections))
	for gameID, members := range cm.gameConnections {
		gameCounts[gameID] = len(members)
	}

	return map[string]interface{}{
		"total_connections": len(cm.connections),
		"active_games":      len(cm.gameConnections),
		"game_connections":  gameCounts,
	}
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		if c.Manager.handler != nil {
			c.Manager.handler.HandleMessage(c.Manager.ctx, c.ID, message)
		}
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
