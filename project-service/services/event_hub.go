package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type EventType string

const (
	EventProjectCreated EventType = "project.created"
	EventProjectUpdated EventType = "project.updated"
	EventProjectDeleted EventType = "project.deleted"
)

// ProjectEvent is pushed to every subscriber of the event's organization.
type ProjectEvent struct {
	Type           EventType `json:"type"`
	OrganizationID uuid.UUID `json:"organizationId"`
	ProjectID      uuid.UUID `json:"projectId"`
	ActorID        uuid.UUID `json:"actorId"`
	Timestamp      time.Time `json:"timestamp"`
}

// EventPublisher delivers project events on a best-effort basis.
type EventPublisher interface {
	Publish(event ProjectEvent)
}

type NopPublisher struct{}

func (NopPublisher) Publish(ProjectEvent) {}

type controlMessage struct {
	Type           string    `json:"type"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Timestamp      time.Time `json:"timestamp"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

type eventClient struct {
	orgID  uuid.UUID
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
}

// EventHub fans project events out to WebSocket subscribers grouped by
// organization. A single goroutine (Run) owns the subscriber set.
type EventHub struct {
	upgrader   websocket.Upgrader
	clients    map[uuid.UUID]map[*eventClient]struct{}
	mutex      sync.RWMutex
	register   chan *eventClient
	unregister chan *eventClient
	pings      chan *eventClient
	broadcast  chan ProjectEvent
	done       chan struct{}
	logger     *slog.Logger
}

func NewEventHub(allowedOrigins []string, logger *slog.Logger) *EventHub {
	if logger == nil {
		logger = slog.Default()
	}
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &EventHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if _, ok := allowed[origin]; ok {
					return true
				}
				logger.Warn("WebSocket connection rejected", slog.String("origin", origin))
				return false
			},
		},
		clients:    make(map[uuid.UUID]map[*eventClient]struct{}),
		register:   make(chan *eventClient, 100),
		unregister: make(chan *eventClient, 100),
		pings:      make(chan *eventClient, 100),
		broadcast:  make(chan ProjectEvent, 1000),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *EventHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case client := <-h.pings:
			if h.isRegistered(client) {
				h.sendControl(client, controlMessage{Type: "pong", OrganizationID: client.orgID, Timestamp: time.Now().UTC()})
			}

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Publish queues event without blocking. Events are dropped when the queue is full.
func (h *EventHub) Publish(event ProjectEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("Event queue full, dropping event",
			slog.String("type", string(event.Type)), slog.String("project_id", event.ProjectID.String()))
	}
}

// ConnectionCount returns the number of subscribers for orgID.
func (h *EventHub) ConnectionCount(orgID uuid.UUID) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[orgID])
}

// Serve upgrades the request and streams events for actor's organization
// until the connection closes.
func (h *EventHub) Serve(w http.ResponseWriter, r *http.Request, actor Actor) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &eventClient{
		orgID:  actor.OrganizationID,
		userID: actor.UserID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}

	select {
	case h.register <- client:
	case <-h.done:
		return conn.Close()
	}

	go client.writePump()
	h.readPump(client)
	return nil
}

func (h *EventHub) registerClient(client *eventClient) {
	h.mutex.Lock()
	subscribers, ok := h.clients[client.orgID]
	if !ok {
		subscribers = make(map[*eventClient]struct{})
		h.clients[client.orgID] = subscribers
	}
	subscribers[client] = struct{}{}
	count := len(subscribers)
	h.mutex.Unlock()

	h.logger.Debug("WebSocket client connected",
		slog.String("user_id", client.userID.String()),
		slog.String("organization_id", client.orgID.String()),
		slog.Int("connections", count))

	h.sendControl(client, controlMessage{
		Type:           "connection",
		OrganizationID: client.orgID,
		Timestamp:      time.Now().UTC(),
	})
}

func (h *EventHub) isRegistered(client *eventClient) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	_, ok := h.clients[client.orgID][client]
	return ok
}

// removeClient must only be called from Run.
func (h *EventHub) removeClient(client *eventClient) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	subscribers, ok := h.clients[client.orgID]
	if !ok {
		return
	}
	if _, ok := subscribers[client]; !ok {
		return
	}
	delete(subscribers, client)
	if len(subscribers) == 0 {
		delete(h.clients, client.orgID)
	}
	close(client.send)
}

func (h *EventHub) broadcastEvent(event ProjectEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode project event", slog.Any("error", err))
		return
	}

	h.mutex.RLock()
	var slow []*eventClient
	for client := range h.clients[event.OrganizationID] {
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mutex.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Dropping slow WebSocket client", slog.String("user_id", client.userID.String()))
		h.removeClient(client)
	}
}

func (h *EventHub) sendControl(client *eventClient, msg controlMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case client.send <- data:
	default:
	}
}

func (h *EventHub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for orgID, subscribers := range h.clients {
		for client := range subscribers {
			close(client.send)
		}
		delete(h.clients, orgID)
	}
}

func (h *EventHub) readPump(client *eventClient) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
		client.conn.Close()
	}()

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var message map[string]interface{}
		if err := client.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("WebSocket read failed", slog.String("user_id", client.userID.String()), slog.Any("error", err))
			}
			return
		}

		if msgType, ok := message["type"].(string); ok && msgType == "ping" {
			select {
			case h.pings <- client:
			case <-h.done:
				return
			}
		}
	}
}

// writePump owns all writes to the connection.
func (c *eventClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
