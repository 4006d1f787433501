package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

const (
	EntityChore = "chore"
	EntityUser  = "user"
)

const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionReprioritized = "reprioritized"
	ActionReassigned    = "reassigned"
	ActionReopened      = "reopened"
)

// Event tells connected clients that data changed and should be refetched.
type Event struct {
	Type    string  `json:"type"`
	Entity  string  `json:"entity"`
	Action  string  `json:"action"`
	ID      int64   `json:"id,omitempty"`
	IDs     []int64 `json:"ids,omitempty"`
	ActorID int64   `json:"actorId,omitempty"`
}

// NewEvent builds an Event whose Type is "<entity>_<action>".
func NewEvent(entity, action string, id, actorID int64) Event {
	return Event{
		Type:    entity + "_" + action,
		Entity:  entity,
		Action:  action,
		ID:      id,
		ActorID: actorID,
	}
}

// Hub tracks connected clients and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("client connected", "user_id", c.userID)
}

// Unregister removes c and closes its send channel. It is safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Publish sends ev to every client. Clients whose buffer is full miss it.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("event dropped for slow clients", "type", ev.Type, "clients", dropped)
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
