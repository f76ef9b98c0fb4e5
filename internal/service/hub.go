package service

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"

	"github.com/AnikethTS/citadel-backend-v2/internal/metrics"
	"github.com/AnikethTS/citadel-backend-v2/internal/model"
)

// Client is one live relay connection. It has no identity beyond the
// transport: when the socket closes the client is gone.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub tracks connected clients and fans events out to them. Delivery is
// best-effort: a client whose send buffer is full is dropped rather than
// allowed to block delivery to everyone else.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	done       chan struct{}
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			metrics.ConnectedSessions.Set(float64(total))
			h.log.Info().Int("total", total).Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.ConnectedSessions.Set(float64(total))
			h.log.Info().Int("total", total).Msg("client disconnected")

		case <-h.done:
			return
		}
	}
}

func (h *Hub) Shutdown() {
	close(h.done)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast delivers an event to every connected client, the sender of the
// triggering event included. Used for update_messages so every client
// converges on the same log.
func (h *Hub) Broadcast(event model.Event) {
	h.send(nil, event)
}

// BroadcastExcept delivers an event to every connected client except the
// one it originated from. A nil sender delivers to all.
func (h *Hub) BroadcastExcept(sender *Client, event model.Event) {
	h.send(sender, event)
}

func (h *Hub) send(skip *Client, event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Str("type", event.Type).Msg("marshal event")
		return
	}
	metrics.EventsRelayed.WithLabelValues(event.Type).Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client == skip {
			continue
		}
		select {
		case client.Send <- data:
		default:
		}
	}
}

func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
