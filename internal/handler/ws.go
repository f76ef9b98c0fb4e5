package handler

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/AnikethTS/citadel-backend-v2/internal/model"
	"github.com/AnikethTS/citadel-backend-v2/internal/service"
)

type WSHandler struct {
	hub        *service.Hub
	dispatcher *service.Dispatcher
	log        zerolog.Logger
}

func NewWSHandler(hub *service.Hub, dispatcher *service.Dispatcher, log zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, dispatcher: dispatcher, log: log}
}

func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(h.handleConnection)(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	client := &service.Client{
		Conn: c,
		Send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	// Writer goroutine: drains the hub fan-out. The reader loop below owns
	// the connection lifetime; when it returns the hub closes Send and the
	// writer exits.
	go func() {
		defer c.Close()
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}()

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}

		var event model.Event
		if err := json.Unmarshal(msg, &event); err != nil {
			h.log.Warn().Err(err).Msg("malformed event frame")
			continue
		}

		h.dispatcher.Dispatch(client, event)
	}
}
