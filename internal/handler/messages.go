package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/AnikethTS/citadel-backend-v2/internal/repository"
)

type MessageHandler struct {
	messages *repository.MessageLog
	log      zerolog.Logger
}

func NewMessageHandler(messages *repository.MessageLog, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, log: log}
}

func (h *MessageHandler) Index(c *fiber.Ctx) error {
	return c.SendString("Citadel Messaging Server is Live!")
}

// GetMessages returns the full ordered history.
// GET /get_messages
func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	msgs, err := h.messages.ReadAll()
	if err != nil {
		h.log.Error().Err(err).Msg("load message log")
		return c.Status(500).JSON(fiber.Map{"error": "failed to load messages"})
	}
	return c.JSON(msgs)
}
