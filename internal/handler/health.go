package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnikethTS/citadel-backend-v2/internal/repository"
	"github.com/AnikethTS/citadel-backend-v2/internal/service"
)

type HealthHandler struct {
	messages *repository.MessageLog
	hub      *service.Hub
}

func NewHealthHandler(messages *repository.MessageLog, hub *service.Hub) *HealthHandler {
	return &HealthHandler{messages: messages, hub: hub}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "sessions": h.hub.OnlineCount()})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if _, err := h.messages.ReadAll(); err != nil {
		return c.Status(503).JSON(fiber.Map{"status": "not ready", "error": "message log unreadable"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
