package handler

import (
	"go-bizkeeper/internal/model"
	"go-bizkeeper/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	theme *store.ThemeStore
	log   *zap.Logger
}

func NewSettingsHandler(theme *store.ThemeStore, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{theme: theme, log: log}
}

type settingsRequest struct {
	Theme                *model.Theme `json:"theme"`
	NotificationsEnabled *bool        `json:"notifications_enabled"`
}

func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(h.theme.Get())
}

// UpdateSettings changes the theme and/or the notifications toggle
// PUT /api/v1/settings
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Theme != nil {
		if _, err := h.theme.Set(*req.Theme); err != nil {
			return respondError(c, h.log, err)
		}
	}
	if req.NotificationsEnabled != nil {
		if _, err := h.theme.SetNotifications(*req.NotificationsEnabled); err != nil {
			return respondError(c, h.log, err)
		}
	}
	return c.JSON(fiber.Map{"message": "Settings updated", "data": h.theme.Get()})
}
