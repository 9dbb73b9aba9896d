package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/yourusername/reserved/middleware"
	"github.com/yourusername/reserved/services"
	"go.uber.org/zap"
)

type AdminHandler struct {
	reg *services.Registry
	log *zap.SugaredLogger
}

func NewAdminHandler(reg *services.Registry, log *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{reg: reg, log: log}
}

// Import merges the request body, encoded as ?format=, into the set.
func (h *AdminHandler) Import(c *fiber.Ctx) error {
	format, err := services.ParseFormat(c.Query("format", string(services.FormatJSON)))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	var payload any = string(c.Body())
	if format == services.FormatArray {
		var names []string
		if err := json.Unmarshal(c.Body(), &names); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Request body must be a JSON array of names"})
		}
		payload = names
	}
	n, err := h.reg.Import(payload, format)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	h.log.Infow("reserved names imported", "operator", middleware.GetOperator(c), "format", format, "count", n)
	return c.JSON(fiber.Map{"imported": n, "total": h.reg.Count()})
}

func (h *AdminHandler) Refresh(c *fiber.Ctx) error {
	count, err := h.reg.ForceUpdate(c.UserContext())
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error(), "total": count})
	}
	h.log.Infow("reserved list refreshed on request", "operator", middleware.GetOperator(c), "count", count)
	return c.JSON(fiber.Map{"total": count})
}

func (h *AdminHandler) ClearCache(c *fiber.Ctx) error {
	deleted := h.reg.ClearCache(c.UserContext())
	h.log.Infow("reserved cache clear requested", "operator", middleware.GetOperator(c), "deleted", deleted)
	return c.JSON(fiber.Map{"deleted": deleted})
}
