package handlers

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/yourusername/reserved/models"
	"github.com/yourusername/reserved/services"
)

const maxSuggestions = 50

type ReservedHandler struct {
	reg       *services.Registry
	rules     models.ValidationRules
	validator *validator.Validate
}

func NewReservedHandler(reg *services.Registry, rules models.ValidationRules) *ReservedHandler {
	return &ReservedHandler{reg: reg, rules: rules, validator: validator.New()}
}

// errorStatus maps registry errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrUnsupportedFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrFetch):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func (h *ReservedHandler) List(c *fiber.Ctx) error {
	names := h.reg.GetAll()
	if p := c.Query("pattern"); p != "" {
		names = intersect(names, h.reg.GetByPattern(p))
	}
	if p := c.Query("prefix"); p != "" {
		names = intersect(names, h.reg.GetByPrefix(p))
	}
	if s := c.Query("suffix"); s != "" {
		names = intersect(names, h.reg.GetBySuffix(s))
	}
	return c.JSON(fiber.Map{"names": names, "count": len(names)})
}

func intersect(a, b []string) []string {
	keep := make(map[string]struct{}, len(b))
	for _, n := range b {
		keep[n] = struct{}{}
	}
	out := []string{}
	for _, n := range a {
		if _, ok := keep[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

func (h *ReservedHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.reg.GetStats())
}

func (h *ReservedHandler) Get(c *fiber.Ctx) error {
	name := c.Params("name")
	return c.JSON(models.CheckResult{Name: name, IsReserved: h.reg.IsReserved(name)})
}

func (h *ReservedHandler) Suggestions(c *fiber.Ctx) error {
	name := c.Params("name")
	count := c.QueryInt("count", 3)
	if count < 1 || count > maxSuggestions {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "count must be between 1 and 50"})
	}
	return c.JSON(fiber.Map{
		"name":        name,
		"isReserved":  h.reg.IsReserved(name),
		"suggestions": h.reg.SuggestAlternatives(name, count),
	})
}

// Check expects a JSON array of names.
func (h *ReservedHandler) Check(c *fiber.Ctx) error {
	var names []string
	if err := json.Unmarshal(c.Body(), &names); err != nil || names == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Request body must be a JSON array of names"})
	}
	var (
		results []models.CheckResult
		err     error
	)
	if len(names) > services.DefaultBatchSize {
		results, err = services.CheckInBatches(c.UserContext(), h.reg, names, services.DefaultBatchSize)
	} else {
		results, err = h.reg.CheckMultiple(names)
	}
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"results": results})
}

func (h *ReservedHandler) Validate(c *fiber.Ctx) error {
	var req models.ValidateUsernameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}
	rules := h.rules
	if req.Rules != nil {
		rules = *req.Rules
	}
	if err := services.ValidateRules(rules); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rules", "details": err.Error()})
	}
	return c.JSON(h.reg.ValidateUsername(req.Name, rules))
}

func (h *ReservedHandler) Export(c *fiber.Ctx) error {
	format, err := services.ParseFormat(c.Query("format", string(services.FormatJSON)))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	out, err := h.reg.Export(format)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	switch v := out.(type) {
	case []string:
		return c.JSON(v)
	case string:
		switch format {
		case services.FormatCSV:
			c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		case services.FormatTXT:
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		default:
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		}
		return c.SendString(v)
	}
	return fiber.ErrInternalServerError
}

// Register demonstrates RejectReserved in front of a signup-style handler:
// reserved names never reach it, remaining rules are checked here.
func (h *ReservedHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}
	res := h.reg.ValidateUsername(req.Username, h.rules)
	if !res.IsValid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username rejected", "details": res.Errors})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"username": req.Username})
}
