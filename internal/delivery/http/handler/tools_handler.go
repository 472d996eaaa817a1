package handler

import (
	"errors"

	"fin-advisor/internal/calc"
	"fin-advisor/internal/delivery/http/middleware"
	"fin-advisor/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// ToolsHandler exposes the calculators that run locally instead of going
// through the advisor platform.
type ToolsHandler struct{}

type calculateRequest struct {
	CalculationType string         `json:"calculation_type"`
	Parameters      map[string]any `json:"parameters"`
}

func NewToolsHandler() *ToolsHandler {
	return &ToolsHandler{}
}

func (h *ToolsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/calculate", h.Calculate)
}

func (h *ToolsHandler) Calculate(c fiber.Ctx) error {
	var req calculateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	res, err := calc.Calculate(req.CalculationType, req.Parameters)
	if err != nil {
		if errors.Is(err, calc.ErrUnknownType) {
			return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
		}
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, err.Error(), nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
