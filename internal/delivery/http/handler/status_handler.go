package handler

import (
	"fin-advisor/internal/delivery/http/middleware"
	"fin-advisor/internal/pkg/response"
	"fin-advisor/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type StatusHandler struct {
	uc usecase.StatusUsecase
}

func NewStatusHandler(uc usecase.StatusUsecase) *StatusHandler {
	return &StatusHandler{uc: uc}
}

func (h *StatusHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/status", h.GetStatus)
}

func (h *StatusHandler) GetStatus(c fiber.Ctx) error {
	st, err := h.uc.SystemStatus(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Advisor platform unreachable", nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}
