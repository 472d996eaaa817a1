package middleware

import (
	"fin-advisor/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// OnboardingGateMiddleware blocks authenticated routes until the profile
// wizard has been completed. Must run after AuthMiddleware.
type OnboardingGateMiddleware struct {
	onboarding usecase.OnboardingUsecase
}

func NewOnboardingGateMiddleware(onboarding usecase.OnboardingUsecase) *OnboardingGateMiddleware {
	return &OnboardingGateMiddleware{onboarding: onboarding}
}

func (m *OnboardingGateMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		if !m.onboarding.IsComplete(c.Context(), userID) {
			return NewAppError(fiber.StatusForbidden, "onboarding_required", nil, nil)
		}

		return c.Next()
	}
}
