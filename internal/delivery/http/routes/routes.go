package routes

import (
	"fin-advisor/internal/delivery/http/handler"
	"fin-advisor/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health     *handler.HealthHandler
	auth       *handler.AuthHandler
	onboarding *handler.OnboardingHandler
	chat       *handler.ChatHandler
	tools      *handler.ToolsHandler
	status     *handler.StatusHandler

	authMw *middleware.AuthMiddleware
	gateMw *middleware.OnboardingGateMiddleware
}

func NewRegistry(
	health *handler.HealthHandler,
	auth *handler.AuthHandler,
	onboarding *handler.OnboardingHandler,
	chat *handler.ChatHandler,
	tools *handler.ToolsHandler,
	status *handler.StatusHandler,
	authMw *middleware.AuthMiddleware,
	gateMw *middleware.OnboardingGateMiddleware,
) *Registry {
	return &Registry{
		health:     health,
		auth:       auth,
		onboarding: onboarding,
		chat:       chat,
		tools:      tools,
		status:     status,
		authMw:     authMw,
		gateMw:     gateMw,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.registerV1(app.Group("/api").Group("/v1"))
}
