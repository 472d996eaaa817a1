package routes

import "github.com/gofiber/fiber/v3"

func (r *Registry) registerV1(v1 fiber.Router) {
	if v1 == nil {
		return
	}

	r.auth.RegisterRoutes(v1.Group("/auth"))

	protected := v1.Group("", r.authMw.Middleware())

	// Onboarding stays reachable before the profile exists; everything the
	// advisor serves sits behind the completed-profile gate.
	r.onboarding.RegisterRoutes(protected.Group("/onboarding"))
	r.status.RegisterRoutes(protected.Group("/advisor"))

	gated := protected.Group("", r.gateMw.Middleware())
	r.chat.RegisterRoutes(gated.Group("/chat"))
	r.tools.RegisterRoutes(gated.Group("/tools"))
}
