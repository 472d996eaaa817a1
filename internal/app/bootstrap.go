package app

import (
	"context"
	"fmt"
	"strings"

	"fin-advisor/internal/config"
	"fin-advisor/internal/delivery/http/handler"
	"fin-advisor/internal/delivery/http/middleware"
	"fin-advisor/internal/delivery/http/routes"
	"fin-advisor/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container

	stopBroadcast context.CancelFunc
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:   c.Config.App.AppName,
		BodyLimit: 20 << 20,
	})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	app := New(c)
	app.startBackground()

	cleanup := func() error {
		if app.stopBroadcast != nil {
			app.stopBroadcast()
		}
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(f *fiber.App, c *Container) {
	if f == nil {
		return
	}

	f.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
}

func registerRoutes(f *fiber.App, c *Container) {
	if f == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(c.JWT)
	gateMw := middleware.NewOnboardingGateMiddleware(c.Onboarding)

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB),
		handler.NewAuthHandler(c.Auth),
		handler.NewOnboardingHandler(c.Onboarding),
		handler.NewChatHandler(c.Chat),
		handler.NewToolsHandler(),
		handler.NewStatusHandler(c.Status),
		authMw,
		gateMw,
	)
	registry.Register(f)

	wsHandler := ws.NewHandler(c.Hub, c.Logger)
	f.Get("/ws/status", wsHandler.HandleStatusWS)
}

// startBackground runs the hub and the periodic status broadcast for
// connected dashboard clients.
func (a *App) startBackground() {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopBroadcast = cancel

	go a.Container.Hub.Run()

	broadcaster := ws.NewStatusBroadcaster(
		a.Container.Hub,
		a.Container.Status,
		a.Container.Config.Advisor.StatusCacheTTL,
		a.Container.Logger,
	)
	go broadcaster.Run(ctx)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
