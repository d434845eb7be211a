package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"random-coffee/internal/config"
	"random-coffee/internal/delivery/http/handler"
	"random-coffee/internal/delivery/http/middleware"
	"random-coffee/internal/delivery/http/routes"
	"random-coffee/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Config, c.Logger)

	reg := &routes.Registry{
		Health:         handler.NewHealthHandler(c.DB),
		Auth:           handler.NewAuthHandler(c.Auth),
		Stats:          handler.NewStatsHandler(c.Admin),
		Schedule:       handler.NewScheduleHandler(c.Trigger),
		Matching:       handler.NewMatchingHandler(c.Trigger),
		EmailTemplates: handler.NewEmailTemplateHandler(c.Admin),
		WS:             ws.NewHandler(c.Hub, c.Auth, ws.HandlerOptions{AllowedOrigins: c.Config.App.CORSAllowOrigins}, c.Logger),
		AuthMiddleware: middleware.NewAuthMiddleware(c.Auth),
	}
	reg.Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container and HTTP app. The returned cleanup closes
// the database and cache connections.
func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

// StartBackground runs the websocket hub and the scheduler until ctx is done.
func (a *App) StartBackground(ctx context.Context) {
	go a.Container.Hub.Run(ctx)
	go a.Container.Scheduler.Run(ctx)
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *log.Logger) {
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CORSAllowOrigins,
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodOptions},
	}))
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
