package app

import (
	"fmt"
	"strings"

	"hirepulse/internal/delivery/http/handler"
	"hirepulse/internal/delivery/http/middleware"
	"hirepulse/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

// NewHTTPApp builds the fiber app serving the web-form API.
func NewHTTPApp(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	errMw := middleware.NewErrorMiddleware(c.Log)
	f.Use(errMw.Middleware())

	f.Get("/health", func(ctx fiber.Ctx) error {
		return response.Success(ctx, fiber.StatusOK, response.MessageOK, nil)
	})

	api := f.Group("/api")
	authMw := middleware.NewWebTokenMiddleware(c.WebTokens)
	api.Use(authMw.Middleware())

	handler.NewPreferenceHandler(c.Preferences).RegisterRoutes(api)
	handler.NewMatchHandler(c.Matcher, c.Cache).RegisterRoutes(api)
	handler.NewSurveyHandler(c.Questions, c.TagDir).RegisterRoutes(api)

	return &App{Fiber: f}
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
