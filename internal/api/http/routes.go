package httpapi

import (
	"errors"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/weather-mcp/internal/mcp"
	"github.com/i474232898/weather-mcp/internal/weather"
)

// SessionHeader carries the MCP session id assigned on initialize.
const SessionHeader = "Mcp-Session-Id"

// NewApp builds the Fiber app serving the health check, the MCP endpoint and
// the REST routes.
func NewApp(service *weather.Service, server *mcp.Server, log *zap.Logger) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "mcp-weather",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(logger.New(logger.Config{Output: os.Stderr}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "mcp-weather",
		})
	})

	RegisterMCP(app, server)
	RegisterRoutes(app, service)
	return app
}

// errorHandler renders every error as {"error": true, "message": ...}.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}
}

// RegisterMCP serves JSON-RPC messages posted to /mcp. Notifications are
// acknowledged with 202 and no body.
func RegisterMCP(app *fiber.App, server *mcp.Server) {
	app.Post("/mcp", func(c *fiber.Ctx) error {
		body := c.Body()

		session := c.Get(SessionHeader)
		if mcp.MethodOf(body) == "initialize" {
			session = uuid.NewString()
		}
		if session != "" {
			c.Set(SessionHeader, session)
		}

		out := server.HandleMessage(c.UserContext(), body)
		if out == nil {
			return c.SendStatus(fiber.StatusAccepted)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(out)
	})
}

// RegisterRoutes wires the REST handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/hourly", func(c *fiber.Ctx) error {
		location := c.Query("location")
		units := weather.Units(c.Query("units", string(weather.Imperial)))

		resp, err := service.GetHourlyWeather(c.UserContext(), location, units)
		if err != nil {
			return fiber.NewError(statusFor(err), err.Error())
		}
		return c.JSON(resp)
	})

	v1.Delete("/weather/cache", func(c *fiber.Ctx) error {
		source := c.Query("source", string(weather.SourceAccuWeather))
		return c.JSON(fiber.Map{
			"message": service.ClearCache(source),
		})
	})
}

// statusFor maps a weather error kind to an HTTP status.
func statusFor(err error) int {
	switch weather.KindOf(err) {
	case weather.KindInvalidArgument:
		return fiber.StatusBadRequest
	case weather.KindNotFound:
		return fiber.StatusNotFound
	case weather.KindTransientUnavailable:
		return fiber.StatusServiceUnavailable
	case weather.KindAuth, weather.KindUpstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
