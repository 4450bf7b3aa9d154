package http

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/metrics"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/service"
)

const healthTimeout = 2 * time.Second

type Options struct {
	AllowOrigins  string
	StaticDir     string // served under / when set
	EmptyNotFound func(route string) bool
}

// New builds the API app: middleware, ops routes, dashboard routes, static
// assets and the JSON 404 for everything else.
func New(svcs *service.Services, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "solar-dashboard-backend",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          errorHandler,
	})

	useMiddleware(app, opts)

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := svcs.Records.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			return c.Status(fiber.StatusServiceUnavailable).SendString("store unavailable")
		}
		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	Register(app, svcs.Records, opts.EmptyNotFound)

	if opts.StaticDir != "" {
		app.Static("/", opts.StaticDir)
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Route not found"})
	})
	return app
}

// useMiddleware installs the request logger outermost so recovered panics are
// logged and counted like any other 500.
func useMiddleware(app *fiber.App, opts Options) {
	app.Use(requestLogger())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: opts.AllowOrigins}))
}

// errorHandler renders errors that escape a handler. Internal detail is
// logged, never returned.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	if code == fiber.StatusNotFound {
		msg = "Route not found"
	}
	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the error handler set the final status before we log it
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		status := c.Response().StatusCode()
		metrics.HTTPResponses.WithLabelValues(c.Route().Path, strconv.Itoa(status)).Inc()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Msg("http request")
		return err
	}
}
