package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/config"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/database"
	httpHandlers "github.com/solar-dashboard/solar-dashboard-backend/internal/http"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/logging"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logging.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.Connect(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("store connect failed")
	}

	svcs := service.New(store, config.PredictionDefaultDate())

	opts := httpHandlers.Options{
		AllowOrigins:  config.CORSAllowOrigins(),
		EmptyNotFound: config.EmptyNotFound,
	}
	if config.IsProduction() {
		opts.StaticDir = config.StaticDir()
	}
	app := httpHandlers.New(svcs, opts)

	addr := config.APIAddr()
	go func() {
		log.Info().Str("addr", addr).Msg("api listening")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("server exit")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("store close failed")
		os.Exit(1)
	}
	log.Info().Msg("api stopped")
}
