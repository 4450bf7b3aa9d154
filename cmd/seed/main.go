package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/config"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/database"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/logging"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/repository"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/service"
)

// seed writes a fixture forecast for one date so the dashboard and the
// optimizer have something to work with against an empty store.
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logging.Setup()

	date := flag.String("date", "", "prediction date (DD-MM-YYYY, today or tomorrow); defaults to PREDICTION_DEFAULT_DATE")
	optimize := flag.Bool("optimize", false, "run the optimizer after seeding")
	flag.Parse()

	setting := *date
	if setting == "" {
		setting = config.PredictionDefaultDate()
	}
	resolved := service.ResolveDate(setting, time.Now())
	if !service.ValidPredictionDate(resolved) {
		log.Fatal().Str("date", resolved).Msg("date must be DD-MM-YYYY")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := database.Connect(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("store connect failed")
	}
	defer store.Close(context.Background())

	repos := repository.New(store)
	tariffs, solar, usage := service.FixtureForecast(resolved)
	if err := repos.ReplaceForecast(ctx, resolved, tariffs, solar, usage); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Str("date", resolved).Int("hours", len(tariffs)).Msg("forecast seeded")

	if *optimize {
		sched, err := service.NewOptimizerService(repos, config.BatteryCapacityKWh(), nil, nil).Run(ctx, resolved)
		if err != nil {
			log.Fatal().Err(err).Msg("optimizer run failed")
		}
		log.Info().Float64("total_savings", sched.TotalSavings).Msg("savings written")
	}
}
