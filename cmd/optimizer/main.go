package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/cloud"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/config"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/database"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/logging"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/repository"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/scheduler"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/service"
)

const runTimeout = 2 * time.Minute

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
	defer store.Close(context.Background())

	var (
		archive  service.ReportArchive
		notifier service.Notifier
	)
	if config.UseCloudServices() {
		if s3c, err := cloud.NewS3Client(ctx, config.AWSRegion(), config.S3Bucket()); err != nil {
			log.Warn().Err(err).Msg("s3 disabled")
		} else {
			archive = s3c
		}
		if arn := config.SNSTopicArn(); arn != "" {
			if snsc, err := cloud.NewSNSClient(ctx, config.AWSRegion(), arn); err != nil {
				log.Warn().Err(err).Msg("sns disabled")
			} else {
				notifier = snsc
			}
		}
	}

	optimizer := service.NewOptimizerService(repository.New(store), config.BatteryCapacityKWh(), archive, notifier)
	job := func(ctx context.Context) error {
		_, err := optimizer.Run(ctx, service.ResolveDate(config.PredictionDefaultDate(), time.Now()))
		return err
	}

	interval := config.OptimizerInterval()
	if interval == 0 {
		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()
		if err := job(runCtx); err != nil {
			log.Fatal().Err(err).Msg("optimizer run failed")
		}
		return
	}

	sched := scheduler.New("optimizer", interval, runTimeout, job)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	<-ctx.Done()
	log.Info().Msg("optimizer stopped")
}
