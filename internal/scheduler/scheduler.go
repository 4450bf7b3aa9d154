package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler runs a job at a fixed interval, never overlapping with itself.
type Scheduler struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	timeout   time.Duration
	name      string
	job       Job
}

func New(name string, interval, timeout time.Duration, job Job) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		interval:  interval,
		timeout:   timeout,
		name:      name,
		job:       job,
	}
}

// Start schedules the job, runs it once immediately and returns.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(s.runOnce)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	log.Info().Str("job", s.name).Dur("interval", s.interval).Msg("scheduler started")
	return nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.job(ctx); err != nil {
		log.Error().Err(err).Str("job", s.name).Msg("scheduled run failed")
		return
	}
	log.Info().Str("job", s.name).Dur("took", time.Since(start)).Msg("scheduled run completed")
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
