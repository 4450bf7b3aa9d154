package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/cloud"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/metrics"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/repository"
)

const hoursPerDay = 24

const (
	SourceSolar = "Solar"
	SourceGrid  = "Grid"

	ModeSolar  = "Solar"
	ModeNormal = "Normal"
)

// ErrIncompleteForecast means the predicted inputs for a date do not cover
// every hour of the day.
var ErrIncompleteForecast = errors.New("incomplete forecast")

// ReportArchive stores a finished schedule report and returns where it lives.
type ReportArchive interface {
	UploadReport(ctx context.Context, key string, data []byte) (string, error)
}

// Notifier announces a finished schedule.
type Notifier interface {
	Publish(ctx context.Context, subject, message string) error
}

type ScheduleEntry struct {
	Hour                    int     `json:"hour"`
	Appliance               string  `json:"appliance"`
	OptimalSource           string  `json:"optimal_source"`
	Consumption             float64 `json:"consumption"`
	CostWithoutOptimization float64 `json:"cost_without_optimization"`
	CostWithOptimization    float64 `json:"cost_with_optimization"`
}

type Schedule struct {
	Date         string           `json:"date"`
	Entries      []ScheduleEntry  `json:"schedule"`
	TotalSavings float64          `json:"total_savings"`
	Hourly       []domain.Savings `json:"hourly"`
}

// SolarHours counts the hours that ran at least one appliance on solar.
func (s *Schedule) SolarHours() int {
	n := 0
	for _, h := range s.Hourly {
		if h.CurrentMode == ModeSolar {
			n++
		}
	}
	return n
}

// Optimize walks the day hour by hour and decides, per appliance, whether the
// battery plus that hour's solar generation can cover it. The battery starts
// empty and never holds more than capacity kWh.
func Optimize(tariffs []domain.PredictedTariff, solar []domain.PredictedSolarEnergy, usage domain.Appliances, capacity float64) (*Schedule, error) {
	tariffAt := make(map[int]float64, hoursPerDay)
	for _, t := range tariffs {
		tariffAt[t.Hour] = t.Tariff
	}
	solarAt := make(map[int]float64, hoursPerDay)
	for _, s := range solar {
		solarAt[s.Hour] = s.SolarEnergyGeneration
	}
	for h := 0; h < hoursPerDay; h++ {
		if _, ok := tariffAt[h]; !ok {
			return nil, fmt.Errorf("%w: no tariff for hour %d", ErrIncompleteForecast, h)
		}
		if _, ok := solarAt[h]; !ok {
			return nil, fmt.Errorf("%w: no solar generation for hour %d", ErrIncompleteForecast, h)
		}
	}

	out := &Schedule{}
	battery := 0.0

	for h := 0; h < hoursPerDay; h++ {
		tariff, generation := tariffAt[h], solarAt[h]
		hour := domain.Savings{
			Hour:            domain.HourRange(h),
			CurrentMode:     ModeNormal,
			ScheduledDevice: domain.DefaultScheduledDevice,
		}
		largestSolar := 0.0

		for _, a := range usage.Usage() {
			if a.KWh == 0 {
				continue
			}

			entry := ScheduleEntry{
				Hour:                    h,
				Appliance:               a.Name,
				Consumption:             a.KWh,
				CostWithoutOptimization: a.KWh * tariff,
			}
			if battery+generation >= a.KWh {
				entry.OptimalSource = SourceSolar
				battery = min(battery+generation-a.KWh, capacity)

				hour.CurrentMode = ModeSolar
				if a.KWh > largestSolar {
					largestSolar = a.KWh
					hour.ScheduledDevice = a.Name
				}
			} else {
				entry.OptimalSource = SourceGrid
				entry.CostWithOptimization = (a.KWh - (battery + generation)) * tariff
				battery = 0
			}

			saved := entry.CostWithoutOptimization - entry.CostWithOptimization
			hour.Savings += saved
			out.TotalSavings += saved
			out.Entries = append(out.Entries, entry)
		}

		hour.RemainingBattery = battery
		if capacity > 0 {
			hour.BatteryLevel = min(max(battery/capacity*100, 0), 100)
		}
		out.Hourly = append(out.Hourly, hour)
	}
	return out, nil
}

// OptimizerService turns the forecasts of a day into the savings collection.
type OptimizerService struct {
	repos    *repository.Repos
	capacity float64
	archive  ReportArchive
	notifier Notifier
}

// NewOptimizerService builds the service. archive and notifier may be nil
// when cloud services are disabled.
func NewOptimizerService(repos *repository.Repos, capacity float64, archive ReportArchive, notifier Notifier) *OptimizerService {
	return &OptimizerService{repos: repos, capacity: capacity, archive: archive, notifier: notifier}
}

// Run computes the schedule for date and replaces the stored savings.
func (s *OptimizerService) Run(ctx context.Context, date string) (sched *Schedule, err error) {
	defer func() { metrics.OptimizerRuns.WithLabelValues(metrics.Outcome(err)).Inc() }()

	if !ValidPredictionDate(date) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDate, date)
	}

	tariffs, err := s.repos.PredictedTariffs(ctx, date)
	if err != nil {
		return nil, err
	}
	solar, err := s.repos.PredictedSolarEnergy(ctx, date)
	if err != nil {
		return nil, err
	}
	usage, err := s.repos.PredictedApplianceConsumption(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(usage) == 0 {
		return nil, fmt.Errorf("%w: no appliance consumption for %s", ErrIncompleteForecast, date)
	}

	sched, err = Optimize(tariffs, solar, usage[0].Appliances, s.capacity)
	if err != nil {
		return nil, fmt.Errorf("optimize %s: %w", date, err)
	}
	sched.Date = date

	if err := s.repos.ReplaceSavings(ctx, sched.Hourly); err != nil {
		return nil, err
	}
	metrics.OptimizerSavings.Set(sched.TotalSavings)
	log.Info().Str("date", date).Float64("total_savings", sched.TotalSavings).Int("solar_hours", sched.SolarHours()).Msg("savings updated")

	s.publish(ctx, sched)
	return sched, nil
}

// publish archives and announces the schedule. Failures are logged only; the
// savings collection is already up to date at this point.
func (s *OptimizerService) publish(ctx context.Context, sched *Schedule) {
	var url string
	if s.archive != nil {
		report, err := json.MarshalIndent(sched, "", "  ")
		if err == nil {
			url, err = s.archive.UploadReport(ctx, cloud.ReportKey(sched.Date), report)
		}
		if err != nil {
			url = ""
			log.Error().Err(err).Str("date", sched.Date).Msg("report upload failed")
		}
	}

	if s.notifier != nil {
		subject, msg := cloud.SavingsSummary(sched.Date, sched.TotalSavings, sched.SolarHours(), url)
		if err := s.notifier.Publish(ctx, subject, msg); err != nil {
			log.Error().Err(err).Str("date", sched.Date).Msg("savings notification failed")
		}
	}
}
