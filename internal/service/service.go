package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/database"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/metrics"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/repository"
)

type Services struct {
	Repos    *repository.Repos
	Records  *Records
	Readings *ReadingService
}

func New(store database.Store, defaultDate string) *Services {
	repos := repository.New(store)
	return &Services{
		Repos:    repos,
		Records:  NewRecords(repos, defaultDate),
		Readings: &ReadingService{repos: repos, now: time.Now},
	}
}

type ReadingService struct {
	repos *repository.Repos
	now   func() time.Time
}

// FromMQTT stores one gateway sample. The payload uses the same keys as the
// energydatas collection.
func (s *ReadingService) FromMQTT(ctx context.Context, topic string, payload []byte) (err error) {
	defer func() {
		if err != nil {
			metrics.ReadingsRejected.Inc()
		} else {
			metrics.ReadingsIngested.Inc()
		}
	}()

	var rd domain.EnergyReading
	if err := json.Unmarshal(payload, &rd); err != nil {
		return fmt.Errorf("decode payload from %s: %w", topic, err)
	}
	if err := validate.Struct(rd); err != nil {
		return fmt.Errorf("invalid reading from %s: %w", topic, err)
	}
	if _, err := rd.When(); err != nil {
		return fmt.Errorf("invalid reading from %s: %w", topic, err)
	}

	now := s.now().UTC()
	rd.ID = ""
	rd.CreatedAt = &now
	rd.UpdatedAt = &now
	return s.repos.InsertReading(ctx, &rd)
}
