package service

import (
	"math"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

// FixtureForecast is a deterministic day of predictions for local development
// and demos: tariffs rise by 0.1 INR per hour from 5.0, solar peaks at 5 kWh at
// noon, and appliance usage matches a typical household.
func FixtureForecast(date string) ([]domain.PredictedTariff, []domain.PredictedSolarEnergy, []domain.PredictedApplianceConsumption) {
	tariffs := make([]domain.PredictedTariff, hoursPerDay)
	solar := make([]domain.PredictedSolarEnergy, hoursPerDay)
	for h := 0; h < hoursPerDay; h++ {
		tariffs[h] = domain.PredictedTariff{
			Hour:   h,
			Tariff: math.Round((5+float64(h)*0.1)*100) / 100,
			Date:   date,
		}
		solar[h] = domain.PredictedSolarEnergy{
			Hour:                  h,
			SolarEnergyGeneration: math.Max(0, 5-math.Abs(float64(h-12))),
			Date:                  date,
		}
	}

	usage := []domain.PredictedApplianceConsumption{{
		Date: date,
		Appliances: domain.Appliances{
			Lighting:       1,
			Refrigerator:   2,
			WashingMachine: 0.5,
			Television:     0.7,
			AirConditioner: 3,
			Microwave:      0.6,
			Laptop:         0.4,
			WaterHeater:    2,
			Dishwasher:     1.5,
			EVCharger:      0.8,
			OtherDevices:   1.2,
		},
	}}
	return tariffs, solar, usage
}
