package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/config"
	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

const sendDateLayout = "02-01-06 15:04"

// reading produces a plausible gateway sample for t: solar follows the sun
// between 06:00 and 18:00, consumption has a small random base load.
func reading(t time.Time) domain.EnergyReading {
	hour := float64(t.Hour()) + float64(t.Minute())/60
	sun := math.Max(0, math.Sin((hour-6)/12*math.Pi))

	power := 5 * sun * (0.8 + 0.2*rand.Float64())
	return domain.EnergyReading{
		SendDate:              t.Format(sendDateLayout),
		Temperature:           24 + 8*sun + rand.Float64(),
		SolarPower:            power,
		SolarEnergyGeneration: power / 12,
		ConsumptionValue:      0.3 + rand.Float64()*0.5,
	}
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker()).SetClientID("luminous-simulator")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	topic := config.MQTTTopic()
	// one simulated day at five minute resolution
	start := time.Now().Truncate(24 * time.Hour)
	for i := 0; i < 24*12; i++ {
		payload, err := json.Marshal(reading(start.Add(time.Duration(i) * 5 * time.Minute)))
		if err != nil {
			log.Fatal().Err(err).Msg("encode reading")
		}
		token := client.Publish(topic, 1, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			log.Error().Err(err).Msg("publish failed")
		}
		time.Sleep(100 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}
