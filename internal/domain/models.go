package domain

import "time"

// Collection names, one per record kind. They match the collections the
// ingestion and prediction jobs write to.
const (
	CollectionTariffs                       = "tariffs"
	CollectionEnergyData                    = "energydatas"
	CollectionConsumptions                  = "consumptions"
	CollectionPredictedTariffs              = "predicted_tariffs"
	CollectionPredictedSolarEnergy          = "predicted_solar_energy"
	CollectionPredictedApplianceConsumption = "predicted_appliance_consumption"
	CollectionSavings                       = "savings"
)

// FieldDate is the stored date key of the prediction kinds.
const FieldDate = "date"

// Filter is a set of exact string-equality predicates keyed by stored field name.
// An empty filter matches the whole collection.
type Filter map[string]string

// Tariff is a historical tariff observation.
type Tariff struct {
	ID       string  `bson:"_id,omitempty" dynamodbav:"_id,omitempty" json:"_id,omitempty"`
	DateTime string  `bson:"DateTime" dynamodbav:"DateTime" json:"DateTime"`
	Value    float64 `bson:"Tariff (INR/kWh)" dynamodbav:"Tariff (INR/kWh)" json:"Tariff (INR/kWh)"`
}

// EnergyReading is one solar/consumption sample sent by the home gateway.
type EnergyReading struct {
	ID                    string     `bson:"_id,omitempty" dynamodbav:"_id,omitempty" json:"_id,omitempty"`
	SendDate              string     `bson:"sendDate" dynamodbav:"sendDate" json:"sendDate" validate:"required"`
	Temperature           float64    `bson:"temperature" dynamodbav:"temperature" json:"temperature"`
	SolarPower            float64    `bson:"solarPower" dynamodbav:"solarPower" json:"solarPower"`
	SolarEnergyGeneration float64    `bson:"solarEnergyGeneration" dynamodbav:"solarEnergyGeneration" json:"solarEnergyGeneration"`
	ConsumptionValue      float64    `bson:"consumptionValue" dynamodbav:"consumptionValue" json:"consumptionValue"`
	CreatedAt             *time.Time `bson:"createdAt,omitempty" dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt             *time.Time `bson:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Appliances holds per-appliance daily consumption in kWh.
type Appliances struct {
	Lighting       float64 `bson:"Lighting (kWh)" dynamodbav:"Lighting (kWh)" json:"Lighting (kWh)"`
	Refrigerator   float64 `bson:"Refrigerator (kWh)" dynamodbav:"Refrigerator (kWh)" json:"Refrigerator (kWh)"`
	WashingMachine float64 `bson:"Washing Machine (kWh)" dynamodbav:"Washing Machine (kWh)" json:"Washing Machine (kWh)"`
	Television     float64 `bson:"Television (kWh)" dynamodbav:"Television (kWh)" json:"Television (kWh)"`
	AirConditioner float64 `bson:"Air Conditioner (kWh)" dynamodbav:"Air Conditioner (kWh)" json:"Air Conditioner (kWh)"`
	Microwave      float64 `bson:"Microwave (kWh)" dynamodbav:"Microwave (kWh)" json:"Microwave (kWh)"`
	Laptop         float64 `bson:"Laptop (kWh)" dynamodbav:"Laptop (kWh)" json:"Laptop (kWh)"`
	WaterHeater    float64 `bson:"Water Heater (kWh)" dynamodbav:"Water Heater (kWh)" json:"Water Heater (kWh)"`
	Dishwasher     float64 `bson:"Dishwasher (kWh)" dynamodbav:"Dishwasher (kWh)" json:"Dishwasher (kWh)"`
	EVCharger      float64 `bson:"EV Charger (kWh)" dynamodbav:"EV Charger (kWh)" json:"EV Charger (kWh)"`
	OtherDevices   float64 `bson:"Other Devices (kWh)" dynamodbav:"Other Devices (kWh)" json:"Other Devices (kWh)"`
}

// ApplianceUsage is a single named entry of Appliances.
type ApplianceUsage struct {
	Name string
	KWh  float64
}

// Usage lists the appliances in their stored column order.
func (a Appliances) Usage() []ApplianceUsage {
	return []ApplianceUsage{
		{Name: "Lighting (kWh)", KWh: a.Lighting},
		{Name: "Refrigerator (kWh)", KWh: a.Refrigerator},
		{Name: "Washing Machine (kWh)", KWh: a.WashingMachine},
		{Name: "Television (kWh)", KWh: a.Television},
		{Name: "Air Conditioner (kWh)", KWh: a.AirConditioner},
		{Name: "Microwave (kWh)", KWh: a.Microwave},
		{Name: "Laptop (kWh)", KWh: a.Laptop},
		{Name: "Water Heater (kWh)", KWh: a.WaterHeater},
		{Name: "Dishwasher (kWh)", KWh: a.Dishwasher},
		{Name: "EV Charger (kWh)", KWh: a.EVCharger},
		{Name: "Other Devices (kWh)", KWh: a.OtherDevices},
	}
}

// ApplianceConsumption is a measured day of appliance usage. Date is stored as a
// native timestamp, unlike the prediction kinds.
type ApplianceConsumption struct {
	ID         string    `bson:"_id,omitempty" dynamodbav:"_id,omitempty" json:"_id,omitempty"`
	Date       time.Time `bson:"date" dynamodbav:"date" json:"date"`
	Appliances `bson:",inline"`
}

// PredictedTariff is the forecast tariff for one hour of a day.
type PredictedTariff struct {
	ID     string  `bson:"_id,omitempty" dynamodbav:"_id,omitempty" json:"_id,omitempty"`
	Hour   int     `bson:"hour" dynamodbav:"hour" json:"hour"`
	Tariff float64 `bson:"tariff" dynamodbav:"tariff" json:"tariff"`
	Date   string  `bson:"date" dynamodbav:"date" json:"date"`
}

// PredictedSolarEnergy is the forecast generation for one hour of a day.
type PredictedSolarEnergy struct {
	ID                    string  `bson:"_id,omitempty" dynamodbav:"_id,omitempty" json:"_id,omitempty"`
	Hour                  int     `bson:"hour" dynamodbav:"hour" json:"hour"`
	SolarEnergyGeneration float64 `bson:"solar_energy_generation" dynamodbav:"solar_energy_generation" json:"solar_energy_generation"`
	Date                  string  `bson:"date" dynamodbav:"date" json:"date"`
}

// PredictedApplianceConsumption is the forecast appliance usage for a day.
type PredictedApplianceConsumption struct {
	ID         string `bson:"_id,omitempty" dynamodbav:"_id,omitempty" json:"_id,omitempty"`
	Date       string `bson:"date" dynamodbav:"date" json:"date"`
	Appliances `bson:",inline"`
}

// DefaultScheduledDevice is stored when no appliance was scheduled in an hour.
const DefaultScheduledDevice = "None"

// Savings is one hour of the optimized schedule.
type Savings struct {
	ID               string  `bson:"_id,omitempty" dynamodbav:"_id,omitempty" json:"_id,omitempty"`
	Hour             string  `bson:"hour" dynamodbav:"hour" json:"hour"`
	CurrentMode      string  `bson:"current_mode" dynamodbav:"current_mode" json:"current_mode"`
	BatteryLevel     float64 `bson:"battery_level" dynamodbav:"battery_level" json:"battery_level"`
	ScheduledDevice  string  `bson:"scheduled_device" dynamodbav:"scheduled_device" json:"scheduled_device"`
	Savings          float64 `bson:"savings" dynamodbav:"savings" json:"savings"`
	RemainingBattery float64 `bson:"remaining_battery" dynamodbav:"remaining_battery" json:"remaining_battery"`
}

// ApplyDefaults fills fields that have a non-zero default.
func (s *Savings) ApplyDefaults() {
	if s.ScheduledDevice == "" {
		s.ScheduledDevice = DefaultScheduledDevice
	}
}
