package model

import "strconv"

// PriceRange is the observed used-market price band for a vehicle
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Vehicle is a canonical catalog record identified by make/model/year/trim.
// Vehicles are immutable reference data created by the ingestion layer;
// the resolver and scorer only ever read them.
type Vehicle struct {
	ID    string `json:"id"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Trim  string `json:"trim,omitempty"`

	PriceRange PriceRange `json:"price_range"`
	AvgPrice   int        `json:"avg_price"`

	PowerHP     int     `json:"power_hp"`
	TorqueLbFt  int     `json:"torque_lb_ft"`
	Drivetrain  string  `json:"drivetrain"` // AWD, RWD, FWD, 4WD
	BodyType    string  `json:"body_type"`  // sedan, coupe, suv, ...
	ZeroToSixty float64 `json:"zero_to_sixty"`

	ReliabilityScore   float64 `json:"reliability_score"`    // 0-10
	OwnershipCostScore float64 `json:"ownership_cost_score"` // 0-10, higher = cheaper to own
	FuelEconomyMPG     int     `json:"fuel_economy_mpg"`

	DrivingFeelTags []string `json:"driving_feel_tags"`
	ClassTags       []string `json:"class_tags"`
	EmotionalTags   []string `json:"emotional_tags"`
}

// DisplayName returns the human-readable "2020 Chevrolet Camaro" form
func (v Vehicle) DisplayName() string {
	if v.Year == 0 {
		return v.Make + " " + v.Model
	}
	return strconv.Itoa(v.Year) + " " + v.Make + " " + v.Model
}
