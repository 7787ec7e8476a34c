package models

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// Profile describes the vehicle assumptions used to cost a trip to a station.
// TripFactor is the amount of fuel bought per visit; FuelFactor is the vehicle
// consumption per 100 km.
type Profile struct {
	TripFactor decimal.Decimal `json:"trip_factor"`
	FuelFactor decimal.Decimal `json:"fuel_factor"`
}

func NewProfile(tripFactor, fuelFactor float64) Profile {
	return Profile{
		TripFactor: decimal.NewFromFloat(tripFactor),
		FuelFactor: decimal.NewFromFloat(fuelFactor),
	}
}

func (p *Profile) Validate() error {
	if p.TripFactor.IsNegative() {
		return errors.Newf("trip factor must not be negative (got %s)", p.TripFactor)
	}
	if p.FuelFactor.IsNegative() {
		return errors.Newf("fuel factor must not be negative (got %s)", p.FuelFactor)
	}
	return nil
}

type RankedStation struct {
	StationID string          `json:"station_id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Price     decimal.Decimal `json:"price"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Timestamp time.Time       `json:"timestamp"`
	Distance  float64         `json:"dist"`
	Status    Status          `json:"status"`
	Retailer  *Retailer       `json:"retailer,omitempty"`
}

type RankingStatistics struct {
	CheapestStations  []string       `json:"cheapest_stations"`
	LowestPrice       float64        `json:"lowest_price"`
	AveragePrice      float64        `json:"average_price"`
	HighestPrice      float64        `json:"highest_price"`
	StandardDeviation float64        `json:"standard_deviation"`
	LowestTotal       float64        `json:"lowest_total"`
	AverageTotal      float64        `json:"average_total"`
	HighestTotal      float64        `json:"highest_total"`
	PriceDistribution map[string]int `json:"price_distribution"`
	BrandDistribution map[string]int `json:"brand_distribution"`
}

type RankingResponse struct {
	Results     []RankedStation    `json:"results"`
	Profile     Profile            `json:"profile"`
	GroupBy     string             `json:"group_by"`
	Statistics  *RankingStatistics `json:"statistics"`
	Attribution []string           `json:"attribution"`
	LastUpdated *time.Time         `json:"last_updated,omitempty"`
}

type StationDetail struct {
	Station
	Status Status       `json:"status"`
	Latest *Observation `json:"latest,omitempty"`
}

type HistoryResponse struct {
	StationID    string        `json:"station_id"`
	From         time.Time     `json:"from"`
	To           time.Time     `json:"to"`
	Observations []Observation `json:"observations"`
}
