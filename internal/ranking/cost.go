package ranking

import (
	"github.com/shopspring/decimal"

	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// TotalCost is the trip-adjusted cost of buying at a station:
//
//	price * tripFactor + price * 2 * distance * fuelFactor / 100
//
// The second term is the fuel burnt driving there and back.
func TotalCost(price decimal.Decimal, distance decimal.Decimal, profile models.Profile) decimal.Decimal {
	purchase := price.Mul(profile.TripFactor)
	roundTrip := price.Mul(two).Mul(distance).Mul(profile.FuelFactor).Div(hundred)
	return purchase.Add(roundTrip)
}
