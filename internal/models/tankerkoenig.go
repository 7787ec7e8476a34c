package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ListRequest holds the query parameters of the Tankerkoenig list endpoint.
type ListRequest struct {
	ApiKey   string  `json:"apikey"`
	FuelType string  `json:"type"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Radius   float64 `json:"rad"`
	Sort     string  `json:"sort"`
}

// ListStation is one station entry of a list response. Price is nil when the
// station does not sell the requested fuel type; Dist is nil when the upstream
// omitted it.
type ListStation struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Brand       string           `json:"brand"`
	Street      string           `json:"street"`
	Place       string           `json:"place"`
	Lat         float64          `json:"lat"`
	Lng         float64          `json:"lng"`
	Dist        *float64         `json:"dist"`
	Price       *decimal.Decimal `json:"price"`
	IsOpen      bool             `json:"isOpen"`
	HouseNumber string           `json:"houseNumber"`
	PostCode    int              `json:"postCode"`
}

type ListResponse struct {
	Ok       bool          `json:"ok"`
	License  string        `json:"license,omitempty"`
	Data     string        `json:"data,omitempty"`
	Status   string        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Stations []ListStation `json:"stations"`
}

// ToStation converts the upstream record into registry form. The distance is
// left at zero when the upstream did not supply one.
func (ls *ListStation) ToStation() Station {
	station := Station{
		ID:          ls.ID,
		Name:        ls.Name,
		Brand:       ls.Brand,
		Street:      ls.Street,
		HouseNumber: ls.HouseNumber,
		Place:       ls.Place,
		Latitude:    ls.Lat,
		Longitude:   ls.Lng,
	}
	if ls.PostCode > 0 {
		station.PostCode = fmt.Sprintf("%05d", ls.PostCode)
	}
	if ls.Dist != nil {
		station.Distance = *ls.Dist
	}
	return station
}
