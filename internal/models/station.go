package models

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Station is the reference data held for a single filling station. Both the
// raw coordinates and the resolved distance to home (in kilometers) are kept.
type Station struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Street      string  `json:"street"`
	HouseNumber string  `json:"house_number"`
	Place       string  `json:"place"`
	PostCode    string  `json:"post_code"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
	Distance    float64 `json:"dist"`
}

func (s *Station) Validate() error {
	if s.ID == "" {
		return errors.New("station id must not be empty")
	}
	if !isFinite(s.Latitude) || !isFinite(s.Longitude) {
		return errors.Newf("station %s: coordinates must be finite", s.ID)
	}
	if !isFinite(s.Distance) {
		return errors.Newf("station %s: distance must be finite (got %f)", s.ID, s.Distance)
	}
	if s.Distance < 0 {
		return errors.Newf("station %s: distance must not be negative (got %f)", s.ID, s.Distance)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (s *Station) ToTuple() []any {
	return []any{
		s.ID,
		s.Name,
		s.Brand,
		s.Street,
		s.HouseNumber,
		s.Place,
		s.PostCode,
		s.Latitude,
		s.Longitude,
		s.Distance,
	}
}
