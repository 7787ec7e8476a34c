// Package memstore is an in-memory implementation of the station registry,
// status tracker and price ledger. It backs tests and short-lived tooling and
// behaves identically to the sqlite repository.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/rm-hull/fuel-price-tracker/internal"
	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

type store struct {
	mu       sync.RWMutex
	stations map[string]models.Station
	status   map[string]bool
	prices   map[string]map[int64]decimal.Decimal
}

func New() internal.Store {
	return &store{
		stations: make(map[string]models.Station),
		status:   make(map[string]bool),
		prices:   make(map[string]map[int64]decimal.Decimal),
	}
}

func (s *store) UpsertStation(_ context.Context, station models.Station) error {
	if err := station.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stations[station.ID] = station
	return nil
}

func (s *store) GetStation(_ context.Context, id string) (models.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	station, ok := s.stations[id]
	if !ok {
		return models.Station{}, errors.Wrapf(internal.ErrStationNotFound, "station %s", id)
	}
	return station, nil
}

func (s *store) ListStations(_ context.Context) ([]models.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stations := make([]models.Station, 0, len(s.stations))
	for _, station := range s.stations {
		stations = append(stations, station)
	}
	sort.Slice(stations, func(i, j int) bool {
		return stations[i].ID < stations[j].ID
	})
	return stations, nil
}

func (s *store) SetStatus(_ context.Context, stationId string, isOpen bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stations[stationId]; !ok {
		return errors.Wrapf(internal.ErrUnknownStation, "station %s", stationId)
	}
	s.status[stationId] = isOpen
	return nil
}

func (s *store) GetStatus(_ context.Context, stationId string) (models.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	isOpen, ok := s.status[stationId]
	if !ok {
		return models.StatusUnknown, nil
	}
	return models.StatusOf(isOpen), nil
}

func (s *store) Append(_ context.Context, obs models.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stations[obs.StationID]; !ok {
		return errors.Wrapf(internal.ErrUnknownStation, "station %s", obs.StationID)
	}

	series, ok := s.prices[obs.StationID]
	if !ok {
		series = make(map[int64]decimal.Decimal)
		s.prices[obs.StationID] = series
	}

	key := obs.Timestamp.Unix()
	if _, exists := series[key]; exists {
		return errors.Wrapf(internal.ErrDuplicateObservation, "station %s at %d", obs.StationID, key)
	}
	series[key] = obs.Price
	return nil
}

// Latest scans the series for the maximum timestamp; insertion order is
// irrelevant.
func (s *store) Latest(_ context.Context, stationId string) (models.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series := s.prices[stationId]
	if len(series) == 0 {
		return models.Observation{}, errors.Wrapf(internal.ErrNoObservations, "station %s", stationId)
	}

	first := true
	var latest int64
	for ts := range series {
		if first || ts > latest {
			latest = ts
			first = false
		}
	}

	return models.Observation{
		StationID: stationId,
		Timestamp: time.Unix(latest, 0).UTC(),
		Price:     series[latest],
	}, nil
}

func (s *store) History(_ context.Context, stationId string, from, to time.Time) ([]models.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.Observation, 0)
	fromSecs, toSecs := models.UnixCeil(from), models.UnixCeil(to)
	for ts, price := range s.prices[stationId] {
		if ts >= fromSecs && ts < toSecs {
			results = append(results, models.Observation{
				StationID: stationId,
				Timestamp: time.Unix(ts, 0).UTC(),
				Price:     price,
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp.Before(results[j].Timestamp)
	})
	return results, nil
}
