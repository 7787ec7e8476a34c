package internal

import (
	"context"
	"time"

	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

type StationRegistry interface {
	UpsertStation(ctx context.Context, station models.Station) error
	GetStation(ctx context.Context, id string) (models.Station, error)
	ListStations(ctx context.Context) ([]models.Station, error)
}

type StatusTracker interface {
	SetStatus(ctx context.Context, stationId string, isOpen bool) error
	GetStatus(ctx context.Context, stationId string) (models.Status, error)
}

// PriceLedger is an append-only store of observations ordered by
// (station, timestamp).
type PriceLedger interface {
	Append(ctx context.Context, obs models.Observation) error
	Latest(ctx context.Context, stationId string) (models.Observation, error)
	History(ctx context.Context, stationId string, from, to time.Time) ([]models.Observation, error)
}

type Store interface {
	StationRegistry
	StatusTracker
	PriceLedger
}
