package internal

import (
	"context"
	"database/sql"
	_ "embed"
	"log"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/tavsec/gin-healthcheck/checks"

	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

//go:embed sql/upsert_station.sql
var upsertStationSQL string

//go:embed sql/select_station.sql
var selectStationSQL string

//go:embed sql/list_stations.sql
var listStationsSQL string

//go:embed sql/station_exists.sql
var stationExistsSQL string

//go:embed sql/upsert_status.sql
var upsertStatusSQL string

//go:embed sql/select_status.sql
var selectStatusSQL string

//go:embed sql/insert_price.sql
var insertPriceSQL string

//go:embed sql/latest_price.sql
var latestPriceSQL string

//go:embed sql/price_history.sql
var priceHistorySQL string

// FuelPricesRepository is the sqlite backed Store used by the server.
type FuelPricesRepository interface {
	Store
	Check() checks.Check
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
}

func NewFuelPricesRepository(db *sql.DB) FuelPricesRepository {
	return &sqliteRepository{
		db: db,
	}
}

func (repo *sqliteRepository) Check() checks.Check {
	return checks.SqlCheck{Sql: repo.db}
}

func (repo *sqliteRepository) Close() error {
	return repo.db.Close()
}

func (repo *sqliteRepository) UpsertStation(ctx context.Context, station models.Station) error {
	if err := station.Validate(); err != nil {
		return err
	}

	if _, err := repo.db.ExecContext(ctx, upsertStationSQL, station.ToTuple()...); err != nil {
		return storageFault(err, "failed to upsert station")
	}
	return nil
}

func (repo *sqliteRepository) GetStation(ctx context.Context, id string) (models.Station, error) {
	var station models.Station
	err := repo.db.QueryRowContext(ctx, selectStationSQL, id).Scan(scanStation(&station)...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Station{}, errors.Wrapf(ErrStationNotFound, "station %s", id)
	}
	if err != nil {
		return models.Station{}, storageFault(err, "failed to fetch station")
	}
	return station, nil
}

func (repo *sqliteRepository) ListStations(ctx context.Context) ([]models.Station, error) {
	rows, err := repo.db.QueryContext(ctx, listStationsSQL)
	if err != nil {
		return nil, storageFault(err, "failed to list stations")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	stations := make([]models.Station, 0)
	for rows.Next() {
		var station models.Station
		if err := rows.Scan(scanStation(&station)...); err != nil {
			return nil, storageFault(err, "failed to scan station")
		}
		stations = append(stations, station)
	}

	if err := rows.Err(); err != nil {
		return nil, storageFault(err, "error iterating over stations")
	}
	return stations, nil
}

func (repo *sqliteRepository) SetStatus(ctx context.Context, stationId string, isOpen bool) (err error) {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return storageFault(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("error rolling back transaction: %v", rbErr)
			}
		}
	}()

	if err = requireStation(ctx, tx, stationId); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, upsertStatusSQL, stationId, isOpen); err != nil {
		return classify(err, stationId, "failed to upsert status")
	}

	if err = tx.Commit(); err != nil {
		return storageFault(err, "failed to commit transaction")
	}
	return nil
}

func (repo *sqliteRepository) GetStatus(ctx context.Context, stationId string) (models.Status, error) {
	var isOpen bool
	err := repo.db.QueryRowContext(ctx, selectStatusSQL, stationId).Scan(&isOpen)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StatusUnknown, nil
	}
	if err != nil {
		return models.StatusUnknown, storageFault(err, "failed to fetch status")
	}
	return models.StatusOf(isOpen), nil
}

func (repo *sqliteRepository) Append(ctx context.Context, obs models.Observation) (err error) {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return storageFault(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("error rolling back transaction: %v", rbErr)
			}
		}
	}()

	if err = requireStation(ctx, tx, obs.StationID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, insertPriceSQL, obs.ToTuple()...); err != nil {
		return classify(err, obs.StationID, "failed to insert price")
	}

	if err = tx.Commit(); err != nil {
		return storageFault(err, "failed to commit transaction")
	}
	return nil
}

func (repo *sqliteRepository) Latest(ctx context.Context, stationId string) (models.Observation, error) {
	var timestamp int64
	var price decimal.Decimal
	err := repo.db.QueryRowContext(ctx, latestPriceSQL, stationId).Scan(&timestamp, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Observation{}, errors.Wrapf(ErrNoObservations, "station %s", stationId)
	}
	if err != nil {
		return models.Observation{}, storageFault(err, "failed to fetch latest price")
	}

	return models.Observation{
		StationID: stationId,
		Timestamp: time.Unix(timestamp, 0).UTC(),
		Price:     price,
	}, nil
}

func (repo *sqliteRepository) History(ctx context.Context, stationId string, from, to time.Time) ([]models.Observation, error) {
	results := make([]models.Observation, 0)
	fromSecs, toSecs := models.UnixCeil(from), models.UnixCeil(to)
	if fromSecs >= toSecs {
		return results, nil
	}

	rows, err := repo.db.QueryContext(ctx, priceHistorySQL, stationId, fromSecs, toSecs)
	if err != nil {
		return nil, storageFault(err, "failed to execute history query")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	for rows.Next() {
		var timestamp int64
		obs := models.Observation{StationID: stationId}
		if err := rows.Scan(&timestamp, &obs.Price); err != nil {
			return nil, storageFault(err, "failed to scan row")
		}
		obs.Timestamp = time.Unix(timestamp, 0).UTC()
		results = append(results, obs)
	}

	if err := rows.Err(); err != nil {
		return nil, storageFault(err, "error iterating over rows")
	}
	return results, nil
}

func requireStation(ctx context.Context, tx *sql.Tx, stationId string) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, stationExistsSQL, stationId).Scan(&exists); err != nil {
		return storageFault(err, "failed to check station")
	}
	if !exists {
		return errors.Wrapf(ErrUnknownStation, "station %s", stationId)
	}
	return nil
}

// classify maps sqlite constraint violations onto the domain errors.
func classify(err error, stationId, msg string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return errors.Wrapf(ErrDuplicateObservation, "station %s", stationId)
		case sqlite3.ErrConstraintForeignKey:
			return errors.Wrapf(ErrUnknownStation, "station %s", stationId)
		}
	}
	return storageFault(err, msg)
}

func scanStation(s *models.Station) []any {
	return []any{
		&s.ID, &s.Name, &s.Brand, &s.Street, &s.HouseNumber, &s.Place,
		&s.PostCode, &s.Latitude, &s.Longitude, &s.Distance,
	}
}
