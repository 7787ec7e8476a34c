// Package storetest holds the behavioural contract shared by every Store
// implementation.
package storetest

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/fuel-price-tracker/internal"
	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

var base = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func Station(id, name string, dist float64) models.Station {
	return models.Station{
		ID:          id,
		Name:        name,
		Brand:       "ARAL",
		Street:      "Hauptstr.",
		HouseNumber: "12",
		Place:       "Berlin",
		PostCode:    "01067",
		Latitude:    52.52,
		Longitude:   13.405,
		Distance:    dist,
	}
}

func Observation(stationId string, offset time.Duration, price string) models.Observation {
	return models.Observation{
		StationID: stationId,
		Timestamp: base.Add(offset),
		Price:     decimal.RequireFromString(price),
	}
}

// Run exercises the full Store contract against stores produced by newStore.
// Each subtest gets a fresh, empty store.
func Run(t *testing.T, newStore func(t *testing.T) internal.Store) {
	ctx := context.Background()

	t.Run("Upsert is idempotent", func(t *testing.T) {
		store := newStore(t)
		station := Station("st-1", "Aral Mitte", 5)

		require.NoError(t, store.UpsertStation(ctx, station))
		once, err := store.GetStation(ctx, "st-1")
		require.NoError(t, err)

		require.NoError(t, store.UpsertStation(ctx, station))
		twice, err := store.GetStation(ctx, "st-1")
		require.NoError(t, err)

		assert.Equal(t, station, once)
		assert.Equal(t, once, twice)

		stations, err := store.ListStations(ctx)
		require.NoError(t, err)
		assert.Len(t, stations, 1)
	})

	t.Run("Upsert replaces all attributes", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.UpsertStation(ctx, Station("st-1", "Aral Mitte", 5)))

		updated := Station("st-1", "Aral Mitte (neu)", 6.5)
		updated.Brand = "Shell"
		updated.PostCode = "10117"
		require.NoError(t, store.UpsertStation(ctx, updated))

		got, err := store.GetStation(ctx, "st-1")
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("Upsert rejects invalid stations", func(t *testing.T) {
		store := newStore(t)
		assert.Error(t, store.UpsertStation(ctx, Station("", "nameless", 1)))
		assert.Error(t, store.UpsertStation(ctx, Station("st-neg", "negative", -1)))
		assert.Error(t, store.UpsertStation(ctx, Station("st-inf", "infinite", math.Inf(1))))
		assert.Error(t, store.UpsertStation(ctx, Station("st-nan", "undefined", math.NaN())))

		badCoords := Station("st-lat", "no latitude", 1)
		badCoords.Latitude = math.NaN()
		assert.Error(t, store.UpsertStation(ctx, badCoords))

		stations, err := store.ListStations(ctx)
		require.NoError(t, err)
		assert.Empty(t, stations)
	})

	t.Run("Get unknown station", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetStation(ctx, "missing")
		assert.True(t, errors.Is(err, internal.ErrStationNotFound))
	})

	t.Run("Status is three-valued and overwritten", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.UpsertStation(ctx, Station("st-1", "Aral Mitte", 5)))

		status, err := store.GetStatus(ctx, "st-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnknown, status)

		require.NoError(t, store.SetStatus(ctx, "st-1", true))
		status, err = store.GetStatus(ctx, "st-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusOpen, status)

		require.NoError(t, store.SetStatus(ctx, "st-1", false))
		status, err = store.GetStatus(ctx, "st-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusClosed, status)
	})

	t.Run("Status for unknown station", func(t *testing.T) {
		store := newStore(t)
		err := store.SetStatus(ctx, "missing", true)
		assert.True(t, errors.Is(err, internal.ErrUnknownStation))

		status, err := store.GetStatus(ctx, "missing")
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnknown, status)
	})

	t.Run("Latest picks the maximum timestamp regardless of arrival order", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.UpsertStation(ctx, Station("st-1", "Aral Mitte", 5)))

		t1 := Observation("st-1", 1*time.Hour, "1.799")
		t2 := Observation("st-1", 2*time.Hour, "1.819")
		t3 := Observation("st-1", 3*time.Hour, "1.759")

		for _, obs := range []models.Observation{t3, t1, t2} {
			require.NoError(t, store.Append(ctx, obs))
		}

		latest, err := store.Latest(ctx, "st-1")
		require.NoError(t, err)
		assert.True(t, latest.Timestamp.Equal(t3.Timestamp))
		assert.True(t, latest.Price.Equal(t3.Price), "got %s", latest.Price)
		assert.Equal(t, "st-1", latest.StationID)
	})

	t.Run("Latest without observations", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.UpsertStation(ctx, Station("st-1", "Aral Mitte", 5)))

		_, err := store.Latest(ctx, "st-1")
		assert.True(t, errors.Is(err, internal.ErrNoObservations))

		_, err = store.Latest(ctx, "missing")
		assert.True(t, errors.Is(err, internal.ErrNoObservations))
	})

	t.Run("Duplicate append is rejected", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.UpsertStation(ctx, Station("st-1", "Aral Mitte", 5)))

		require.NoError(t, store.Append(ctx, Observation("st-1", 0, "1.799")))
		err := store.Append(ctx, Observation("st-1", 0, "1.899"))
		assert.True(t, errors.Is(err, internal.ErrDuplicateObservation), "got %v", err)

		history, err := store.History(ctx, "st-1", base.Add(-time.Hour), base.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.True(t, history[0].Price.Equal(decimal.RequireFromString("1.799")))
	})

	t.Run("Append for unknown station leaves the ledger unchanged", func(t *testing.T) {
		store := newStore(t)
		err := store.Append(ctx, Observation("ghost", 0, "1.799"))
		assert.True(t, errors.Is(err, internal.ErrUnknownStation), "got %v", err)

		require.NoError(t, store.UpsertStation(ctx, Station("ghost", "Ghost", 1)))
		_, err = store.Latest(ctx, "ghost")
		assert.True(t, errors.Is(err, internal.ErrNoObservations))
	})

	t.Run("History is ascending and half-open", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.UpsertStation(ctx, Station("st-1", "Aral Mitte", 5)))
		require.NoError(t, store.UpsertStation(ctx, Station("st-2", "Shell Ost", 8)))

		for _, obs := range []models.Observation{
			Observation("st-1", 3*time.Hour, "1.739"),
			Observation("st-1", 1*time.Hour, "1.759"),
			Observation("st-1", 2*time.Hour, "1.749"),
			Observation("st-1", 4*time.Hour, "1.729"),
			Observation("st-2", 2*time.Hour, "1.699"),
		} {
			require.NoError(t, store.Append(ctx, obs))
		}

		history, err := store.History(ctx, "st-1", base.Add(1*time.Hour), base.Add(4*time.Hour))
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.True(t, history[0].Timestamp.Equal(base.Add(1*time.Hour)))
		assert.True(t, history[1].Timestamp.Equal(base.Add(2*time.Hour)))
		assert.True(t, history[2].Timestamp.Equal(base.Add(3*time.Hour)))
		for _, obs := range history {
			assert.Equal(t, "st-1", obs.StationID)
		}

		// sub-second bounds round up to the next whole second
		history, err = store.History(ctx, "st-1", base.Add(1*time.Hour+time.Millisecond), base.Add(2*time.Hour+time.Millisecond))
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.True(t, history[0].Timestamp.Equal(base.Add(2*time.Hour)))
	})

	t.Run("History over an empty range", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.UpsertStation(ctx, Station("st-1", "Aral Mitte", 5)))
		require.NoError(t, store.Append(ctx, Observation("st-1", time.Hour, "1.759")))

		for _, id := range []string{"st-1", "missing"} {
			history, err := store.History(ctx, id, base.Add(2*time.Hour), base.Add(3*time.Hour))
			require.NoError(t, err)
			assert.NotNil(t, history)
			assert.Empty(t, history)

			history, err = store.History(ctx, id, base.Add(time.Hour), base.Add(time.Hour))
			require.NoError(t, err)
			assert.Empty(t, history)

			history, err = store.History(ctx, id, base.Add(3*time.Hour), base)
			require.NoError(t, err)
			assert.Empty(t, history)
		}
	})

	t.Run("Concurrent reads during writes", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.UpsertStation(ctx, Station("st-1", "Aral Mitte", 5)))
		require.NoError(t, store.Append(ctx, Observation("st-1", 0, "1.700")))

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 1; i <= 20; i++ {
				assert.NoError(t, store.Append(ctx, Observation("st-1", time.Duration(i)*time.Minute, "1.750")))
			}
		}()

		for r := 0; r < 4; r++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 20; i++ {
					obs, err := store.Latest(ctx, "st-1")
					if assert.NoError(t, err) {
						assert.Equal(t, "st-1", obs.StationID)
					}
				}
			}()
		}
		wg.Wait()

		latest, err := store.Latest(ctx, "st-1")
		require.NoError(t, err)
		assert.True(t, latest.Timestamp.Equal(base.Add(20*time.Minute)))
	})
}
