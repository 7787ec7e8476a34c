package internal_test

import (
	"context"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/fuel-price-tracker/internal"
	"github.com/rm-hull/fuel-price-tracker/internal/storetest"
)

func setupTestDB(t *testing.T) internal.FuelPricesRepository {
	tmpFile, err := os.CreateTemp("", "fuel_prices_test-*.db")
	require.NoError(t, err)
	dbPath := tmpFile.Name()
	_ = tmpFile.Close()

	t.Cleanup(func() {
		_ = os.Remove(dbPath)
		_ = os.Remove(dbPath + "-wal")
		_ = os.Remove(dbPath + "-shm")
	})

	db, err := internal.Connect(dbPath)
	require.NoError(t, err)

	err = internal.Migrate("../migrations", dbPath)
	require.NoError(t, err)

	repo := internal.NewFuelPricesRepository(db)
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func TestRepositoryContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) internal.Store {
		return setupTestDB(t)
	})
}

func TestRepositoryHealthCheck(t *testing.T) {
	repo := setupTestDB(t)
	check := repo.Check()
	assert.True(t, check.Pass())
}

func TestMigrateIsRepeatable(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "fuel_prices_migrate-*.db")
	require.NoError(t, err)
	dbPath := tmpFile.Name()
	_ = tmpFile.Close()
	t.Cleanup(func() {
		_ = os.Remove(dbPath)
	})

	require.NoError(t, internal.Migrate("../migrations", dbPath))
	require.NoError(t, internal.Migrate("../migrations", dbPath))

	db, err := internal.Connect(dbPath)
	require.NoError(t, err)
	repo := internal.NewFuelPricesRepository(db)
	defer func() {
		_ = repo.Close()
	}()

	require.NoError(t, repo.UpsertStation(context.Background(), storetest.Station("st-1", "Aral Mitte", 5)))
	stations, err := repo.ListStations(context.Background())
	require.NoError(t, err)
	assert.Len(t, stations, 1)
}

func TestRepositoryMarksDriverFailuresAsStorageFaults(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)
	require.NoError(t, repo.UpsertStation(ctx, storetest.Station("st-1", "Aral Mitte", 5)))
	require.NoError(t, repo.Close())

	err := repo.Append(ctx, storetest.Observation("st-1", 0, "1.799"))
	assert.True(t, errors.Is(err, internal.ErrStorageFault), "append: %v", err)

	_, err = repo.Latest(ctx, "st-1")
	assert.True(t, errors.Is(err, internal.ErrStorageFault), "latest: %v", err)
	assert.False(t, errors.Is(err, internal.ErrNoObservations))

	_, err = repo.ListStations(ctx)
	assert.True(t, errors.Is(err, internal.ErrStorageFault), "list: %v", err)
}

func TestRepositoryAppendForUnregisteredStation(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)

	err := repo.Append(ctx, storetest.Observation("ghost", 0, "1.799"))
	assert.True(t, errors.Is(err, internal.ErrUnknownStation), "append: %v", err)
	assert.False(t, errors.Is(err, internal.ErrStorageFault))

	err = repo.SetStatus(ctx, "ghost", true)
	assert.True(t, errors.Is(err, internal.ErrUnknownStation), "status: %v", err)
	assert.False(t, errors.Is(err, internal.ErrStorageFault))
}
