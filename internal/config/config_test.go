package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "fuel-price-tracker.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
apikey = "00000000-0000-0000-0000-000000000002"
type = "diesel"
lat = 52.521
lng = 13.438
rad = 4
sort = "price"
trip_factor = 60
fuel_factor = 8
group_by = "id"

[influxdb]
url = "http://localhost:8086"
org = "home"
bucket = "fuel"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "00000000-0000-0000-0000-000000000002", cfg.ApiKey)
	assert.Equal(t, "diesel", cfg.FuelType)
	assert.Equal(t, 52.521, cfg.Lat)
	assert.Equal(t, 4.0, cfg.Radius)
	assert.Equal(t, "price", cfg.Sort)
	assert.Equal(t, "id", cfg.GroupBy)
	assert.True(t, cfg.InfluxDB.Enabled())

	profile := cfg.Profile()
	require.NotNil(t, profile)
	assert.True(t, profile.TripFactor.Equal(decimal.NewFromInt(60)))
	assert.True(t, profile.FuelFactor.Equal(decimal.NewFromInt(8)))

	req := cfg.ListRequest()
	assert.Equal(t, "diesel", req.FuelType)
	assert.Equal(t, 13.438, req.Lng)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "e5", cfg.FuelType)
	assert.Equal(t, "dist", cfg.Sort)
	assert.Equal(t, 5.0, cfg.Radius)
	assert.Equal(t, "name", cfg.GroupBy)
	assert.Nil(t, cfg.Profile())
	assert.False(t, cfg.InfluxDB.Enabled())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
trip_factor = 60
fuel_factor = 8
`)
	t.Setenv("TRIP_FACTOR", "45.5")
	t.Setenv("TANKERKOENIG_API_KEY", "from-env")
	t.Setenv("HOME_LAT", "48.137")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.ApiKey)
	assert.Equal(t, 48.137, cfg.Lat)
	profile := cfg.Profile()
	require.NotNil(t, profile)
	assert.True(t, profile.TripFactor.Equal(decimal.RequireFromString("45.5")))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"fuel type":       `type = "all"`,
		"sort":            `sort = "name"`,
		"radius":          `rad = 30`,
		"negative factor": "trip_factor = -1\nfuel_factor = 8",
		"bad toml":        `apikey = `,
		"nan factor":      "trip_factor = nan\nfuel_factor = 8",
		"infinite lat":    `lat = inf`,
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, contents))
			assert.Error(t, err)
		})
	}

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("FUEL_FACTOR", "eight")
		_, err := Load("")
		assert.Error(t, err)
	})

	for _, v := range []string{"NaN", "Inf", "-inf"} {
		t.Run("non-finite env value "+v, func(t *testing.T) {
			t.Setenv("TRIP_FACTOR", v)
			t.Setenv("FUEL_FACTOR", "8")
			assert.NotPanics(t, func() {
				_, err := Load("")
				assert.Error(t, err)
			})
		})
	}
}
