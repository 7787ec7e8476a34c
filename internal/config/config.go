package config

import (
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

// Config is read from an optional TOML file and then overridden by environment
// variables (a .env file is honoured). The top-level collector keys use the
// names of the Tankerkoenig list endpoint.
type Config struct {
	ApiKey   string  `toml:"apikey"`
	FuelType string  `toml:"type"`
	Lat      float64 `toml:"lat"`
	Lng      float64 `toml:"lng"`
	Radius   float64 `toml:"rad"`
	Sort     string  `toml:"sort"`
	BaseUrl  string  `toml:"base_url"`

	// Default vehicle profile; either may be left unset, in which case the
	// ranking endpoint requires it as a query parameter.
	TripFactor *float64 `toml:"trip_factor"`
	FuelFactor *float64 `toml:"fuel_factor"`
	GroupBy    string   `toml:"group_by"`

	InfluxDB InfluxDBConfig `toml:"influxdb"`
}

type InfluxDBConfig struct {
	URL    string `toml:"url"`
	Token  string `toml:"token"`
	Org    string `toml:"org"`
	Bucket string `toml:"bucket"`
}

func (c InfluxDBConfig) Enabled() bool {
	return c.URL != ""
}

var fuelTypes = []string{"e5", "e10", "diesel"}

func Load(path string) (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := &Config{
		FuelType: "e5",
		Radius:   5,
		Sort:     "dist",
		GroupBy:  "name",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "unable to read config %s", path)
		}
		if err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "unable to parse config %s", path)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, target *string) {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
	setFloat := func(key string, target *float64) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !isFinite(f) {
			return errors.Newf("invalid %s: %s", key, v)
		}
		*target = f
		return nil
	}
	setOptionalFloat := func(key string, target **float64) error {
		var f float64
		if os.Getenv(key) == "" {
			return nil
		}
		if err := setFloat(key, &f); err != nil {
			return err
		}
		*target = &f
		return nil
	}

	setString("TANKERKOENIG_API_KEY", &c.ApiKey)
	setString("TANKERKOENIG_BASE_URL", &c.BaseUrl)
	setString("FUEL_TYPE", &c.FuelType)
	setString("SORT", &c.Sort)
	setString("GROUP_BY", &c.GroupBy)
	setString("INFLUXDB_URL", &c.InfluxDB.URL)
	setString("INFLUXDB_TOKEN", &c.InfluxDB.Token)
	setString("INFLUXDB_ORG", &c.InfluxDB.Org)
	setString("INFLUXDB_BUCKET", &c.InfluxDB.Bucket)

	for key, target := range map[string]*float64{
		"HOME_LAT":      &c.Lat,
		"HOME_LNG":      &c.Lng,
		"SEARCH_RADIUS": &c.Radius,
	} {
		if err := setFloat(key, target); err != nil {
			return err
		}
	}
	if err := setOptionalFloat("TRIP_FACTOR", &c.TripFactor); err != nil {
		return err
	}
	return setOptionalFloat("FUEL_FACTOR", &c.FuelFactor)
}

func (c *Config) Validate() error {
	c.FuelType = strings.ToLower(c.FuelType)
	valid := false
	for _, ft := range fuelTypes {
		if c.FuelType == ft {
			valid = true
		}
	}
	if !valid {
		return errors.Newf("invalid fuel type %q: expected one of %s", c.FuelType, strings.Join(fuelTypes, ", "))
	}
	if c.Sort != "dist" && c.Sort != "price" {
		return errors.Newf("invalid sort %q: expected 'dist' or 'price'", c.Sort)
	}
	for name, v := range map[string]*float64{
		"lat":         &c.Lat,
		"lng":         &c.Lng,
		"rad":         &c.Radius,
		"trip_factor": c.TripFactor,
		"fuel_factor": c.FuelFactor,
	} {
		if v != nil && !isFinite(*v) {
			return errors.Newf("invalid %s: must be a finite number", name)
		}
	}
	if c.Radius <= 0 || c.Radius > 25 {
		return errors.Newf("invalid search radius %g: must be in (0, 25] km", c.Radius)
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return errors.Newf("invalid home coordinates %g,%g", c.Lat, c.Lng)
	}
	if p := c.Profile(); p != nil {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Profile returns the configured default vehicle profile, or nil when either
// factor is missing.
func (c *Config) Profile() *models.Profile {
	if c.TripFactor == nil || c.FuelFactor == nil {
		return nil
	}
	profile := models.NewProfile(*c.TripFactor, *c.FuelFactor)
	return &profile
}

func (c *Config) ListRequest() models.ListRequest {
	return models.ListRequest{
		ApiKey:   c.ApiKey,
		FuelType: c.FuelType,
		Lat:      c.Lat,
		Lng:      c.Lng,
		Radius:   c.Radius,
		Sort:     c.Sort,
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
