package cmd

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/rm-hull/godx"

	"github.com/rm-hull/fuel-price-tracker/internal"
	"github.com/rm-hull/fuel-price-tracker/internal/config"
	"github.com/rm-hull/fuel-price-tracker/internal/influx"
)

type resources struct {
	cfg       *config.Config
	client    internal.FuelPricesClient
	repo      internal.FuelPricesRepository
	collector *internal.Collector
	mirror    *influx.Mirror
}

func (r *resources) Close() {
	if r.mirror != nil {
		r.mirror.Close()
	}
	if err := r.repo.Close(); err != nil {
		log.Printf("failed to close repository: %v", err)
	}
}

// bootstrap initialises shared resources used by both the API server and import
// commands: configuration, the migrated repository and a collector wired to
// the upstream client.
func bootstrap(dbPath, configPath string) (*resources, error) {
	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if cfg.ApiKey == "" {
		log.Println("WARNING: no Tankerkoenig API key configured, price collection will fail")
	}

	db, err := internal.Connect(dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}

	if err := internal.Migrate("migrations", dbPath); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to migrate SQL")
	}

	res := &resources{
		cfg:    cfg,
		client: internal.NewFuelPricesClient(cfg.BaseUrl, cfg.ListRequest()),
		repo:   internal.NewFuelPricesRepository(db),
	}

	opts := []internal.CollectorOption{
		internal.WithHome(internal.Coordinates{Lat: cfg.Lat, Lng: cfg.Lng}),
	}
	if cfg.InfluxDB.Enabled() {
		res.mirror = influx.NewMirror(cfg.InfluxDB)
		opts = append(opts, internal.WithSink(res.mirror))
	}
	res.collector = internal.NewCollector(res.client, res.repo, opts...)

	return res, nil
}
