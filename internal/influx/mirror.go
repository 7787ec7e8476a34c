// Package influx mirrors ledger observations into an InfluxDB bucket so that
// time-series dashboards can chart them without reading the sqlite store.
package influx

import (
	"context"
	"log"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/rm-hull/fuel-price-tracker/internal/config"
	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

const measurement = "fuel_price"

type Mirror struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func NewMirror(cfg config.InfluxDBConfig) *Mirror {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	log.Printf("mirroring observations to InfluxDB at %s (bucket %s)", cfg.URL, cfg.Bucket)

	return &Mirror{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
	}
}

func (m *Mirror) Record(ctx context.Context, station models.Station, status models.Status, obs models.Observation) error {
	point := write.NewPoint(
		measurement,
		map[string]string{
			"station_id": station.ID,
			"name":       station.Name,
			"brand":      station.Brand,
			"place":      station.Place,
		},
		map[string]interface{}{
			"price":   obs.Price.InexactFloat64(),
			"dist":    station.Distance,
			"is_open": status.IsOpen(),
		},
		obs.Timestamp,
	)

	return m.writeAPI.WritePoint(ctx, point)
}

func (m *Mirror) Close() {
	m.client.Close()
}
