package internal

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

// ObservationSink receives every observation the collector appends, e.g. to
// mirror it into a dashboard's time-series database.
type ObservationSink interface {
	Record(ctx context.Context, station models.Station, status models.Status, obs models.Observation) error
}

type CollectResult struct {
	Stations     int
	Observations int
	Duplicates   int
	Skipped      int
}

func (r CollectResult) String() string {
	return fmt.Sprintf("%d stations, %d new prices (%d duplicates, %d without price)",
		r.Stations, r.Observations, r.Duplicates, r.Skipped)
}

type Collector struct {
	client FuelPricesClient
	store  Store
	home   *Coordinates
	sink   ObservationSink
	now    func() time.Time
}

type CollectorOption func(*Collector)

// WithHome sets the coordinates used to compute the distance of stations the
// upstream reports without one.
func WithHome(home Coordinates) CollectorOption {
	return func(c *Collector) {
		c.home = &home
	}
}

func WithSink(sink ObservationSink) CollectorOption {
	return func(c *Collector) {
		c.sink = sink
	}
}

func WithClock(now func() time.Time) CollectorOption {
	return func(c *Collector) {
		c.now = now
	}
}

func NewCollector(client FuelPricesClient, store Store, opts ...CollectorOption) *Collector {
	c := &Collector{
		client: client,
		store:  store,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect fetches the current prices and ingests them under a single
// timestamp taken before the request was made.
func (c *Collector) Collect(ctx context.Context) (CollectResult, error) {
	timestamp := c.now().UTC().Truncate(time.Second)

	resp, err := c.client.ListStations(ctx)
	if err != nil {
		ingestErrors.WithLabelValues("fetch").Inc()
		return CollectResult{}, errors.Wrap(err, "failed to fetch stations")
	}

	result, err := c.Ingest(ctx, resp, timestamp)
	if err != nil {
		return result, err
	}
	lastCollection.SetToCurrentTime()
	return result, nil
}

// Ingest records each priced station of the response: registry first, then
// status, then the price. A duplicate price counts as already recorded; any
// other failure stops the run.
func (c *Collector) Ingest(ctx context.Context, resp *models.ListResponse, timestamp time.Time) (CollectResult, error) {
	var result CollectResult

	for _, ls := range resp.Stations {
		if ls.Price == nil {
			result.Skipped++
			continue
		}

		station := ls.ToStation()
		if ls.Dist == nil && c.home != nil {
			station.Distance = DistanceKm(*c.home, Coordinates{Lat: ls.Lat, Lng: ls.Lng})
		}

		if err := c.store.UpsertStation(ctx, station); err != nil {
			ingestErrors.WithLabelValues("station").Inc()
			return result, errors.Wrapf(err, "failed to upsert station %s", station.ID)
		}
		result.Stations++

		if err := c.store.SetStatus(ctx, station.ID, ls.IsOpen); err != nil {
			ingestErrors.WithLabelValues("status").Inc()
			return result, errors.Wrapf(err, "failed to set status of %s", station.ID)
		}

		obs := models.Observation{
			StationID: station.ID,
			Timestamp: timestamp,
			Price:     *ls.Price,
		}
		err := c.store.Append(ctx, obs)
		if errors.Is(err, ErrDuplicateObservation) {
			observationsDuplicate.Inc()
			result.Duplicates++
			continue
		}
		if err != nil {
			ingestErrors.WithLabelValues("price").Inc()
			return result, errors.Wrapf(err, "failed to append price for %s", station.ID)
		}
		observationsAppended.Inc()
		result.Observations++

		if c.sink != nil {
			if err := c.sink.Record(ctx, station, models.StatusOf(ls.IsOpen), obs); err != nil {
				log.Printf("failed to mirror observation for %s: %v", station.ID, err)
			}
		}
	}

	return result, nil
}
