package ranking

import (
	"context"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/rm-hull/fuel-price-tracker/internal"
	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

// GroupBy selects the key ranking entries are collapsed on.
type GroupBy string

const (
	// GroupByName collapses stations sharing a display name into one entry,
	// as the legacy dashboard query does. Distinct branches with the same name
	// are conflated.
	GroupByName GroupBy = "name"
	GroupByID   GroupBy = "id"
)

func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(strings.ToLower(strings.TrimSpace(s))) {
	case GroupByName, "":
		return GroupByName, nil
	case GroupByID:
		return GroupByID, nil
	default:
		return "", errors.Newf("invalid group_by value %q: expected 'name' or 'id'", s)
	}
}

// Filter decides whether a costed candidate takes part in the ranking.
type Filter func(models.RankedStation) bool

// OpenOnly keeps stations whose last known status is open.
func OpenOnly(candidate models.RankedStation) bool {
	return candidate.Status.IsOpen()
}

type Options struct {
	GroupBy GroupBy
	Filter  Filter
}

type Engine struct {
	registry internal.StationRegistry
	ledger   internal.PriceLedger
	status   internal.StatusTracker
}

func NewEngine(registry internal.StationRegistry, ledger internal.PriceLedger, status internal.StatusTracker) *Engine {
	return &Engine{
		registry: registry,
		ledger:   ledger,
		status:   status,
	}
}

// Rank costs the latest observation of every station against the profile and
// returns the stations cheapest first. Any failure aborts the whole ranking.
func (e *Engine) Rank(ctx context.Context, profile *models.Profile, opts Options) ([]models.RankedStation, error) {
	if profile == nil {
		return nil, errors.Wrap(internal.ErrInvalidProfile, "consumption factors are missing")
	}
	if err := profile.Validate(); err != nil {
		return nil, errors.Mark(err, internal.ErrInvalidProfile)
	}

	groupBy, err := ParseGroupBy(string(opts.GroupBy))
	if err != nil {
		return nil, err
	}

	stations, err := e.registry.ListStations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stations")
	}

	candidates := make([]models.RankedStation, 0, len(stations))
	for _, station := range stations {
		if err := station.Validate(); err != nil {
			return nil, errors.Wrap(err, "registry returned an invalid station")
		}

		latest, err := e.ledger.Latest(ctx, station.ID)
		if errors.Is(err, internal.ErrNoObservations) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to fetch latest price for %s", station.ID)
		}

		status := models.StatusUnknown
		if e.status != nil {
			if status, err = e.status.GetStatus(ctx, station.ID); err != nil {
				return nil, errors.Wrapf(err, "failed to fetch status for %s", station.ID)
			}
		}

		candidate := models.RankedStation{
			StationID: station.ID,
			Name:      station.Name,
			Brand:     station.Brand,
			Price:     latest.Price,
			TotalCost: TotalCost(latest.Price, decimal.NewFromFloat(station.Distance), *profile),
			Timestamp: latest.Timestamp,
			Distance:  station.Distance,
			Status:    status,
		}

		if opts.Filter != nil && !opts.Filter(candidate) {
			continue
		}
		candidates = append(candidates, candidate)
	}

	results := collapse(candidates, groupBy)
	sort.Slice(results, func(i, j int) bool {
		if c := results[i].TotalCost.Cmp(results[j].TotalCost); c != 0 {
			return c < 0
		}
		return results[i].StationID < results[j].StationID
	})

	return results, nil
}

// collapse keeps one entry per group key: the member with the most recent
// observation, or the lowest station id when timestamps are equal.
func collapse(candidates []models.RankedStation, groupBy GroupBy) []models.RankedStation {
	if groupBy == GroupByID {
		return candidates
	}

	index := make(map[string]int, len(candidates))
	results := make([]models.RankedStation, 0, len(candidates))
	for _, candidate := range candidates {
		i, seen := index[candidate.Name]
		if !seen {
			index[candidate.Name] = len(results)
			results = append(results, candidate)
			continue
		}

		current := results[i]
		if candidate.Timestamp.After(current.Timestamp) ||
			(candidate.Timestamp.Equal(current.Timestamp) && candidate.StationID < current.StationID) {
			results[i] = candidate
		}
	}
	return results
}
