package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rm-hull/fuel-price-tracker/internal"
	"github.com/rm-hull/fuel-price-tracker/internal/brands"
	"github.com/rm-hull/fuel-price-tracker/internal/models"
	"github.com/rm-hull/fuel-price-tracker/internal/ranking"
	"github.com/rm-hull/fuel-price-tracker/internal/stats"
)

const PRICE_BUCKET_SIZE = 3 // tenths of a cent

// Ranking serves the trip-adjusted ranking. trip_factor and fuel_factor
// override the configured defaults, so a dashboard can vary the vehicle
// without touching the server.
func Ranking(engine *ranking.Engine, client internal.FuelPricesClient, defaults *models.Profile, defaultGroupBy ranking.GroupBy) func(c *gin.Context) {
	return func(c *gin.Context) {
		profile, err := parseProfile(c, defaults)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		groupBy := defaultGroupBy
		if s := c.Query("group_by"); s != "" {
			if groupBy, err = ranking.ParseGroupBy(s); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		opts := ranking.Options{GroupBy: groupBy}
		if s := c.Query("open_only"); s != "" {
			openOnly, err := strconv.ParseBool(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid open_only parameter"})
				return
			}
			if openOnly {
				opts.Filter = ranking.OpenOnly
			}
		}

		results, err := engine.Rank(c.Request.Context(), profile, opts)
		if errors.Is(err, internal.ErrInvalidProfile) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			log.Printf("error while ranking stations: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		if retailers, err := brands.Cached(); err != nil {
			log.Printf("failed to load retailers: %v", err)
		} else {
			retailers.Decorate(results)
		}

		resp := models.RankingResponse{
			Results:     results,
			Profile:     *profile,
			GroupBy:     string(groupBy),
			Statistics:  stats.Derive(results, PRICE_BUCKET_SIZE),
			Attribution: internal.ATTRIBUTION,
		}
		if client != nil {
			resp.LastUpdated = client.LastUpdated()
		}
		c.JSON(http.StatusOK, resp)
	}
}

func parseProfile(c *gin.Context, defaults *models.Profile) (*models.Profile, error) {
	var profile models.Profile
	if defaults != nil {
		profile = *defaults
	}

	factors := []struct {
		param  string
		target *decimal.Decimal
	}{
		{"trip_factor", &profile.TripFactor},
		{"fuel_factor", &profile.FuelFactor},
	}

	for _, f := range factors {
		s := c.Query(f.param)
		if s == "" {
			if defaults == nil {
				return nil, errors.Newf("missing %s parameter (no default configured)", f.param)
			}
			continue
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, errors.Newf("invalid %s parameter '%s': not a valid number", f.param, s)
		}
		*f.target = d
	}

	return &profile, nil
}
