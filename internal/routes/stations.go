package routes

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/rm-hull/fuel-price-tracker/internal"
	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

const DEFAULT_HISTORY_WINDOW = 7 * 24 * time.Hour

func Stations(store internal.Store) func(c *gin.Context) {
	return func(c *gin.Context) {
		stations, err := store.ListStations(c.Request.Context())
		if err != nil {
			log.Printf("error while listing stations: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": stations, "attribution": internal.ATTRIBUTION})
	}
}

func Station(store internal.Store) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")

		station, err := store.GetStation(ctx, id)
		if errors.Is(err, internal.ErrStationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "station not found"})
			return
		}
		if err != nil {
			log.Printf("error while fetching station %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		detail := models.StationDetail{Station: station}
		if detail.Status, err = store.GetStatus(ctx, id); err != nil {
			log.Printf("error while fetching status of %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		latest, err := store.Latest(ctx, id)
		switch {
		case err == nil:
			detail.Latest = &latest
		case !errors.Is(err, internal.ErrNoObservations):
			log.Printf("error while fetching latest price of %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.JSON(http.StatusOK, detail)
	}
}

// History returns the observations of a station in [from, to). Both bounds are
// RFC 3339; to defaults to now and from to a week before to. Unknown stations
// yield an empty list. A '+' offset sent unencoded arrives as a space and is
// accepted as such.
func History(store internal.PriceLedger) func(c *gin.Context) {
	return func(c *gin.Context) {
		id := c.Param("id")

		to := time.Now().UTC()
		if s := c.Query("to"); s != "" {
			t, err := parseTimestamp(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to parameter: expected RFC 3339 timestamp"})
				return
			}
			to = t
		}

		from := to.Add(-DEFAULT_HISTORY_WINDOW)
		if s := c.Query("from"); s != "" {
			t, err := parseTimestamp(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from parameter: expected RFC 3339 timestamp"})
				return
			}
			from = t
		}

		observations, err := store.History(c.Request.Context(), id, from, to)
		if err != nil {
			log.Printf("error while fetching history of %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.JSON(http.StatusOK, models.HistoryResponse{
			StationID:    id,
			From:         from,
			To:           to,
			Observations: observations,
		})
	}
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.Replace(s, " ", "+", 1))
}
