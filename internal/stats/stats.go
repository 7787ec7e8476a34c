package stats

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

// Derive summarises a ranking. Prices are counted in buckets of bucketSize
// tenths of a cent, e.g. "1.749-1.751" for a bucket size of 3.
func Derive(results []models.RankedStation, bucketSize int) *models.RankingStatistics {
	if bucketSize <= 0 {
		bucketSize = 3
	}
	stats := &models.RankingStatistics{
		CheapestStations:  make([]string, 0),
		PriceDistribution: make(map[string]int),
		BrandDistribution: make(map[string]int),
	}
	if len(results) == 0 {
		return stats
	}

	lowestPrice, highestPrice := results[0].Price, results[0].Price
	lowestTotal, highestTotal := results[0].TotalCost, results[0].TotalCost
	sumPrice, sumTotal := decimal.Zero, decimal.Zero

	for _, result := range results {
		if result.Price.LessThan(lowestPrice) {
			lowestPrice = result.Price
		}
		if result.Price.GreaterThan(highestPrice) {
			highestPrice = result.Price
		}
		if result.TotalCost.LessThan(lowestTotal) {
			lowestTotal = result.TotalCost
		}
		if result.TotalCost.GreaterThan(highestTotal) {
			highestTotal = result.TotalCost
		}
		sumPrice = sumPrice.Add(result.Price)
		sumTotal = sumTotal.Add(result.TotalCost)
	}

	n := decimal.NewFromInt(int64(len(results)))
	avgPrice := sumPrice.Div(n)

	stats.LowestPrice = lowestPrice.InexactFloat64()
	stats.HighestPrice = highestPrice.InexactFloat64()
	stats.AveragePrice = avgPrice.Round(3).InexactFloat64()
	stats.LowestTotal = lowestTotal.Round(2).InexactFloat64()
	stats.HighestTotal = highestTotal.Round(2).InexactFloat64()
	stats.AverageTotal = sumTotal.Div(n).Round(2).InexactFloat64()

	// Cheapest by trip-adjusted cost, not unit price
	for _, result := range results {
		if result.TotalCost.Equal(lowestTotal) {
			stats.CheapestStations = append(stats.CheapestStations, result.StationID)
		}
	}

	// Standard deviation of the unit price
	if len(results) > 1 {
		mean := avgPrice.InexactFloat64()
		variance := 0.0
		for _, result := range results {
			variance += math.Pow(result.Price.InexactFloat64()-mean, 2)
		}
		variance /= float64(len(results))
		stats.StandardDeviation = math.Sqrt(variance)
	}

	for _, result := range results {
		millis := int(result.Price.Shift(3).IntPart())
		bucketStart := (millis / bucketSize) * bucketSize
		bucketEnd := bucketStart + bucketSize - 1
		bucketKey := fmt.Sprintf("%.3f-%.3f", float64(bucketStart)/1000, float64(bucketEnd)/1000)
		stats.PriceDistribution[bucketKey]++
	}

	for _, result := range results {
		brand := result.Brand
		if result.Retailer != nil {
			brand = result.Retailer.Name
		}
		if brand != "" {
			stats.BrandDistribution[brand]++
		}
	}

	return stats
}
