package internal

import "github.com/umahmood/haversine"

type Coordinates struct {
	Lat float64
	Lng float64
}

// DistanceKm is the great-circle distance between two points.
func DistanceKm(a, b Coordinates) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lng},
		haversine.Coord{Lat: b.Lat, Lon: b.Lng},
	)
	return km
}
