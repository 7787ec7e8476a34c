package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	berlin := Coordinates{Lat: 52.5200, Lng: 13.4050}
	hamburg := Coordinates{Lat: 53.5511, Lng: 9.9937}

	assert.InDelta(t, 255.0, DistanceKm(berlin, hamburg), 2.0)
	assert.InDelta(t, DistanceKm(berlin, hamburg), DistanceKm(hamburg, berlin), 1e-9)
	assert.Zero(t, DistanceKm(berlin, berlin))
}
