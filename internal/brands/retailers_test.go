package brands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

func TestGetRetailersList(t *testing.T) {
	retailers, err := GetRetailersList()
	require.NoError(t, err)
	assert.NotEmpty(t, retailers)

	first := retailers[0]
	assert.Equal(t, "ARAL", first.Name)
	assert.Equal(t, "https://www.aral.de", first.Url)
	require.NotNil(t, first.Favicon)
}

func TestLookup(t *testing.T) {
	retailers, err := Cached()
	require.NoError(t, err)

	assert.Equal(t, "Shell", retailers.Lookup("SHELL").Name)
	assert.Equal(t, "JET", retailers.Lookup(" jet ").Name)
	assert.Equal(t, "TotalEnergies", retailers.Lookup("TOTAL").Name)
	assert.Nil(t, retailers.Lookup("Freie Tankstelle"))
	assert.Nil(t, retailers.Lookup("AVIA").Favicon)
}

func TestDecorate(t *testing.T) {
	retailers, err := Cached()
	require.NoError(t, err)

	results := []models.RankedStation{
		{StationID: "a", Brand: "ARAL"},
		{StationID: "b", Brand: ""},
	}
	retailers.Decorate(results)

	require.NotNil(t, results[0].Retailer)
	assert.Equal(t, "ARAL", results[0].Retailer.Name)
	assert.Nil(t, results[1].Retailer)
}
