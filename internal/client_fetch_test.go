package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

const listResponseJSON = `{
  "ok": true,
  "license": "CC BY 4.0 -  https://creativecommons.tankerkoenig.de",
  "data": "MTS-K",
  "status": "ok",
  "stations": [
    {
      "id": "474e5046-deaf-4f9b-9a32-9797b778f047",
      "name": "TOTAL BERLIN",
      "brand": "TOTAL",
      "street": "MARGARETE-SOMMER-STR.",
      "place": "BERLIN",
      "lat": 52.53083,
      "lng": 13.440946,
      "dist": 1.1,
      "price": 1.759,
      "isOpen": true,
      "houseNumber": "2",
      "postCode": 10407
    },
    {
      "id": "278130b1-e062-4a0f-80cc-19e486b4c024",
      "name": "Aral Tankstelle",
      "brand": "ARAL",
      "street": "Holzmarktstraße",
      "place": "Berlin",
      "lat": 52.5129,
      "lng": 13.4216,
      "dist": 1.6,
      "price": null,
      "isOpen": false,
      "houseNumber": "12",
      "postCode": 1067
    }
  ]
}`

func testClient(url string) *tankerkoenigClient {
	return &tankerkoenigClient{
		baseUrl: url,
		request: models.ListRequest{
			ApiKey:   "00000000-0000-0000-0000-000000000002",
			FuelType: "e5",
			Lat:      52.521,
			Lng:      13.438,
			Radius:   1.5,
			Sort:     "dist",
		},
		client:       http.DefaultClient,
		tries:        FETCH_TRIES,
		retryTimeout: time.Millisecond,
	}
}

func TestListStations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/list.php", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "00000000-0000-0000-0000-000000000002", q.Get("apikey"))
		assert.Equal(t, "e5", q.Get("type"))
		assert.Equal(t, "52.521", q.Get("lat"))
		assert.Equal(t, "13.438", q.Get("lng"))
		assert.Equal(t, "1.5", q.Get("rad"))
		assert.Equal(t, "dist", q.Get("sort"))
		_, _ = w.Write([]byte(listResponseJSON))
	}))
	defer server.Close()

	client := testClient(server.URL)
	assert.Nil(t, client.LastUpdated())

	resp, err := client.ListStations(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Stations, 2)
	assert.NotNil(t, client.LastUpdated())

	total := resp.Stations[0]
	require.NotNil(t, total.Price)
	assert.True(t, total.Price.Equal(decimal.RequireFromString("1.759")))
	require.NotNil(t, total.Dist)
	assert.Equal(t, 1.1, *total.Dist)
	assert.True(t, total.IsOpen)

	aral := resp.Stations[1]
	assert.Nil(t, aral.Price)
	assert.Equal(t, "01067", aral.ToStation().PostCode)
}

func TestListStationsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < FETCH_TRIES {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(listResponseJSON))
	}))
	defer server.Close()

	resp, err := testClient(server.URL).ListStations(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Stations, 2)
	assert.Equal(t, int32(FETCH_TRIES), calls.Load())
}

func TestListStationsGivesUp(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).ListStations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to fetch data after 3 tries")
	assert.Equal(t, int32(FETCH_TRIES), calls.Load())
}

func TestListStationsApiError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": false, "status": "error", "message": "apikey nicht angegeben, falsch, oder im falschen Format"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).ListStations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apikey nicht angegeben")
}
