package internal

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	neturl "net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DEFAULT_BASE_URL = "https://creativecommons.tankerkoenig.de/json"

// The upstream asks for no more than one request per five minutes, so the
// retries must fit inside the collection interval.
const (
	FETCH_TRIES   = 3
	RETRY_TIMEOUT = 10 * time.Second
)

var ATTRIBUTION = []string{
	"Data from Tankerkönig (https://creativecommons.tankerkoenig.de), licensed under CC BY 4.0",
}

// HTTPStatusError is returned when the remote server responds with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	Status     string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status response from %s: %s", e.URL, e.Status)
}

type FuelPricesClient interface {
	ListStations(ctx context.Context) (*models.ListResponse, error)
	LastUpdated() *time.Time
}

type tankerkoenigClient struct {
	baseUrl      string
	request      models.ListRequest
	client       *http.Client
	tries        int
	retryTimeout time.Duration
	lastUpdated  atomic.Pointer[time.Time]
}

func NewFuelPricesClient(baseUrl string, request models.ListRequest) FuelPricesClient {
	if baseUrl == "" {
		baseUrl = DEFAULT_BASE_URL
	}
	return &tankerkoenigClient{
		baseUrl:      baseUrl,
		request:      request,
		client:       &http.Client{Timeout: 30 * time.Second},
		tries:        FETCH_TRIES,
		retryTimeout: RETRY_TIMEOUT,
	}
}

func (tc *tankerkoenigClient) LastUpdated() *time.Time {
	return tc.lastUpdated.Load()
}

// ListStations fetches the stations around the configured location, retrying
// a fixed number of times before giving up.
func (tc *tankerkoenigClient) ListStations(ctx context.Context) (*models.ListResponse, error) {
	url := tc.listUrl()

	var lastErr error
	for attempt := 1; attempt <= tc.tries; attempt++ {
		resp, err := tc.fetch(ctx, url)
		if err == nil {
			if !resp.Ok {
				return nil, errors.Newf("API error: %s", resp.Message)
			}
			now := time.Now().UTC()
			tc.lastUpdated.Store(&now)
			return resp, nil
		}
		lastErr = err

		if attempt == tc.tries {
			break
		}
		log.Printf("fetch failed (%v), retrying %d/%d", err, attempt, tc.tries-1)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(tc.retryTimeout):
		}
	}

	return nil, errors.Wrapf(lastErr, "unable to fetch data after %d tries", tc.tries)
}

func (tc *tankerkoenigClient) listUrl() string {
	params := neturl.Values{}
	params.Set("apikey", tc.request.ApiKey)
	params.Set("type", tc.request.FuelType)
	params.Set("lat", strconv.FormatFloat(tc.request.Lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(tc.request.Lng, 'f', -1, 64))
	params.Set("rad", strconv.FormatFloat(tc.request.Radius, 'f', -1, 64))
	params.Set("sort", tc.request.Sort)
	return fmt.Sprintf("%s/list.php?%s", tc.baseUrl, params.Encode())
}

func (tc *tankerkoenigClient) fetch(ctx context.Context, url string) (*models.ListResponse, error) {
	body, err := tc.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := body.Close(); err != nil {
			log.Printf("failed to close body: %v", err)
		}
	}()

	var resp models.ListResponse
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(&resp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}
	return &resp, nil
}

func (tc *tankerkoenigClient) get(ctx context.Context, url string) (io.ReadCloser, error) {

	log.Printf("GET %s/list.php", tc.baseUrl)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := tc.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch from %s", tc.baseUrl)
	}

	if resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &HTTPStatusError{URL: tc.baseUrl + "/list.php", Status: resp.Status, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}
