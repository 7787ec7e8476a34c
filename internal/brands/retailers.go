package brands

import (
	_ "embed"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kofalt/go-memoize"

	"github.com/rm-hull/fuel-price-tracker/internal"
	"github.com/rm-hull/fuel-price-tracker/internal/models"
)

//go:embed retailers.csv
var retailersCSV string

// Upstream brand names that differ from the retailer's own name.
var aliases = map[string]string{
	"TOTAL": "TotalEnergies",
	"ENI":   "Agip",
}

var cache = memoize.NewMemoizer(24*time.Hour, time.Hour)

func GetRetailersList() ([]*models.Retailer, error) {
	arr := make([]*models.Retailer, 0, 20)
	reader := strings.NewReader(retailersCSV)

	for record := range internal.ParseCSV(reader, true, models.FromCSV) {
		if record.Error != nil {
			return nil, errors.Wrap(record.Error, "failed to load retailers")
		}
		arr = append(arr, record.Value)
	}

	return arr, nil
}

func GetRetailersMap() (Retailers, error) {
	retailers, err := GetRetailersList()
	if err != nil {
		return nil, err
	}

	m := make(map[string]*models.Retailer, len(retailers))
	for _, record := range retailers {
		key := normalize(record.Name)
		if _, ok := m[key]; ok {
			return nil, errors.Newf("duplicate key detected: %s", record.Name)
		}
		m[key] = record
	}

	return m, nil
}

// Cached returns the retailers map, parsing the embedded CSV at most once a day.
func Cached() (Retailers, error) {
	value, err, _ := cache.Memoize("retailers", func() (interface{}, error) {
		return GetRetailersMap()
	})
	if err != nil {
		return nil, err
	}
	return value.(Retailers), nil
}

type Retailers map[string]*models.Retailer

// Lookup finds the retailer for an upstream brand name, ignoring case.
func (r Retailers) Lookup(brand string) *models.Retailer {
	key := normalize(brand)
	if alias, ok := aliases[key]; ok {
		key = normalize(alias)
	}
	return r[key]
}

// Decorate attaches the matching retailer to each ranked station.
func (r Retailers) Decorate(results []models.RankedStation) {
	for i := range results {
		results[i].Retailer = r.Lookup(results[i].Brand)
	}
}

func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
