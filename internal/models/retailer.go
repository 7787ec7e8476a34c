package models

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Retailer is the brand behind a station, used to decorate ranking entries
// with a homepage link and icon.
type Retailer struct {
	Name    string  `json:"name"`
	Url     string  `json:"url"`
	Favicon *string `json:"favicon,omitempty"`
}

// FromCSV builds a retailer from a CSV record. When headers are present the
// columns are located by name (name, url, favicon), otherwise positionally.
func FromCSV(record, headers []string) (*Retailer, error) {
	col := func(name string, pos int) string {
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), name) && i < len(record) {
				return strings.TrimSpace(record[i])
			}
		}
		if len(headers) == 0 && pos < len(record) {
			return strings.TrimSpace(record[pos])
		}
		return ""
	}

	retailer := &Retailer{
		Name: col("name", 0),
		Url:  col("url", 1),
	}
	if retailer.Name == "" {
		return nil, errors.Newf("retailer record has no name: %v", record)
	}
	if favicon := col("favicon", 2); favicon != "" {
		retailer.Favicon = &favicon
	}
	return retailer, nil
}
