package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Observation is a single price seen at a station at a point in time. The
// (StationID, Timestamp) pair is unique; timestamps have second resolution.
type Observation struct {
	StationID string          `json:"station_id"`
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
}

func (o *Observation) ToTuple() []any {
	return []any{
		o.StationID,
		o.Timestamp.Unix(),
		o.Price,
	}
}

// UnixCeil returns the smallest unix second that is not before t.
func UnixCeil(t time.Time) int64 {
	secs := t.Unix()
	if t.Nanosecond() > 0 {
		secs++
	}
	return secs
}
