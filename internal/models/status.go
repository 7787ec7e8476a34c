package models

import "github.com/cockroachdb/errors"

// Status is the last known open/closed flag of a station. StatusUnknown is
// reported for stations that were never given a status.
type Status int

const (
	StatusUnknown Status = iota
	StatusClosed
	StatusOpen
)

func StatusOf(isOpen bool) Status {
	if isOpen {
		return StatusOpen
	}
	return StatusClosed
}

func (s Status) IsOpen() bool {
	return s == StatusOpen
}

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "open":
		*s = StatusOpen
	case "closed":
		*s = StatusClosed
	case "unknown", "":
		*s = StatusUnknown
	default:
		return errors.Newf("invalid status: %q", text)
	}
	return nil
}
