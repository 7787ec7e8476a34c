package internal

import "github.com/cockroachdb/errors"

var (
	// ErrUnknownStation is returned when a status or price write references a
	// station id that is not in the registry.
	ErrUnknownStation = errors.New("unknown station")

	// ErrDuplicateObservation is returned when a price for the same station and
	// timestamp has already been recorded.
	ErrDuplicateObservation = errors.New("duplicate observation")

	// ErrStorageFault marks every error that originates in the storage layer.
	ErrStorageFault = errors.New("storage fault")

	ErrStationNotFound = errors.New("station not found")
	ErrNoObservations  = errors.New("no observations")
	ErrInvalidProfile  = errors.New("invalid profile")
)

func storageFault(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrStorageFault)
}
