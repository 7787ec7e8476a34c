package internal

import (
	"encoding/csv"
	"io"
	"iter"

	"github.com/cockroachdb/errors"
)

type Result[T any] struct {
	Value T
	Error error
}

// ParseCSV yields one parsed value per record. When hasHeaders is set the
// first record is passed to fromCSV as the header row instead of being parsed.
func ParseCSV[T any](r io.Reader, hasHeaders bool, fromCSV func(record, headers []string) (T, error)) iter.Seq[Result[T]] {
	return func(yield func(Result[T]) bool) {
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.Comment = '#'

		var headers []string
		line := 0
		for {
			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			line++
			if err != nil {
				yield(Result[T]{Error: errors.Wrapf(err, "failed to read record %d", line)})
				return
			}

			if hasHeaders && headers == nil {
				headers = record
				continue
			}

			value, err := fromCSV(record, headers)
			if err != nil {
				err = errors.Wrapf(err, "record %d", line)
			}
			if !yield(Result[T]{Value: value, Error: err}) {
				return
			}
		}
	}
}
