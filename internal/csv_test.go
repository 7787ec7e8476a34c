package internal

import (
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	key   string
	value int
}

func pairFromCSV(record, headers []string) (pair, error) {
	v, err := strconv.Atoi(record[1])
	if err != nil {
		return pair{}, errors.Wrapf(err, "invalid value %q", record[1])
	}
	return pair{key: record[0], value: v}, nil
}

func TestParseCSV(t *testing.T) {
	input := "key,value\n# comment\na,1\nb,2\n"

	var pairs []pair
	for result := range ParseCSV(strings.NewReader(input), true, pairFromCSV) {
		require.NoError(t, result.Error)
		pairs = append(pairs, result.Value)
	}
	assert.Equal(t, []pair{{"a", 1}, {"b", 2}}, pairs)
}

func TestParseCSVReportsErrors(t *testing.T) {
	input := "a,1\nb,two\nc,3\n"

	var errs int
	var count int
	for result := range ParseCSV(strings.NewReader(input), false, pairFromCSV) {
		count++
		if result.Error != nil {
			errs++
			assert.Contains(t, result.Error.Error(), "record 2")
		}
	}
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, errs)
}
