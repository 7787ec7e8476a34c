package cmd

import (
	"context"
	"log"

	"github.com/cockroachdb/errors"
)

// Import runs a single collection against the upstream API.
func Import(dbPath, configPath string) error {

	res, err := bootstrap(dbPath, configPath)
	if err != nil {
		return err
	}
	defer res.Close()

	result, err := res.collector.Collect(context.Background())
	if err != nil {
		return errors.Wrap(err, "failed to collect fuel prices")
	}
	log.Printf("imported %s", result)

	return nil
}
