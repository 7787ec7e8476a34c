package internal

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Upstream rate limit is one request per 5 minutes; leave room for retries.
const CRON_SCHEDULE_PRICES = "@every 6m"

func StartCron(collector *Collector) (*cron.Cron, error) {

	c := cron.New()

	log.Print("Starting CRON job to update stations and fuel prices")

	if _, err := c.AddFunc(CRON_SCHEDULE_PRICES, func() {
		result, err := collector.Collect(context.Background())
		if err != nil {
			log.Printf("Error collecting fuel prices: %v", err)
			return
		}
		log.Printf("Collected %s", result)
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
