package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Depado/ginprom"
	"github.com/aurowora/compress"
	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"

	"github.com/rm-hull/fuel-price-tracker/internal"
	"github.com/rm-hull/fuel-price-tracker/internal/ranking"
	"github.com/rm-hull/fuel-price-tracker/internal/routes"
)

func ApiServer(dbPath, configPath string, port int, debug bool) error {

	res, err := bootstrap(dbPath, configPath)
	if err != nil {
		return err
	}
	defer res.Close()

	groupBy, err := ranking.ParseGroupBy(res.cfg.GroupBy)
	if err != nil {
		return err
	}

	scheduler, err := internal.StartCron(res.collector)
	if err != nil {
		return errors.Wrap(err, "failed to start CRON jobs")
	}
	defer scheduler.Stop()

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
		compress.Compress(),
		cors.Default(),
	)

	if debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{
		res.repo.Check(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize healthcheck")
	}

	engine := ranking.NewEngine(res.repo, res.repo, res.repo)

	v1 := r.Group("/v1/fuel-prices")
	v1.GET("/ranking", routes.Ranking(engine, res.client, res.cfg.Profile(), groupBy))
	v1.GET("/stations", routes.Stations(res.repo))
	v1.GET("/stations/:id", routes.Station(res.repo))
	v1.GET("/stations/:id/history", routes.History(res.repo))

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting HTTP API Server on port %d...", port)
	if err := r.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "HTTP API Server failed to start on port %d", port)
	}

	return nil
}
