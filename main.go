package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/rm-hull/fuel-price-tracker/cmd"
)

func main() {
	var dbPath string
	var configPath string
	var port int
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "fuel-price-tracker",
		Short: "Records nearby fuel prices and ranks stations by trip-adjusted cost",
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "data/fuel_prices.db", "Path to the sqlite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "fuel-price-tracker.toml", "Path to the TOML config file")

	apiServerCmd := &cobra.Command{
		Use:   "api-server",
		Short: "Start the HTTP API server and the scheduled price collection",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(dbPath, configPath, port, debug)
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Collect the current prices once and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Import(dbPath, configPath)
		},
	}

	rootCmd.AddCommand(apiServerCmd, importCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
