package main

import (
	"fmt"
	"strconv"

	"weatherly/internal/adapters/forecast"
	"weatherly/internal/adapters/geocode"
	"weatherly/internal/config"
	"weatherly/internal/domain"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "weatherctl",
	Short:        "Query the place and forecast providers used by weatherly",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(searchCmd, reverseCmd, forecastCmd, urlsCmd)
	forecastCmd.Flags().StringP("units", "u", "", "metric or imperial (default from DEFAULT_UNITS)")
	urlsCmd.Flags().StringP("query", "q", "", "forward-search query to include")
	urlsCmd.Flags().StringP("units", "u", "", "metric or imperial (default from DEFAULT_UNITS)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("weatherctl: %w", err)
	}
	return cfg, nil
}

func newGeocoder(cfg *config.Config) *geocode.Client {
	return geocode.NewClient(cfg.GeocodeOptions(cfg.HTTPClient())...)
}

func newForecasts(cfg *config.Config) *forecast.Client {
	return forecast.NewClient(cfg.ForecastURL, cfg.HTTPClient(), cfg.UserAgent)
}

func parseCoordinates(latArg, lonArg string) (domain.Coordinates, error) {
	lat, err := strconv.ParseFloat(latArg, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid latitude %q: %w", latArg, err)
	}
	lon, err := strconv.ParseFloat(lonArg, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid longitude %q: %w", lonArg, err)
	}

	c := domain.Coordinates{Lat: lat, Lon: lon}
	if !c.Valid() {
		return domain.Coordinates{}, fmt.Errorf("coordinates %s out of range", c.Key())
	}
	return c, nil
}

// unitsFlag reads --units, falling back to the configured default.
func unitsFlag(cmd *cobra.Command, cfg *config.Config) (domain.Units, error) {
	raw, _ := cmd.Flags().GetString("units")
	if raw == "" {
		return cfg.Units(), nil
	}
	return domain.ParseUnits(raw)
}
