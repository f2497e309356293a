package main

import (
	"fmt"
	"strings"

	"weatherly/internal/adapters/forecast"
	"weatherly/internal/domain"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Forward-search places by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		places, err := newGeocoder(cfg).Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(places) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no matches")
			return nil
		}

		for _, p := range places {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", domain.FormatPlace(p), p.Coordinates().Key())
		}
		return nil
	},
}

var reverseCmd = &cobra.Command{
	Use:   "reverse <lat> <lon>",
	Short: "Resolve coordinates to a place label",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseCoordinates(args[0], args[1])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		place, err := newGeocoder(cfg).Reverse(cmd.Context(), at.Lat, at.Lon)
		if err != nil {
			return err
		}
		if place == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t(no provider could name this place)\n", domain.PlaceholderName)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\tprovider=%s\n", domain.FormatPlace(*place), place.Provider)
		return nil
	},
}

var forecastCmd = &cobra.Command{
	Use:   "forecast <lat> <lon>",
	Short: "Print current conditions and the 7-day outlook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseCoordinates(args[0], args[1])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		units, err := unitsFlag(cmd, cfg)
		if err != nil {
			return err
		}

		f, err := newForecasts(cfg).Fetch(cmd.Context(), at, units)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "now\t%s %s\t%.1f%s\twind %.1f %s\n",
			domain.CodeSymbol(f.Current.WeatherCode), domain.CodeLabel(f.Current.WeatherCode),
			f.Current.Temperature, units.TemperatureSymbol(), f.Current.WindSpeed, units.WindSpeedSymbol())
		for _, d := range f.Daily {
			fmt.Fprintf(out, "%s\t%s %s\t%.1f / %.1f%s\n",
				d.Date, domain.CodeSymbol(d.WeatherCode), domain.CodeLabel(d.WeatherCode),
				d.Max, d.Min, units.TemperatureSymbol())
		}
		return nil
	},
}

var urlsCmd = &cobra.Command{
	Use:   "urls <lat> <lon>",
	Short: "Print the provider URLs without calling them",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseCoordinates(args[0], args[1])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		units, err := unitsFlag(cmd, cfg)
		if err != nil {
			return err
		}

		e := cfg.Endpoints()
		out := cmd.OutOrStdout()
		if q, _ := cmd.Flags().GetString("query"); strings.TrimSpace(q) != "" {
			fmt.Fprintf(out, "search\t%s\n", e.SearchURL(strings.TrimSpace(q), cfg.Language))
		}
		fmt.Fprintf(out, "reverse\t%s\n", e.ReverseURL(at.Lat, at.Lon, cfg.Language))
		fmt.Fprintf(out, "fallback\t%s\n", e.FallbackReverseURL(at.Lat, at.Lon, cfg.Language))
		fmt.Fprintf(out, "forecast\t%s\n", forecast.BuildForecastURL(cfg.ForecastURL, at.Lat, at.Lon, units))
		return nil
	},
}
