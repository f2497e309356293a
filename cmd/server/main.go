package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weatherly/internal/adapters/cache"
	"weatherly/internal/adapters/forecast"
	"weatherly/internal/adapters/geocode"
	"weatherly/internal/api"
	"weatherly/internal/api/handlers"
	"weatherly/internal/config"
	"weatherly/internal/services"

	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (Open-Meteo, Nominatim) behind ports, runs the
// session coordinator and serves the HTTP surface until interrupted.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	session := cfg.HTTPClient()

	memo := cache.NewMemorySearchCache(cfg.SearchMemoTTL, cache.DefaultSearchMaxEntries)
	geocoder := geocode.NewClient(append(cfg.GeocodeOptions(session), geocode.WithSearchMemo(memo))...)
	forecasts := forecast.NewClient(cfg.ForecastURL, session, cfg.UserAgent)

	coordinator := services.NewCoordinator(geocoder, forecasts, services.Options{
		Debounce: cfg.SearchDebounce,
		Surface:  &api.LogSurface{},
		Units:    cfg.Units(),
	})

	router := api.NewRouter(coordinator, &handlers.DiagnosticsHandler{
		Endpoints:   geocoder.Endpoints(),
		ForecastURL: forecasts.BaseURL(),
		Language:    geocoder.Language(),
	}, cfg.TrustProxy)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return coordinator.Run(gctx)
	})

	g.Go(func() error {
		log.Printf("Server listening addr=:%s lang=%s units=%s", cfg.Port, cfg.Language, cfg.DefaultUnits)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		log.Printf("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
